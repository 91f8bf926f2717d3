package fetch

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/webextract/extractor/htmlx"
	"github.com/webextract/extractor/poolctl"
	"github.com/webextract/extractor/result"
)

// NavigationTimeout bounds Tier 3/4 navigation (spec §4.4, §5).
const NavigationTimeout = 30 * time.Second

// JSIdleWait is the best-effort network-idle wait after DOMContentLoaded
// in scripting-enabled mode (Tier 4 only).
const JSIdleWait = 10 * time.Second

// CookieSettleWait is the best-effort wait after clicking a cookie
// consent button.
const CookieSettleWait = 5 * time.Second

// cookieProbeTimeout bounds each individual selector visibility probe.
const cookieProbeTimeout = 500 * time.Millisecond

var hasTextRE = regexp.MustCompile(`^(\w+):has-text\("([^"]+)"\)$`)

// browserUserAgent is set in scripting-enabled mode so JS-gated sites
// see a realistic desktop browser (spec §4.4 mode js).
const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

var blockedResourceTypes = []proto.NetworkResourceType{
	proto.NetworkResourceTypeImage,
	proto.NetworkResourceTypeFont,
	proto.NetworkResourceTypeMedia,
}

// BrowserFetcher drives a shared headless-browser routine for both
// Tier 3 (nojs) and Tier 4 (js) of spec §4.4. A single Rod browser
// instance is launched lazily and reused; each Fetch call creates its
// own navigation context (tab) so requests never share mutable state
// (spec §5).
type BrowserFetcher struct {
	permits    *poolctl.BrowserPermits
	headless   bool
	noSandbox  bool
	browserBin string

	mu      chanMutex
	browser *rod.Browser
}

// chanMutex is a 1-buffer channel used as a lazily-initialised mutex so
// BrowserFetcher's zero value (minus the constructor) stays simple.
type chanMutex chan struct{}

func newChanMutex() chanMutex {
	m := make(chanMutex, 1)
	m <- struct{}{}
	return m
}

func (m chanMutex) Lock()   { <-m }
func (m chanMutex) Unlock() { m <- struct{}{} }

// NewBrowserFetcher builds a BrowserFetcher sharing permits across
// both modes. The browser process itself is launched lazily on first
// Fetch, not at construction time.
func NewBrowserFetcher(permits *poolctl.BrowserPermits, headless, noSandbox bool, browserBin string) *BrowserFetcher {
	return &BrowserFetcher{
		permits:    permits,
		headless:   headless,
		noSandbox:  noSandbox,
		browserBin: browserBin,
		mu:         newChanMutex(),
	}
}

func (f *BrowserFetcher) ensureBrowser() (*rod.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.browser != nil {
		return f.browser, nil
	}

	l := launcher.New().Headless(f.headless).NoSandbox(f.noSandbox)
	if f.browserBin != "" {
		l = l.Bin(f.browserBin)
	}
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, result.NewFetchError(result.ErrKindBrowserAutomation, "failed to launch browser", nil, err)
	}
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, result.NewFetchError(result.ErrKindBrowserAutomation, "failed to connect to browser", nil, err)
	}
	f.browser = browser
	return browser, nil
}

// Close tears down the shared browser process, if one was launched.
func (f *BrowserFetcher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.browser != nil {
		f.browser.MustClose()
		f.browser = nil
	}
}

// FetchNoJS runs Tier 3: scripting disabled, no post-navigation wait
// beyond DOMContentLoaded, no cookie dismissal.
func (f *BrowserFetcher) FetchNoJS(ctx context.Context, url string) result.ExtractionResult {
	return f.fetch(ctx, url, false)
}

// FetchJS runs Tier 4: scripting enabled, realistic desktop UA,
// best-effort network-idle wait, cookie-consent dismissal.
func (f *BrowserFetcher) FetchJS(ctx context.Context, url string) result.ExtractionResult {
	return f.fetch(ctx, url, true)
}

func (f *BrowserFetcher) fetch(ctx context.Context, url string, jsEnabled bool) result.ExtractionResult {
	start := time.Now()
	method := result.MethodBrowserNoJS
	if jsEnabled {
		method = result.MethodBrowser
	}

	if err := f.permits.Acquire(ctx); err != nil {
		return result.NewFailure(url, "permit acquisition cancelled", result.StrPtr(method), nil, time.Since(start))
	}
	defer f.permits.Release()

	navCtx, cancel := context.WithTimeout(ctx, NavigationTimeout)
	defer cancel()

	browser, err := f.ensureBrowser()
	if err != nil {
		return result.NewFailure(url, err.Error(), result.StrPtr(method), nil, time.Since(start))
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return result.NewFailure(url, fmt.Sprintf("failed to open tab: %v", err), result.StrPtr(method), nil, time.Since(start))
	}
	defer func() {
		_ = page.Navigate("about:blank")
		_ = page.Close()
	}()

	p := page.Context(navCtx)

	if jsEnabled {
		_, _ = p.Eval(`() => {}`) // ensure the CDP session is warm before UA override
		_ = proto.NetworkSetUserAgentOverride{UserAgent: browserUserAgent}.Call(p)
		if _, err := p.EvalOnNewDocument(stealth.JS); err != nil {
			// Best-effort; proceed without stealth masking.
			_ = err
		}
	} else {
		_ = proto.EmulationSetScriptExecutionDisabled{Value: true}.Call(p)
	}

	router := setupHijack(p)
	if router != nil {
		defer func() { _ = router.Stop() }()
	}

	if navErr := p.Navigate(url); navErr != nil {
		return navFailure(url, method, navErr, start)
	}
	if waitErr := p.WaitDOMStable(300*time.Millisecond, 0.1); waitErr != nil {
		_ = waitErr // DOM never fully settled; proceed with what we have
	}

	if jsEnabled {
		idleCtx, idleCancel := context.WithTimeout(navCtx, JSIdleWait)
		_ = p.Context(idleCtx).WaitIdle(JSIdleWait)
		idleCancel()
		dismissCookieBanner(p)
	}

	statusCode := navigationStatusCode(p)
	if statusCode != nil && *statusCode >= 400 {
		return result.NewFailure(url, fmt.Sprintf("HTTP %d", *statusCode), result.StrPtr(method), statusCode, time.Since(start))
	}

	rawHTML, err := p.HTML()
	if err != nil {
		return result.NewFailure(url, fmt.Sprintf("failed to extract page HTML: %v", err), result.StrPtr(method), statusCode, time.Since(start))
	}

	body := hybridExtract(rawHTML)
	if body == nil || len(*body) < htmlxMinBody {
		return result.NewFailure(url, "Body too short", result.StrPtr(method), statusCode, time.Since(start))
	}

	tree := htmlx.ParseString(rawHTML)
	title := htmlx.ExtractTitle(tree)
	return result.NewSuccess(url, title, *body, method, statusCode, time.Since(start))
}

func navFailure(url, method string, err error, start time.Time) result.ExtractionResult {
	msg := "navigation timeout"
	if err != context.DeadlineExceeded {
		msg = fmt.Sprintf("navigation failed: %v", err)
	}
	return result.NewFailure(url, msg, result.StrPtr(method), nil, time.Since(start))
}

// navigationStatusCode retrieves the HTTP status of the top-level
// navigation via the Performance API, avoiding the CDP event listeners
// that conflict with request hijacking on recent Chromium builds.
func navigationStatusCode(p *rod.Page) *int {
	res, err := p.Eval(`() => {
		try {
			const entries = performance.getEntriesByType("navigation");
			if (entries.length > 0) return entries[0].responseStatus || 0;
		} catch (e) {}
		return 0;
	}`)
	if err != nil {
		return nil
	}
	code := res.Value.Int()
	if code == 0 {
		return nil
	}
	return &code
}

// setupHijack blocks image/font/media requests, which never matter for
// text extraction and keep navigation well inside its 30s budget on
// media-heavy pages.
func setupHijack(p *rod.Page) *rod.HijackRouter {
	router := p.HijackRequests()
	_ = router.Add("*", "", func(ctx *rod.Hijack) {
		for _, rt := range blockedResourceTypes {
			if ctx.Request.Type() == rt {
				ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
				return
			}
		}
		ctx.ContinueRequest(&proto.FetchContinueRequest{})
	})
	go router.Run()
	return router
}

// dismissCookieBanner probes each selector in priority order with a
// 500ms visibility bound; the first visible match is clicked, then the
// page gets up to 5s to settle before we stop. Errors during probing
// are swallowed and the next selector is tried (spec §4.4.1).
func dismissCookieBanner(p *rod.Page) {
	for _, sel := range cookieConsentSelectors {
		el, ok := locate(p, sel)
		if !ok || el == nil {
			continue
		}
		visible, err := el.Visible()
		if err != nil || !visible {
			continue
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			continue
		}
		settleCtx, cancel := context.WithTimeout(context.Background(), CookieSettleWait)
		_ = p.Context(settleCtx).WaitIdle(CookieSettleWait)
		cancel()
		return
	}
}

// locate resolves a single cookie-consent selector, supporting both
// plain CSS selectors and Playwright-style ":has-text(...)" pseudo
// selectors (translated to Rod's text-matching ElementR).
func locate(p *rod.Page, sel string) (*rod.Element, bool) {
	bounded := p.Timeout(cookieProbeTimeout)
	if m := hasTextRE.FindStringSubmatch(sel); m != nil {
		tag, text := m[1], m[2]
		el, err := bounded.ElementR(tag, "/"+regexp.QuoteMeta(text)+"/i")
		if err != nil {
			return nil, false
		}
		return el, true
	}
	el, err := bounded.Element(sel)
	if err != nil {
		return nil, false
	}
	return el, true
}

// hybridExtract tries the external library's HTML→text entry point
// first; on failure or insufficient length it falls back to the
// in-house extractor (spec §4.4 "hybrid extractor").
func hybridExtract(rawHTML string) *string {
	if body := tryLibraryHTML(rawHTML); body != nil && len(*body) >= htmlxMinBody {
		return body
	}
	tree := htmlx.ParseString(rawHTML)
	return htmlx.ExtractTextContent(tree)
}

