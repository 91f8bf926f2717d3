// Package extractor extracts the human-readable title and main body text
// of a web page given only its URL, escalating from a cheap HTTP GET
// through a specialised article-extraction library to a headless browser.
package extractor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/webextract/extractor/fetch"
	"github.com/webextract/extractor/poolctl"
	"github.com/webextract/extractor/result"
)

// ExtractionResult and the fetch-method constants live in the leaf
// result package so both this orchestrator and package fetch can
// import them one-directionally. Aliased here so callers of this
// package don't need a second import for the common case.
type ExtractionResult = result.ExtractionResult

const (
	MethodHTTP        = result.MethodHTTP
	MethodLibrary     = result.MethodLibrary
	MethodBrowserNoJS = result.MethodBrowserNoJS
	MethodBrowser     = result.MethodBrowser
)

// skipToTier3 holds every HTTP status in [400,600) except 403 and 429 —
// Tier 2 would hit the same origin refusal a Tier-1 GET already did
// (spec §3 "Tier-escalation HTTP-status set").
var skipToTier3 = func() map[int]struct{} {
	m := make(map[int]struct{}, 200-2)
	for code := 400; code < 600; code++ {
		if code == 403 || code == 429 {
			continue
		}
		m[code] = struct{}{}
	}
	return m
}()

// Pipeline wires the four tier fetchers and their shared bounded
// resources. Construct one Pipeline per process (or per test) via
// NewPipeline; it is safe for concurrent use by any number of
// in-flight Extract calls (spec §5).
type Pipeline struct {
	httpFetcher    *fetch.HTTPFetcher
	libraryFetcher *fetch.LibraryFetcher
	browserFetcher *fetch.BrowserFetcher
	workerPool     *poolctl.WorkerPool
	permits        *poolctl.BrowserPermits
}

// PipelineConfig parameterises pool sizes so tests can construct an
// isolated Pipeline instead of relying on process-wide singletons
// (spec §9 "Global mutable state").
type PipelineConfig struct {
	LibraryWorkers   int
	BrowserPermits   int
	Headless         bool
	NoSandbox        bool
	BrowserBin       string
	LibraryAdmitRate float64
}

// DefaultPipelineConfig matches the literal numbers from spec §5.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		LibraryWorkers:   fetch.LibraryWorkers,
		BrowserPermits:   3,
		Headless:         true,
		NoSandbox:        false,
		LibraryAdmitRate: 8,
	}
}

// NewPipeline constructs a Pipeline. The browser process is launched
// lazily on first use, not here.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	workerPool := poolctl.NewWorkerPool(cfg.LibraryWorkers, cfg.LibraryAdmitRate)
	permits := poolctl.NewBrowserPermits(cfg.BrowserPermits)
	return &Pipeline{
		httpFetcher:    fetch.NewHTTPFetcher(),
		libraryFetcher: fetch.NewLibraryFetcher(workerPool),
		browserFetcher: fetch.NewBrowserFetcher(permits, cfg.Headless, cfg.NoSandbox, cfg.BrowserBin),
		workerPool:     workerPool,
		permits:        permits,
	}
}

// Close tears down the shared browser process. The library worker pool
// and permit pool need no explicit teardown (spec §6 "no public
// teardown API in the core spec").
func (p *Pipeline) Close() {
	p.browserFetcher.Close()
}

// defaultPipeline is the process-wide singleton the package-level
// Extract convenience function uses, lazily created on first call
// (spec §6 "lazily created at first use and persist for the life of
// the process").
var (
	defaultPipelineOnce sync.Once
	defaultPipelineVal  *Pipeline
)

func getDefaultPipeline() *Pipeline {
	defaultPipelineOnce.Do(func() {
		defaultPipelineVal = NewPipeline(DefaultPipelineConfig())
	})
	return defaultPipelineVal
}

// Extract is the public library entry point (spec §6): given a URL and
// a max tier (1-4), it returns the first successful ExtractionResult or
// a synthesised terminal failure. It uses the process-wide default
// Pipeline; construct a Pipeline directly for isolated testing.
func Extract(ctx context.Context, url string, maxTier int) (ExtractionResult, error) {
	return getDefaultPipeline().Extract(ctx, url, maxTier)
}

// Extract runs the tier-escalation state machine of spec §4.5 against
// this Pipeline's fetchers. It returns a Go error only on cooperative
// cancellation (ctx.Err() != nil); every ordinary fetch failure is
// reported as a failure ExtractionResult, never as an error (spec §6,
// §7 "Propagation policy").
//
// Every returned result is re-stamped with elapsed time measured from
// this call's start, not the winning tier's own (tier-local) elapsed —
// spec §4.5 measures overall elapsed time across all tier attempts.
func (p *Pipeline) Extract(ctx context.Context, url string, maxTier int) (ExtractionResult, error) {
	start := time.Now()

	// T1
	t1 := p.httpFetcher.Fetch(ctx, url)
	if ctx.Err() != nil {
		return ExtractionResult{}, ctx.Err()
	}
	if t1.Success() {
		return t1.WithElapsed(time.Since(start)), nil
	}
	if maxTier < 2 {
		return t1.WithElapsed(time.Since(start)), nil
	}
	if shouldSkipToTier3(t1) && maxTier >= 3 {
		return p.runTier3And4(ctx, url, start, maxTier)
	}

	// T2
	t2 := p.libraryFetcher.Fetch(ctx, url)
	if ctx.Err() != nil {
		return ExtractionResult{}, ctx.Err()
	}
	if t2.Success() {
		return t2.WithElapsed(time.Since(start)), nil
	}
	if maxTier < 3 {
		return t2.WithElapsed(time.Since(start)), nil
	}

	return p.runTier3And4(ctx, url, start, maxTier)
}

// shouldSkipToTier3 reports whether Tier 1's failure status is in the
// skip set (spec §3), meaning Tier 2 would hit the same refusal.
func shouldSkipToTier3(t1 ExtractionResult) bool {
	if t1.StatusCode() == nil {
		return false
	}
	_, skip := skipToTier3[*t1.StatusCode()]
	return skip
}

// runTier3And4 implements the T3/T3-escalate/T4 portion of the state
// machine: Tier 3 runs first; a success with the JS-required heuristic
// triggers escalation to Tier 4 unless maxTier forbids it; a Tier 3
// failure escalates unconditionally (subject to maxTier). Every branch
// returns its result re-stamped against overallStart (spec §4.5, §7).
func (p *Pipeline) runTier3And4(ctx context.Context, url string, overallStart time.Time, maxTier int) (ExtractionResult, error) {
	t3 := p.browserFetcher.FetchNoJS(ctx, url)
	if ctx.Err() != nil {
		return ExtractionResult{}, ctx.Err()
	}

	if t3.Success() {
		needsJS := t3.Body() != nil && fetch.RequiresJavaScript(*t3.Body())
		if !needsJS || maxTier < 4 {
			return t3.WithElapsed(time.Since(overallStart)), nil
		}
	} else if maxTier < 4 {
		return t3.WithElapsed(time.Since(overallStart)), nil
	}

	t4 := p.browserFetcher.FetchJS(ctx, url)
	if ctx.Err() != nil {
		return ExtractionResult{}, ctx.Err()
	}
	if t4.Success() {
		return t4.WithElapsed(time.Since(overallStart)), nil
	}

	elapsed := time.Since(overallStart)
	errMsg := "unknown error"
	if t4.Error() != nil {
		errMsg = *t4.Error()
	}
	return result.NewFailure(
		url,
		fmt.Sprintf("All tiers failed: %s", errMsg),
		result.StrPtr(MethodBrowser),
		t4.StatusCode(),
		elapsed,
	), nil
}
