// Package fetch implements the four escalation tiers: a plain HTTP GET,
// a specialised article-extraction library, and a headless browser run
// in scripting-disabled and scripting-enabled modes.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	tls "github.com/refraction-networking/utls"

	"github.com/webextract/extractor/htmlx"
	"github.com/webextract/extractor/result"
)

// HTTPTimeout is Tier 1's total request deadline (spec §4.2).
const HTTPTimeout = 10 * time.Second

const httpUserAgent = "Mozilla/5.0 (compatible; webextract/1.0; +https://github.com/webextract/extractor)"

const maxHTTPBody = 10 << 20 // 10 MB cap, defends against unbounded memory use.

// chromeH1Spec is a Chrome-like TLS ClientHello with ALPN forced to
// http/1.1, computed once and reused for every connection — ported from
// the teacher's http_engine.go so Tier 1 presents the same fingerprint
// a real browser would rather than Go's default hello.
var chromeH1Spec tls.ClientHelloSpec

func init() {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		return
	}
	for i, e := range spec.Extensions {
		if alpn, ok := e.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	chromeH1Spec = spec
}

// HTTPFetcher is the Tier 1 fetcher: an async HTTP GET with timeout and
// redirect following, routed through the in-house HTML extractor.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher builds an HTTPFetcher with a Chrome-like TLS fingerprint.
func NewHTTPFetcher() *HTTPFetcher {
	transport := &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			dialer := &net.Dialer{Timeout: HTTPTimeout}
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			host, _, _ := net.SplitHostPort(addr)
			tlsConn := tls.UClient(conn, &tls.Config{ServerName: host}, tls.HelloCustom)
			if err := tlsConn.ApplyPreset(&chromeH1Spec); err != nil {
				conn.Close()
				return nil, fmt.Errorf("fetch: apply tls spec: %w", err)
			}
			if err := tlsConn.HandshakeContext(ctx); err != nil {
				conn.Close()
				return nil, err
			}
			return tlsConn, nil
		},
		ForceAttemptHTTP2: false,
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   HTTPTimeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
	}
}

// Fetch performs the Tier 1 GET and returns an ExtractionResult, never
// a Go error for ordinary failure modes (spec §4.2).
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) result.ExtractionResult {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, HTTPTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return result.NewFailure(url, fmt.Sprintf("invalid request: %v", err), result.StrPtr(result.MethodHTTP), nil, time.Since(start))
	}
	req.Header.Set("User-Agent", httpUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return result.NewFailure(url, classifyNetErr(err), result.StrPtr(result.MethodHTTP), nil, time.Since(start))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		status := resp.StatusCode
		return result.NewFailure(url, fmt.Sprintf("HTTP %d", status), result.StrPtr(result.MethodHTTP), &status, time.Since(start))
	}

	ct := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(ct), "html") {
		status := resp.StatusCode
		return result.NewFailure(url, fmt.Sprintf("Non-HTML content type: %s", ct), result.StrPtr(result.MethodHTTP), &status, time.Since(start))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxHTTPBody))
	if err != nil {
		return result.NewFailure(url, fmt.Sprintf("read body: %v", err), result.StrPtr(result.MethodHTTP), &resp.StatusCode, time.Since(start))
	}

	status := resp.StatusCode
	tree := htmlx.Parse(body)
	title := htmlx.ExtractTitle(tree)
	text := htmlx.ExtractTextContent(tree)
	if text == nil || len(*text) < htmlx.MinBodyLength {
		return result.NewFailure(url, "Body too short", result.StrPtr(result.MethodHTTP), &status, time.Since(start))
	}

	return result.NewSuccess(url, title, *text, result.MethodHTTP, &status, time.Since(start))
}

// classifyNetErr produces a concise "class-name: message"-style
// diagnostic for network/DNS/timeout failures (spec §4.2).
func classifyNetErr(err error) string {
	if err == context.DeadlineExceeded {
		return "TimeoutError: request exceeded 10s deadline"
	}
	if e, ok := err.(interface{ Timeout() bool }); ok && e.Timeout() {
		return fmt.Sprintf("TimeoutError: %v", err)
	}
	return fmt.Sprintf("NetworkError: %v", err)
}
