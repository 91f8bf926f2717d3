// Package result holds the pipeline's wire-level value types —
// ExtractionResult and FetchError — as a leaf package with no
// dependency on the orchestrator or the tier fetchers, so both can
// import it one-directionally (spec's "Result record — leaves first"
// dependency order).
package result

import (
	"encoding/json"
	"time"
)

// Fetch-method tags. Bit-identical stability is required for consumer
// log parsing — never rename these once released.
const (
	MethodHTTP        = "http"
	MethodLibrary     = "library"
	MethodBrowserNoJS = "browser-nojs"
	MethodBrowser     = "browser"
)

// ExtractionResult is the immutable outcome of an Extract call, or of a
// single tier attempt inside the pipeline. Construct it only through
// NewSuccess / NewFailure; every field is unexported to keep the value
// frozen after construction.
type ExtractionResult struct {
	success     bool
	url         string
	title       *string
	body        *string
	err         *string
	fetchMethod *string
	statusCode  *int
	contentLen  int
	elapsedMS   int64
}

// NewSuccess builds a successful result. body must be non-empty and at
// least the pipeline's minimum body length; callers (the tier
// fetchers) are responsible for enforcing that invariant before
// calling this.
func NewSuccess(url string, title *string, body string, fetchMethod string, statusCode *int, elapsed time.Duration) ExtractionResult {
	m := fetchMethod
	return ExtractionResult{
		success:     true,
		url:         url,
		title:       title,
		body:        &body,
		fetchMethod: &m,
		statusCode:  statusCode,
		contentLen:  len(body),
		elapsedMS:   elapsed.Milliseconds(),
	}
}

// NewFailure builds a failure result. fetchMethod may be nil for
// pre-tier failures (e.g. a malformed URL rejected before any tier runs).
func NewFailure(url string, errMsg string, fetchMethod *string, statusCode *int, elapsed time.Duration) ExtractionResult {
	return ExtractionResult{
		success:     false,
		url:         url,
		err:         &errMsg,
		fetchMethod: fetchMethod,
		statusCode:  statusCode,
		contentLen:  0,
		elapsedMS:   elapsed.Milliseconds(),
	}
}

func (r ExtractionResult) Success() bool        { return r.success }
func (r ExtractionResult) URL() string          { return r.url }
func (r ExtractionResult) Title() *string       { return r.title }
func (r ExtractionResult) Body() *string        { return r.body }
func (r ExtractionResult) Error() *string       { return r.err }
func (r ExtractionResult) FetchMethod() *string { return r.fetchMethod }
func (r ExtractionResult) StatusCode() *int     { return r.statusCode }
func (r ExtractionResult) ContentLength() int   { return r.contentLen }
func (r ExtractionResult) ElapsedMS() int64     { return r.elapsedMS }

// WithElapsed returns a copy of r with its elapsed time replaced. The
// orchestrator uses this to re-stamp a winning tier's result against
// the pipeline's overall start time before returning it, since a
// tier's own elapsedMS only covers that tier's attempt.
func (r ExtractionResult) WithElapsed(elapsed time.Duration) ExtractionResult {
	r.elapsedMS = elapsed.Milliseconds()
	return r
}

// resultJSON mirrors the wire shape from spec §6: exactly these fields,
// null for absent optionals.
type resultJSON struct {
	Success     bool    `json:"success"`
	URL         string  `json:"url"`
	Title       *string `json:"title"`
	Body        *string `json:"body"`
	Error       *string `json:"error"`
	FetchMethod *string `json:"fetch_method"`
	StatusCode  *int    `json:"status_code"`
	ContentLen  int     `json:"content_length"`
	ElapsedMS   int64   `json:"elapsed_ms"`
}

func (r ExtractionResult) toJSON() resultJSON {
	return resultJSON{
		Success:     r.success,
		URL:         r.url,
		Title:       r.title,
		Body:        r.body,
		Error:       r.err,
		FetchMethod: r.fetchMethod,
		StatusCode:  r.statusCode,
		ContentLen:  r.contentLen,
		ElapsedMS:   r.elapsedMS,
	}
}

// MarshalJSON implements json.Marshaler so ExtractionResult serialises
// directly with encoding/json, matching to_dict/to_json's shape.
func (r ExtractionResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.toJSON())
}

// ToMap returns a plain map with the same shape as MarshalJSON, for
// callers that want a generic value rather than bytes.
func (r ExtractionResult) ToMap() map[string]any {
	m := map[string]any{
		"success":        r.success,
		"url":            r.url,
		"content_length": r.contentLen,
		"elapsed_ms":     r.elapsedMS,
	}
	if r.title != nil {
		m["title"] = *r.title
	} else {
		m["title"] = nil
	}
	if r.body != nil {
		m["body"] = *r.body
	} else {
		m["body"] = nil
	}
	if r.err != nil {
		m["error"] = *r.err
	} else {
		m["error"] = nil
	}
	if r.fetchMethod != nil {
		m["fetch_method"] = *r.fetchMethod
	} else {
		m["fetch_method"] = nil
	}
	if r.statusCode != nil {
		m["status_code"] = *r.statusCode
	} else {
		m["status_code"] = nil
	}
	return m
}

// ToJSON returns a compact JSON string with non-ASCII characters
// preserved (no \u escaping), matching to_json's contract.
func (r ExtractionResult) ToJSON() (string, error) {
	b, err := json.Marshal(r.toJSON())
	if err != nil {
		return "", err
	}
	// encoding/json escapes HTML-sensitive runes (<,>,&) by default but
	// never escapes non-ASCII to \u sequences, so no further work is
	// needed to satisfy "non-ASCII characters preserved".
	return string(b), nil
}

// StrPtr and IntPtr are the single shared pointer-literal helpers for
// this package's consumers (the orchestrator and the tier fetchers),
// replacing what used to be independently duplicated strPtr/intPtr
// copies in each package.
func StrPtr(s string) *string { return &s }
func IntPtr(i int) *int       { return &i }
