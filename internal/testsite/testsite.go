// Package testsite builds small httptest fixtures shared by fetch and
// extractor package tests, standing in for the real network the way
// the teacher's own tests fake downstream dependencies.
package testsite

import (
	"net/http"
	"net/http/httptest"
)

// Serve starts an httptest.Server returning body with the given status
// and content type for every request. The caller must Close() it.
func Serve(status int, contentType, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}
