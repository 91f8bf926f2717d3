package fetch

import (
	"context"
	"strings"
	"testing"

	"github.com/webextract/extractor/internal/testsite"
)

func TestHTTPFetcher_Success(t *testing.T) {
	article := strings.Repeat("paragraph text goes here. ", 10)
	srv := testsite.Serve(200, "text/html; charset=utf-8",
		"<html><head><title>Hello</title></head><body><p>"+article+"</p></body></html>")
	defer srv.Close()

	f := NewHTTPFetcher()
	result := f.Fetch(context.Background(), srv.URL)
	if !result.Success() {
		t.Fatalf("expected success, got error %v", result.Error())
	}
	if result.Title() == nil || *result.Title() != "Hello" {
		t.Errorf("expected title Hello, got %v", result.Title())
	}
	if result.ContentLength() != len(*result.Body()) {
		t.Errorf("content length mismatch")
	}
}

func TestHTTPFetcher_HTTPStatusFailure(t *testing.T) {
	srv := testsite.Serve(500, "text/html", "server error")
	defer srv.Close()

	f := NewHTTPFetcher()
	result := f.Fetch(context.Background(), srv.URL)
	if result.Success() {
		t.Fatal("expected failure for 500 status")
	}
	if result.StatusCode() == nil || *result.StatusCode() != 500 {
		t.Errorf("expected status 500, got %v", result.StatusCode())
	}
}

func TestHTTPFetcher_NonHTMLContentType(t *testing.T) {
	srv := testsite.Serve(200, "application/json", `{"a":1}`)
	defer srv.Close()

	f := NewHTTPFetcher()
	result := f.Fetch(context.Background(), srv.URL)
	if result.Success() {
		t.Fatal("expected failure for non-HTML content type")
	}
	if result.Error() == nil || !strings.Contains(*result.Error(), "Non-HTML") {
		t.Errorf("expected non-html error, got %v", result.Error())
	}
}

func TestHTTPFetcher_BodyTooShort(t *testing.T) {
	srv := testsite.Serve(200, "text/html", "<html><body><p>short</p></body></html>")
	defer srv.Close()

	f := NewHTTPFetcher()
	result := f.Fetch(context.Background(), srv.URL)
	if result.Success() {
		t.Fatal("expected failure for too-short body")
	}
}
