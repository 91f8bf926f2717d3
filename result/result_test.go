package result

import (
	"strings"
	"testing"
	"time"
)

func TestNewSuccess_Invariants(t *testing.T) {
	title := "T"
	body := strings.Repeat("x", 120)
	r := NewSuccess("http://example.com", &title, body, MethodHTTP, IntPtr(200), 5*time.Millisecond)

	if !r.Success() {
		t.Fatal("expected success")
	}
	if r.Body() == nil || *r.Body() != body {
		t.Fatal("body mismatch")
	}
	if r.Error() != nil {
		t.Fatal("expected nil error on success")
	}
	if r.ContentLength() != len(body) {
		t.Fatalf("expected content length %d, got %d", len(body), r.ContentLength())
	}
	if r.ElapsedMS() < 0 {
		t.Fatal("elapsed must be non-negative")
	}
}

func TestNewFailure_Invariants(t *testing.T) {
	r := NewFailure("http://example.com", "boom", StrPtr(MethodHTTP), IntPtr(500), time.Millisecond)

	if r.Success() {
		t.Fatal("expected failure")
	}
	if r.Body() != nil || r.Title() != nil {
		t.Fatal("failure must not carry body/title")
	}
	if r.ContentLength() != 0 {
		t.Fatal("failure content length must be zero")
	}
	if r.Error() == nil {
		t.Fatal("failure must carry an error message")
	}
}

func TestToJSON_PreservesNonASCII(t *testing.T) {
	title := "café"
	body := strings.Repeat("é", 120)
	r := NewSuccess("http://example.com", &title, body, MethodHTTP, IntPtr(200), time.Millisecond)

	js, err := r.ToJSON()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(js, "café") {
		t.Errorf("expected non-ASCII title preserved unescaped, got %s", js)
	}
}

func TestToMap_NullsForAbsentOptionals(t *testing.T) {
	r := NewFailure("http://example.com", "boom", nil, nil, 0)
	m := r.ToMap()
	if m["title"] != nil || m["body"] != nil || m["fetch_method"] != nil || m["status_code"] != nil {
		t.Errorf("expected nulls for absent optionals, got %+v", m)
	}
}

func TestWithElapsed_ReplacesElapsedOnly(t *testing.T) {
	title := "T"
	r := NewSuccess("http://example.com", &title, strings.Repeat("x", 120), MethodHTTP, IntPtr(200), time.Millisecond)

	updated := r.WithElapsed(500 * time.Millisecond)
	if updated.ElapsedMS() != 500 {
		t.Fatalf("expected elapsed 500ms, got %d", updated.ElapsedMS())
	}
	if updated.Success() != r.Success() || *updated.Body() != *r.Body() || *updated.Title() != *r.Title() {
		t.Fatal("WithElapsed must not change any other field")
	}
	if r.ElapsedMS() != 1 {
		t.Fatal("WithElapsed must not mutate the receiver")
	}
}
