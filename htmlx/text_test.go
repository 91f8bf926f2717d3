package htmlx

import (
	"strings"
	"testing"
)

func TestExtractTextContent_DropsShortBody(t *testing.T) {
	tree := ParseString(`<html><body><p>OK</p></body></html>`)
	if body := ExtractTextContent(tree); body != nil {
		t.Errorf("expected nil body for short content, got %q", *body)
	}
}

func TestExtractTextContent_JoinsRepeatedParagraphs(t *testing.T) {
	para := strings.Repeat("x", 60)
	html := "<html><body>" + strings.Repeat("<p>"+para+"</p>", 5) + "</body></html>"
	tree := ParseString(html)
	body := ExtractTextContent(tree)
	if body == nil {
		t.Fatal("expected non-nil body")
	}
	if strings.Count(*body, para) != 5 {
		t.Errorf("expected 5 occurrences of paragraph, got %d", strings.Count(*body, para))
	}
	if !strings.Contains(*body, "\n\n") {
		t.Error("expected blocks joined by blank line")
	}
}

func TestExtractTextContent_ExcludesShortBlock(t *testing.T) {
	long := strings.Repeat("y", 85)
	tree := ParseString("<html><body><p>OK</p><p>" + long + "</p></body></html>")
	body := ExtractTextContent(tree)
	if body != nil {
		t.Fatalf("expected nil (total < 100), got %q", *body)
	}
}

func TestExtractTextContent_StripsNavigation(t *testing.T) {
	article := strings.Repeat("article text ", 30)
	html := `<html><body><nav><a>Home</a><a>About</a></nav><p>` + article + `</p></body></html>`
	tree := ParseString(html)
	body := ExtractTextContent(tree)
	if body == nil {
		t.Fatal("expected non-nil body")
	}
	if strings.Contains(*body, "Home") || strings.Contains(*body, "About") {
		t.Error("nav text leaked into body")
	}
}

func TestExtractTextContent_PreservesLinkText(t *testing.T) {
	article := strings.Repeat("filler ", 20)
	html := `<html><body><p>prefix <a href="x">anchor</a> suffix ` + article + `</p></body></html>`
	tree := ParseString(html)
	body := ExtractTextContent(tree)
	if body == nil {
		t.Fatal("expected non-nil body")
	}
	if !strings.Contains(*body, "prefix anchor suffix") {
		t.Errorf("expected link text preserved, got %q", *body)
	}
}

func TestExtractTextContent_NoiseClassRemoved(t *testing.T) {
	article := strings.Repeat("real content here ", 10)
	html := `<html><body><div class="advertisement">buy now buy now buy now</div><p>` + article + `</p></body></html>`
	tree := ParseString(html)
	body := ExtractTextContent(tree)
	if body == nil {
		t.Fatal("expected non-nil body")
	}
	if strings.Contains(*body, "buy now") {
		t.Error("ad class content leaked into body")
	}
}

func TestExtractTextContent_IdempotentUpToWhitespace(t *testing.T) {
	article := strings.Repeat("idempotence check text ", 10)
	html := `<html><body><p>` + article + `</p><nav><a>skip</a></nav></body></html>`
	first := ExtractTextContent(ParseString(html))
	if first == nil {
		t.Fatal("expected non-nil first pass")
	}
	rewrapped := "<html><body><p>" + *first + "</p></body></html>"
	second := ExtractTextContent(ParseString(rewrapped))
	if second == nil {
		t.Fatal("expected non-nil second pass")
	}
	norm := func(s string) string {
		return strings.Join(strings.Fields(s), " ")
	}
	if norm(*first) != norm(*second) {
		t.Errorf("not idempotent up to whitespace:\nfirst:  %q\nsecond: %q", *first, *second)
	}
}
