package htmlx

import "testing"

func TestExtractTitle_OGTitleWins(t *testing.T) {
	tree := ParseString(`<html><head><meta property="og:title" content="OG"><title>T | S</title></head><body><h1>H</h1></body></html>`)
	title := ExtractTitle(tree)
	if title == nil || *title != "OG" {
		t.Fatalf("expected OG, got %v", title)
	}
}

func TestExtractTitle_CleansSuffix(t *testing.T) {
	tree := ParseString(`<html><head><title>Article Title | SiteName</title></head><body></body></html>`)
	title := ExtractTitle(tree)
	if title == nil || *title != "Article Title" {
		t.Fatalf("expected cleaned title, got %v", title)
	}
}

func TestExtractTitle_FallsBackToH1(t *testing.T) {
	tree := ParseString(`<html><body><h1>Hello <span>World</span></h1></body></html>`)
	title := ExtractTitle(tree)
	if title == nil || *title != "Hello World" {
		t.Fatalf("expected joined h1 text, got %v", title)
	}
}

func TestExtractTitle_NilWhenAbsent(t *testing.T) {
	tree := ParseString(`<html><body><p>no title anywhere</p></body></html>`)
	if title := ExtractTitle(tree); title != nil {
		t.Fatalf("expected nil title, got %v", *title)
	}
}

func TestExtractTitle_SuffixCleanFallsBackWhenEmpty(t *testing.T) {
	// A title that is entirely consumed by the suffix pattern should fall
	// back to the uncleaned original rather than return an empty string.
	tree := ParseString(`<html><head><title> - x</title></head><body></body></html>`)
	title := ExtractTitle(tree)
	if title == nil || *title != "- x" {
		t.Fatalf("expected uncleaned original %q, got %v", "- x", title)
	}
}
