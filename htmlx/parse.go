package htmlx

import (
	"bytes"

	"golang.org/x/net/html"
)

// Parse converts raw HTML bytes into a parsed tree. Bytes are decoded as
// UTF-8 with the replacement rune substituted for invalid sequences,
// mirroring a lenient "decode with errors=replace" contract. On
// fundamentally broken input the underlying parser still returns its
// best-effort tree — x/net/html never rejects malformed markup, it just
// repairs it the way a browser would (unclosed tags, stray text,
// duplicate attributes all tolerated).
func Parse(raw []byte) *html.Node {
	cleaned := bytes.ToValidUTF8(raw, []byte("�"))
	doc, err := html.Parse(bytes.NewReader(cleaned))
	if err != nil || doc == nil {
		// Parse only errors on Reader I/O failures, which can't happen
		// reading from a byte slice; fall back to an empty document so
		// callers never see a nil tree.
		return &html.Node{Type: html.DocumentNode}
	}
	return doc
}

// ParseString is a convenience wrapper over Parse for text input.
func ParseString(raw string) *html.Node {
	return Parse([]byte(raw))
}
