package htmlx

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var whitespaceRunRE = regexp.MustCompile(`[ \t\n\r]+`)

// ExtractTextContent runs the full noise-stripping pipeline of spec
// §4.1: remove noise subtrees, collect content-tag text blocks, drop
// blocks under MinBlockLength, join with "\n\n", and reject the whole
// body if it falls under MinBodyLength.
func ExtractTextContent(tree *html.Node) *string {
	removeNoise(tree)
	blocks := collectBlocks(tree)

	var kept []string
	for _, b := range blocks {
		if len(b) >= MinBlockLength {
			kept = append(kept, b)
		}
	}

	body := strings.Join(kept, "\n\n")
	if len(body) < MinBodyLength {
		return nil
	}
	return &body
}

// removeNoise detaches every element matching a noise rule (tag, class
// token, id, or role) along with its whole subtree. Matches are
// collected before any detachment so traversal is stable against
// mutation (spec §4.1.1).
func removeNoise(tree *html.Node) {
	var toRemove []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && isNoise(n) {
			toRemove = append(toRemove, n)
			return // don't descend into a subtree we're about to drop
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(tree)

	for _, n := range toRemove {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

// isNoise reports whether n matches any noise classifier.
func isNoise(n *html.Node) bool {
	if _, ok := NoiseTags[n.Data]; ok {
		return true
	}
	if class := attr(n, "class"); class != "" {
		for _, tok := range strings.Fields(class) {
			if _, ok := NoiseClasses[strings.ToLower(tok)]; ok {
				return true
			}
		}
	}
	if id := strings.ToLower(attr(n, "id")); id != "" {
		if _, ok := NoiseIDs[id]; ok {
			return true
		}
	}
	if role := strings.ToLower(attr(n, "role")); role != "" {
		if _, ok := NoiseRoles[role]; ok {
			return true
		}
	}
	return false
}

// collectBlocks walks the (already noise-stripped) tree in document
// order, computing each content-tag element's collapsed text. Nested
// content elements (a <blockquote> containing a <p>) may contribute
// overlapping text; this is intentional — see spec §9's open question
// on deduplication — and document order is preserved.
func collectBlocks(tree *html.Node) []string {
	var blocks []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, ok := ContentTags[n.Data]; ok {
				text := collapseWhitespace(textOf(n))
				if text != "" {
					blocks = append(blocks, text)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(tree)
	return blocks
}

// collapseWhitespace collapses any run of ASCII space/tab/newline/CR to
// a single space and trims the result. Applied to a content block's raw
// text (textOf), this keeps in-body link text in place:
// "prefix <a>anchor</a> suffix" becomes "prefix anchor suffix".
func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRunRE.ReplaceAllString(s, " "))
}
