package htmlx

import (
	"regexp"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

var (
	selOGTitle = cascadia.MustCompile(`meta[property="og:title"]`)
	selTitle   = cascadia.MustCompile("title")
	selH1      = cascadia.MustCompile("h1")

	// titleSuffixRE matches a trailing "whitespace • separator •
	// whitespace • non-separator-run" at end-of-string, where
	// separator is one of |, -, en-dash, em-dash.
	titleSuffixRE = regexp.MustCompile(`\s*[|\-\x{2013}\x{2014}]\s*[^|\-\x{2013}\x{2014}]+$`)
)

// ExtractTitle selects the best title for tree using the priority order
// from spec §4.1: og:title meta content, then cleaned <title> text, then
// the joined text of the first <h1>, else nil.
func ExtractTitle(tree *html.Node) *string {
	if n := cascadia.Query(tree, selOGTitle); n != nil {
		if content := strings.TrimSpace(attr(n, "content")); content != "" {
			return &content
		}
	}

	if n := cascadia.Query(tree, selTitle); n != nil {
		raw := strings.TrimSpace(textOf(n))
		if raw != "" {
			cleaned := cleanTitleSuffix(raw)
			return &cleaned
		}
	}

	if n := cascadia.Query(tree, selH1); n != nil {
		combined := strings.TrimSpace(joinTextNodes(n))
		if combined != "" {
			return &combined
		}
	}

	return nil
}

// cleanTitleSuffix strips a trailing " | SiteName"-style suffix. If
// cleaning would yield an empty string, the original is returned instead.
func cleanTitleSuffix(title string) string {
	cleaned := titleSuffixRE.ReplaceAllString(title, "")
	if strings.TrimSpace(cleaned) == "" {
		return title
	}
	return cleaned
}

// joinTextNodes concatenates all descendant text nodes of n with a
// single space, trimming each piece first.
func joinTextNodes(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			if t := strings.TrimSpace(node.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}

// textOf returns the raw concatenation of direct and descendant text
// nodes without per-node trimming (used for <title>, which is normally
// a single text node, and for content blocks before whitespace collapse).
func textOf(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			buf.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
