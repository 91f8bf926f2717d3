package fetch

import (
	nurl "net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// tryLibraryHTML feeds already-rendered HTML to the article-extraction
// library's HTML→text entry point, used as the first half of the
// Tier 3/4 hybrid extractor (spec §4.4). A neutral base URL is used
// since link resolution doesn't matter for plain-text output.
func tryLibraryHTML(rawHTML string) *string {
	base, _ := nurl.Parse("about:blank")
	article, err := readability.FromReader(strings.NewReader(rawHTML), base)
	if err != nil {
		return nil
	}
	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return nil
	}
	return &text
}
