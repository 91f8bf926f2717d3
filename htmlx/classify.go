// Package htmlx implements the noise-stripping HTML-to-text extractor:
// pure functions over a parsed document that select a title and collect
// article-like text while discarding navigation, ads, consent banners,
// comments, and other chrome. See docs on Parse, ExtractTitle, and
// ExtractTextContent for the exact algorithm.
package htmlx

// Classifier sets are module-scope data, not compiled-in branches, so
// the rules stay auditable and easy to extend (spec §9). None of these
// are ever mutated after package init.

// NoiseTags are tag names whose entire subtree is dropped before text
// collection.
var NoiseTags = toSet([]string{
	"script", "style", "nav", "footer", "aside", "header", "noscript",
	"iframe", "form", "svg", "button", "select", "option", "textarea",
	"input", "label", "fieldset", "legend", "dialog", "menu", "menuitem",
	"details", "summary",
})

// NoiseClasses are token matches against the space-split, lowercased
// class attribute.
var NoiseClasses = toSet([]string{
	"ad", "ads", "advert", "advertisement", "banner", "sponsor", "sponsored",
	"promo", "promotion", "sidebar", "widget", "social", "share", "sharing",
	"cookie", "consent", "popup", "modal", "overlay", "newsletter",
	"subscribe", "signup", "sign-up", "cta", "call-to-action", "related",
	"recommended", "trending", "popular", "breadcrumb", "pagination",
	"pager", "toolbar", "tooltip", "dropdown", "comment", "comments",
	"disqus",
})

// NoiseIDs are lowercase id matches.
var NoiseIDs = toSet([]string{
	"ad", "ads", "sidebar", "cookie-banner", "newsletter", "comments",
	"disqus_thread", "social-share",
})

// NoiseRoles are ARIA role attribute values treated as noise.
var NoiseRoles = toSet([]string{
	"navigation", "banner", "complementary", "contentinfo", "form",
	"search", "menu", "menubar",
})

// ContentTags are tag names whose text is collected as a candidate block.
var ContentTags = toSet([]string{
	"p", "h1", "h2", "h3", "h4", "h5", "h6", "li", "blockquote", "td",
	"th", "figcaption", "pre", "dd",
})

const (
	// MinBlockLength is the individual block reject threshold.
	MinBlockLength = 15
	// MinBodyLength is the aggregate reject threshold.
	MinBodyLength = 100
)

func toSet(items []string) map[string]struct{} {
	s := make(map[string]struct{}, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}
