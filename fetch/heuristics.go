package fetch

import "strings"

// jsRequiredPhrases is reproduced verbatim from
// original_source/fetch_playwright.py's _JS_REQUIRED_PHRASES — the
// distilled spec already names this heuristic (§4.4.2); the full
// literal list is carried over unabridged.
var jsRequiredPhrases = []string{
	"requires javascript",
	"enable javascript",
	"javascript is required",
	"javascript is disabled",
	"javascript must be enabled",
	"you need to enable javascript",
	"please enable javascript",
	"this site requires javascript",
	"this page requires javascript",
	"this application requires javascript",
	"browser does not support javascript",
	"turn on javascript",
	"activate javascript",
}

// RequiresJavaScript reports whether body contains any JS-required
// phrase, case-insensitive (spec §4.4.2).
func RequiresJavaScript(body string) bool {
	lower := strings.ToLower(body)
	for _, phrase := range jsRequiredPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// cookieConsentSelectors is a prioritised list of CSS selectors tried
// in order to dismiss a cookie-consent banner (spec §4.4.1), carried
// from original_source/fetch_playwright.py's COOKIE_CONSENT_SELECTORS
// with the near-variants spec.md names added.
var cookieConsentSelectors = []string{
	`button:has-text("Accept All")`,
	`button:has-text("ACCEPT")`,
	`button:has-text("Accept all")`,
	`button:has-text("Accept")`,
	`#onetrust-accept-btn-handler`,
	`.accept-cookies`,
	`button:has-text("I agree")`,
	`button:has-text("Agree")`,
	`button:has-text("Allow all")`,
	`button:has-text("OK")`,
	`button:has-text("Got it")`,
	`[data-testid="cookie-accept"]`,
	`button:has-text("Continue")`,
}
