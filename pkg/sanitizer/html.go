package sanitizer

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	safePolicy   *bluemonday.Policy
	initOnce     sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()

		safePolicy = bluemonday.NewPolicy()
		safePolicy.AllowStandardURLs()
		safePolicy.AllowElements(
			"p", "br", "hr",
			"strong", "b", "em", "i",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
			"h3", "h4", "h5", "h6",
		)
		safePolicy.AllowAttrs("href").OnElements("a")
		safePolicy.RequireNoFollowOnLinks(true)
	})
}

// StripHTML removes all markup and returns plain text.
func StripHTML(s string) string {
	initPolicies()
	return strictPolicy.Sanitize(s)
}

// SanitizeHTML keeps basic formatting (paragraphs, emphasis, lists, code,
// quotes, minor headings and nofollow links) and drops everything else,
// including scripts, event handlers and javascript: URLs.
func SanitizeHTML(s string) string {
	initPolicies()
	return safePolicy.Sanitize(s)
}
