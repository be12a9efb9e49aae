// Package sanitize provides text sanitization for user-supplied fields.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRegex = regexp.MustCompile(`\s+`)

	entityReplacer = strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&amp;", "&",
		"&quot;", "\"",
		"&#39;", "'",
	)
)

// StripHTML removes HTML tags, decodes common entities and strips again so
// encoded tags do not survive.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = entityReplacer.Replace(result)
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Text sanitizes multi-line free text such as notes.
func Text(s string) string {
	return StripHTML(s)
}

// Line sanitizes single-line values (names, firm names, titles) and
// collapses inner whitespace.
func Line(s string) string {
	return whitespaceRegex.ReplaceAllString(StripHTML(s), " ")
}

// LinePtr is Line for optional values; blank results become nil.
func LinePtr(s *string) *string {
	if s == nil {
		return nil
	}
	result := Line(*s)
	if result == "" {
		return nil
	}
	return &result
}
