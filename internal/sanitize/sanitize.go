// Package sanitize turns HTML-ish upstream text into plain display text.
// Everything here is pure: any string in, a string out, no errors.
package sanitize

import (
	"regexp"
	"strings"
)

// Ellipsis is appended when a description is cut at the cap.
const Ellipsis = "..."

var (
	tagPattern    = regexp.MustCompile(`<[^>]*>`)
	entityPattern = regexp.MustCompile(`&[a-zA-Z0-9#]+;`)
	spacePattern  = regexp.MustCompile(`\s+`)
)

// entityReplacer decodes the named entities feeds actually emit. Anything not
// in this table falls through to the catch-all below and becomes a space.
var entityReplacer = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
	"&quot;", `"`,
	"&#39;", "'",
	"&apos;", "'",
	"&nbsp;", " ",
	"&copy;", "©",
	"&reg;", "®",
	"&trade;", "™",
)

// Clean strips markup from raw feed text: tags removed, known entities
// decoded, unknown entities collapsed to a space, whitespace runs collapsed,
// result trimmed.
func Clean(raw string) string {
	s := tagPattern.ReplaceAllString(raw, " ")
	s = entityReplacer.Replace(s)
	s = entityPattern.ReplaceAllString(s, " ")
	s = spacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Truncate caps s at max runes and appends the ellipsis marker. Applied to
// descriptions only; titles are never cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + Ellipsis
}

// LooksLikeMarkup reports whether cleaned text still carries raw HTML
// artifacts, which means the upstream description was markup soup and the
// extended content field should be used instead.
func LooksLikeMarkup(s string) bool {
	return strings.Contains(s, "class=") || strings.Contains(s, "src=")
}
