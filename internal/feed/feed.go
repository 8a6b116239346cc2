// Package feed defines the parsing boundary between raw feed text and
// structured items. Parsers never fail: malformed input yields fewer items,
// an unparseable document yields none.
package feed

// Item is one raw entry extracted from a feed document. All fields are as the
// upstream wrote them; cleaning and date parsing happen in the adapter layer.
type Item struct {
	Title       string
	Description string
	// Content carries the extended body (content:encoded) when present. Used
	// as the description fallback when the primary one is absent or markup.
	Content string
	Link    string
	PubDate string
	Author  string
}

// Parser extracts items from raw feed text. Implementations must tolerate
// malformed documents and missing fields; the zero-item result is meaningful
// (the upstream may have served an error page) and is not an error.
type Parser interface {
	Parse(raw string) []Item
}
