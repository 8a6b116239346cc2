// Package adapter translates each upstream's native shape into canonical
// Articles. One adapter per upstream; the aggregator fans them out together.
package adapter

import (
	"context"
	"time"

	"github.com/educalvolpz/wwdc-tracker/internal/core"
	"github.com/educalvolpz/wwdc-tracker/internal/sanitize"
)

// Adapter fetches one upstream and yields canonical Articles. A failing
// upstream returns an error from Fetch; it never panics and never affects
// sibling adapters.
type Adapter interface {
	Name() string
	Kind() core.Kind
	Fetch(ctx context.Context) ([]core.Article, error)
}

// pubDateLayouts covers the date formats the tracked feeds actually emit.
var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	time.RFC822Z,
	time.RFC822,
	"2006-01-02T15:04:05Z",
}

// parseTimestamp parses a source-provided date string, falling back to the
// fetch time when absent or unparseable. The fallback is policy, not an
// error: an article without a usable date still belongs in the feed.
func parseTimestamp(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}
	for _, layout := range pubDateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC()
		}
	}
	return fallback
}

// shapeDescription cleans the primary description and falls back to the
// extended content when the primary is too short or still markup soup, then
// applies the display cap.
func shapeDescription(description, content string, minLen, capLen int) string {
	desc := sanitize.Clean(description)
	if len(desc) < minLen || sanitize.LooksLikeMarkup(desc) {
		if alt := sanitize.Clean(content); alt != "" {
			desc = alt
		}
	}
	return sanitize.Truncate(desc, capLen)
}
