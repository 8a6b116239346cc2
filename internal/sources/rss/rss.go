package rss

import (
	"context"

	"github.com/educalvolpz/wwdc-tracker/internal/feed"
)

// FetchOptions controls one feed fetch.
type FetchOptions struct {
	UserAgent string
}

// Fetcher retrieves raw feed text over HTTP and parses it into items.
// Implementations must send cache-defeating headers: this is a real-time
// tracker and an intermediate cache serving stale content defeats it.
type Fetcher interface {
	Fetch(ctx context.Context, feedURL string, options FetchOptions) ([]feed.Item, error)
}
