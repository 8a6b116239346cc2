package mock

import (
	"context"

	"github.com/educalvolpz/wwdc-tracker/internal/feed"
	"github.com/educalvolpz/wwdc-tracker/internal/sources/rss"
)

// Fetcher returns canned items or a canned error, for tests.
type Fetcher struct {
	Items []feed.Item
	Err   error

	// Calls records the feed URLs fetched, in order.
	Calls []string
}

func (f *Fetcher) Fetch(ctx context.Context, feedURL string, options rss.FetchOptions) ([]feed.Item, error) {
	_ = ctx
	f.Calls = append(f.Calls, feedURL)
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Items, nil
}
