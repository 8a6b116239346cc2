package mock

import (
	"context"

	"github.com/educalvolpz/wwdc-tracker/internal/sources/reddit"
)

// Fetcher returns canned search results, for tests.
type Fetcher struct {
	Items []reddit.Item
	Err   error
}

func (f *Fetcher) Search(ctx context.Context, config reddit.Config) ([]reddit.Item, error) {
	_ = ctx
	_ = config
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Items, nil
}
