package mock

import (
	"context"

	"github.com/educalvolpz/wwdc-tracker/internal/sources/newsapi"
)

// Client returns canned search results, for tests.
type Client struct {
	Articles []newsapi.Article
	Err      error

	// Queries records every search issued.
	Queries []newsapi.Query
}

func (c *Client) Search(ctx context.Context, query newsapi.Query) ([]newsapi.Article, error) {
	_ = ctx
	c.Queries = append(c.Queries, query)
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Articles, nil
}
