package reddit

import (
	"context"
	"time"
)

// Config describes one subreddit search.
type Config struct {
	Subreddit string
	Query     string
	Limit     int
	UserAgent string
}

// Item is a single matching post.
type Item struct {
	ID        string
	Title     string
	URL       string
	Body      string
	Author    string
	Score     int
	CreatedAt time.Time
}

// Fetcher searches a subreddit for event discussion.
type Fetcher interface {
	Search(ctx context.Context, config Config) ([]Item, error)
}
