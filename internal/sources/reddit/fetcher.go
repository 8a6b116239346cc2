package reddit

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	goreddit "github.com/vartanbeno/go-reddit/v2/reddit"
)

// SearchFetcher implements Fetcher on go-reddit's read-only client. Community
// search needs no credentials; the public JSON endpoints are enough.
type SearchFetcher struct {
	client  *goreddit.Client
	initErr error
}

func NewFetcher(timeout time.Duration, userAgent string) *SearchFetcher {
	if userAgent == "" {
		userAgent = "WWDCTracker/1.0"
	}
	httpClient := &http.Client{Timeout: timeout}
	client, err := goreddit.NewReadonlyClient(
		goreddit.WithHTTPClient(httpClient),
		goreddit.WithUserAgent(userAgent),
	)
	return &SearchFetcher{client: client, initErr: err}
}

func (f *SearchFetcher) Search(ctx context.Context, config Config) ([]Item, error) {
	if f.initErr != nil {
		return nil, f.initErr
	}
	if config.Subreddit == "" {
		return nil, fmt.Errorf("reddit: subreddit is required")
	}
	if strings.TrimSpace(config.Query) == "" {
		return nil, fmt.Errorf("reddit: search query is required")
	}

	limit := config.Limit
	if limit <= 0 {
		limit = 25
	}

	posts, _, err := f.client.Subreddit.SearchPosts(ctx, config.Query, config.Subreddit, &goreddit.ListPostSearchOptions{
		ListPostOptions: goreddit.ListPostOptions{
			ListOptions: goreddit.ListOptions{Limit: limit},
		},
		Sort: "new",
	})
	if err != nil {
		return nil, fmt.Errorf("reddit: search %s: %w", config.Subreddit, err)
	}

	items := make([]Item, 0, len(posts))
	for _, post := range posts {
		if post == nil {
			continue
		}
		item := Item{
			ID:     post.ID,
			Title:  post.Title,
			URL:    postURL(post),
			Body:   post.Body,
			Author: post.Author,
			Score:  post.Score,
		}
		if post.Created != nil {
			item.CreatedAt = post.Created.Time.UTC()
		}
		items = append(items, item)
	}
	return items, nil
}

// postURL prefers the canonical permalink so link posts dedupe on the
// discussion thread, not the shared external URL.
func postURL(post *goreddit.Post) string {
	if post.Permalink != "" {
		return "https://www.reddit.com" + post.Permalink
	}
	return post.URL
}
