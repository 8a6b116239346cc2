package impl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/educalvolpz/wwdc-tracker/internal/feed"
	"github.com/educalvolpz/wwdc-tracker/internal/retry"
	"github.com/educalvolpz/wwdc-tracker/internal/sources/rss"
)

// maxBodyBytes bounds how much of a feed response is read. Feeds are small;
// anything larger is an upstream misbehaving.
const maxBodyBytes = 4 << 20

type Fetcher struct {
	client *http.Client
	parser feed.Parser
}

func NewFetcher(timeout time.Duration, parser feed.Parser) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		parser: parser,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, feedURL string, options rss.FetchOptions) ([]feed.Item, error) {
	var body string
	err := retry.Do(ctx, retry.Config{Attempts: 3, BaseDelay: 200 * time.Millisecond}, func() error {
		raw, err := f.get(ctx, feedURL, options.UserAgent)
		if err != nil {
			return err
		}
		body = raw
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	return f.parser.Parse(body), nil
}

func (f *Fetcher) get(ctx context.Context, feedURL, userAgent string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return "", err
	}
	if userAgent == "" {
		userAgent = "WWDCTracker/1.0"
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Expires", "0")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read feed body: %w", err)
	}
	return string(raw), nil
}
