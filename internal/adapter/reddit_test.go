package adapter

import (
	"context"
	"testing"
	"time"

	"github.com/educalvolpz/wwdc-tracker/internal/config"
	"github.com/educalvolpz/wwdc-tracker/internal/core"
	"github.com/educalvolpz/wwdc-tracker/internal/sources/reddit"
	"github.com/educalvolpz/wwdc-tracker/internal/sources/reddit/mock"
)

func TestRedditAdapterMapsPosts(t *testing.T) {
	created := time.Date(2025, time.June, 9, 16, 45, 0, 0, time.UTC)
	fetcher := &mock.Fetcher{Items: []reddit.Item{
		{
			ID:        "abc123",
			Title:     "WWDC25 keynote megathread",
			URL:       "https://www.reddit.com/r/apple/comments/abc123/wwdc25_keynote_megathread/",
			Body:      "Discussion for **everything** announced today.",
			Author:    "appleModTeam",
			CreatedAt: created,
		},
	}}
	cfg := config.RedditConfig{Enabled: true, Subreddit: "apple", Query: "WWDC 2025 OR WWDC25", Limit: 25}
	a := NewReddit(cfg, testRanking, fetcher, "WWDCTracker/1.0")

	if a.Name() != "r/apple" {
		t.Errorf("unexpected adapter name %q", a.Name())
	}
	if a.Kind() != core.KindCommunity {
		t.Errorf("unexpected kind %q", a.Kind())
	}

	articles, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}

	got := articles[0]
	if got.Author != "u/appleModTeam" {
		t.Errorf("author = %q, want reddit-style handle", got.Author)
	}
	if !got.Timestamp.Equal(created) {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, created)
	}
	if got.SourceName != "r/apple" {
		t.Errorf("source name = %q", got.SourceName)
	}
}
