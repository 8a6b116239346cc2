package adapter

import (
	"context"
	"time"

	"github.com/educalvolpz/wwdc-tracker/internal/config"
	"github.com/educalvolpz/wwdc-tracker/internal/core"
	"github.com/educalvolpz/wwdc-tracker/internal/sanitize"
	"github.com/educalvolpz/wwdc-tracker/internal/sources/rss"
)

// RSS adapts one RSS publisher into canonical Articles.
type RSS struct {
	feed      config.FeedConfig
	fetcher   rss.Fetcher
	ranking   config.RankingConfig
	userAgent string
	now       func() time.Time
}

func NewRSS(feed config.FeedConfig, fetcher rss.Fetcher, ranking config.RankingConfig, userAgent string) *RSS {
	return &RSS{
		feed:      feed,
		fetcher:   fetcher,
		ranking:   ranking,
		userAgent: userAgent,
		now:       time.Now,
	}
}

func (a *RSS) Name() string {
	return a.feed.Name
}

func (a *RSS) Kind() core.Kind {
	return a.feed.Kind
}

func (a *RSS) Fetch(ctx context.Context) ([]core.Article, error) {
	items, err := a.fetcher.Fetch(ctx, a.feed.URL, rss.FetchOptions{UserAgent: a.userAgent})
	if err != nil {
		return nil, err
	}

	fetchedAt := a.now().UTC()
	articles := make([]core.Article, 0, len(items))
	for _, item := range items {
		title := sanitize.Clean(item.Title)
		if title == "" && item.Link == "" {
			continue
		}
		articles = append(articles, core.Article{
			ID:          core.ArticleID(a.feed.Kind, item.Link),
			Timestamp:   parseTimestamp(item.PubDate, fetchedAt),
			Kind:        a.feed.Kind,
			Title:       title,
			Description: shapeDescription(item.Description, item.Content, a.ranking.MinDescription, a.ranking.DescriptionLimit),
			URL:         item.Link,
			Author:      item.Author,
			SourceName:  a.feed.Name,
		})
	}
	return articles, nil
}
