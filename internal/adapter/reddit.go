package adapter

import (
	"context"
	"time"

	"github.com/educalvolpz/wwdc-tracker/internal/config"
	"github.com/educalvolpz/wwdc-tracker/internal/core"
	"github.com/educalvolpz/wwdc-tracker/internal/sanitize"
	"github.com/educalvolpz/wwdc-tracker/internal/sources/reddit"
)

// Reddit adapts subreddit search results into community Articles.
type Reddit struct {
	cfg       config.RedditConfig
	ranking   config.RankingConfig
	fetcher   reddit.Fetcher
	userAgent string
	now       func() time.Time
}

func NewReddit(cfg config.RedditConfig, ranking config.RankingConfig, fetcher reddit.Fetcher, userAgent string) *Reddit {
	return &Reddit{
		cfg:       cfg,
		ranking:   ranking,
		fetcher:   fetcher,
		userAgent: userAgent,
		now:       time.Now,
	}
}

func (a *Reddit) Name() string {
	return "r/" + a.cfg.Subreddit
}

func (a *Reddit) Kind() core.Kind {
	return core.KindCommunity
}

func (a *Reddit) Fetch(ctx context.Context) ([]core.Article, error) {
	items, err := a.fetcher.Search(ctx, reddit.Config{
		Subreddit: a.cfg.Subreddit,
		Query:     a.cfg.Query,
		Limit:     a.cfg.Limit,
		UserAgent: a.userAgent,
	})
	if err != nil {
		return nil, err
	}

	fetchedAt := a.now().UTC()
	articles := make([]core.Article, 0, len(items))
	for _, item := range items {
		ts := item.CreatedAt
		if ts.IsZero() {
			ts = fetchedAt
		}
		author := item.Author
		if author != "" {
			author = "u/" + author
		}
		articles = append(articles, core.Article{
			ID:          core.ArticleID(core.KindCommunity, item.URL),
			Timestamp:   ts.UTC(),
			Kind:        core.KindCommunity,
			Title:       sanitize.Clean(item.Title),
			Description: sanitize.Truncate(sanitize.Clean(item.Body), a.ranking.DescriptionLimit),
			URL:         item.URL,
			Author:      author,
			SourceName:  a.Name(),
		})
	}
	return articles, nil
}
