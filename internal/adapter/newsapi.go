package adapter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/educalvolpz/wwdc-tracker/internal/config"
	"github.com/educalvolpz/wwdc-tracker/internal/core"
	"github.com/educalvolpz/wwdc-tracker/internal/sanitize"
	"github.com/educalvolpz/wwdc-tracker/internal/sources/newsapi"
)

// NewsAPI adapts the keyword-search upstream. It owns the relevance filter:
// keyword sets differ per adapter and mode, so filtering here keeps the
// aggregator source-agnostic.
type NewsAPI struct {
	search  config.SearchConfig
	ranking config.RankingConfig
	client  newsapi.Client
	// liveMode shrinks the recency window from days to hours while the
	// keynote is on.
	liveMode func() bool
	rule     *vm.Program
	now      func() time.Time
}

func NewNewsAPI(search config.SearchConfig, ranking config.RankingConfig, client newsapi.Client, liveMode func() bool) (*NewsAPI, error) {
	a := &NewsAPI{
		search:   search,
		ranking:  ranking,
		client:   client,
		liveMode: liveMode,
		now:      time.Now,
	}
	if search.Rule != "" {
		program, err := expr.Compile(search.Rule, expr.Env(map[string]interface{}{}))
		if err != nil {
			return nil, fmt.Errorf("compile relevance rule: %w", err)
		}
		a.rule = program
	}
	return a, nil
}

func (a *NewsAPI) Name() string {
	return "NewsAPI"
}

func (a *NewsAPI) Kind() core.Kind {
	return core.KindNews
}

func (a *NewsAPI) Fetch(ctx context.Context) ([]core.Article, error) {
	query := newsapi.Query{
		Terms:    a.search.Terms,
		Sources:  a.search.Sources,
		FromDays: a.search.FromDays,
		PageSize: a.search.PageSize,
		Language: a.search.Language,
	}
	if a.liveMode != nil && a.liveMode() {
		query.FromHours = a.search.LiveFromHours
	}

	raw, err := a.client.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	fetchedAt := a.now().UTC()
	articles := make([]core.Article, 0, len(raw))
	for _, item := range raw {
		title := sanitize.Clean(item.Title)
		description := shapeDescription(item.Description, item.Content, a.ranking.MinDescription, a.ranking.DescriptionLimit)
		if !a.relevant(title, description, item) {
			continue
		}
		sourceName := item.Source.Name
		if sourceName == "" {
			sourceName = a.Name()
		}
		articles = append(articles, core.Article{
			ID:          core.ArticleID(core.KindNews, item.URL),
			Timestamp:   parseTimestamp(item.PublishedAt, fetchedAt),
			Kind:        core.KindNews,
			Title:       title,
			Description: description,
			URL:         item.URL,
			Author:      item.Author,
			SourceName:  sourceName,
		})
	}
	return articles, nil
}

// relevant keeps an item only when its case-folded title+description mentions
// at least one configured topic, and the optional expr rule agrees.
func (a *NewsAPI) relevant(title, description string, item newsapi.Article) bool {
	content := strings.ToLower(title + " " + description)
	matched := false
	for _, topic := range a.search.Topics {
		if strings.Contains(content, strings.ToLower(topic)) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	if a.rule == nil {
		return true
	}
	result, err := expr.Run(a.rule, map[string]interface{}{
		"title":       title,
		"description": description,
		"source":      item.Source.Name,
		"author":      item.Author,
	})
	if err != nil {
		// A broken rule should not blank the feed; fall back to the topic
		// match alone.
		return true
	}
	keep, ok := result.(bool)
	return !ok || keep
}
