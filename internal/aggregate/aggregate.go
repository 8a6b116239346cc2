// Package aggregate merges all source adapters into one ranked snapshot.
package aggregate

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/educalvolpz/wwdc-tracker/internal/adapter"
	"github.com/educalvolpz/wwdc-tracker/internal/config"
	"github.com/educalvolpz/wwdc-tracker/internal/core"
	"github.com/educalvolpz/wwdc-tracker/internal/event"
	"github.com/educalvolpz/wwdc-tracker/internal/observability/metrics"
)

const tracerName = "github.com/educalvolpz/wwdc-tracker/internal/aggregate"

// Aggregator runs one full fetch-and-rank pass. It holds no cross-pass state;
// the caller owns the previous id-set and passes it in for novelty marking.
type Aggregator struct {
	adapters []adapter.Adapter
	clock    *event.Clock
	ranking  config.RankingConfig
	event    config.EventConfig
	now      func() time.Time
}

func New(adapters []adapter.Adapter, clock *event.Clock, ranking config.RankingConfig, eventCfg config.EventConfig) *Aggregator {
	return &Aggregator{
		adapters: adapters,
		clock:    clock,
		ranking:  ranking,
		event:    eventCfg,
		now:      time.Now,
	}
}

// NumSources reports how many adapters a pass fans out to, letting the caller
// distinguish partial failure from total failure.
func (a *Aggregator) NumSources() int {
	return len(a.adapters)
}

type fetchResult struct {
	name     string
	articles []core.Article
	err      error
}

// Run executes one aggregation pass: concurrent fan-out to every adapter, a
// join barrier, then dedupe, breaking classification, ranking, capping, and
// novelty against prev. A failing source contributes an error entry, not an
// abort; even an all-failed pass yields a snapshot.
func (a *Aggregator) Run(ctx context.Context, prev core.IDSet) core.Snapshot {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "aggregate.pass")
	defer span.End()

	started := time.Now()
	defer func() {
		metrics.PassDuration.Observe(time.Since(started).Seconds())
	}()

	logger := core.LoggerFromContext(ctx)
	now := a.now().UTC()
	status := a.clock.Status(now)

	results := make([]fetchResult, len(a.adapters))
	var wg sync.WaitGroup
	for i, src := range a.adapters {
		wg.Add(1)
		go func(i int, src adapter.Adapter) {
			defer wg.Done()
			ctx, span := tracer.Start(ctx, "aggregate.fetch")
			span.SetAttributes(attribute.String("source", src.Name()))
			defer span.End()

			articles, err := src.Fetch(ctx)
			results[i] = fetchResult{name: src.Name(), articles: articles, err: err}
		}(i, src)
	}
	wg.Wait()

	var all []core.Article
	var errs []core.SourceError
	for _, result := range results {
		if result.err != nil {
			logger.Warn("source fetch failed", "source", result.name, "error", result.err)
			metrics.SourceErrors.WithLabelValues(result.name).Inc()
			errs = append(errs, core.SourceError{Source: result.name, Message: result.err.Error()})
			continue
		}
		all = append(all, result.articles...)
	}

	if status.IsLive {
		all = append(all, a.liveAnnouncement(now))
	}

	articles := dedupe(all)
	breaking := 0
	for i := range articles {
		articles[i].IsBreaking = a.isBreaking(articles[i], now)
		if articles[i].IsBreaking {
			breaking++
		}
	}

	rank(articles)
	if len(articles) > a.ranking.MaxArticles {
		articles = articles[:a.ranking.MaxArticles]
	}

	newIDs := core.IDSet{}
	for _, article := range articles {
		if !prev.Contains(article.ID) {
			newIDs[article.ID] = struct{}{}
		}
	}

	metrics.ArticlesAggregated.Set(float64(len(articles)))
	metrics.BreakingArticles.Set(float64(breaking))
	if len(prev) > 0 {
		metrics.NewArticles.Add(float64(len(newIDs)))
	}
	span.SetAttributes(
		attribute.Int("articles", len(articles)),
		attribute.Int("source_errors", len(errs)),
	)
	logger.Info("aggregation pass complete",
		"articles", len(articles),
		"breaking", breaking,
		"new", len(newIDs),
		"source_errors", len(errs),
		"live", status.IsLive,
	)

	return core.Snapshot{
		Articles:  articles,
		NewIDs:    newIDs,
		Errors:    errs,
		FetchedAt: now,
	}
}

// liveAnnouncement is the synthetic article pinned to the top while the
// keynote streams.
func (a *Aggregator) liveAnnouncement(now time.Time) core.Article {
	name := a.event.Name
	if name == "" {
		name = "Event"
	}
	return core.Article{
		ID:          core.ArticleID(core.KindLive, a.event.LiveURL),
		Timestamp:   now,
		Kind:        core.KindLive,
		Title:       "🔴 " + name + " Keynote Live Now",
		Description: "The " + name + " keynote is currently streaming live.",
		URL:         a.event.LiveURL,
		SourceName:  "Live Stream",
		IsBreaking:  true,
	}
}

// dedupe keeps one article per id. Last wins; all sources run in the same
// pass, so which duplicate survives is deliberately unspecified.
func dedupe(articles []core.Article) []core.Article {
	index := make(map[string]int, len(articles))
	out := make([]core.Article, 0, len(articles))
	for _, article := range articles {
		if at, seen := index[article.ID]; seen {
			out[at] = article
			continue
		}
		index[article.ID] = len(out)
		out = append(out, article)
	}
	return out
}

// isBreaking classifies urgency. An urgency-keyword match marks an article
// breaking regardless of age: the heuristic is recall-biased on purpose,
// over-marking beats missing a headline during the event.
func (a *Aggregator) isBreaking(article core.Article, now time.Time) bool {
	if article.Kind == core.KindLive {
		return true
	}
	if age := now.Sub(article.Timestamp); age >= 0 && age <= a.ranking.BreakingLookback.Std() {
		return true
	}
	title := strings.ToLower(article.Title)
	for _, keyword := range a.ranking.UrgencyKeywords {
		if strings.Contains(title, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// rank orders by (live kind, breaking, timestamp desc). The sort is stable so
// equal-priority articles keep their arrival order.
func rank(articles []core.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		a, b := articles[i], articles[j]
		aLive, bLive := a.Kind == core.KindLive, b.Kind == core.KindLive
		if aLive != bLive {
			return aLive
		}
		if a.IsBreaking != b.IsBreaking {
			return a.IsBreaking
		}
		return a.Timestamp.After(b.Timestamp)
	})
}
