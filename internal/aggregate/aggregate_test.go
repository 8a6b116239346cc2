package aggregate

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/educalvolpz/wwdc-tracker/internal/adapter"
	"github.com/educalvolpz/wwdc-tracker/internal/config"
	"github.com/educalvolpz/wwdc-tracker/internal/core"
	"github.com/educalvolpz/wwdc-tracker/internal/event"
)

type fakeAdapter struct {
	name     string
	kind     core.Kind
	articles []core.Article
	err      error
}

func (f *fakeAdapter) Name() string    { return f.name }
func (f *fakeAdapter) Kind() core.Kind { return f.kind }
func (f *fakeAdapter) Fetch(ctx context.Context) ([]core.Article, error) {
	_ = ctx
	return f.articles, f.err
}

var testEvent = config.EventConfig{
	Name:            "WWDC25",
	StartDate:       "2025-06-09",
	EndDate:         "2025-06-13",
	Timezone:        "Europe/Madrid",
	DisplayTimezone: "America/Los_Angeles",
	DailyStart:      "18:30",
	DailyEnd:        "22:30",
	WeekdaysOnly:    true,
	LiveURL:         "https://www.apple.com/apple-events/",
}

var testRanking = config.RankingConfig{
	BreakingLookback: config.Duration(time.Hour),
	UrgencyKeywords:  []string{"breaking", "announces", "unveils", "iOS 26"},
	MaxArticles:      100,
	DescriptionLimit: 300,
	MinDescription:   50,
}

// offHours is an event-week instant outside the daily window (Madrid 14:00).
var offHours = time.Date(2025, time.June, 9, 12, 0, 0, 0, time.UTC)

// onAir is 19:30 Madrid on keynote day.
var onAir = time.Date(2025, time.June, 9, 17, 30, 0, 0, time.UTC)

func newAggregator(t *testing.T, now time.Time, adapters ...adapter.Adapter) *Aggregator {
	t.Helper()
	clock, err := event.NewClock(testEvent)
	if err != nil {
		t.Fatalf("clock construction failed: %v", err)
	}
	agg := New(adapters, clock, testRanking, testEvent)
	agg.now = func() time.Time { return now }
	return agg
}

func article(kind core.Kind, url, title string, ts time.Time) core.Article {
	return core.Article{
		ID:         core.ArticleID(kind, url),
		Timestamp:  ts,
		Kind:       kind,
		Title:      title,
		URL:        url,
		SourceName: "test",
	}
}

func TestRunMergesAndDeduplicates(t *testing.T) {
	shared := article(core.KindNews, "https://example.com/shared", "Quiet story", offHours.Add(-24*time.Hour))
	a := &fakeAdapter{name: "A", kind: core.KindNews, articles: []core.Article{
		shared,
		article(core.KindNews, "https://example.com/a", "Another quiet story", offHours.Add(-23*time.Hour)),
	}}
	b := &fakeAdapter{name: "B", kind: core.KindNews, articles: []core.Article{shared}}

	snap := newAggregator(t, offHours, a, b).Run(context.Background(), nil)

	if len(snap.Articles) != 2 {
		t.Fatalf("expected 2 articles after dedupe, got %d", len(snap.Articles))
	}
	seen := map[string]bool{}
	for _, art := range snap.Articles {
		if seen[art.ID] {
			t.Errorf("duplicate id %q in snapshot", art.ID)
		}
		seen[art.ID] = true
	}
}

func TestRunIsolatesFailedSource(t *testing.T) {
	ok1 := &fakeAdapter{name: "Apple Newsroom", kind: core.KindOfficial, articles: []core.Article{
		article(core.KindOfficial, "https://apple.com/1", "Quiet update", offHours.Add(-20*time.Hour)),
	}}
	down := &fakeAdapter{name: "9to5Mac", kind: core.KindNews, err: errors.New("unexpected status 500 Internal Server Error")}
	ok2 := &fakeAdapter{name: "TechCrunch", kind: core.KindNews, articles: []core.Article{
		article(core.KindNews, "https://techcrunch.com/1", "Another quiet update", offHours.Add(-21*time.Hour)),
	}}

	snap := newAggregator(t, offHours, ok1, down, ok2).Run(context.Background(), nil)

	if len(snap.Articles) != 2 {
		t.Fatalf("expected the two healthy sources' articles, got %d", len(snap.Articles))
	}
	if len(snap.Errors) != 1 {
		t.Fatalf("expected 1 recorded error, got %d", len(snap.Errors))
	}
	if snap.Errors[0].Source != "9to5Mac" {
		t.Errorf("error should name the failed source, got %q", snap.Errors[0].Source)
	}
	if snap.Errors[0].Message == "" {
		t.Error("error message should be recorded verbatim")
	}
}

func TestBreakingClassification(t *testing.T) {
	tests := []struct {
		name  string
		title string
		ts    time.Time
		want  bool
	}{
		{"recent timestamp", "A perfectly calm headline", offHours.Add(-30 * time.Minute), true},
		{"stale keyword", "Apple unveils something big", offHours.Add(-26 * time.Hour), true},
		{"stale codename", "Hands on with iOS 26", offHours.Add(-48 * time.Hour), true},
		{"stale and quiet", "A retrospective on WWDC 2019", offHours.Add(-26 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeAdapter{name: "S", kind: core.KindNews, articles: []core.Article{
				article(core.KindNews, "https://example.com/x", tt.title, tt.ts),
			}}
			snap := newAggregator(t, offHours, src).Run(context.Background(), nil)
			if len(snap.Articles) != 1 {
				t.Fatalf("expected 1 article, got %d", len(snap.Articles))
			}
			if snap.Articles[0].IsBreaking != tt.want {
				t.Errorf("IsBreaking = %v, want %v", snap.Articles[0].IsBreaking, tt.want)
			}
		})
	}
}

func TestRankOrderInvariant(t *testing.T) {
	var articles []core.Article
	base := offHours.Add(-72 * time.Hour)
	for i := 0; i < 6; i++ {
		title := fmt.Sprintf("Quiet story %d", i)
		if i%2 == 0 {
			title = fmt.Sprintf("Apple announces thing %d", i)
		}
		articles = append(articles, article(core.KindNews, fmt.Sprintf("https://example.com/%d", i), title, base.Add(time.Duration(i)*time.Hour)))
	}
	src := &fakeAdapter{name: "S", kind: core.KindNews, articles: articles}

	snap := newAggregator(t, offHours, src).Run(context.Background(), nil)

	for i := 1; i < len(snap.Articles); i++ {
		a, b := snap.Articles[i-1], snap.Articles[i]
		aKey := [2]bool{a.Kind == core.KindLive, a.IsBreaking}
		bKey := [2]bool{b.Kind == core.KindLive, b.IsBreaking}
		switch {
		case aKey == bKey:
			if a.Timestamp.Before(b.Timestamp) {
				t.Errorf("position %d: timestamp order violated (%v before %v)", i, a.Timestamp, b.Timestamp)
			}
		case !aKey[0] && bKey[0], aKey == [2]bool{false, false} && bKey[1]:
			t.Errorf("position %d: priority order violated (%v after %v)", i, aKey, bKey)
		}
	}
}

func TestCapAppliedAfterSort(t *testing.T) {
	// One breaking article older than a pile of quiet ones: the cap must keep
	// it because capping happens after ranking.
	articles := []core.Article{
		article(core.KindNews, "https://example.com/breaking", "Apple unveils the big one", offHours.Add(-72*time.Hour)),
	}
	for i := 0; i < 5; i++ {
		articles = append(articles, article(core.KindNews, fmt.Sprintf("https://example.com/q%d", i), fmt.Sprintf("Quiet story %d", i), offHours.Add(-time.Duration(i+2)*time.Hour)))
	}
	src := &fakeAdapter{name: "S", kind: core.KindNews, articles: articles}

	agg := newAggregator(t, offHours, src)
	agg.ranking.MaxArticles = 3
	snap := agg.Run(context.Background(), nil)

	if len(snap.Articles) != 3 {
		t.Fatalf("expected capped output of 3, got %d", len(snap.Articles))
	}
	if snap.Articles[0].URL != "https://example.com/breaking" {
		t.Errorf("capping discarded a higher-priority article; head is %q", snap.Articles[0].Title)
	}
}

func TestNoveltyAcrossPasses(t *testing.T) {
	src := &fakeAdapter{name: "S", kind: core.KindNews, articles: []core.Article{
		article(core.KindNews, "https://example.com/a", "Quiet story", offHours.Add(-20*time.Hour)),
		article(core.KindNews, "https://example.com/b", "Another quiet story", offHours.Add(-21*time.Hour)),
	}}
	agg := newAggregator(t, offHours, src)

	first := agg.Run(context.Background(), nil)
	if len(first.NewIDs) != 2 {
		t.Errorf("first pass should mark everything new, got %d", len(first.NewIDs))
	}

	second := agg.Run(context.Background(), first.IDs())
	if len(second.NewIDs) != 0 {
		t.Errorf("identical second pass should mark nothing new, got %d", len(second.NewIDs))
	}
	if !reflect.DeepEqual(first.Articles, second.Articles) {
		t.Error("identical inputs should produce identical articles across passes")
	}
}

func TestLiveAnnouncementInjectedAndPinned(t *testing.T) {
	src := &fakeAdapter{name: "S", kind: core.KindNews, articles: []core.Article{
		article(core.KindNews, "https://example.com/fresh", "Apple announces iOS 26", onAir.Add(-10*time.Minute)),
	}}
	snap := newAggregator(t, onAir, src).Run(context.Background(), nil)

	if len(snap.Articles) != 2 {
		t.Fatalf("expected live announcement plus one article, got %d", len(snap.Articles))
	}
	head := snap.Articles[0]
	if head.Kind != core.KindLive {
		t.Errorf("live announcement should rank first, head kind = %q", head.Kind)
	}
	if !head.IsBreaking {
		t.Error("live announcement should always be breaking")
	}
	if head.URL != testEvent.LiveURL {
		t.Errorf("live announcement URL = %q", head.URL)
	}
}

func TestAllSourcesFailedStillReturnsSnapshot(t *testing.T) {
	a := &fakeAdapter{name: "A", kind: core.KindNews, err: errors.New("network is down")}
	b := &fakeAdapter{name: "B", kind: core.KindNews, err: errors.New("network is down")}

	agg := newAggregator(t, offHours, a, b)
	snap := agg.Run(context.Background(), nil)

	if len(snap.Articles) != 0 {
		t.Errorf("expected empty article list, got %d", len(snap.Articles))
	}
	if len(snap.Errors) != agg.NumSources() {
		t.Errorf("expected one error per source, got %d", len(snap.Errors))
	}
}
