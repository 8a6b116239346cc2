package adapter

import (
	"context"
	"testing"

	"github.com/educalvolpz/wwdc-tracker/internal/config"
	"github.com/educalvolpz/wwdc-tracker/internal/sources/newsapi"
	"github.com/educalvolpz/wwdc-tracker/internal/sources/newsapi/mock"
)

func searchArticle(title, description, source string) newsapi.Article {
	a := newsapi.Article{
		Title:       title,
		Description: description,
		URL:         "https://example.com/" + title,
		PublishedAt: "2025-06-09T17:00:00Z",
	}
	a.Source.Name = source
	return a
}

var testSearch = config.SearchConfig{
	Enabled:       true,
	Terms:         []string{"WWDC 2025", "WWDC25"},
	Topics:        []string{"apple", "wwdc", "keynote"},
	FromDays:      7,
	LiveFromHours: 6,
}

func TestNewsAPIAdapterRelevanceFilter(t *testing.T) {
	client := &mock.Client{Articles: []newsapi.Article{
		searchArticle("Apple announces new keynote date", "WWDC details inside", "TechCrunch"),
		searchArticle("Completely unrelated gadget review", "nothing to see here", "The Verge"),
	}}
	a, err := NewNewsAPI(testSearch, testRanking, client, nil)
	if err != nil {
		t.Fatalf("constructor failed: %v", err)
	}

	articles, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected relevance filter to keep 1 article, got %d", len(articles))
	}
	if articles[0].SourceName != "TechCrunch" {
		t.Errorf("upstream source name lost: %q", articles[0].SourceName)
	}
}

func TestNewsAPIAdapterLiveModeShrinksWindow(t *testing.T) {
	client := &mock.Client{}
	live := false
	a, err := NewNewsAPI(testSearch, testRanking, client, func() bool { return live })
	if err != nil {
		t.Fatalf("constructor failed: %v", err)
	}

	if _, err := a.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	live = true
	if _, err := a.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if len(client.Queries) != 2 {
		t.Fatalf("expected 2 recorded queries, got %d", len(client.Queries))
	}
	if client.Queries[0].FromHours != 0 {
		t.Errorf("idle query should use the day window, got FromHours=%d", client.Queries[0].FromHours)
	}
	if client.Queries[1].FromHours != 6 {
		t.Errorf("live query should use the hour window, got FromHours=%d", client.Queries[1].FromHours)
	}
}

func TestNewsAPIAdapterExprRule(t *testing.T) {
	search := testSearch
	search.Rule = `source != "Sketchy Blog"`

	client := &mock.Client{Articles: []newsapi.Article{
		searchArticle("Apple keynote recap", "full wwdc coverage", "TechCrunch"),
		searchArticle("Apple keynote rumor", "wwdc speculation", "Sketchy Blog"),
	}}
	a, err := NewNewsAPI(search, testRanking, client, nil)
	if err != nil {
		t.Fatalf("constructor failed: %v", err)
	}

	articles, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(articles) != 1 || articles[0].SourceName != "TechCrunch" {
		t.Fatalf("expr rule should drop the excluded source, got %+v", articles)
	}
}

func TestNewsAPIAdapterRejectsBadRule(t *testing.T) {
	search := testSearch
	search.Rule = `title ~~ garbage(`
	if _, err := NewNewsAPI(search, testRanking, &mock.Client{}, nil); err == nil {
		t.Error("expected compile error for malformed rule")
	}
}
