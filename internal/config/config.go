// Package config holds the tracker document schema. A tracker.yaml describes
// the event window, the upstream sources, and the ranking/refresh knobs; env
// variables layer secrets and operational overrides on top (see env.go).
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/educalvolpz/wwdc-tracker/internal/core"
	"gopkg.in/yaml.v3"
)

// Document is the top-level structure of a tracker.yaml file.
type Document struct {
	Name    string        `yaml:"name"`
	Event   EventConfig   `yaml:"event"`
	Feeds   []FeedConfig  `yaml:"feeds"`
	Search  SearchConfig  `yaml:"search"`
	Reddit  RedditConfig  `yaml:"reddit"`
	Ranking RankingConfig `yaml:"ranking"`
	Refresh RefreshConfig `yaml:"refresh"`
	Server  ServerConfig  `yaml:"server"`
}

// EventConfig pins the tracked event's calendar and daily window. The window
// is evaluated in Timezone only; DisplayTimezone is for clock display.
type EventConfig struct {
	Name            string `yaml:"name"`
	StartDate       string `yaml:"start_date"` // YYYY-MM-DD
	EndDate         string `yaml:"end_date"`   // YYYY-MM-DD
	Timezone        string `yaml:"timezone"`
	DisplayTimezone string `yaml:"display_timezone"`
	DailyStart      string `yaml:"daily_start"` // HH:MM in Timezone
	DailyEnd        string `yaml:"daily_end"`   // HH:MM in Timezone
	WeekdaysOnly    bool   `yaml:"weekdays_only"`
	LiveURL         string `yaml:"live_url"`
}

// FeedConfig describes one RSS publisher.
type FeedConfig struct {
	Name string    `yaml:"name"`
	URL  string    `yaml:"url"`
	Kind core.Kind `yaml:"kind"`
}

// SearchConfig describes the NewsAPI keyword-search upstream.
type SearchConfig struct {
	Enabled bool     `yaml:"enabled"`
	Terms   []string `yaml:"terms"`
	Sources []string `yaml:"sources"`
	// Topics is the relevance allow-list: an article survives only if its
	// title+description contains at least one topic, case-folded.
	Topics []string `yaml:"topics"`
	// Rule is an optional expr-lang expression over {title, description,
	// source, author}; when set it runs after the topic filter.
	Rule          string `yaml:"rule,omitempty"`
	FromDays      int    `yaml:"from_days,omitempty"`
	LiveFromHours int    `yaml:"live_from_hours,omitempty"`
	PageSize      int    `yaml:"page_size,omitempty"`
	Language      string `yaml:"language,omitempty"`
}

// RedditConfig describes the community search upstream.
type RedditConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Subreddit string `yaml:"subreddit"`
	Query     string `yaml:"query"`
	Limit     int    `yaml:"limit,omitempty"`
}

// RankingConfig carries the thresholds the aggregator uses. Every observed
// source revision used different numbers, so all of them are named knobs.
type RankingConfig struct {
	BreakingLookback Duration `yaml:"breaking_lookback,omitempty"`
	UrgencyKeywords  []string `yaml:"urgency_keywords"`
	MaxArticles      int      `yaml:"max_articles,omitempty"`
	DescriptionLimit int      `yaml:"description_limit,omitempty"`
	// MinDescription is the length under which the extended content field
	// replaces the feed description.
	MinDescription int `yaml:"min_description,omitempty"`
}

// RefreshConfig drives the scheduler.
type RefreshConfig struct {
	Interval     Duration `yaml:"interval,omitempty"`
	LiveInterval Duration `yaml:"live_interval,omitempty"`
	// Cron optionally forces a refresh on a schedule (e.g. keynote start),
	// in the event timezone.
	Cron string `yaml:"cron,omitempty"`
}

type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// Load reads, defaults, and validates a tracker document.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse tracker document: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) applyDefaults() {
	if d.Event.Timezone == "" {
		d.Event.Timezone = "Europe/Madrid"
	}
	if d.Event.DisplayTimezone == "" {
		d.Event.DisplayTimezone = "America/Los_Angeles"
	}
	if d.Search.FromDays <= 0 {
		d.Search.FromDays = 7
	}
	if d.Search.LiveFromHours <= 0 {
		d.Search.LiveFromHours = 6
	}
	if d.Search.PageSize <= 0 {
		d.Search.PageSize = 50
	}
	if d.Search.Language == "" {
		d.Search.Language = "en"
	}
	if d.Reddit.Limit <= 0 {
		d.Reddit.Limit = 25
	}
	if d.Ranking.BreakingLookback <= 0 {
		d.Ranking.BreakingLookback = Duration(time.Hour)
	}
	if d.Ranking.MaxArticles <= 0 {
		d.Ranking.MaxArticles = 100
	}
	if d.Ranking.DescriptionLimit <= 0 {
		d.Ranking.DescriptionLimit = 300
	}
	if d.Ranking.MinDescription <= 0 {
		d.Ranking.MinDescription = 50
	}
	if d.Refresh.Interval <= 0 {
		d.Refresh.Interval = Duration(2 * time.Minute)
	}
	if d.Refresh.LiveInterval <= 0 {
		d.Refresh.LiveInterval = Duration(30 * time.Second)
	}
	if d.Server.Addr == "" {
		d.Server.Addr = ":8080"
	}
}

// Validate checks the document for the errors that should stop startup.
func (d *Document) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("tracker name is required")
	}
	if len(d.Feeds) == 0 && !d.Search.Enabled && !d.Reddit.Enabled {
		return fmt.Errorf("at least one source (feed, search, or reddit) is required")
	}

	for i, feed := range d.Feeds {
		if feed.Name == "" || feed.URL == "" {
			return fmt.Errorf("feed %d: name and url are required", i)
		}
		switch feed.Kind {
		case core.KindOfficial, core.KindNews, core.KindCommunity:
		case "":
			return fmt.Errorf("feed %q: kind is required", feed.Name)
		default:
			return fmt.Errorf("feed %q: unknown kind %q", feed.Name, feed.Kind)
		}
	}

	if d.Search.Enabled {
		if len(d.Search.Terms) == 0 {
			return fmt.Errorf("search: at least one term is required")
		}
		if len(d.Search.Topics) == 0 {
			return fmt.Errorf("search: at least one relevance topic is required")
		}
	}
	if d.Reddit.Enabled {
		if d.Reddit.Subreddit == "" || d.Reddit.Query == "" {
			return fmt.Errorf("reddit: subreddit and query are required")
		}
	}

	if err := d.Event.validate(); err != nil {
		return fmt.Errorf("event: %w", err)
	}
	return nil
}

func (e *EventConfig) validate() error {
	if e.StartDate == "" || e.EndDate == "" {
		return fmt.Errorf("start_date and end_date are required")
	}
	start, err := time.Parse("2006-01-02", e.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := time.Parse("2006-01-02", e.EndDate)
	if err != nil {
		return fmt.Errorf("invalid end_date: %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("end_date precedes start_date")
	}
	if _, err := time.LoadLocation(e.Timezone); err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}
	if _, err := time.LoadLocation(e.DisplayTimezone); err != nil {
		return fmt.Errorf("invalid display_timezone: %w", err)
	}
	for _, hm := range []string{e.DailyStart, e.DailyEnd} {
		if hm == "" {
			return fmt.Errorf("daily_start and daily_end are required")
		}
		if _, err := time.Parse("15:04", hm); err != nil {
			return fmt.Errorf("invalid daily window time %q: %w", hm, err)
		}
	}
	return nil
}
