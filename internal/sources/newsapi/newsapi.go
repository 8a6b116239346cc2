// Package newsapi wraps the NewsAPI "everything" search endpoint. Unlike the
// RSS upstreams it returns pre-structured JSON, so no feed parsing is needed.
package newsapi

import "context"

// Query describes one search against the upstream.
type Query struct {
	// Terms are OR-joined; multi-word terms are quoted for phrase matching.
	Terms []string
	// Sources is the publisher allow-list sent to the upstream.
	Sources []string
	// FromDays bounds recency. In live mode callers shrink this to hours via
	// FromHours, which wins when non-zero.
	FromDays  int
	FromHours int
	PageSize  int
	Language  string
}

// Article is the upstream's article shape.
type Article struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

// Response is the upstream envelope. Code/Message are set on error payloads.
type Response struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
	Code         string    `json:"code"`
	Message      string    `json:"message"`
}

// Client performs searches against NewsAPI.
type Client interface {
	Search(ctx context.Context, query Query) ([]Article, error)
}
