package impl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/educalvolpz/wwdc-tracker/internal/retry"
	"github.com/educalvolpz/wwdc-tracker/internal/sources/newsapi"
)

const defaultBaseURL = "https://newsapi.org/v2/everything"

type Client struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	userAgent string
	now       func() time.Time
}

func NewClient(apiKey string, timeout time.Duration, userAgent string) *Client {
	if userAgent == "" {
		userAgent = "WWDCTracker/1.0"
	}
	return &Client{
		client:    &http.Client{Timeout: timeout},
		baseURL:   defaultBaseURL,
		apiKey:    apiKey,
		userAgent: userAgent,
		now:       time.Now,
	}
}

// WithBaseURL overrides the upstream endpoint, for tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

func (c *Client) Search(ctx context.Context, query newsapi.Query) ([]newsapi.Article, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("newsapi: API key not configured")
	}

	endpoint := c.baseURL + "?" + c.buildParams(query).Encode()

	var payload newsapi.Response
	err := retry.Do(ctx, retry.Config{Attempts: 2, BaseDelay: 500 * time.Millisecond}, func() error {
		return c.doSearch(ctx, endpoint, &payload)
	})
	if err != nil {
		return nil, err
	}
	return payload.Articles, nil
}

func (c *Client) doSearch(ctx context.Context, endpoint string, payload *newsapi.Response) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("newsapi: rate limit exceeded")
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("newsapi: API key invalid or missing")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("newsapi: unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(payload); err != nil {
		return fmt.Errorf("newsapi: decode response: %w", err)
	}
	if payload.Status == "error" {
		return fmt.Errorf("newsapi: %s: %s", payload.Code, payload.Message)
	}
	return nil
}

func (c *Client) buildParams(query newsapi.Query) url.Values {
	terms := make([]string, 0, len(query.Terms))
	for _, term := range query.Terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		if strings.Contains(term, " ") {
			term = `"` + term + `"`
		}
		terms = append(terms, term)
	}

	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	language := query.Language
	if language == "" {
		language = "en"
	}

	params := url.Values{}
	params.Set("q", strings.Join(terms, " OR "))
	if len(query.Sources) > 0 {
		params.Set("sources", strings.Join(query.Sources, ","))
	}
	params.Set("sortBy", "publishedAt")
	params.Set("language", language)
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("from", c.fromParam(query))
	return params
}

// fromParam computes the recency bound. The hour window (live mode) wins over
// the day window when both are set.
func (c *Client) fromParam(query newsapi.Query) string {
	now := c.now().UTC()
	if query.FromHours > 0 {
		return now.Add(-time.Duration(query.FromHours) * time.Hour).Format(time.RFC3339)
	}
	days := query.FromDays
	if days <= 0 {
		days = 7
	}
	return now.AddDate(0, 0, -days).Format("2006-01-02")
}
