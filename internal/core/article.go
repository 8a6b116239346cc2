package core

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Kind categorizes where an article came from. It drives ranking and display
// only; adapters decide behavior on their own config, not on Kind.
type Kind string

const (
	// KindOfficial is a first-party vendor feed (Apple Newsroom, Apple Developer).
	KindOfficial Kind = "official"
	// KindNews covers tech-press RSS feeds and the NewsAPI search upstream.
	KindNews Kind = "news"
	// KindCommunity is user-generated discussion (Reddit search).
	KindCommunity Kind = "community"
	// KindLive is the synthetic announcement injected while the keynote streams.
	KindLive Kind = "live"
)

// Article is the canonical, post-normalization record every adapter produces.
// Title and Description are plain text with entities decoded; Description is
// length-capped by the adapter that built it.
type Article struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Kind        Kind      `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url,omitempty"`
	Author      string    `json:"author,omitempty"`
	SourceName  string    `json:"source"`
	IsBreaking  bool      `json:"is_breaking"`
}

// ArticleID derives the stable dedupe key for an article. Two raw items from
// the same kind pointing at the same URL collapse to one record.
func ArticleID(kind Kind, url string) string {
	sum := sha256.Sum256([]byte(string(kind) + "|" + url))
	return hex.EncodeToString(sum[:8])
}

// SourceError records one upstream's failure during a pass. Failures are data,
// not control flow: a failed source never aborts the aggregation.
type SourceError struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// IDSet tracks which article IDs were present in a snapshot.
type IDSet map[string]struct{}

// NewIDSet builds an IDSet from a list of articles.
func NewIDSet(articles []Article) IDSet {
	set := make(IDSet, len(articles))
	for _, a := range articles {
		set[a.ID] = struct{}{}
	}
	return set
}

// Contains reports whether id is in the set. A nil set contains nothing.
func (s IDSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Snapshot is the complete result of one aggregation pass. It is replaced
// wholesale each cycle; nothing is merged incrementally.
type Snapshot struct {
	Articles  []Article     `json:"articles"`
	NewIDs    IDSet         `json:"-"`
	Errors    []SourceError `json:"errors,omitempty"`
	FetchedAt time.Time     `json:"fetched_at"`
}

// IDs returns the id-set of the snapshot's articles, used as the previous-pass
// baseline for novelty detection.
func (s *Snapshot) IDs() IDSet {
	return NewIDSet(s.Articles)
}

// IsNew reports whether the given article id was absent from the previous
// snapshot. Transient display state; it never affects ordering.
func (s *Snapshot) IsNew(id string) bool {
	return s.NewIDs.Contains(id)
}

// LiveStatus is an immutable reading of the event clock. Recomputed on every
// query, it carries no identity.
type LiveStatus struct {
	IsLive            bool   `json:"is_live"`
	IsEventWindow     bool   `json:"is_event_window"`
	MinutesUntilStart int    `json:"minutes_until_start"`
	MinutesUntilEnd   int    `json:"minutes_until_end"`
	LocalTime         string `json:"local_time"`
	PacificTime       string `json:"pacific_time"`
}
