package domain

import (
	"sort"
	"time"
)

// Post is a single channel message pulled from Telegram.
type Post struct {
	ID       int64
	Date     int64 // epoch seconds
	Text     string
	Markdown string
	Channel  string
	ChatID   int64
}

// PublishedAt converts the epoch date into UTC time.
func (p Post) PublishedAt() time.Time {
	return time.Unix(p.Date, 0).UTC()
}

// CitationMatch is the classifier output for one post.
type CitationMatch struct {
	PostID         int64
	SourceText     string
	ArticleNumbers []int
}

// Ledger is the set of post identifiers that were already processed.
type Ledger map[int64]struct{}

// NewLedger builds a ledger seeded with ids.
func NewLedger(ids ...int64) Ledger {
	l := make(Ledger, len(ids))
	for _, id := range ids {
		l[id] = struct{}{}
	}
	return l
}

// Has reports whether id was processed before.
func (l Ledger) Has(id int64) bool {
	_, ok := l[id]
	return ok
}

// Mark records id as processed.
func (l Ledger) Mark(id int64) {
	l[id] = struct{}{}
}

// Len returns the number of processed ids.
func (l Ledger) Len() int {
	return len(l)
}

// IDs returns the processed ids in ascending order.
func (l Ledger) IDs() []int64 {
	ids := make([]int64, 0, len(l))
	for id := range l {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
