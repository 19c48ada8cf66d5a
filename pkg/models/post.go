// Package models contains domain models for skillmap.
package models

import "time"

// Engagement holds the raw engagement counters attached to a post.
// The analysis core does not consume these yet; they are carried through
// so future scoring revisions can use them without another API fetch.
type Engagement struct {
	Likes   int64 `json:"likes"`
	Reposts int64 `json:"reposts"`
	Replies int64 `json:"replies"`
	Quotes  int64 `json:"quotes"`
}

// Post is a single bookmarked social-media post as returned by the fetch
// layer. Posts are immutable inputs; the pipeline never mutates them.
type Post struct {
	ID         string     `json:"id"`
	Author     string     `json:"author"`
	Text       string     `json:"text"`
	CreatedAt  time.Time  `json:"created_at"`
	URLs       []string   `json:"urls,omitempty"`
	Hashtags   []string   `json:"hashtags,omitempty"`
	Engagement Engagement `json:"engagement"`
}

// Valid reports whether a post carries enough data to be analyzed.
// Posts failing this check are skipped per-item, never fatal.
func (p *Post) Valid() bool {
	return p.ID != "" && p.Text != "" && !p.CreatedAt.IsZero()
}
