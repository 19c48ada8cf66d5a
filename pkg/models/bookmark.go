package models

import "time"

// TopicSignals is the structured topic evidence extracted from one post:
// hashtags, link domains, and text keywords, plus the deduplicated union of
// all three. Every entry is lowercase, trimmed, and non-empty.
type TopicSignals struct {
	Hashtags []string `json:"hashtags,omitempty"`
	Domains  []string `json:"domains,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
	All      []string `json:"all,omitempty"`
}

// Bookmark is a post enriched with its extracted topic signals and the
// single primary topic used to bucket it into a cluster. Created once by
// the topic extractor and read-only afterward.
type Bookmark struct {
	Post         Post         `json:"post"`
	Signals      TopicSignals `json:"signals"`
	PrimaryTopic string       `json:"primaryTopic"`
	SavedAt      time.Time    `json:"savedAt"`
}
