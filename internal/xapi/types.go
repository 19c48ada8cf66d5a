package xapi

import (
	"time"

	"github.com/skillmapio/skillmap/pkg/models"
)

// Typed wire schema for the bookmarks API. Responses are decoded into these
// structs and validated here at the boundary; nothing downstream ever sees
// raw JSON.

type bookmarksResponse struct {
	Data []apiPost `json:"data"`
	Meta apiMeta   `json:"meta"`
}

type apiMeta struct {
	ResultCount int    `json:"result_count"`
	NextToken   string `json:"next_token,omitempty"`
}

type apiPost struct {
	ID            string      `json:"id"`
	Text          string      `json:"text"`
	CreatedAt     string      `json:"created_at"`
	Author        apiAuthor   `json:"author"`
	Entities      apiEntities `json:"entities"`
	PublicMetrics apiMetrics  `json:"public_metrics"`
}

type apiAuthor struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type apiEntities struct {
	URLs     []apiURL     `json:"urls,omitempty"`
	Hashtags []apiHashtag `json:"hashtags,omitempty"`
}

type apiURL struct {
	ExpandedURL string `json:"expanded_url"`
}

type apiHashtag struct {
	Tag string `json:"tag"`
}

type apiMetrics struct {
	LikeCount    int64 `json:"like_count"`
	RetweetCount int64 `json:"retweet_count"`
	ReplyCount   int64 `json:"reply_count"`
	QuoteCount   int64 `json:"quote_count"`
}

// toModel converts a wire post into the domain Post. An unparseable
// timestamp leaves CreatedAt zero; the pipeline's per-item skip policy
// handles such posts.
func (p *apiPost) toModel() models.Post {
	createdAt, err := time.Parse(time.RFC3339, p.CreatedAt)
	if err != nil {
		createdAt = time.Time{}
	}

	urls := make([]string, 0, len(p.Entities.URLs))
	for _, u := range p.Entities.URLs {
		if u.ExpandedURL != "" {
			urls = append(urls, u.ExpandedURL)
		}
	}

	tags := make([]string, 0, len(p.Entities.Hashtags))
	for _, h := range p.Entities.Hashtags {
		if h.Tag != "" {
			tags = append(tags, h.Tag)
		}
	}

	return models.Post{
		ID:        p.ID,
		Author:    p.Author.Username,
		Text:      p.Text,
		CreatedAt: createdAt,
		URLs:      urls,
		Hashtags:  tags,
		Engagement: models.Engagement{
			Likes:   p.PublicMetrics.LikeCount,
			Reposts: p.PublicMetrics.RetweetCount,
			Replies: p.PublicMetrics.ReplyCount,
			Quotes:  p.PublicMetrics.QuoteCount,
		},
	}
}
