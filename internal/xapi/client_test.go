package xapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apiPostFixture(id string) apiPost {
	return apiPost{
		ID:        id,
		Text:      "rust macros deep dive",
		CreatedAt: "2025-06-01T12:00:00Z",
		Author:    apiAuthor{ID: "u1", Username: "alice"},
		Entities: apiEntities{
			URLs:     []apiURL{{ExpandedURL: "https://github.com/rust-lang/rust"}},
			Hashtags: []apiHashtag{{Tag: "rust"}},
		},
		PublicMetrics: apiMetrics{LikeCount: 10, RetweetCount: 2},
	}
}

func TestNewClientRequiresToken(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)

	c, err := NewClient("token")
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestFetchBookmarksSinglePage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "10", r.URL.Query().Get("max_results"))

		resp := bookmarksResponse{
			Data: []apiPost{apiPostFixture("1"), apiPostFixture("2")},
			Meta: apiMeta{ResultCount: 2},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client, err := NewClient("test-token", WithBaseURL(server.URL))
	require.NoError(t, err)

	usage := &UsageCounter{}
	posts, err := client.FetchBookmarks(context.Background(), 10, usage)

	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "alice", posts[0].Author)
	assert.Equal(t, []string{"https://github.com/rust-lang/rust"}, posts[0].URLs)
	assert.Equal(t, []string{"rust"}, posts[0].Hashtags)
	assert.Equal(t, int64(10), posts[0].Engagement.Likes)
	assert.False(t, posts[0].CreatedAt.IsZero())

	assert.Equal(t, 1, usage.Requests)
	assert.Equal(t, 2, usage.Posts)
	assert.InDelta(t, costPerRequest, usage.EstimatedCost(), 0.0001)
}

func TestFetchBookmarksPagination(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		var resp bookmarksResponse
		if r.URL.Query().Get("pagination_token") == "" {
			for i := 0; i < 100; i++ {
				resp.Data = append(resp.Data, apiPostFixture(fmt.Sprintf("a%d", i)))
			}
			resp.Meta = apiMeta{ResultCount: 100, NextToken: "page2"}
		} else {
			assert.Equal(t, "page2", r.URL.Query().Get("pagination_token"))
			resp.Data = []apiPost{apiPostFixture("b0")}
			resp.Meta = apiMeta{ResultCount: 1}
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client, err := NewClient("test-token", WithBaseURL(server.URL))
	require.NoError(t, err)

	usage := &UsageCounter{}
	posts, err := client.FetchBookmarks(context.Background(), 150, usage)

	require.NoError(t, err)
	assert.Len(t, posts, 101)
	assert.Equal(t, 2, requests)
	assert.Equal(t, 2, usage.Requests)
}

func TestFetchBookmarksCapsAtImportLimit(t *testing.T) {
	var maxResults []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		maxResults = append(maxResults, r.URL.Query().Get("max_results"))
		var resp bookmarksResponse
		for i := 0; i < 100; i++ {
			resp.Data = append(resp.Data, apiPostFixture(fmt.Sprintf("p%d-%d", len(maxResults), i)))
		}
		resp.Meta = apiMeta{ResultCount: 100, NextToken: "more"}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client, err := NewClient("test-token", WithBaseURL(server.URL))
	require.NoError(t, err)

	// Requesting far beyond the import limit stops at 800 posts.
	posts, err := client.FetchBookmarks(context.Background(), 10000, nil)

	require.NoError(t, err)
	assert.Len(t, posts, 800)
	assert.Len(t, maxResults, 8)
}

func TestFetchBookmarksRetriesOnRateLimit(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(bookmarksResponse{
			Data: []apiPost{apiPostFixture("1")},
			Meta: apiMeta{ResultCount: 1},
		})
	}))
	defer server.Close()

	client, err := NewClient("test-token", WithBaseURL(server.URL))
	require.NoError(t, err)

	usage := &UsageCounter{}
	posts, err := client.FetchBookmarks(context.Background(), 1, usage)

	require.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, 2, attempts)
	// Both attempts count against the paid quota.
	assert.Equal(t, 2, usage.Requests)
}

func TestFetchBookmarksUnauthorizedFailsFast(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client, err := NewClient("bad-token", WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = client.FetchBookmarks(context.Background(), 10, nil)

	assert.Error(t, err)
	assert.Equal(t, 1, attempts, "401 must not be retried")
}

func TestToModelBadTimestamp(t *testing.T) {
	p := apiPostFixture("1")
	p.CreatedAt = "not-a-time"

	post := p.toModel()

	assert.True(t, post.CreatedAt.IsZero())
	assert.False(t, post.Valid(), "zero timestamp flows into the pipeline skip policy")
}
