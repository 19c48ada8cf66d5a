// Package xapi is the client for the paid bookmarks API. It is the only
// component that talks to the network; the analysis core treats it as an
// opaque source of posts.
package xapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/skillmapio/skillmap/internal/config"
	"github.com/skillmapio/skillmap/pkg/models"
)

const (
	defaultBaseURL = "https://api.x.com/2"
	pageSize       = 100
	maxRetries     = 3
	retryDelay     = time.Second

	// costPerRequest is the metered price of one API call, used for the
	// estimated-spend figure in the usage counter.
	costPerRequest = 0.005
)

// UsageCounter tracks paid API consumption for one caller. It is owned by
// the caller and threaded through client calls explicitly; there is no
// process-wide counter.
type UsageCounter struct {
	Requests int
	Posts    int
}

// EstimatedCost returns the metered spend for the recorded requests.
func (u *UsageCounter) EstimatedCost() float64 {
	if u == nil {
		return 0
	}
	return float64(u.Requests) * costPerRequest
}

func (u *UsageCounter) addRequest() {
	if u != nil {
		u.Requests++
	}
}

func (u *UsageCounter) addPosts(n int) {
	if u != nil {
		u.Posts += n
	}
}

// HTTPClient defines the interface for HTTP operations.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client handles communication with the bookmarks API.
type Client struct {
	token      string
	baseURL    string
	httpClient HTTPClient
}

// ClientOption allows configuring the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets a custom base URL.
func WithBaseURL(base string) ClientOption {
	return func(c *Client) {
		c.baseURL = base
	}
}

// NewClient creates an API client. The token is required; it comes from the
// config layer (settings file or SKILLMAP_API_TOKEN).
func NewClient(token string, opts ...ClientOption) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("api token not configured")
	}

	client := &Client{
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// FetchBookmarks fetches up to count bookmarked posts, following pagination
// cursors until the limit or the end of the list. Every request is recorded
// on the caller's usage counter. The count is capped at the import limit.
func (c *Client) FetchBookmarks(ctx context.Context, count int, usage *UsageCounter) ([]models.Post, error) {
	if count <= 0 || count > config.MaxFetchLimit {
		count = config.MaxFetchLimit
	}

	var posts []models.Post
	var cursor string

	for len(posts) < count {
		remaining := count - len(posts)
		size := pageSize
		if remaining < size {
			size = remaining
		}

		page, next, err := c.fetchPage(ctx, size, cursor, usage)
		if err != nil {
			return nil, err
		}

		for i := range page {
			posts = append(posts, page[i].toModel())
		}
		usage.addPosts(len(page))

		if next == "" || len(page) == 0 {
			break
		}
		cursor = next
	}

	log.Debug().
		Int("posts", len(posts)).
		Int("requests", usageRequests(usage)).
		Msg("Bookmark fetch complete")
	return posts, nil
}

// fetchPage performs one paginated request with bounded retries on rate
// limits and server errors.
func (c *Client) fetchPage(ctx context.Context, size int, cursor string, usage *UsageCounter) ([]apiPost, string, error) {
	params := url.Values{}
	params.Set("max_results", fmt.Sprintf("%d", size))
	if cursor != "" {
		params.Set("pagination_token", cursor)
	}
	endpoint := fmt.Sprintf("%s/bookmarks?%s", c.baseURL, params.Encode())

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, "", ctx.Err()
			case <-time.After(retryDelay * time.Duration(attempt)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, "", err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)

		usage.addRequest()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			var decoded bookmarksResponse
			if err := json.Unmarshal(body, &decoded); err != nil {
				return nil, "", fmt.Errorf("decode bookmarks response: %w", err)
			}
			return decoded.Data, decoded.Meta.NextToken, nil

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("api status %d", resp.StatusCode)
			log.Warn().Int("status", resp.StatusCode).Int("attempt", attempt+1).Msg("Retrying bookmark fetch")
			continue

		case resp.StatusCode == http.StatusUnauthorized:
			return nil, "", fmt.Errorf("api token rejected (status 401)")

		default:
			return nil, "", fmt.Errorf("api status %d: %s", resp.StatusCode, truncateBody(body))
		}
	}

	return nil, "", fmt.Errorf("fetch bookmarks after %d attempts: %w", maxRetries, lastErr)
}

func usageRequests(u *UsageCounter) int {
	if u == nil {
		return 0
	}
	return u.Requests
}

func truncateBody(body []byte) string {
	const max = 200
	if len(body) > max {
		body = body[:max]
	}
	return string(body)
}
