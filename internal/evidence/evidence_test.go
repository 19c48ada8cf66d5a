package evidence

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/skillmapio/skillmap/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookmarkWith(id, author, text string, urls, keywords []string) models.Bookmark {
	return models.Bookmark{
		Post: models.Post{
			ID:        id,
			Author:    author,
			Text:      text,
			CreatedAt: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
			URLs:      urls,
		},
		Signals: models.TopicSignals{Keywords: keywords, All: keywords},
		SavedAt: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuildRelevance(t *testing.T) {
	cluster := &models.TopicCluster{
		ID:       "rust",
		Keywords: []string{"rust", "async", "wasm", "embedded"},
	}
	members := []models.Bookmark{
		bookmarkWith("1", "alice", "rust async deep dive", nil, []string{"rust", "async"}),
		bookmarkWith("2", "bob", "full coverage", nil, []string{"rust", "async", "wasm", "embedded"}),
		bookmarkWith("3", "carol", "unrelated", nil, []string{"gardening"}),
	}

	items := Build(cluster, members)

	require.Len(t, items, 3)
	// Sorted by relevance descending.
	assert.Equal(t, "bob", items[0].Author)
	assert.InDelta(t, 1.0, items[0].Relevance, 0.001)
	assert.InDelta(t, 0.5, items[1].Relevance, 0.001)
	assert.InDelta(t, 0.0, items[2].Relevance, 0.001)
}

func TestBuildCapsAtTwenty(t *testing.T) {
	cluster := &models.TopicCluster{ID: "go", Keywords: []string{"go"}}
	var members []models.Bookmark
	for i := 0; i < 30; i++ {
		members = append(members, bookmarkWith(fmt.Sprintf("p%d", i), "alice", "go post", nil, []string{"go"}))
	}

	items := Build(cluster, members)

	assert.Len(t, items, MaxPerSkill)
}

func TestBuildTruncatesTitle(t *testing.T) {
	cluster := &models.TopicCluster{ID: "go", Keywords: []string{"go"}}
	long := strings.Repeat("x", 400)
	items := Build(cluster, []models.Bookmark{bookmarkWith("1", "alice", long, nil, []string{"go"})})

	require.Len(t, items, 1)
	assert.Len(t, items[0].Title, 200)
}

func TestBuildSourceURLFallsBackToPermalink(t *testing.T) {
	cluster := &models.TopicCluster{ID: "go", Keywords: []string{"go"}}

	items := Build(cluster, []models.Bookmark{
		bookmarkWith("42", "alice", "no links here", nil, []string{"go"}),
		bookmarkWith("43", "bob", "with link", []string{"https://github.com/golang/go"}, []string{"go"}),
	})

	require.Len(t, items, 2)
	byAuthor := map[string]models.SkillEvidence{}
	for _, item := range items {
		byAuthor[item.Author] = item
	}
	assert.Equal(t, "https://x.com/alice/status/42", byAuthor["alice"].URL)
	assert.Equal(t, "x.com", byAuthor["alice"].Domain)
	assert.Equal(t, "github.com", byAuthor["bob"].Domain)
}

func TestQualityGithubLongTitle(t *testing.T) {
	// A 120-char title on github.com scores at least 0.3 (domain) + 0.2
	// (title) before pool bonuses.
	items := []models.SkillEvidence{
		{URL: "https://github.com/a/b", Title: strings.Repeat("t", 120), Author: "alice", Domain: "github.com"},
	}
	rateQuality(items)

	assert.GreaterOrEqual(t, items[0].Quality, 0.5)
	assert.LessOrEqual(t, items[0].Quality, 1.0)
}

func TestQualityComponents(t *testing.T) {
	tests := []struct {
		name   string
		domain string
		want   float64
	}{
		{"credible exact", "github.com", 0.3},
		{"credible docs prefix", "docs.rs", 0.3},
		{"credible blog prefix", "blog.cloudflare.com", 0.3},
		{"platform", "x.com", 0.1},
		{"other", "example.com", 0.15},
		{"empty", "", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, domainComponent(tt.domain), 0.001)
		})
	}
}

func TestQualityPoolBonuses(t *testing.T) {
	// Three authors and three domains: every item gets +0.2 and +0.1.
	items := []models.SkillEvidence{
		{URL: "u1", Title: "short", Author: "alice", Domain: "a.example.com"},
		{URL: "u2", Title: "short", Author: "bob", Domain: "b.example.com"},
		{URL: "u3", Title: "short", Author: "carol", Domain: "c.example.com"},
	}
	rateQuality(items)

	// 0 (title) + 0.15 (other domain) + 0.2 + 0.1
	for _, item := range items {
		assert.InDelta(t, 0.45, item.Quality, 0.001)
	}
}

func TestQualityCappedAtOne(t *testing.T) {
	items := []models.SkillEvidence{
		{URL: "u1", Title: strings.Repeat("t", 150), Author: "alice", Domain: "github.com"},
		{URL: "u2", Title: strings.Repeat("t", 150), Author: "bob", Domain: "arxiv.org"},
		{URL: "u3", Title: strings.Repeat("t", 150), Author: "carol", Domain: "dev.to"},
	}
	rateQuality(items)

	for _, item := range items {
		assert.LessOrEqual(t, item.Quality, 1.0)
	}
}

func TestMeanQuality(t *testing.T) {
	assert.Zero(t, MeanQuality(nil))

	items := []models.SkillEvidence{{Quality: 0.5}, {Quality: 0.8}}
	assert.InDelta(t, 0.65, MeanQuality(items), 0.001)
}

func TestExtractActionableBuckets(t *testing.T) {
	items := []models.SkillEvidence{
		{URL: "https://github.com/rust-lang/rust", Title: "repo", Domain: "github.com"},
		{URL: "https://www.npmjs.com/package/react", Title: "tool", Domain: "npmjs.com"},
		{URL: "https://hub.docker.com/_/postgres", Title: "container", Domain: "hub.docker.com"},
		{URL: "https://docs.example.readthedocs.io/en/latest", Title: "docs", Domain: "readthedocs.io"},
		{URL: "https://medium.com/@a/post", Title: "article", Domain: "medium.com"},
		{URL: "https://youtube.com/watch?v=1", Title: "video", Domain: "youtube.com"},
		{URL: "https://jobs.lever.co/acme/123", Title: "job", Domain: "jobs.lever.co"},
		{URL: "https://random.site/page", Title: "misc", Domain: "random.site"},
	}

	content := ExtractActionable(items)

	require.NotNil(t, content)
	require.Len(t, content.Repos, 1)
	assert.Equal(t, "clone/test", content.Repos[0].Action)
	require.Len(t, content.Tools, 2)
	assert.Equal(t, "install/evaluate", content.Tools[0].Action)
	assert.Equal(t, "run/deploy", content.Tools[1].Action)
	require.Len(t, content.Docs, 1)
	assert.Equal(t, "read/learn", content.Docs[0].Action)
	// medium + youtube + unmatched default
	require.Len(t, content.Posts, 3)
	assert.Equal(t, "watch/learn", content.Posts[1].Action)
	assert.Equal(t, "explore", content.Posts[2].Action)
	require.Len(t, content.Jobs, 1)
	assert.Equal(t, "apply/explore", content.Jobs[0].Action)
}

func TestExtractActionableDedupsByURL(t *testing.T) {
	items := []models.SkillEvidence{
		{URL: "https://github.com/a/b", Title: "one"},
		{URL: "https://github.com/a/b", Title: "two"},
		{URL: "", Title: "empty"},
	}

	content := ExtractActionable(items)

	require.NotNil(t, content)
	assert.Equal(t, 1, content.Total())
}

func TestExtractActionableFirstMatchWins(t *testing.T) {
	// URL matching both the repo and blog rules classifies as repo because
	// the repo rule comes first in the table.
	items := []models.SkillEvidence{{URL: "https://github.com/acme/blog.engine"}}

	content := ExtractActionable(items)

	require.NotNil(t, content)
	assert.Len(t, content.Repos, 1)
	assert.Empty(t, content.Posts)
}

func TestExtractActionableEmpty(t *testing.T) {
	assert.Nil(t, ExtractActionable(nil))
}
