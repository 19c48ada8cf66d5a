package scoring

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/skillmapio/skillmap/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func member(id, author string, age time.Duration, signals ...string) models.Bookmark {
	return models.Bookmark{
		Post:    models.Post{ID: id, Author: author, Text: "text", CreatedAt: testNow.Add(-age)},
		Signals: models.TopicSignals{All: signals},
		SavedAt: testNow.Add(-age),
	}
}

func clusterOf(members []models.Bookmark, domains []string, cohesion float64) *models.TopicCluster {
	authors := map[string]bool{}
	var authorList, ids []string
	for _, m := range members {
		if !authors[m.Post.Author] {
			authors[m.Post.Author] = true
			authorList = append(authorList, m.Post.Author)
		}
		ids = append(ids, m.Post.ID)
	}
	return &models.TopicCluster{
		ID:          "rust",
		Name:        "Rust",
		Authors:     authorList,
		Domains:     domains,
		BookmarkIDs: ids,
		Cohesion:    cohesion,
	}
}

func TestScoreRustScenario(t *testing.T) {
	e := NewEngine(testNow)

	// Three posts by three distinct authors, all within the last day.
	members := []models.Bookmark{
		member("1", "alice", time.Hour),
		member("2", "bob", 2*time.Hour),
		member("3", "carol", 3*time.Hour),
	}
	cluster := clusterOf(members, nil, 0.4)

	result := e.Score(cluster, members)

	// count score: min(log2(4)/log2(31), 1) * 30 ~= 11.6
	expectedCount := math.Log2(4) / math.Log2(31) * 30
	assert.InDelta(t, expectedCount, e.countScore(3), 0.05)

	// recency: near-zero decay -> ~25
	assert.InDelta(t, 25.0, e.recencyScore(members), 0.1)

	// author diversity: 3/3 -> full 20
	assert.InDelta(t, 20.0, e.authorScore(cluster, 3), 0.001)

	// no domains -> 0; recent bonus 3/5 = 0.6
	// total ~= 12.1 + 25 + 20 + 0 + 0.6 ~= 57.7
	assert.InDelta(t, 57.7, result.Score, 0.5)
	assert.Equal(t, models.LevelSpecialist, result.Level)
}

func TestScoreBounds(t *testing.T) {
	e := NewEngine(testNow)

	tests := []struct {
		name    string
		members int
		authors int
		age     time.Duration
	}{
		{"single stale author", 3, 1, 400 * 24 * time.Hour},
		{"large fresh diverse", 50, 50, time.Hour},
		{"ancient", 5, 2, 10 * 365 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var members []models.Bookmark
			for i := 0; i < tt.members; i++ {
				author := fmt.Sprintf("author-%d", i%tt.authors)
				members = append(members, member(fmt.Sprintf("p%d", i), author, tt.age))
			}
			cluster := clusterOf(members, nil, 0.5)

			result := e.Score(cluster, members)

			assert.GreaterOrEqual(t, result.Score, 0.0)
			assert.LessOrEqual(t, result.Score, 100.0)
			assert.GreaterOrEqual(t, result.Confidence, 0.0)
			assert.LessOrEqual(t, result.Confidence, 1.0)
		})
	}
}

func TestCountScoreSaturates(t *testing.T) {
	e := NewEngine(testNow)

	assert.InDelta(t, 30.0, e.countScore(30), 0.001)
	assert.InDelta(t, 30.0, e.countScore(100), 0.001)
	assert.Less(t, e.countScore(5), e.countScore(10))
}

func TestRecencyHalfLife(t *testing.T) {
	e := NewEngine(testNow)

	// At exactly one half-life (180 days) decay is e^-1.
	members := []models.Bookmark{member("1", "alice", 180*24*time.Hour)}
	assert.InDelta(t, math.Exp(-1)*25, e.recencyScore(members), 0.01)

	// Only the most recent member matters.
	members = append(members, member("2", "bob", time.Minute))
	assert.InDelta(t, 25.0, e.recencyScore(members), 0.01)
}

func TestConfidenceAdjustments(t *testing.T) {
	e := NewEngine(testNow)

	members := []models.Bookmark{
		member("1", "alice", time.Hour),
		member("2", "alice", time.Hour),
		member("3", "alice", time.Hour),
	}

	// Single author, single domain: 0.5 + 3/30 + 0.5*0.2 - 0.1 - 0.05 = 0.55
	lone := clusterOf(members, []string{"github.com"}, 0.5)
	assert.InDelta(t, 0.55, e.confidence(lone, members), 0.001)

	// Three authors, three domains: 0.5 + 0.1 + 0.1 + 0.1 + 0.1 = 0.9
	diverse := []models.Bookmark{
		member("1", "alice", time.Hour),
		member("2", "bob", time.Hour),
		member("3", "carol", time.Hour),
	}
	spread := clusterOf(diverse, []string{"github.com", "arxiv.org", "dev.to"}, 0.5)
	assert.InDelta(t, 0.9, e.confidence(spread, diverse), 0.001)
}

func TestConfidenceClamped(t *testing.T) {
	e := NewEngine(testNow)

	var members []models.Bookmark
	for i := 0; i < 40; i++ {
		members = append(members, member(fmt.Sprintf("p%d", i), fmt.Sprintf("a%d", i), time.Hour))
	}
	cluster := clusterOf(members, []string{"a.dev", "b.dev", "c.dev"}, 1.0)

	conf := e.confidence(cluster, members)
	assert.LessOrEqual(t, conf, 1.0)
}

func TestScoreEmptyMembers(t *testing.T) {
	e := NewEngine(testNow)

	result := e.Score(&models.TopicCluster{ID: "x"}, nil)

	assert.Zero(t, result.Score)
	assert.Equal(t, models.LevelNovice, result.Level)
}

func TestScoreDeterministic(t *testing.T) {
	e := NewEngine(testNow)

	members := []models.Bookmark{
		member("1", "alice", time.Hour),
		member("2", "bob", 48*time.Hour),
		member("3", "carol", 200*24*time.Hour),
	}
	cluster := clusterOf(members, []string{"github.com"}, 0.37)

	first := e.Score(cluster, members)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, e.Score(cluster, members))
	}
}

func TestSuggestedQueriesDynamicYear(t *testing.T) {
	e := NewEngine(time.Date(2027, 1, 2, 0, 0, 0, 0, time.UTC))

	queries := e.SuggestedQueries("Machine Learning", []string{"machine learning", "transformers"})

	require.NotEmpty(t, queries)
	assert.Contains(t, queries, "machine learning best practices 2027")
	assert.Contains(t, queries, "machine learning transformers guide")
}

func TestCapabilityTags(t *testing.T) {
	tags := CapabilityTags("Rust", models.LevelSpecialist, []string{"rust", "wasm", "async", "embedded"})

	assert.Equal(t, []string{
		"can build production rust systems",
		"tracks wasm",
		"tracks async",
	}, tags)
}
