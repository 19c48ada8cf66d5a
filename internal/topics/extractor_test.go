package topics

import (
	"testing"
	"time"

	"github.com/skillmapio/skillmap/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPost(text string, urls, hashtags []string) models.Post {
	return models.Post{
		ID:        "p1",
		Author:    "alice",
		Text:      text,
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		URLs:      urls,
		Hashtags:  hashtags,
	}
}

func TestExtractTopicsHashtags(t *testing.T) {
	e := New(Lexicon{})

	signals := e.ExtractTopics(testPost("hello", nil, []string{"Rust", "RUST", "WebAssembly", " "}))

	assert.Equal(t, []string{"rust", "webassembly"}, signals.Hashtags)
}

func TestExtractTopicsDomains(t *testing.T) {
	e := New(Lexicon{})

	post := testPost("links", []string{
		"https://www.github.com/rust-lang/rust",
		"https://github.com/rust-lang/cargo", // dedup after www strip
		"https://x.com/someone/status/1",     // platform host excluded
		"https://t.co/abc",
		"not a url at all ::",
		"https://arxiv.org/abs/2401.00001",
	}, nil)

	signals := e.ExtractTopics(post)

	assert.Equal(t, []string{"github.com", "arxiv.org"}, signals.Domains)
}

func TestExtractTopicsKeywords(t *testing.T) {
	e := New(Lexicon{})

	post := testPost("Shipping ML models to production with Kubernetes! cc @devrel https://example.com/post", nil, nil)

	signals := e.ExtractTopics(post)

	// "ml" canonicalizes via the alias table, "to"/"with"/"cc" are filtered,
	// the URL and mention are stripped before tokenization.
	assert.Equal(t, []string{"shipping", "machine learning", "models", "production", "kubernetes"}, signals.Keywords)
}

func TestExtractTopicsKeywordDedupByAliasForm(t *testing.T) {
	e := New(Lexicon{})

	// "k8s" and "kubernetes" collapse to one keyword.
	signals := e.ExtractTopics(testPost("k8s tips and kubernetes tricks", nil, nil))

	assert.Equal(t, []string{"kubernetes", "tips", "tricks"}, signals.Keywords)
}

func TestExtractTopicsUnion(t *testing.T) {
	e := New(Lexicon{})

	post := testPost("rust macros explained", []string{"https://doc.rust-lang.org/book"}, []string{"rust"})

	signals := e.ExtractTopics(post)

	// Union is deduplicated across the three sets: "rust" appears once.
	assert.Equal(t, []string{"rust", "doc.rust-lang.org", "macros", "explained"}, signals.All)
}

func TestExtractTopicsDeterministic(t *testing.T) {
	e := New(Lexicon{})
	post := testPost("Deploying k8s clusters with terraform #devops", []string{"https://registry.terraform.io/x"}, []string{"DevOps"})

	first := e.ExtractTopics(post)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, e.ExtractTopics(post))
	}
}

func TestPrimaryTopicPriority(t *testing.T) {
	e := New(Lexicon{})

	tests := []struct {
		name    string
		signals models.TopicSignals
		want    string
	}{
		{
			name: "hashtag wins",
			signals: models.TopicSignals{
				Hashtags: []string{"rust"},
				Domains:  []string{"github.com"},
				Keywords: []string{"macros"},
			},
			want: "rust",
		},
		{
			name: "domain beats keyword",
			signals: models.TopicSignals{
				Domains:  []string{"github.com"},
				Keywords: []string{"macros"},
			},
			want: "github.com",
		},
		{
			name:    "keyword as last resort",
			signals: models.TopicSignals{Keywords: []string{"macros"}},
			want:    "macros",
		},
		{
			name:    "no signals",
			signals: models.TopicSignals{},
			want:    Uncategorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.PrimaryTopic(tt.signals))
		})
	}
}

func TestDomain(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://www.github.com/a/b", "github.com"},
		{"https://Dev.To/article", "dev.to"},
		{"https://x.com/status/1", "x.com"}, // exclusion is a signal concern, not a resolution concern
		{"::::", ""},
		{"", ""},
		{"/relative/path", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Domain(tt.raw), "raw=%q", tt.raw)
	}
}

func TestLexiconOverrides(t *testing.T) {
	e := New(Lexicon{
		Stopwords: []string{"shipping"},
		Aliases:   map[string]string{"tsx": "typescript"},
	})

	signals := e.ExtractTopics(testPost("shipping tsx components", nil, nil))

	require.NotEmpty(t, signals.Keywords)
	assert.Equal(t, []string{"typescript", "components"}, signals.Keywords)
}
