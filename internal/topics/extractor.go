// Package topics extracts structured topic signals from raw posts.
package topics

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/skillmapio/skillmap/pkg/models"
)

// Uncategorized is the sentinel primary topic for posts carrying no usable
// topic signal at all.
const Uncategorized = "uncategorized"

// excludedDomains are self-referential hosts of the platform the posts come
// from. Links back to the platform say nothing about the post's topic.
var excludedDomains = map[string]bool{
	"x.com":       true,
	"twitter.com": true,
	"t.co":        true,
}

var (
	urlPattern      = regexp.MustCompile(`https?://\S+`)
	mentionPattern  = regexp.MustCompile(`@\w+`)
	nonAlnumPattern = regexp.MustCompile(`[^a-z0-9\s]`)
)

// Lexicon extends the built-in stopword list and alias table. Loaded from an
// optional YAML file by the config package.
type Lexicon struct {
	Stopwords []string          `yaml:"stopwords"`
	Aliases   map[string]string `yaml:"aliases"`
}

// Extractor turns one post into topic signals. It is a pure function of the
// post, the stopword set, and the alias table: identical input always yields
// identical output.
type Extractor struct {
	stopwords map[string]bool
	aliases   map[string]string
}

// New creates an Extractor from the built-in lexicon merged with lex.
// Entries in lex extend or override the defaults.
func New(lex Lexicon) *Extractor {
	stops := make(map[string]bool, len(defaultStopwords)+len(lex.Stopwords))
	for _, s := range defaultStopwords {
		stops[s] = true
	}
	for _, s := range lex.Stopwords {
		stops[strings.ToLower(strings.TrimSpace(s))] = true
	}

	aliases := make(map[string]string, len(defaultAliases)+len(lex.Aliases))
	for k, v := range defaultAliases {
		aliases[k] = v
	}
	for k, v := range lex.Aliases {
		aliases[strings.ToLower(strings.TrimSpace(k))] = strings.ToLower(strings.TrimSpace(v))
	}

	return &Extractor{stopwords: stops, aliases: aliases}
}

// ExtractTopics extracts hashtags, link domains, and text keywords from a
// post. All entries are lowercase, trimmed, non-empty, and deduplicated
// within their set, preserving first-seen order.
func (e *Extractor) ExtractTopics(post models.Post) models.TopicSignals {
	signals := models.TopicSignals{
		Hashtags: extractHashtags(post.Hashtags),
		Domains:  extractDomains(post.URLs),
		Keywords: e.extractKeywords(post.Text),
	}

	seen := make(map[string]bool)
	for _, set := range [][]string{signals.Hashtags, signals.Domains, signals.Keywords} {
		for _, s := range set {
			if !seen[s] {
				seen[s] = true
				signals.All = append(signals.All, s)
			}
		}
	}
	return signals
}

// PrimaryTopic picks the single signal used to bucket a post into a cluster.
// Hashtags are explicit author-supplied labels and win over inferred
// domains, which in turn win over text keywords.
func (e *Extractor) PrimaryTopic(signals models.TopicSignals) string {
	if len(signals.Hashtags) > 0 {
		return signals.Hashtags[0]
	}
	if len(signals.Domains) > 0 {
		return signals.Domains[0]
	}
	if len(signals.Keywords) > 0 {
		return signals.Keywords[0]
	}
	return Uncategorized
}

// Domain resolves a raw URL to its apex hostname with any "www." prefix
// stripped. Malformed URLs resolve to the empty string rather than an error.
func Domain(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

func extractHashtags(tags []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func extractDomains(urls []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, raw := range urls {
		d := Domain(raw)
		if d == "" || excludedDomains[d] || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}

// extractKeywords tokenizes post text into topic keywords: URLs and
// @mentions stripped, non-alphanumerics replaced with spaces, short tokens
// and stopwords dropped, abbreviations canonicalized through the alias
// table. Deduplication is by the post-alias form in first-seen order.
func (e *Extractor) extractKeywords(text string) []string {
	cleaned := urlPattern.ReplaceAllString(text, " ")
	cleaned = mentionPattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.ToLower(cleaned)
	cleaned = nonAlnumPattern.ReplaceAllString(cleaned, " ")

	var out []string
	seen := make(map[string]bool)
	for _, token := range strings.Fields(cleaned) {
		keyword, ok := e.aliases[token]
		if !ok {
			if len(token) <= 2 || e.stopwords[token] {
				continue
			}
			keyword = token
		}
		if seen[keyword] {
			continue
		}
		seen[keyword] = true
		out = append(out, keyword)
	}
	return out
}
