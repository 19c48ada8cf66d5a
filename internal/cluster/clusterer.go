// Package cluster groups bookmarks into topic clusters.
package cluster

import (
	"regexp"
	"sort"
	"strings"

	"github.com/skillmapio/skillmap/internal/topics"
	"github.com/skillmapio/skillmap/pkg/models"
	"github.com/skillmapio/skillmap/pkg/similarity"
)

// DefaultMinSize is the minimum member count for a cluster to survive
// filtering. Smaller groups are noise, not skills.
const DefaultMinSize = 3

// DefaultRelatedThreshold is the similarity cutoff for FindRelated.
const DefaultRelatedThreshold = 0.3

// Weights for the inter-cluster similarity in FindRelated. Keywords carry
// more topical information than shared link domains.
const (
	keywordWeight = 0.7
	domainWeight  = 0.3
)

var nonSlugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Clusterer buckets bookmarks by their primary topic.
type Clusterer struct {
	extractor *topics.Extractor
	minSize   int
}

// New creates a Clusterer. A minSize of zero or less falls back to
// DefaultMinSize.
func New(extractor *topics.Extractor, minSize int) *Clusterer {
	if minSize <= 0 {
		minSize = DefaultMinSize
	}
	return &Clusterer{extractor: extractor, minSize: minSize}
}

// ParseBookmarks maps posts to bookmarks by running topic extraction on each
// one. It is a pure map: one bookmark per post, in input order.
func (c *Clusterer) ParseBookmarks(posts []models.Post) []models.Bookmark {
	bookmarks := make([]models.Bookmark, 0, len(posts))
	for _, post := range posts {
		signals := c.extractor.ExtractTopics(post)
		bookmarks = append(bookmarks, models.Bookmark{
			Post:         post,
			Signals:      signals,
			PrimaryTopic: c.extractor.PrimaryTopic(signals),
			SavedAt:      post.CreatedAt,
		})
	}
	return bookmarks
}

// group accumulates one topic's members while scanning bookmarks.
type group struct {
	topic    string
	keywords *orderedSet
	domains  *orderedSet
	authors  *orderedSet
	members  []models.Bookmark
}

// ClusterByTopics groups bookmarks by primary topic in a single pass, drops
// groups below the minimum size, computes cohesion for the survivors, and
// returns them sorted by descending member count (stable on ties).
func (c *Clusterer) ClusterByTopics(bookmarks []models.Bookmark) []models.TopicCluster {
	groups := make(map[string]*group)
	var order []string

	for _, bm := range bookmarks {
		g, ok := groups[bm.PrimaryTopic]
		if !ok {
			g = &group{
				topic:    bm.PrimaryTopic,
				keywords: newOrderedSet(),
				domains:  newOrderedSet(),
				authors:  newOrderedSet(),
			}
			groups[bm.PrimaryTopic] = g
			order = append(order, bm.PrimaryTopic)
		}
		g.keywords.addAll(bm.Signals.Keywords)
		g.domains.addAll(bm.Signals.Domains)
		g.authors.add(bm.Post.Author)
		g.members = append(g.members, bm)
	}

	var clusters []models.TopicCluster
	for _, topic := range order {
		g := groups[topic]
		if len(g.members) < c.minSize {
			continue
		}

		ids := make([]string, len(g.members))
		sets := make([]map[string]bool, len(g.members))
		for i, bm := range g.members {
			ids[i] = bm.Post.ID
			sets[i] = similarity.SetOf(bm.Signals.All)
		}

		clusters = append(clusters, models.TopicCluster{
			ID:          Slugify(topic),
			Name:        DisplayName(topic),
			Keywords:    g.keywords.items(),
			Domains:     g.domains.items(),
			Authors:     g.authors.items(),
			BookmarkIDs: ids,
			Cohesion:    similarity.MeanPairwiseJaccard(sets),
		})
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return len(clusters[i].BookmarkIDs) > len(clusters[j].BookmarkIDs)
	})
	return clusters
}

// FindRelated returns, for each cluster id, the ids of other clusters whose
// weighted keyword/domain similarity is at or above the threshold. A
// threshold of zero or less falls back to DefaultRelatedThreshold.
func (c *Clusterer) FindRelated(clusters []models.TopicCluster, threshold float64) map[string][]string {
	if threshold <= 0 {
		threshold = DefaultRelatedThreshold
	}

	related := make(map[string][]string, len(clusters))
	for i := range clusters {
		related[clusters[i].ID] = nil
	}

	for i := 0; i < len(clusters); i++ {
		for j := i + 1; j < len(clusters); j++ {
			sim := Similarity(&clusters[i], &clusters[j])
			if sim >= threshold {
				related[clusters[i].ID] = append(related[clusters[i].ID], clusters[j].ID)
				related[clusters[j].ID] = append(related[clusters[j].ID], clusters[i].ID)
			}
		}
	}
	return related
}

// Similarity is the inter-cluster similarity: a weighted average of keyword
// Jaccard (0.7) and domain Jaccard (0.3).
func Similarity(a, b *models.TopicCluster) float64 {
	kw := similarity.JaccardSlices(a.Keywords, b.Keywords)
	dom := similarity.JaccardSlices(a.Domains, b.Domains)
	return keywordWeight*kw + domainWeight*dom
}

// Slugify turns a topic into a stable cluster/skill id: lowercase with
// non-alphanumeric runs collapsed to single dashes.
func Slugify(topic string) string {
	slug := nonSlugPattern.ReplaceAllString(strings.ToLower(topic), "-")
	return strings.Trim(slug, "-")
}

// DisplayName turns a topic into a human-readable cluster name: separators
// replaced with spaces and each word capitalized.
func DisplayName(topic string) string {
	words := strings.FieldsFunc(topic, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || r == ' ' || r == '/'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// orderedSet is a deduplicating set that preserves insertion order.
type orderedSet struct {
	seen map[string]bool
	list []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool)}
}

func (s *orderedSet) add(item string) {
	if item == "" || s.seen[item] {
		return
	}
	s.seen[item] = true
	s.list = append(s.list, item)
}

func (s *orderedSet) addAll(items []string) {
	for _, item := range items {
		s.add(item)
	}
}

func (s *orderedSet) items() []string {
	return s.list
}
