// Package evidence builds and rates the supporting evidence behind skills.
package evidence

import (
	"fmt"
	"math"
	"sort"

	"github.com/skillmapio/skillmap/internal/topics"
	"github.com/skillmapio/skillmap/pkg/models"
	"github.com/skillmapio/skillmap/pkg/similarity"
)

const (
	// MaxPerSkill caps the evidence list attached to one skill.
	MaxPerSkill = 20
	// maxTitleLen truncates evidence titles.
	maxTitleLen = 200

	platformHost = "x.com"
)

// Build creates the evidence list for a cluster from its member bookmarks:
// relevance from keyword overlap, quality from the credibility scorer, at
// most MaxPerSkill items sorted by relevance descending.
func Build(cluster *models.TopicCluster, members []models.Bookmark) []models.SkillEvidence {
	clusterKeywords := similarity.SetOf(cluster.Keywords)

	items := make([]models.SkillEvidence, 0, len(members))
	for _, bm := range members {
		url := sourceURL(bm.Post)
		items = append(items, models.SkillEvidence{
			URL:       url,
			Title:     truncate(bm.Post.Text, maxTitleLen),
			Author:    bm.Post.Author,
			Domain:    topics.Domain(url),
			Relevance: relevance(bm.Signals.Keywords, clusterKeywords, len(cluster.Keywords)),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Relevance > items[j].Relevance
	})
	if len(items) > MaxPerSkill {
		items = items[:MaxPerSkill]
	}

	rateQuality(items)
	return items
}

// MeanQuality returns the skill-level evidence quality: the mean of the
// per-item quality values, rounded to two decimals. It measures evidence
// credibility, not expertise magnitude.
func MeanQuality(items []models.SkillEvidence) float64 {
	if len(items) == 0 {
		return 0
	}
	var total float64
	for _, item := range items {
		total += item.Quality
	}
	return math.Round(total/float64(len(items))*100) / 100
}

// sourceURL picks the evidence URL for a post: its first link if it has
// one, otherwise the post's own permalink on the platform.
func sourceURL(post models.Post) string {
	for _, u := range post.URLs {
		if u != "" {
			return u
		}
	}
	return fmt.Sprintf("https://%s/%s/status/%s", platformHost, post.Author, post.ID)
}

// relevance is the bookmark's keyword overlap with the cluster, normalized
// by the cluster keyword count and guarded against empty clusters.
func relevance(keywords []string, clusterSet map[string]bool, clusterCount int) float64 {
	if clusterCount == 0 {
		return 0
	}
	overlap := similarity.Overlap(keywords, clusterSet)
	r := float64(overlap) / float64(clusterCount)
	if r > 1 {
		r = 1
	}
	return math.Round(r*100) / 100
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
