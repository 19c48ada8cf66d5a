// Package pipeline wires topic extraction, clustering, scoring, evidence,
// and hierarchy into the full bookmark analysis run.
package pipeline

import (
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/skillmapio/skillmap/internal/cluster"
	"github.com/skillmapio/skillmap/internal/evidence"
	"github.com/skillmapio/skillmap/internal/hierarchy"
	"github.com/skillmapio/skillmap/internal/scoring"
	"github.com/skillmapio/skillmap/internal/topics"
	"github.com/skillmapio/skillmap/pkg/models"
)

const (
	maxTopKeywords = 10
	maxTopDomains  = 5
)

// Options configures one Analyzer.
type Options struct {
	MinClusterSize   int
	RelatedThreshold float64
	Lexicon          topics.Lexicon
}

// Result is the outcome of one analysis run.
type Result struct {
	Skills      []*models.Skill `json:"skills"`
	Bookmarks   int             `json:"bookmarks"`
	Skipped     int             `json:"skipped"`
	Clusters    int             `json:"clusters"`
	GeneratedAt time.Time       `json:"generatedAt"`
}

// Analyzer runs the full pipeline over an in-memory post list. It performs
// no I/O; fetching and persistence belong to its callers.
type Analyzer struct {
	extractor *topics.Extractor
	clusterer *cluster.Clusterer
	opts      Options
}

// New creates an Analyzer.
func New(opts Options) *Analyzer {
	extractor := topics.New(opts.Lexicon)
	return &Analyzer{
		extractor: extractor,
		clusterer: cluster.New(extractor, opts.MinClusterSize),
		opts:      opts,
	}
}

// Analyze runs the pipeline with the current time as the scoring reference.
func (a *Analyzer) Analyze(posts []models.Post) *Result {
	return a.AnalyzeAt(posts, time.Now())
}

// AnalyzeAt runs the pipeline against a fixed reference time. The time is
// sampled exactly once per run, so re-running over an unchanged post list
// yields identical skills.
//
// Malformed posts (empty id or text, zero timestamp) are skipped per item
// and counted; a bad post never aborts the run.
func (a *Analyzer) AnalyzeAt(posts []models.Post, now time.Time) *Result {
	valid := make([]models.Post, 0, len(posts))
	skipped := 0
	for i := range posts {
		if !posts[i].Valid() {
			skipped++
			log.Debug().Str("postId", posts[i].ID).Msg("Skipping malformed post")
			continue
		}
		valid = append(valid, posts[i])
	}

	bookmarks := a.clusterer.ParseBookmarks(valid)
	clusters := a.clusterer.ClusterByTopics(bookmarks)

	byID := make(map[string]models.Bookmark, len(bookmarks))
	for _, bm := range bookmarks {
		byID[bm.Post.ID] = bm
	}

	// Skill construction is independent per cluster; the only shared pass
	// is the hierarchy, which runs after the group has fully finished.
	skills := make([]*models.Skill, len(clusters))
	engine := scoring.NewEngine(now)

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i := range clusters {
		i := i
		g.Go(func() error {
			skills[i] = a.buildSkill(engine, &clusters[i], byID)
			return nil
		})
	}
	_ = g.Wait() // buildSkill never fails; Wait is the hierarchy barrier

	hierarchy.Build(skills)

	// The hierarchy pass only cross-links top-level skills. Skills that got a
	// parent pick up similarity-based related links instead.
	related := a.clusterer.FindRelated(clusters, a.opts.RelatedThreshold)
	for _, sk := range skills {
		if len(sk.RelatedSkillIDs) == 0 {
			sk.RelatedSkillIDs = related[sk.ID]
		}
	}

	log.Info().
		Int("posts", len(posts)).
		Int("skipped", skipped).
		Int("clusters", len(clusters)).
		Int("skills", len(skills)).
		Msg("Analysis complete")

	return &Result{
		Skills:      skills,
		Bookmarks:   len(bookmarks),
		Skipped:     skipped,
		Clusters:    len(clusters),
		GeneratedAt: now,
	}
}

// buildSkill turns one cluster and its members into a Skill.
func (a *Analyzer) buildSkill(engine *scoring.Engine, cl *models.TopicCluster, byID map[string]models.Bookmark) *models.Skill {
	members := make([]models.Bookmark, 0, len(cl.BookmarkIDs))
	for _, id := range cl.BookmarkIDs {
		if bm, ok := byID[id]; ok {
			members = append(members, bm)
		}
	}

	scored := engine.Score(cl, members)
	items := evidence.Build(cl, members)

	first, last := dateRange(members)

	return &models.Skill{
		ID:               cl.ID,
		Name:             cl.Name,
		Score:            scored.Score,
		Level:            scored.Level,
		Confidence:       scored.Confidence,
		EvidenceQuality:  evidence.MeanQuality(items),
		BookmarkCount:    len(members),
		Evidence:         items,
		Capabilities:     scoring.CapabilityTags(cl.Name, scored.Level, firstN(cl.Keywords, 3)),
		TopKeywords:      firstN(cl.Keywords, maxTopKeywords),
		TopDomains:       firstN(cl.Domains, maxTopDomains),
		SuggestedQueries: engine.SuggestedQueries(cl.Name, firstN(cl.Keywords, 3)),
		Authors:          cl.Authors,
		FirstBookmarkAt:  first,
		LastBookmarkAt:   last,
		Actionable:       evidence.ExtractActionable(items),
	}
}

func dateRange(members []models.Bookmark) (first, last time.Time) {
	for _, bm := range members {
		if first.IsZero() || bm.SavedAt.Before(first) {
			first = bm.SavedAt
		}
		if bm.SavedAt.After(last) {
			last = bm.SavedAt
		}
	}
	return first, last
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
