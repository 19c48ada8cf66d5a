// Package scoring turns topic clusters into expertise scores, levels, and
// confidence values.
package scoring

import (
	"math"
	"time"

	"github.com/skillmapio/skillmap/pkg/models"
)

// Sub-score caps. The final score is the plain sum of the five components,
// so it is bounded to 100 by construction.
const (
	countScoreMax     = 30.0
	recencyScoreMax   = 25.0
	authorScoreMax    = 20.0
	domainScoreMax    = 20.0
	recentBonusMax    = 5.0
	countSaturation   = 30 // member count where the count score saturates
	recentWindowDays  = 30
	recencyHalfLife   = 180 * 24 * time.Hour
	baseConfidence    = 0.5
	confidenceCountCap = 0.2
)

// Result is the scoring outcome for one cluster.
type Result struct {
	Score      float64
	Level      models.SkillLevel
	Confidence float64
}

// Engine computes skill scores against a fixed reference time. The same
// "now" must be used for every cluster in a run so that reruns over
// unchanged input are reproducible.
type Engine struct {
	now time.Time
}

// NewEngine creates an Engine pinned to the given reference time.
func NewEngine(now time.Time) *Engine {
	return &Engine{now: now}
}

// Score computes the 0-100 expertise score, level band, and confidence for
// a cluster and its member bookmarks.
func (e *Engine) Score(cluster *models.TopicCluster, members []models.Bookmark) Result {
	n := len(members)
	if n == 0 {
		return Result{Level: models.LevelNovice}
	}

	score := e.countScore(n) +
		e.recencyScore(members) +
		e.authorScore(cluster, n) +
		e.domainScore(cluster, n) +
		e.recentActivityBonus(members)
	score = clamp(score, 0, 100)
	score = round1(score)

	return Result{
		Score:      score,
		Level:      models.LevelForScore(score),
		Confidence: e.confidence(cluster, members),
	}
}

// countScore rewards volume on a log scale, saturating near 30 bookmarks.
func (e *Engine) countScore(n int) float64 {
	ratio := math.Log2(float64(n)+1) / math.Log2(float64(countSaturation)+1)
	return math.Min(ratio, 1) * countScoreMax
}

// recencyScore decays exponentially from the single most recent bookmark,
// with a half-life of 180 days.
func (e *Engine) recencyScore(members []models.Bookmark) float64 {
	var latest time.Time
	for _, bm := range members {
		if bm.SavedAt.After(latest) {
			latest = bm.SavedAt
		}
	}
	age := e.now.Sub(latest)
	if age < 0 {
		age = 0
	}
	decay := math.Exp(-float64(age) / float64(recencyHalfLife))
	return decay * recencyScoreMax
}

func (e *Engine) authorScore(cluster *models.TopicCluster, n int) float64 {
	ratio := float64(len(cluster.Authors)) / float64(n)
	return math.Min(ratio*authorScoreMax, authorScoreMax)
}

func (e *Engine) domainScore(cluster *models.TopicCluster, n int) float64 {
	ratio := float64(len(cluster.Domains)) / float64(n)
	return math.Min(ratio*domainScoreMax, domainScoreMax)
}

// recentActivityBonus rewards bookmarks saved within the last 30 days.
func (e *Engine) recentActivityBonus(members []models.Bookmark) float64 {
	cutoff := e.now.Add(-recentWindowDays * 24 * time.Hour)
	recent := 0
	for _, bm := range members {
		if bm.SavedAt.After(cutoff) {
			recent++
		}
	}
	return math.Min(float64(recent)/5, recentBonusMax)
}

// confidence starts from 0.5 and is adjusted by member count, cluster
// cohesion, and author/domain diversity, then clamped to [0,1].
func (e *Engine) confidence(cluster *models.TopicCluster, members []models.Bookmark) float64 {
	n := float64(len(members))
	conf := baseConfidence

	conf += math.Min(n/float64(countSaturation), confidenceCountCap)
	conf += cluster.Cohesion * 0.2

	switch authors := len(cluster.Authors); {
	case authors >= 3:
		conf += 0.1
	case authors == 1:
		conf -= 0.1
	}

	switch domains := len(cluster.Domains); {
	case domains >= 3:
		conf += 0.1
	case domains == 1:
		conf -= 0.05
	}

	return round2(clamp(conf, 0, 1))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
