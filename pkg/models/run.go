package models

import "time"

// AnalysisRun records one pipeline execution over the cached post list.
type AnalysisRun struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	PostCount    int       `json:"post_count"`
	SkippedPosts int       `json:"skipped_posts"`
	ClusterCount int       `json:"cluster_count"`
	SkillCount   int       `json:"skill_count"`
	DurationMS   int64     `json:"duration_ms"`
}
