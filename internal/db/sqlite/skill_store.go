package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/skillmapio/skillmap/pkg/models"
)

// SkillStore persists analysis runs and the skills each run produced.
type SkillStore struct {
	store *Store
}

// NewSkillStore creates a new skill store.
func NewSkillStore(store *Store) *SkillStore {
	return &SkillStore{store: store}
}

// SaveRun stores a run record and its skills in one transaction.
func (s *SkillStore) SaveRun(ctx context.Context, run *models.AnalysisRun, skills []*models.Skill) error {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const insertRun = `
		INSERT INTO analysis_runs
		(id, started_at, started_at_epoch, post_count, skipped_posts, cluster_count, skill_count, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, insertRun,
		run.ID,
		run.StartedAt.Format(time.RFC3339), run.StartedAt.UnixMilli(),
		run.PostCount, run.SkippedPosts, run.ClusterCount, run.SkillCount,
		run.DurationMS,
	)
	if err != nil {
		return err
	}

	const insertSkill = `
		INSERT INTO skills
		(run_id, skill_id, name, score, level, confidence, bookmark_count, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, skill := range skills {
		payload, err := json.Marshal(skill)
		if err != nil {
			return fmt.Errorf("encode skill %s: %w", skill.ID, err)
		}
		_, err = tx.ExecContext(ctx, insertSkill,
			run.ID, skill.ID, skill.Name,
			skill.Score, string(skill.Level), skill.Confidence,
			skill.BookmarkCount, string(payload),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LatestRun returns the most recent run record, or nil when no analysis has
// been stored yet.
func (s *SkillStore) LatestRun(ctx context.Context) (*models.AnalysisRun, error) {
	const query = `
		SELECT id, started_at, post_count, skipped_posts, cluster_count, skill_count, duration_ms
		FROM analysis_runs
		ORDER BY started_at_epoch DESC
		LIMIT 1
	`
	var run models.AnalysisRun
	var startedAt string
	err := s.store.QueryRowContext(ctx, query).Scan(
		&run.ID, &startedAt,
		&run.PostCount, &run.SkippedPosts, &run.ClusterCount, &run.SkillCount,
		&run.DurationMS,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	run.StartedAt, err = time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return nil, fmt.Errorf("parse run timestamp: %w", err)
	}
	return &run, nil
}

// SkillsByRun returns all skills stored for a run, highest score first.
func (s *SkillStore) SkillsByRun(ctx context.Context, runID string) ([]*models.Skill, error) {
	const query = `SELECT payload FROM skills WHERE run_id = ? ORDER BY score DESC, skill_id ASC`
	rows, err := s.store.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var skills []*models.Skill
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var skill models.Skill
		if err := json.Unmarshal([]byte(payload), &skill); err != nil {
			return nil, fmt.Errorf("decode stored skill: %w", err)
		}
		skills = append(skills, &skill)
	}
	return skills, rows.Err()
}

// LatestSkills returns the skills of the most recent run.
func (s *SkillStore) LatestSkills(ctx context.Context) ([]*models.Skill, error) {
	run, err := s.LatestRun(ctx)
	if err != nil || run == nil {
		return nil, err
	}
	return s.SkillsByRun(ctx, run.ID)
}

// PruneRuns deletes all but the most recent keep runs; cascading removes
// their skills.
func (s *SkillStore) PruneRuns(ctx context.Context, keep int) error {
	if keep <= 0 {
		keep = 1
	}
	const query = `
		DELETE FROM analysis_runs
		WHERE id NOT IN (
			SELECT id FROM analysis_runs ORDER BY started_at_epoch DESC LIMIT ?
		)
	`
	_, err := s.store.ExecContext(ctx, query, keep)
	return err
}
