package sqlite

// migrations are applied in order; schema_version tracks the last applied
// index.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS posts (
		id TEXT PRIMARY KEY,
		author TEXT NOT NULL,
		created_at TEXT NOT NULL,
		created_at_epoch INTEGER NOT NULL,
		payload TEXT NOT NULL,
		fetched_at TEXT NOT NULL,
		fetched_at_epoch INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS analysis_runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		started_at_epoch INTEGER NOT NULL,
		post_count INTEGER NOT NULL,
		skipped_posts INTEGER NOT NULL DEFAULT 0,
		cluster_count INTEGER NOT NULL DEFAULT 0,
		skill_count INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS skills (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
		skill_id TEXT NOT NULL,
		name TEXT NOT NULL,
		score REAL NOT NULL,
		level TEXT NOT NULL,
		confidence REAL NOT NULL,
		bookmark_count INTEGER NOT NULL,
		payload TEXT NOT NULL,
		UNIQUE(run_id, skill_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_skills_run ON skills(run_id)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_started ON analysis_runs(started_at_epoch)`,
}

// migrate applies any pending migrations.
func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return err
	}

	var version int
	row := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`)
	if err := row.Scan(&version); err != nil {
		return err
	}

	for i := version; i < len(migrations); i++ {
		if _, err := s.db.Exec(migrations[i]); err != nil {
			return err
		}
		if _, err := s.db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, i+1); err != nil {
			return err
		}
	}
	return nil
}
