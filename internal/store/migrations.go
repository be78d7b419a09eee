package store

func (s *Store) runMigrations() error {
	migrations := []string{
		// Named phrases: an ordered list of gesture labels stored as JSON.
		`CREATE TABLE IF NOT EXISTS phrases (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			labels TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// One row per attempt at a phrase. phrase_id is NULL when the target
		// came from configuration rather than a stored phrase.
		`CREATE TABLE IF NOT EXISTS phrase_runs (
			id TEXT PRIMARY KEY,
			phrase_id TEXT REFERENCES phrases(id) ON DELETE SET NULL,
			labels TEXT NOT NULL,
			started_at DATETIME NOT NULL,
			completed_at DATETIME
		)`,

		`CREATE TABLE IF NOT EXISTS accepted_gestures (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES phrase_runs(id) ON DELETE CASCADE,
			step INTEGER NOT NULL,
			label TEXT NOT NULL,
			accepted_at DATETIME NOT NULL,
			UNIQUE(run_id, step)
		)`,

		// Plugin bindings run on completion. A NULL phrase_id applies to
		// every phrase.
		`CREATE TABLE IF NOT EXISTS actions (
			id TEXT PRIMARY KEY,
			phrase_id TEXT REFERENCES phrases(id) ON DELETE CASCADE,
			plugin_name TEXT NOT NULL,
			action_name TEXT NOT NULL,
			config TEXT NOT NULL DEFAULT '{}',
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_phrase_runs_started_at ON phrase_runs(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_accepted_gestures_run_id ON accepted_gestures(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_actions_phrase_id ON actions(phrase_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}
	return nil
}
