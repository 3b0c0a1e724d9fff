package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Archived debug frames, one row per file kept on disk
		`CREATE TABLE IF NOT EXISTS archive_frames (
			id TEXT PRIMARY KEY,
			round_id TEXT NOT NULL,
			kind TEXT NOT NULL CHECK(kind IN ('raw_input', 'processed')),
			path TEXT NOT NULL,
			player_move TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_archive_frames_kind_created ON archive_frames(kind, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_archive_frames_round_id ON archive_frames(round_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
