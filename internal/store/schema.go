package store

// Migrate creates the necessary tables and indexes if they don't exist.
func (s *Store) Migrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&currentVersion); err != nil {
		return err
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migrationV1Events},
		{2, migrationV2Models},
		{3, migrationV3ABTests},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := s.db.Begin()
		if err != nil {
			return err
		}

		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return err
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return err
		}

		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}

// Migration SQL statements

const migrationV1Events = `
CREATE TABLE IF NOT EXISTS email_events (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	email_id TEXT NOT NULL,
	lead_id TEXT,
	subject TEXT,
	sent_at TEXT,
	opened INTEGER NOT NULL DEFAULT 0,
	clicked INTEGER NOT NULL DEFAULT 0,
	replied INTEGER NOT NULL DEFAULT 0,
	converted INTEGER NOT NULL DEFAULT 0,
	recorded_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS conversion_events (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	lead_id TEXT,
	touchpoints INTEGER NOT NULL DEFAULT 0,
	outcome TEXT NOT NULL,
	revenue REAL NOT NULL DEFAULT 0,
	recorded_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS pricing_events (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	price REAL NOT NULL,
	outcome TEXT NOT NULL,
	recorded_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS content_events (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	content_id TEXT,
	type TEXT,
	views INTEGER NOT NULL DEFAULT 0,
	engagement REAL NOT NULL DEFAULT 0,
	conversions INTEGER NOT NULL DEFAULT 0,
	recorded_at TEXT NOT NULL
);
`

const migrationV2Models = `
CREATE TABLE IF NOT EXISTS model_snapshots (
	name TEXT PRIMARY KEY,
	trained_at TEXT NOT NULL,
	payload TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS pipeline_meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

const migrationV3ABTests = `
CREATE TABLE IF NOT EXISTS ab_tests (
	id TEXT PRIMARY KEY,
	variant_a TEXT NOT NULL,
	variant_b TEXT NOT NULL,
	started TEXT NOT NULL,
	status TEXT NOT NULL,
	a INTEGER NOT NULL DEFAULT 0,
	b INTEGER NOT NULL DEFAULT 0,
	a_conversions INTEGER NOT NULL DEFAULT 0,
	b_conversions INTEGER NOT NULL DEFAULT 0
);
`
