package localdb

import "fmt"

// migrations are applied in order; user_version tracks progress.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS cached_sessions (
		id INTEGER NOT NULL,
		duration INTEGER NOT NULL,
		task TEXT NOT NULL DEFAULT '',
		completed INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		start_time TEXT,
		end_time TEXT,
		position INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_cached_sessions_position ON cached_sessions(position);

	CREATE TABLE IF NOT EXISTS cached_stats (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		payload TEXT NOT NULL,
		fetched_at_epoch INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`,
}

func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return err
	}

	for i := version; i < len(migrations); i++ {
		if _, err := s.db.Exec(migrations[i]); err != nil {
			return err
		}
		// PRAGMA does not support placeholders.
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			return err
		}
	}

	return nil
}
