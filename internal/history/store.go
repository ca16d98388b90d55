// Package history persists search and watch history in SQLite.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store is the history database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating when needed) the database at path and applies
// pending migrations.
func Open(path string) (*Store, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("history: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open: %w", err)
	}
	// One connection: every pooled connection to ":memory:" would be a
	// separate empty database, and the history writer is single anyway.
	db.SetMaxOpenConns(1)

	pragmas := []string{"PRAGMA busy_timeout=5000"}
	if path != MemoryPath {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL", "PRAGMA synchronous=NORMAL")
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("history: %s: %w", p, err)
		}
	}

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type migration struct {
	version    int
	statements []string
}

var migrations = []migration{
	{
		version: 1,
		statements: []string{
			`CREATE TABLE IF NOT EXISTS search_history (
				query TEXT PRIMARY KEY,
				timestamp INTEGER NOT NULL
			);`,
			`CREATE TABLE IF NOT EXISTS watch_history (
				id TEXT PRIMARY KEY,
				title TEXT NOT NULL,
				video_url TEXT NOT NULL,
				thumbnail_url TEXT,
				timestamp INTEGER NOT NULL,
				screen_type TEXT NOT NULL DEFAULT '',
				path_stack_json TEXT NOT NULL DEFAULT '[]'
			);`,
			`CREATE INDEX IF NOT EXISTS idx_search_history_timestamp ON search_history(timestamp DESC);`,
			`CREATE INDEX IF NOT EXISTS idx_watch_history_timestamp ON watch_history(timestamp DESC);`,
		},
	},
	{
		version: 2,
		statements: []string{
			`ALTER TABLE watch_history ADD COLUMN position_ms INTEGER NOT NULL DEFAULT 0;`,
		},
	},
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at INTEGER NOT NULL
	);`); err != nil {
		return fmt.Errorf("history: create schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("history: read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := s.applyMigration(m); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) applyMigration(m migration) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("history: start migration %d: %w", m.version, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range m.statements {
		if _, err = tx.Exec(stmt); err != nil {
			return fmt.Errorf("history: migration %d: %w", m.version, err)
		}
	}
	if _, err = tx.Exec(`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`, m.version, s.now().Unix()); err != nil {
		return fmt.Errorf("history: record migration %d: %w", m.version, err)
	}
	return tx.Commit()
}
