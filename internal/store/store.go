package store

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"gitlab.com/tozd/go/errors"
)

// Store is the SQLite data access layer for pinned markers and their
// bookkeeping metadata.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, errors.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates all tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return errors.Errorf("migrate: %w", err)
	}
	if err := s.SetMeta(MetaSchemaVersion, schemaVersion); err != nil {
		return errors.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaVersion = "1"

const schemaDDL = `
CREATE TABLE IF NOT EXISTS markers (
  identity        TEXT PRIMARY KEY,
  name            TEXT NOT NULL,
  kind            TEXT NOT NULL,
  style           TEXT NOT NULL,
  source          TEXT NOT NULL DEFAULT 'manual',
  updated_at      TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS metadata (
  key             TEXT PRIMARY KEY,
  value           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_markers_source ON markers(source);
CREATE INDEX IF NOT EXISTS idx_markers_name ON markers(name);
`
