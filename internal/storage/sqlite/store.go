// Package sqlite implements the storage interfaces on an embedded SQLite
// database. It is the development and test backend: similarity search is an
// exact cosine scan in Go over packed float32 blobs rather than an indexed
// approximate search, so it trades scale for zero external dependencies.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/scrypster/prospect/internal/storage"
)

// Schema mirrors the Postgres schema in SQLite dialect. Embeddings are
// packed little-endian float32 blobs instead of a vector column.
const Schema = `
CREATE TABLE IF NOT EXISTS person (
	id TEXT PRIMARY KEY,
	first_name TEXT NOT NULL,
	middle_name TEXT,
	last_name TEXT NOT NULL,
	occupation TEXT,
	employer TEXT,
	location TEXT,
	case_session_id TEXT NOT NULL,
	organization_id TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_person_session ON person(case_session_id);

CREATE TABLE IF NOT EXISTS canonical_entities (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	embedding BLOB,
	UNIQUE(name, type)
);

CREATE INDEX IF NOT EXISTS idx_canonical_entities_type ON canonical_entities(type);

CREATE TABLE IF NOT EXISTS datapoint_entity_index (
	id TEXT PRIMARY KEY,
	person_id TEXT NOT NULL REFERENCES person(id),
	entity_type TEXT NOT NULL,
	entity_value TEXT NOT NULL,
	canonical_name TEXT,
	canonical_entity_id TEXT REFERENCES canonical_entities(id),
	confidence REAL NOT NULL DEFAULT 0,
	source_url TEXT,
	source_name TEXT,
	datapoint_id TEXT
);

CREATE INDEX IF NOT EXISTS idx_dei_canonical ON datapoint_entity_index(canonical_entity_id);
CREATE INDEX IF NOT EXISTS idx_dei_person_source ON datapoint_entity_index(person_id, source_name);

CREATE TABLE IF NOT EXISTS person_datapoints (
	id TEXT PRIMARY KEY,
	person_id TEXT NOT NULL REFERENCES person(id),
	url TEXT NOT NULL DEFAULT '',
	title TEXT,
	snippet TEXT,
	type TEXT,
	data_category TEXT,
	structured_data BLOB,
	status TEXT NOT NULL DEFAULT 'accepted',
	confidence REAL NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_datapoints_person_category ON person_datapoints(person_id, data_category);
`

// Store implements storage.Store on SQLite.
type Store struct {
	db *sql.DB
}

var _ storage.Store = (*Store)(nil)

// NewStore opens (or creates) the database at path and applies the schema.
// Use ":memory:" for an ephemeral store in tests.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// The modernc driver serializes access per connection; a single
	// connection avoids SQLITE_BUSY under concurrent handlers and keeps
	// ":memory:" databases from silently splitting per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: enable foreign keys: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// GetDB exposes the underlying handle for tests.
func (s *Store) GetDB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
