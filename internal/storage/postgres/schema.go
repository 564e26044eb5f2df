// Package postgres provides the PostgreSQL implementation of the storage
// interfaces. Vector search requires the pgvector extension.
package postgres

// Schema contains the SQL statements to create the database schema.
// All statements are idempotent (IF NOT EXISTS).
const Schema = `
-- Person table: root aggregate for a researched individual.
CREATE TABLE IF NOT EXISTS person (
    id TEXT PRIMARY KEY,
    first_name TEXT NOT NULL DEFAULT '',
    middle_name TEXT,
    last_name TEXT NOT NULL DEFAULT '',
    occupation TEXT,
    employer TEXT,
    location TEXT,
    case_session_id TEXT NOT NULL,
    organization_id TEXT NOT NULL,

    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Canonical entities: deduplicated real-world entities with precomputed
-- embeddings. Created by the offline resolution process; immutable except
-- for embedding backfill.
CREATE TABLE IF NOT EXISTS canonical_entities (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    type TEXT NOT NULL,

    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,

    UNIQUE(name, type)
);

-- Evidence index: one row per extracted entity mention for a person.
CREATE TABLE IF NOT EXISTS datapoint_entity_index (
    id TEXT PRIMARY KEY,
    person_id TEXT NOT NULL REFERENCES person(id) ON DELETE CASCADE,
    entity_type TEXT NOT NULL,
    entity_value TEXT NOT NULL,
    canonical_name TEXT,
    canonical_entity_id TEXT REFERENCES canonical_entities(id),
    confidence REAL NOT NULL DEFAULT 0,
    source_url TEXT,
    source_name TEXT,
    datapoint_id TEXT,

    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Source documents referenced by evidence rows and profile documents.
CREATE TABLE IF NOT EXISTS person_datapoints (
    id TEXT PRIMARY KEY,
    person_id TEXT NOT NULL REFERENCES person(id) ON DELETE CASCADE,
    url TEXT NOT NULL DEFAULT '',
    title TEXT,
    snippet TEXT,
    type TEXT,
    data_category TEXT,
    structured_data JSONB,
    status TEXT NOT NULL DEFAULT 'accepted',
    confidence REAL NOT NULL DEFAULT 0,

    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Indexes for the discovery pipeline's access paths.
CREATE INDEX IF NOT EXISTS idx_person_case_session ON person(case_session_id);
CREATE INDEX IF NOT EXISTS idx_canonical_entities_type ON canonical_entities(type);
CREATE INDEX IF NOT EXISTS idx_dei_person ON datapoint_entity_index(person_id);
CREATE INDEX IF NOT EXISTS idx_dei_canonical_entity ON datapoint_entity_index(canonical_entity_id);
CREATE INDEX IF NOT EXISTS idx_dei_source_name ON datapoint_entity_index(person_id, source_name);
CREATE INDEX IF NOT EXISTS idx_datapoints_person_category ON person_datapoints(person_id, data_category);
`

// MigrationPgvector adds the embedding column and the ANN index. Applied
// only when the vector extension is available. Safe to run multiple times.
const MigrationPgvector = `
-- Add the embedding column if it doesn't already exist.
DO $$
BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM information_schema.columns
        WHERE table_name = 'canonical_entities' AND column_name = 'embedding'
    ) THEN
        ALTER TABLE canonical_entities ADD COLUMN embedding vector;
    END IF;
END
$$;

-- ivfflat cosine index for approximate nearest-neighbor search.
-- ivfflat requires at least one row to exist; guard with a DO block.
DO $$
BEGIN
  IF NOT EXISTS (
    SELECT 1 FROM pg_indexes WHERE indexname = 'idx_canonical_entities_embedding_cosine'
  ) THEN
    IF EXISTS (SELECT 1 FROM canonical_entities WHERE embedding IS NOT NULL LIMIT 1) THEN
      EXECUTE 'CREATE INDEX idx_canonical_entities_embedding_cosine ON canonical_entities USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100)';
    END IF;
  END IF;
END$$;
`
