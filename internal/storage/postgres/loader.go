package postgres

import (
	"context"
	"fmt"

	pgvector "github.com/pgvector/pgvector-go"

	"github.com/scrypster/prospect/pkg/types"
)

// Loader methods used by the setup tool and tests. The discovery pipeline
// itself never writes; rows normally arrive through the offline scraping and
// entity-resolution process.

// InsertCanonicalEntity upserts a canonical entity. The embedding, when
// present, is only written if pgvector is available.
func (s *Store) InsertCanonicalEntity(ctx context.Context, e types.CanonicalEntity) error {
	if s.pgvectorAvailable && e.Embedding != nil {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO canonical_entities (id, name, type, embedding)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET embedding = excluded.embedding`,
			e.ID, e.Name, string(e.Type), pgvector.NewVector(e.Embedding))
		if err != nil {
			return fmt.Errorf("postgres: insert canonical entity %q: %w", e.Name, err)
		}
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO canonical_entities (id, name, type)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING`,
		e.ID, e.Name, string(e.Type))
	if err != nil {
		return fmt.Errorf("postgres: insert canonical entity %q: %w", e.Name, err)
	}
	return nil
}

// InsertPerson upserts a person row.
func (s *Store) InsertPerson(ctx context.Context, p types.Person) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO person (id, first_name, middle_name, last_name, occupation, employer, location, case_session_id, organization_id)
		VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8, $9)
		ON CONFLICT (id) DO NOTHING`,
		p.ID, p.FirstName, p.MiddleName, p.LastName, p.Occupation, p.Employer, p.Location, p.CaseSessionID, p.OrganizationID)
	if err != nil {
		return fmt.Errorf("postgres: insert person %q: %w", p.ID, err)
	}
	return nil
}

// InsertEvidence inserts one evidence row with the given id.
func (s *Store) InsertEvidence(ctx context.Context, id string, ev types.Evidence) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO datapoint_entity_index
			(id, person_id, entity_type, entity_value, canonical_name, canonical_entity_id, confidence, source_url, source_name, datapoint_id)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''))
		ON CONFLICT (id) DO NOTHING`,
		id, ev.PersonID, string(ev.EntityType), ev.EntityValue, ev.CanonicalName,
		ev.CanonicalEntityID, ev.Confidence, ev.SourceURL, ev.SourceName, ev.DatapointID)
	if err != nil {
		return fmt.Errorf("postgres: insert evidence %q: %w", id, err)
	}
	return nil
}

// InsertDatapoint inserts one source document row.
func (s *Store) InsertDatapoint(ctx context.Context, personID string, dp types.Datapoint) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO person_datapoints (id, person_id, url, title, snippet)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
		ON CONFLICT (id) DO NOTHING`,
		dp.ID, personID, dp.URL, dp.Title, dp.Snippet)
	if err != nil {
		return fmt.Errorf("postgres: insert datapoint %q: %w", dp.ID, err)
	}
	return nil
}

// InsertProfileDocument inserts a profile-category document with a raw
// structured payload.
func (s *Store) InsertProfileDocument(ctx context.Context, id, personID string, platform types.Platform, structuredData []byte, confidence float64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO person_datapoints (id, person_id, type, data_category, structured_data, confidence)
		VALUES ($1, $2, $3, 'profile', $4, $5)
		ON CONFLICT (id) DO NOTHING`,
		id, personID, string(platform), structuredData, confidence)
	if err != nil {
		return fmt.Errorf("postgres: insert profile document %q: %w", id, err)
	}
	return nil
}
