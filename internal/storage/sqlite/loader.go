package sqlite

import (
	"context"
	"fmt"

	"github.com/scrypster/prospect/pkg/types"
)

// Loader methods used by the setup tool and tests.

// InsertCanonicalEntity upserts a canonical entity, including its embedding
// when present.
func (s *Store) InsertCanonicalEntity(ctx context.Context, e types.CanonicalEntity) error {
	var blob []byte
	if e.Embedding != nil {
		blob = encodeVector(e.Embedding)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO canonical_entities (id, name, type, embedding)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET embedding = excluded.embedding`,
		e.ID, e.Name, string(e.Type), blob)
	if err != nil {
		return fmt.Errorf("sqlite: insert canonical entity %q: %w", e.Name, err)
	}
	return nil
}

// InsertPerson upserts a person row.
func (s *Store) InsertPerson(ctx context.Context, p types.Person) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO person (id, first_name, middle_name, last_name, occupation, employer, location, case_session_id, organization_id)
		VALUES (?, ?, NULLIF(?, ''), ?, NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''), ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		p.ID, p.FirstName, p.MiddleName, p.LastName, p.Occupation, p.Employer, p.Location, p.CaseSessionID, p.OrganizationID)
	if err != nil {
		return fmt.Errorf("sqlite: insert person %q: %w", p.ID, err)
	}
	return nil
}

// InsertEvidence inserts one evidence row with the given id.
func (s *Store) InsertEvidence(ctx context.Context, id string, ev types.Evidence) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO datapoint_entity_index
			(id, person_id, entity_type, entity_value, canonical_name, canonical_entity_id, confidence, source_url, source_name, datapoint_id)
		VALUES (?, ?, ?, ?, NULLIF(?, ''), NULLIF(?, ''), ?, NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''))
		ON CONFLICT (id) DO NOTHING`,
		id, ev.PersonID, string(ev.EntityType), ev.EntityValue, ev.CanonicalName,
		ev.CanonicalEntityID, ev.Confidence, ev.SourceURL, ev.SourceName, ev.DatapointID)
	if err != nil {
		return fmt.Errorf("sqlite: insert evidence %q: %w", id, err)
	}
	return nil
}

// InsertDatapoint inserts one source document row.
func (s *Store) InsertDatapoint(ctx context.Context, personID string, dp types.Datapoint) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO person_datapoints (id, person_id, url, title, snippet)
		VALUES (?, ?, ?, NULLIF(?, ''), NULLIF(?, ''))
		ON CONFLICT (id) DO NOTHING`,
		dp.ID, personID, dp.URL, dp.Title, dp.Snippet)
	if err != nil {
		return fmt.Errorf("sqlite: insert datapoint %q: %w", dp.ID, err)
	}
	return nil
}

// InsertProfileDocument inserts a profile-category document with a raw
// structured payload.
func (s *Store) InsertProfileDocument(ctx context.Context, id, personID string, platform types.Platform, structuredData []byte, confidence float64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO person_datapoints (id, person_id, type, data_category, structured_data, confidence)
		VALUES (?, ?, ?, 'profile', ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		id, personID, string(platform), structuredData, confidence)
	if err != nil {
		return fmt.Errorf("sqlite: insert profile document %q: %w", id, err)
	}
	return nil
}
