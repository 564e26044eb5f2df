package postgres

import (
	"context"
	"fmt"

	"github.com/scrypster/prospect/internal/storage"
)

// GetStats returns dashboard counters for one scope. Canonical entity
// counts are global (entities are shared across sessions).
func (s *Store) GetStats(ctx context.Context, scope storage.SessionScope) (*storage.Stats, error) {
	if !scope.Valid() {
		return nil, fmt.Errorf("%w: case session id and organization id are required", storage.ErrInvalidInput)
	}

	stats := &storage.Stats{EntitiesByType: make(map[string]int)}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM person WHERE case_session_id = $1 AND organization_id = $2`,
		scope.CaseSessionID, scope.OrganizationID,
	).Scan(&stats.Persons); err != nil {
		return nil, fmt.Errorf("postgres: GetStats persons: %w", err)
	}

	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM datapoint_entity_index dei
		INNER JOIN person ON person.id = dei.person_id
		WHERE person.case_session_id = $1 AND person.organization_id = $2`,
		scope.CaseSessionID, scope.OrganizationID,
	).Scan(&stats.EvidenceRecords); err != nil {
		return nil, fmt.Errorf("postgres: GetStats evidence: %w", err)
	}

	// The embedding column only exists once the pgvector migration has run.
	if s.pgvectorAvailable {
		if err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*), COUNT(embedding) FROM canonical_entities`,
		).Scan(&stats.CanonicalEntities, &stats.EntitiesWithEmbeddings); err != nil {
			return nil, fmt.Errorf("postgres: GetStats entities: %w", err)
		}
	} else {
		if err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM canonical_entities`,
		).Scan(&stats.CanonicalEntities); err != nil {
			return nil, fmt.Errorf("postgres: GetStats entities: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT type, COUNT(*) FROM canonical_entities GROUP BY type`)
	if err != nil {
		return nil, fmt.Errorf("postgres: GetStats entities by type: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var typeName string
		var count int
		if err := rows.Scan(&typeName, &count); err != nil {
			return nil, fmt.Errorf("postgres: GetStats scan: %w", err)
		}
		stats.EntitiesByType[typeName] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: GetStats rows: %w", err)
	}

	return stats, nil
}
