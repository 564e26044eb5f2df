package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/scrypster/prospect/internal/storage"
	"github.com/scrypster/prospect/pkg/types"
)

// ListByCanonicalIDs returns evidence records whose canonical entity id is
// in canonicalIDs, restricted to the scope, with confidence strictly above
// minConfidence. The join against person enforces session and organization
// scoping.
func (s *Store) ListByCanonicalIDs(ctx context.Context, canonicalIDs []string, scope storage.SessionScope, minConfidence float64) ([]types.Evidence, error) {
	if !scope.Valid() {
		return nil, fmt.Errorf("%w: case session id and organization id are required", storage.ErrInvalidInput)
	}
	if len(canonicalIDs) == 0 {
		return []types.Evidence{}, nil
	}

	const querySQL = `
		SELECT dei.person_id, dei.entity_type, dei.entity_value,
		       dei.canonical_name, dei.canonical_entity_id,
		       dei.confidence, dei.source_url, dei.source_name, dei.datapoint_id
		FROM datapoint_entity_index dei
		INNER JOIN person ON person.id = dei.person_id
		WHERE dei.canonical_entity_id = ANY($1)
		  AND dei.confidence > $2
		  AND person.case_session_id = $3
		  AND person.organization_id = $4
	`

	rows, err := s.db.QueryContext(ctx, querySQL, pq.Array(canonicalIDs), minConfidence, scope.CaseSessionID, scope.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("postgres: ListByCanonicalIDs query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var evidence []types.Evidence
	for rows.Next() {
		ev, err := scanEvidenceRow(rows)
		if err != nil {
			return nil, err
		}
		evidence = append(evidence, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: ListByCanonicalIDs rows: %w", err)
	}

	return evidence, nil
}

// FindSourceURL returns the first source_url recorded for the person under
// the given source_name tag (e.g. the LinkedIn enrichment tag).
func (s *Store) FindSourceURL(ctx context.Context, personID, sourceName string) (string, error) {
	if personID == "" || sourceName == "" {
		return "", fmt.Errorf("%w: person id and source name are required", storage.ErrInvalidInput)
	}

	const querySQL = `
		SELECT source_url
		FROM datapoint_entity_index
		WHERE person_id = $1 AND source_name = $2 AND source_url IS NOT NULL
		LIMIT 1
	`

	var url sql.NullString
	err := s.db.QueryRowContext(ctx, querySQL, personID, sourceName).Scan(&url)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("postgres: FindSourceURL: %w", err)
	}
	if !url.Valid || url.String == "" {
		return "", storage.ErrNotFound
	}
	return url.String, nil
}

// scanEvidenceRow scans one evidence row. The SELECT column order must match.
func scanEvidenceRow(rows *sql.Rows) (types.Evidence, error) {
	var ev types.Evidence
	var entityType string
	var canonicalName, canonicalEntityID, sourceURL, sourceName, datapointID sql.NullString

	err := rows.Scan(
		&ev.PersonID,
		&entityType,
		&ev.EntityValue,
		&canonicalName,
		&canonicalEntityID,
		&ev.Confidence,
		&sourceURL,
		&sourceName,
		&datapointID,
	)
	if err != nil {
		return ev, fmt.Errorf("postgres: scan evidence row: %w", err)
	}

	ev.EntityType = types.EntityType(entityType)
	if canonicalName.Valid {
		ev.CanonicalName = canonicalName.String
	}
	if canonicalEntityID.Valid {
		ev.CanonicalEntityID = canonicalEntityID.String
	}
	if sourceURL.Valid {
		ev.SourceURL = sourceURL.String
	}
	if sourceName.Valid {
		ev.SourceName = sourceName.String
	}
	if datapointID.Valid {
		ev.DatapointID = datapointID.String
	}

	return ev, nil
}
