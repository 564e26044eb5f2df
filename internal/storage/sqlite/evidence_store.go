package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/scrypster/prospect/internal/storage"
	"github.com/scrypster/prospect/pkg/types"
)

// ListByCanonicalIDs returns evidence records whose canonical entity id is
// in canonicalIDs, restricted to the scope, with confidence strictly above
// minConfidence.
func (s *Store) ListByCanonicalIDs(ctx context.Context, canonicalIDs []string, scope storage.SessionScope, minConfidence float64) ([]types.Evidence, error) {
	if !scope.Valid() {
		return nil, fmt.Errorf("%w: case session id and organization id are required", storage.ErrInvalidInput)
	}
	if len(canonicalIDs) == 0 {
		return []types.Evidence{}, nil
	}

	placeholders := make([]string, len(canonicalIDs))
	args := make([]any, 0, len(canonicalIDs)+3)
	for i, id := range canonicalIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}
	args = append(args, minConfidence, scope.CaseSessionID, scope.OrganizationID)

	querySQL := fmt.Sprintf(`
		SELECT dei.person_id, dei.entity_type, dei.entity_value,
		       dei.canonical_name, dei.canonical_entity_id,
		       dei.confidence, dei.source_url, dei.source_name, dei.datapoint_id
		FROM datapoint_entity_index dei
		INNER JOIN person ON person.id = dei.person_id
		WHERE dei.canonical_entity_id IN (%s)
		  AND dei.confidence > ?
		  AND person.case_session_id = ?
		  AND person.organization_id = ?`,
		strings.Join(placeholders, ", "))

	rows, err := s.db.QueryContext(ctx, querySQL, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: ListByCanonicalIDs query: %w", err)
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
		return nil, fmt.Errorf("sqlite: ListByCanonicalIDs rows: %w", err)
	}

	return evidence, nil
}

// FindSourceURL returns the first source_url recorded for the person under
// the given source_name tag.
func (s *Store) FindSourceURL(ctx context.Context, personID, sourceName string) (string, error) {
	if personID == "" || sourceName == "" {
		return "", fmt.Errorf("%w: person id and source name are required", storage.ErrInvalidInput)
	}

	const querySQL = `
		SELECT source_url
		FROM datapoint_entity_index
		WHERE person_id = ? AND source_name = ? AND source_url IS NOT NULL
		LIMIT 1
	`

	var url sql.NullString
	err := s.db.QueryRowContext(ctx, querySQL, personID, sourceName).Scan(&url)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("sqlite: FindSourceURL: %w", err)
	}
	if !url.Valid || url.String == "" {
		return "", storage.ErrNotFound
	}
	return url.String, nil
}

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
		return ev, fmt.Errorf("sqlite: scan evidence row: %w", err)
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
