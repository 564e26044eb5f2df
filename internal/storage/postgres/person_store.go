package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/lib/pq"

	"github.com/scrypster/prospect/internal/storage"
	"github.com/scrypster/prospect/pkg/types"
)

// Get retrieves a person by id. Returns storage.ErrNotFound on miss.
func (s *Store) Get(ctx context.Context, id string) (*types.Person, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: person id is required", storage.ErrInvalidInput)
	}

	const querySQL = `
		SELECT id, first_name, middle_name, last_name,
		       occupation, employer, location, case_session_id, organization_id
		FROM person
		WHERE id = $1
	`

	var p types.Person
	var middleName, occupation, employer, location sql.NullString
	err := s.db.QueryRowContext(ctx, querySQL, id).Scan(
		&p.ID, &p.FirstName, &middleName, &p.LastName,
		&occupation, &employer, &location, &p.CaseSessionID, &p.OrganizationID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: Get person %q: %w", id, err)
	}

	if middleName.Valid {
		p.MiddleName = middleName.String
	}
	if occupation.Valid {
		p.Occupation = occupation.String
	}
	if employer.Valid {
		p.Employer = employer.String
	}
	if location.Valid {
		p.Location = location.String
	}

	return &p, nil
}

// GetDatapoints retrieves the datapoints with the given ids. Missing ids are
// omitted; callers that care about ordering re-order by their id list.
func (s *Store) GetDatapoints(ctx context.Context, ids []string) ([]types.Datapoint, error) {
	if len(ids) == 0 {
		return []types.Datapoint{}, nil
	}

	const querySQL = `
		SELECT id, url, title, snippet
		FROM person_datapoints
		WHERE id = ANY($1)
	`

	rows, err := s.db.QueryContext(ctx, querySQL, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("postgres: GetDatapoints query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var datapoints []types.Datapoint
	for rows.Next() {
		var dp types.Datapoint
		var title, snippet sql.NullString
		if err := rows.Scan(&dp.ID, &dp.URL, &title, &snippet); err != nil {
			return nil, fmt.Errorf("postgres: GetDatapoints scan: %w", err)
		}
		if title.Valid {
			dp.Title = title.String
		}
		if snippet.Valid {
			dp.Snippet = snippet.String
		}
		datapoints = append(datapoints, dp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: GetDatapoints rows: %w", err)
	}

	return datapoints, nil
}

// GetProfileDocuments returns the person's profile-category documents
// ordered by extraction confidence descending, rejected rows excluded.
// Rows whose structured payload fails to decode are logged and skipped so
// one malformed document does not hide the others.
func (s *Store) GetProfileDocuments(ctx context.Context, personID string) ([]types.ProfileDocument, error) {
	if personID == "" {
		return nil, fmt.Errorf("%w: person id is required", storage.ErrInvalidInput)
	}

	const querySQL = `
		SELECT type, structured_data
		FROM person_datapoints
		WHERE person_id = $1
		  AND data_category = 'profile'
		  AND status != 'rejected'
		  AND structured_data IS NOT NULL
		ORDER BY confidence DESC
	`

	rows, err := s.db.QueryContext(ctx, querySQL, personID)
	if err != nil {
		return nil, fmt.Errorf("postgres: GetProfileDocuments query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []types.ProfileDocument
	for rows.Next() {
		var platform sql.NullString
		var raw []byte
		if err := rows.Scan(&platform, &raw); err != nil {
			return nil, fmt.Errorf("postgres: GetProfileDocuments scan: %w", err)
		}
		if !platform.Valid {
			continue
		}
		doc, err := types.DecodeProfileDocument(types.Platform(platform.String), raw)
		if err != nil {
			log.Printf("postgres: skipping malformed profile document for person %s: %v", personID, err)
			continue
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: GetProfileDocuments rows: %w", err)
	}

	return docs, nil
}
