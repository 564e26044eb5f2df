package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/scrypster/prospect/internal/storage"
	"github.com/scrypster/prospect/pkg/types"
)

// SearchSimilar performs pgvector cosine nearest-neighbor search over
// canonical entities restricted to the given types. Rows without an
// embedding are excluded. Similarity is 1 - cosine_distance; results are
// ordered by similarity descending (the index orders by distance ascending)
// and capped at limit.
func (s *Store) SearchSimilar(ctx context.Context, vector []float32, entityTypes []types.EntityType, limit int) ([]types.CandidateEntity, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: query vector is empty", storage.ErrInvalidInput)
	}
	if len(entityTypes) == 0 {
		return nil, fmt.Errorf("%w: at least one entity type is required", storage.ErrInvalidInput)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidInput)
	}
	if !s.pgvectorAvailable {
		return nil, errors.New("postgres: vector search unavailable (pgvector extension not installed)")
	}

	typeNames := make([]string, len(entityTypes))
	for i, et := range entityTypes {
		typeNames[i] = string(et)
	}
	vec := pgvector.NewVector(vector)

	const querySQL = `
		SELECT id, name, type, 1 - (embedding <=> $1::vector) AS similarity
		FROM canonical_entities
		WHERE embedding IS NOT NULL AND type = ANY($2)
		ORDER BY embedding <=> $1::vector
		LIMIT $3
	`

	rows, err := s.db.QueryContext(ctx, querySQL, vec, pq.Array(typeNames), limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: SearchSimilar query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var candidates []types.CandidateEntity
	for rows.Next() {
		var c types.CandidateEntity
		var typeName string
		if err := rows.Scan(&c.ID, &c.Name, &typeName, &c.Similarity); err != nil {
			return nil, fmt.Errorf("postgres: SearchSimilar scan: %w", err)
		}
		c.Type = types.EntityType(typeName)
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: SearchSimilar rows: %w", err)
	}

	return candidates, nil
}
