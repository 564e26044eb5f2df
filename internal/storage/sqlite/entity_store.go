package sqlite

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/scrypster/prospect/internal/storage"
	"github.com/scrypster/prospect/pkg/types"
)

// SearchSimilar performs an exact cosine scan over entities of the given
// types. Semantics match the Postgres backend: entities without an embedding
// are excluded and results come back ordered by similarity descending.
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

	placeholders := make([]string, len(entityTypes))
	args := make([]any, len(entityTypes))
	for i, et := range entityTypes {
		placeholders[i] = "?"
		args[i] = string(et)
	}

	querySQL := fmt.Sprintf(`
		SELECT id, name, type, embedding
		FROM canonical_entities
		WHERE embedding IS NOT NULL AND type IN (%s)`,
		strings.Join(placeholders, ", "))

	rows, err := s.db.QueryContext(ctx, querySQL, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: SearchSimilar query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var candidates []types.CandidateEntity
	for rows.Next() {
		var c types.CandidateEntity
		var typeName string
		var blob []byte
		if err := rows.Scan(&c.ID, &c.Name, &typeName, &blob); err != nil {
			return nil, fmt.Errorf("sqlite: SearchSimilar scan: %w", err)
		}
		embedding, err := decodeVector(blob)
		if err != nil {
			log.Printf("sqlite: skipping entity %s: %v", c.ID, err)
			continue
		}
		c.Type = types.EntityType(typeName)
		c.Similarity = cosineSimilarity(vector, embedding)
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: SearchSimilar rows: %w", err)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}
