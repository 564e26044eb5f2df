package discovery

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/scrypster/prospect/internal/llm"
	"github.com/scrypster/prospect/internal/storage"
	"github.com/scrypster/prospect/pkg/types"
)

// CandidateRetriever turns query terms into a merged set of candidate
// canonical entities. Each term is embedded and searched independently;
// candidates appearing for multiple terms are deduplicated keeping the
// maximum similarity observed.
type CandidateRetriever struct {
	embedder llm.EmbeddingGenerator
	entities storage.EntityStore
	cache    *lru.Cache[string, []float32]
	limit    int
}

// NewCandidateRetriever builds a retriever with an LRU cache of cacheSize
// term embeddings. Query vocabularies repeat heavily across requests, so
// even a small cache absorbs most of the embedding traffic.
func NewCandidateRetriever(embedder llm.EmbeddingGenerator, entities storage.EntityStore, limit, cacheSize int) (*CandidateRetriever, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("discovery: candidate limit must be positive, got %d", limit)
	}
	cache, err := lru.New[string, []float32](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("discovery: embedding cache: %w", err)
	}
	return &CandidateRetriever{
		embedder: embedder,
		entities: entities,
		cache:    cache,
		limit:    limit,
	}, nil
}

// Retrieve runs one retrieval pass: embed each term, search entities of the
// given types, and merge. A single term failing (embedding or search) is
// logged and skipped; Retrieve fails only when every term fails or the
// context is done.
func (r *CandidateRetriever) Retrieve(ctx context.Context, terms []string, entityTypes []types.EntityType) ([]types.CandidateEntity, error) {
	terms = dedupeTerms(terms)
	if len(terms) == 0 {
		return []types.CandidateEntity{}, nil
	}

	merged := make(map[string]types.CandidateEntity)
	var lastErr error
	failed := 0

	for _, term := range terms {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candidates, err := r.retrieveTerm(ctx, term, entityTypes)
		if err != nil {
			log.Printf("discovery: retrieval for term %q failed: %v", term, err)
			lastErr = err
			failed++
			continue
		}
		for _, c := range candidates {
			if existing, ok := merged[c.ID]; !ok || c.Similarity > existing.Similarity {
				merged[c.ID] = c
			}
		}
	}

	if failed == len(terms) {
		return nil, fmt.Errorf("discovery: all %d retrieval terms failed: %w", len(terms), lastErr)
	}

	result := make([]types.CandidateEntity, 0, len(merged))
	for _, c := range merged {
		result = append(result, c)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Similarity != result[j].Similarity {
			return result[i].Similarity > result[j].Similarity
		}
		return result[i].ID < result[j].ID
	})
	if len(result) > r.limit {
		result = result[:r.limit]
	}
	return result, nil
}

func (r *CandidateRetriever) retrieveTerm(ctx context.Context, term string, entityTypes []types.EntityType) ([]types.CandidateEntity, error) {
	vector, err := r.embedTerm(ctx, term)
	if err != nil {
		return nil, err
	}
	return r.entities.SearchSimilar(ctx, vector, entityTypes, r.limit)
}

func (r *CandidateRetriever) embedTerm(ctx context.Context, term string) ([]float32, error) {
	key := strings.ToLower(strings.TrimSpace(term))
	if vector, ok := r.cache.Get(key); ok {
		return vector, nil
	}
	if r.embedder == nil {
		return nil, errors.New("discovery: no embedding generator configured")
	}
	vector, err := r.embedder.Embed(ctx, term)
	if err != nil {
		return nil, err
	}
	r.cache.Add(key, vector)
	return vector, nil
}

// dedupeTerms removes empty and case-insensitively duplicate terms,
// preserving first-seen order.
func dedupeTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := terms[:0:0]
	for _, t := range terms {
		trimmed := strings.TrimSpace(t)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
