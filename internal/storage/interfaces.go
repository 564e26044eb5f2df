// Package storage provides composable storage interfaces for the Prospect
// system.
//
// The storage layer is designed with small, focused interfaces that can be
// implemented independently and composed as needed. The discovery pipeline
// only ever reads; write access is limited to the concrete backends' loader
// methods used by the setup tool and tests.
package storage

import (
	"context"

	"github.com/scrypster/prospect/pkg/types"
)

// EntityStore provides nearest-neighbor search over canonical entities.
type EntityStore interface {
	// SearchSimilar performs an approximate nearest-neighbor search over
	// canonical entities restricted to the given types. Entities without an
	// embedding are excluded. Results are ordered by similarity
	// (1 - cosine distance) descending and capped at limit.
	SearchSimilar(ctx context.Context, vector []float32, entityTypes []types.EntityType, limit int) ([]types.CandidateEntity, error)
}

// SessionScope restricts person-derived queries to one case session within
// one organization. Both fields are required.
type SessionScope struct {
	CaseSessionID  string
	OrganizationID string
}

// Valid reports whether both scope fields are set.
func (s SessionScope) Valid() bool {
	return s.CaseSessionID != "" && s.OrganizationID != ""
}

// EvidenceStore provides access to the person evidence index.
type EvidenceStore interface {
	// ListByCanonicalIDs returns evidence records whose canonical entity id
	// is in canonicalIDs, restricted to the given scope, with confidence
	// strictly above minConfidence.
	ListByCanonicalIDs(ctx context.Context, canonicalIDs []string, scope SessionScope, minConfidence float64) ([]types.Evidence, error)

	// FindSourceURL returns the first source_url recorded for the person
	// under the given source_name tag. Returns ErrNotFound when the person
	// has no such record.
	FindSourceURL(ctx context.Context, personID, sourceName string) (string, error)
}

// PersonStore provides access to person rows and their source documents.
type PersonStore interface {
	// Get retrieves a person by id. Returns ErrNotFound on miss.
	Get(ctx context.Context, id string) (*types.Person, error)

	// GetDatapoints retrieves the datapoints with the given ids.
	// Missing ids are silently omitted; order of the result is unspecified.
	GetDatapoints(ctx context.Context, ids []string) ([]types.Datapoint, error)

	// GetProfileDocuments returns the person's profile-category documents
	// ordered by extraction confidence descending, rejected rows excluded.
	// Documents whose structured payload fails to decode are skipped.
	GetProfileDocuments(ctx context.Context, personID string) ([]types.ProfileDocument, error)
}

// Stats summarizes the data available to the dashboard for one case session.
type Stats struct {
	Persons                int            `json:"persons"`
	EvidenceRecords        int            `json:"evidence_records"`
	CanonicalEntities      int            `json:"canonical_entities"`
	EntitiesWithEmbeddings int            `json:"entities_with_embeddings"`
	EntitiesByType         map[string]int `json:"entities_by_type"`
}

// StatsProvider exposes dashboard counters.
type StatsProvider interface {
	GetStats(ctx context.Context, scope SessionScope) (*Stats, error)
}

// Store is the composed interface the server wires into handlers.
type Store interface {
	EntityStore
	EvidenceStore
	PersonStore
	StatsProvider

	// Close releases any resources held by the store.
	Close() error
}
