// Package types defines the core domain types shared across the Prospect
// system: canonical entities, persons, evidence records, and the transient
// types produced by the discovery pipeline.
package types

// EntityType classifies a canonical entity.
type EntityType string

// Valid entity types. Names are unique within a type.
const (
	EntityOccupation          EntityType = "occupation"
	EntityCompany             EntityType = "company"
	EntityUniversity          EntityType = "university"
	EntityHighSchool          EntityType = "high_school"
	EntityLocation            EntityType = "location"
	EntityInterestSubcategory EntityType = "interest_subcategory"
)

// AllEntityTypes lists every valid entity type.
var AllEntityTypes = []EntityType{
	EntityOccupation,
	EntityCompany,
	EntityUniversity,
	EntityHighSchool,
	EntityLocation,
	EntityInterestSubcategory,
}

// CriteriaEntityTypes are the types a criteria-pass retrieval searches.
// Subject retrieval is restricted to EntityOccupation.
var CriteriaEntityTypes = []EntityType{
	EntityLocation,
	EntityCompany,
	EntityUniversity,
	EntityHighSchool,
	EntityInterestSubcategory,
}

// IsValid reports whether t is one of the known entity types.
func (t EntityType) IsValid() bool {
	switch t {
	case EntityOccupation, EntityCompany, EntityUniversity,
		EntityHighSchool, EntityLocation, EntityInterestSubcategory:
		return true
	}
	return false
}

// CanonicalEntity is a deduplicated, normalized real-world entity that raw
// extractions resolve to. Entities are created by an offline resolution
// process and are immutable except for embedding backfill. An entity without
// an embedding is excluded from vector retrieval, not an error.
type CanonicalEntity struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Type EntityType `json:"type"`

	// Embedding is the precomputed vector for similarity search.
	// Nil when the entity has not been backfilled yet.
	Embedding []float32 `json:"-"`
}

// CandidateEntity is the output of one nearest-neighbor search: a canonical
// entity annotated with its similarity (1 - cosine distance) to a query term.
// Candidates from multiple term searches are merged by id keeping the
// maximum similarity observed.
type CandidateEntity struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Type       EntityType `json:"type"`
	Similarity float64    `json:"similarity"`
}
