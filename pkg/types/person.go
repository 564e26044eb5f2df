package types

import "strings"

// Person is the root aggregate for a researched individual. It owns evidence
// records and source datapoints by foreign key.
type Person struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	MiddleName     string `json:"middle_name,omitempty"`
	LastName       string `json:"last_name"`
	Occupation     string `json:"occupation,omitempty"`
	Employer       string `json:"employer,omitempty"`
	Location       string `json:"location,omitempty"`
	CaseSessionID  string `json:"case_session_id"`
	OrganizationID string `json:"organization_id"`
}

// DisplayName joins the person's name parts, skipping an absent middle name.
func (p *Person) DisplayName() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.FirstName, p.MiddleName, p.LastName} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Evidence is a single extracted mention of an entity for a person.
// Confidence reflects extraction certainty, not match relevance; retrieval
// and scoring apply independent similarity thresholds on top of it.
// A record with an empty CanonicalEntityID cannot participate in
// canonical-entity-based retrieval or scoring.
type Evidence struct {
	PersonID          string     `json:"person_id"`
	EntityType        EntityType `json:"entity_type"`
	EntityValue       string     `json:"entity_value"`
	CanonicalName     string     `json:"canonical_name,omitempty"`
	CanonicalEntityID string     `json:"canonical_entity_id,omitempty"`
	Confidence        float64    `json:"confidence"`
	SourceURL         string     `json:"source_url,omitempty"`
	SourceName        string     `json:"source_name,omitempty"`
	DatapointID       string     `json:"datapoint_id,omitempty"`
}

// Datapoint is a raw source document reference surfaced alongside matches.
type Datapoint struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Title   string `json:"title,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}
