package types

// EvidenceMatch is one evidence record that matched a retrieved candidate
// entity, annotated with the candidate's similarity. DatapointID is internal
// plumbing for the datapoint lookup and never serialized.
type EvidenceMatch struct {
	EntityValue string     `json:"entity_value"`
	EntityType  EntityType `json:"entity_type"`
	Similarity  float64    `json:"similarity"`
	DatapointID string     `json:"-"`
}

// PersonScore holds the per-person scoring result built from the join of
// candidate entity sets against the evidence index. It lives for a single
// request and is discarded after the response is sent.
//
// SubjectScore and CriteriaScore are each the sum of at most five
// similarities, so both are bounded by 5.0 and CombinedScore by 10.0.
type PersonScore struct {
	PersonID        string          `json:"person_id"`
	SubjectScore    float64         `json:"subject_score"`
	CriteriaScore   float64         `json:"criteria_score"`
	CombinedScore   float64         `json:"combined_score"`
	SubjectMatches  []EvidenceMatch `json:"subject_matches"`
	CriteriaMatches []EvidenceMatch `json:"criteria_matches"`
}

// MatchedOccupation returns the entity value of the strongest subject match,
// used as the display occupation. Falls back to "unknown".
func (s *PersonScore) MatchedOccupation() string {
	if len(s.SubjectMatches) == 0 {
		return "unknown"
	}
	return s.SubjectMatches[0].EntityValue
}

// RankedFounder is one row of the discovery response: a scored person
// enriched with display metadata.
//
// OccupationScore and CriteriaScore are normalized to 0–1 for display
// (partial score divided by the maximum possible sum of 5.0). CombinedScore
// is the unnormalized ranking score.
type RankedFounder struct {
	PersonID           string          `json:"person_id"`
	Name               string          `json:"name"`
	LinkedInURL        string          `json:"linkedin_url,omitempty"`
	ProfilePictureURL  string          `json:"profile_picture_url,omitempty"`
	MatchedOccupation  string          `json:"matched_occupation"`
	OccupationScore    float64         `json:"occupation_score"`
	CriteriaScore      float64         `json:"criteria_score"`
	CombinedScore      float64         `json:"combined_score"`
	MatchingEntities   []EvidenceMatch `json:"matching_entities"`
	SubjectDatapoints  []Datapoint     `json:"subject_datapoints"`
	CriteriaDatapoints []Datapoint     `json:"criteria_datapoints"`
}
