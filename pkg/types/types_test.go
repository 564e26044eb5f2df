package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityTypeIsValid(t *testing.T) {
	for _, et := range AllEntityTypes {
		assert.True(t, et.IsValid(), "expected %q to be valid", et)
	}
	assert.False(t, EntityType("hobby").IsValid())
	assert.False(t, EntityType("").IsValid())
}

func TestCriteriaTypeIsValid(t *testing.T) {
	for _, ct := range []CriteriaType{CriteriaInterest, CriteriaEducation, CriteriaLocation, CriteriaCompany, CriteriaMixed} {
		assert.True(t, ct.IsValid())
	}
	assert.False(t, CriteriaType("vibes").IsValid())
}

func TestPersonDisplayName(t *testing.T) {
	tests := []struct {
		name   string
		person Person
		want   string
	}{
		{"full name", Person{FirstName: "Ada", MiddleName: "B", LastName: "Lovelace"}, "Ada B Lovelace"},
		{"no middle", Person{FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		{"first only", Person{FirstName: "Ada"}, "Ada"},
		{"empty", Person{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.person.DisplayName())
		})
	}
}

func TestParsedQuerySubjectTerms(t *testing.T) {
	q := ParsedQuery{
		Subject:           "CTO",
		SubjectVariations: []string{"Chief Technology Officer", "VP Engineering"},
	}
	assert.Equal(t, []string{"CTO", "Chief Technology Officer", "VP Engineering"}, q.SubjectTerms())

	bare := ParsedQuery{Subject: "founder"}
	assert.Equal(t, []string{"founder"}, bare.SubjectTerms())
}

func TestEvidenceMatchJSONOmitsDatapointID(t *testing.T) {
	data, err := json.Marshal(EvidenceMatch{
		EntityValue: "CTO",
		EntityType:  EntityOccupation,
		Similarity:  0.9,
		DatapointID: "dp-1",
	})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "datapoint_id")
	assert.NotContains(t, string(data), "dp-1")
}

func TestPersonScoreMatchedOccupation(t *testing.T) {
	s := PersonScore{SubjectMatches: []EvidenceMatch{
		{EntityValue: "CTO", Similarity: 0.9},
		{EntityValue: "engineer", Similarity: 0.5},
	}}
	assert.Equal(t, "CTO", s.MatchedOccupation())

	empty := PersonScore{}
	assert.Equal(t, "unknown", empty.MatchedOccupation())
}
