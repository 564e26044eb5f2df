package discovery

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrypster/prospect/pkg/types"
)

var testScoreParams = ScoreParams{
	SubjectSimilarityMin:  0.3,
	CriteriaSimilarityMin: 0.4,
	TopPerCategory:        5,
}

func TestScorePersonsJoinsAndSums(t *testing.T) {
	subjectCandidates := []types.CandidateEntity{
		{ID: "occ-cto", Similarity: 0.9},
		{ID: "occ-eng", Similarity: 0.5},
	}
	criteriaCandidates := []types.CandidateEntity{
		{ID: "uni-umich", Similarity: 0.8},
	}
	subjectEvidence := []types.Evidence{
		{PersonID: "p1", EntityType: types.EntityOccupation, EntityValue: "CTO", CanonicalEntityID: "occ-cto", Confidence: 0.9},
		{PersonID: "p1", EntityType: types.EntityOccupation, EntityValue: "engineer", CanonicalEntityID: "occ-eng", Confidence: 0.9},
		{PersonID: "p2", EntityType: types.EntityOccupation, EntityValue: "CTO", CanonicalEntityID: "occ-cto", Confidence: 0.9},
	}
	criteriaEvidence := []types.Evidence{
		{PersonID: "p1", EntityType: types.EntityUniversity, EntityValue: "UMich", CanonicalEntityID: "uni-umich", Confidence: 0.9},
	}

	scores := ScorePersons(subjectCandidates, criteriaCandidates, subjectEvidence, criteriaEvidence, testScoreParams)
	require.Len(t, scores, 2)

	// p1 has both categories and ranks first.
	assert.Equal(t, "p1", scores[0].PersonID)
	assert.InDelta(t, 1.4, scores[0].SubjectScore, 1e-9)
	assert.InDelta(t, 0.8, scores[0].CriteriaScore, 1e-9)
	assert.InDelta(t, 2.2, scores[0].CombinedScore, 1e-9)
	assert.Equal(t, "CTO", scores[0].MatchedOccupation())

	assert.Equal(t, "p2", scores[1].PersonID)
	assert.InDelta(t, 0.9, scores[1].SubjectScore, 1e-9)
	assert.Zero(t, scores[1].CriteriaScore)
}

func TestScorePersonsCriteriaUseCanonicalName(t *testing.T) {
	subjectCandidates := []types.CandidateEntity{{ID: "occ-cto", Similarity: 0.9}}
	criteriaCandidates := []types.CandidateEntity{
		{ID: "uni-umich", Similarity: 0.8},
		{ID: "loc-detroit", Similarity: 0.7},
	}
	subjectEvidence := []types.Evidence{
		// Subject matches keep the raw value even when a canonical name exists.
		{PersonID: "p1", EntityType: types.EntityOccupation, EntityValue: "CTO",
			CanonicalName: "chief technology officer", CanonicalEntityID: "occ-cto", Confidence: 0.9},
	}
	criteriaEvidence := []types.Evidence{
		{PersonID: "p1", EntityType: types.EntityUniversity, EntityValue: "UMich",
			CanonicalName: "University of Michigan", CanonicalEntityID: "uni-umich", Confidence: 0.9},
		// No canonical name recorded, the raw value is the fallback.
		{PersonID: "p1", EntityType: types.EntityLocation, EntityValue: "Detroit area",
			CanonicalEntityID: "loc-detroit", Confidence: 0.9},
	}

	scores := ScorePersons(subjectCandidates, criteriaCandidates, subjectEvidence, criteriaEvidence, testScoreParams)
	require.Len(t, scores, 1)

	require.Len(t, scores[0].SubjectMatches, 1)
	assert.Equal(t, "CTO", scores[0].SubjectMatches[0].EntityValue)

	require.Len(t, scores[0].CriteriaMatches, 2)
	assert.Equal(t, "University of Michigan", scores[0].CriteriaMatches[0].EntityValue)
	assert.Equal(t, "Detroit area", scores[0].CriteriaMatches[1].EntityValue)
}

func TestScorePersonsThresholdGating(t *testing.T) {
	subjectCandidates := []types.CandidateEntity{
		{ID: "weak-subject", Similarity: 0.3}, // not strictly above 0.3
	}
	criteriaCandidates := []types.CandidateEntity{
		{ID: "weak-criteria", Similarity: 0.4}, // not strictly above 0.4
		{ID: "mid-criteria", Similarity: 0.35}, // above subject floor, below criteria floor
	}
	subjectEvidence := []types.Evidence{
		{PersonID: "p1", EntityValue: "x", CanonicalEntityID: "weak-subject", Confidence: 0.9},
	}
	criteriaEvidence := []types.Evidence{
		{PersonID: "p1", EntityValue: "y", CanonicalEntityID: "weak-criteria", Confidence: 0.9},
		{PersonID: "p1", EntityValue: "z", CanonicalEntityID: "mid-criteria", Confidence: 0.9},
	}

	scores := ScorePersons(subjectCandidates, criteriaCandidates, subjectEvidence, criteriaEvidence, testScoreParams)
	assert.Empty(t, scores)
}

func TestScorePersonsIgnoresUnmatchedEvidence(t *testing.T) {
	// Evidence pointing at entities outside the candidate sets contributes
	// nothing even with high confidence.
	subjectEvidence := []types.Evidence{
		{PersonID: "p1", EntityValue: "CEO", CanonicalEntityID: "occ-other", Confidence: 0.99},
	}
	scores := ScorePersons(nil, nil, subjectEvidence, nil, testScoreParams)
	assert.Empty(t, scores)
}

func TestScorePersonsBounds(t *testing.T) {
	// Ten max-similarity matches per category; only five count toward each
	// partial, so the partials cap at 5.0 and the combined score at 10.0.
	subjectCandidates := make([]types.CandidateEntity, 10)
	criteriaCandidates := make([]types.CandidateEntity, 10)
	var subjectEvidence, criteriaEvidence []types.Evidence
	for i := 0; i < 10; i++ {
		sid := fmt.Sprintf("occ-%d", i)
		cid := fmt.Sprintf("uni-%d", i)
		subjectCandidates[i] = types.CandidateEntity{ID: sid, Similarity: 1.0}
		criteriaCandidates[i] = types.CandidateEntity{ID: cid, Similarity: 1.0}
		subjectEvidence = append(subjectEvidence, types.Evidence{
			PersonID: "p1", EntityValue: sid, CanonicalEntityID: sid, Confidence: 0.9,
		})
		criteriaEvidence = append(criteriaEvidence, types.Evidence{
			PersonID: "p1", EntityValue: cid, CanonicalEntityID: cid, Confidence: 0.9,
		})
	}

	scores := ScorePersons(subjectCandidates, criteriaCandidates, subjectEvidence, criteriaEvidence, testScoreParams)
	require.Len(t, scores, 1)
	assert.InDelta(t, 5.0, scores[0].SubjectScore, 1e-9)
	assert.InDelta(t, 5.0, scores[0].CriteriaScore, 1e-9)
	assert.InDelta(t, 10.0, scores[0].CombinedScore, 1e-9)
	assert.Len(t, scores[0].SubjectMatches, 10)
}

func TestScorePersonsDeterministicOrder(t *testing.T) {
	subjectCandidates := []types.CandidateEntity{{ID: "occ", Similarity: 0.9}}
	subjectEvidence := []types.Evidence{
		{PersonID: "p-b", EntityValue: "CTO", CanonicalEntityID: "occ", Confidence: 0.9},
		{PersonID: "p-a", EntityValue: "CTO", CanonicalEntityID: "occ", Confidence: 0.9},
		{PersonID: "p-c", EntityValue: "CTO", CanonicalEntityID: "occ", Confidence: 0.9},
	}

	var previous []string
	for run := 0; run < 5; run++ {
		scores := ScorePersons(subjectCandidates, nil, subjectEvidence, nil, testScoreParams)
		ids := make([]string, len(scores))
		for i, s := range scores {
			ids[i] = s.PersonID
		}
		if previous != nil {
			assert.Equal(t, previous, ids)
		}
		previous = ids
	}
	assert.Equal(t, []string{"p-a", "p-b", "p-c"}, previous)
}
