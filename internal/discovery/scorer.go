package discovery

import (
	"sort"

	"github.com/scrypster/prospect/pkg/types"
)

// ScoreParams are the scoring thresholds, taken from DiscoveryConfig.
type ScoreParams struct {
	// SubjectSimilarityMin gates subject matches (exclusive).
	SubjectSimilarityMin float64
	// CriteriaSimilarityMin gates criteria matches (exclusive).
	CriteriaSimilarityMin float64
	// TopPerCategory caps how many matches contribute to each partial score.
	TopPerCategory int
}

// ScorePersons joins evidence records against retrieved candidates and
// produces one score per person with at least one passing match.
//
// Each evidence row inherits the similarity of the candidate entity it
// resolves to; rows below the category's similarity floor are dropped. The
// partial score for a category is the sum of the person's TopPerCategory
// strongest similarities in it, and the combined score is the plain sum of
// the two partials. With TopPerCategory = 5 the partials are bounded by 5.0
// and the combined score by 10.0.
//
// Results are ordered by combined score descending, ties broken by person id
// so equal-scoring runs are deterministic.
func ScorePersons(
	subjectCandidates, criteriaCandidates []types.CandidateEntity,
	subjectEvidence, criteriaEvidence []types.Evidence,
	params ScoreParams,
) []types.PersonScore {
	subjectSim := similarityByID(subjectCandidates)
	criteriaSim := similarityByID(criteriaCandidates)

	byPerson := make(map[string]*types.PersonScore)
	scoreFor := func(personID string) *types.PersonScore {
		if s, ok := byPerson[personID]; ok {
			return s
		}
		s := &types.PersonScore{PersonID: personID}
		byPerson[personID] = s
		return s
	}

	for _, ev := range subjectEvidence {
		sim, ok := subjectSim[ev.CanonicalEntityID]
		if !ok || sim <= params.SubjectSimilarityMin {
			continue
		}
		s := scoreFor(ev.PersonID)
		s.SubjectMatches = append(s.SubjectMatches, subjectMatch(ev, sim))
	}

	for _, ev := range criteriaEvidence {
		sim, ok := criteriaSim[ev.CanonicalEntityID]
		if !ok || sim <= params.CriteriaSimilarityMin {
			continue
		}
		s := scoreFor(ev.PersonID)
		s.CriteriaMatches = append(s.CriteriaMatches, criteriaMatch(ev, sim))
	}

	scores := make([]types.PersonScore, 0, len(byPerson))
	for _, s := range byPerson {
		sortMatches(s.SubjectMatches)
		sortMatches(s.CriteriaMatches)
		s.SubjectScore = sumTop(s.SubjectMatches, params.TopPerCategory)
		s.CriteriaScore = sumTop(s.CriteriaMatches, params.TopPerCategory)
		s.CombinedScore = s.SubjectScore + s.CriteriaScore
		scores = append(scores, *s)
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].CombinedScore != scores[j].CombinedScore {
			return scores[i].CombinedScore > scores[j].CombinedScore
		}
		return scores[i].PersonID < scores[j].PersonID
	})
	return scores
}

func similarityByID(candidates []types.CandidateEntity) map[string]float64 {
	m := make(map[string]float64, len(candidates))
	for _, c := range candidates {
		if existing, ok := m[c.ID]; !ok || c.Similarity > existing {
			m[c.ID] = c.Similarity
		}
	}
	return m
}

// subjectMatch keeps the raw extracted value; occupations read naturally as
// written ("CTO", "VP of Engineering").
func subjectMatch(ev types.Evidence, sim float64) types.EvidenceMatch {
	return types.EvidenceMatch{
		EntityValue: ev.EntityValue,
		EntityType:  ev.EntityType,
		Similarity:  sim,
		DatapointID: ev.DatapointID,
	}
}

// criteriaMatch prefers the canonical name so abbreviations resolve to their
// canonical form ("UMich" renders as "University of Michigan"). Falls back to
// the raw value when no canonical name was recorded.
func criteriaMatch(ev types.Evidence, sim float64) types.EvidenceMatch {
	value := ev.CanonicalName
	if value == "" {
		value = ev.EntityValue
	}
	return types.EvidenceMatch{
		EntityValue: value,
		EntityType:  ev.EntityType,
		Similarity:  sim,
		DatapointID: ev.DatapointID,
	}
}

// sortMatches orders matches by similarity descending. The sort is stable
// so equal-similarity matches keep evidence order.
func sortMatches(matches []types.EvidenceMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
}

// sumTop sums the first n similarities of an already sorted match list.
func sumTop(matches []types.EvidenceMatch, n int) float64 {
	if len(matches) < n {
		n = len(matches)
	}
	var total float64
	for _, m := range matches[:n] {
		total += m.Similarity
	}
	return total
}
