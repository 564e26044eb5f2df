package discovery

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/scrypster/prospect/internal/storage"
	"github.com/scrypster/prospect/pkg/types"
)

// unknownName is the display name used when the person row behind a score
// cannot be loaded. Evidence can outlive its person row (deletes are not
// cascaded through the index), and a missing name must not sink the rest of
// the result page.
const unknownName = "Unknown"

// ResultAssembler enriches scored persons into response rows: display name,
// LinkedIn URL, profile picture, and the source datapoints behind the
// matches.
type ResultAssembler struct {
	persons  storage.PersonStore
	evidence storage.EvidenceStore

	linkedInSourceName string
	topPerCategory     int
}

// NewResultAssembler builds an assembler. topPerCategory bounds both the
// matches surfaced per category and the normalization denominator, matching
// the scorer's cap.
func NewResultAssembler(persons storage.PersonStore, evidence storage.EvidenceStore, linkedInSourceName string, topPerCategory int) *ResultAssembler {
	return &ResultAssembler{
		persons:            persons,
		evidence:           evidence,
		linkedInSourceName: linkedInSourceName,
		topPerCategory:     topPerCategory,
	}
}

// Assemble enriches the top scores concurrently and returns up to numResults
// ranked founders in score order. Twice numResults candidates are enriched
// as headroom so the page stays full even when some rows are degraded.
//
// Enrichment failures are isolated per candidate and per field: a failed
// lookup degrades that field (placeholder name, missing URL or picture) and
// never drops the candidate or fails the batch.
func (a *ResultAssembler) Assemble(ctx context.Context, scores []types.PersonScore, numResults int) []types.RankedFounder {
	if numResults <= 0 || len(scores) == 0 {
		return []types.RankedFounder{}
	}

	headroom := 2 * numResults
	if len(scores) < headroom {
		headroom = len(scores)
	}
	selected := scores[:headroom]

	founders := make([]types.RankedFounder, len(selected))
	var wg sync.WaitGroup
	for i, score := range selected {
		wg.Add(1)
		go func(i int, score types.PersonScore) {
			defer wg.Done()
			founders[i] = a.enrich(ctx, score)
		}(i, score)
	}
	wg.Wait()

	if len(founders) > numResults {
		founders = founders[:numResults]
	}
	return founders
}

func (a *ResultAssembler) enrich(ctx context.Context, score types.PersonScore) types.RankedFounder {
	founder := types.RankedFounder{
		PersonID:          score.PersonID,
		Name:              unknownName,
		MatchedOccupation: score.MatchedOccupation(),
		OccupationScore:   score.SubjectScore / float64(a.topPerCategory),
		CriteriaScore:     score.CriteriaScore / float64(a.topPerCategory),
		CombinedScore:     score.CombinedScore,
		MatchingEntities:  topMatches(score, a.topPerCategory),
	}

	person, err := a.persons.Get(ctx, score.PersonID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("discovery: load person %s: %v", score.PersonID, err)
		}
	} else if name := person.DisplayName(); name != "" {
		founder.Name = name
	}

	url, err := a.evidence.FindSourceURL(ctx, score.PersonID, a.linkedInSourceName)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("discovery: linkedin url for %s: %v", score.PersonID, err)
		}
	} else {
		founder.LinkedInURL = url
	}

	founder.ProfilePictureURL = a.profilePicture(ctx, score.PersonID)
	founder.SubjectDatapoints = a.loadDatapoints(ctx, score.PersonID, score.SubjectMatches)
	founder.CriteriaDatapoints = a.loadDatapoints(ctx, score.PersonID, score.CriteriaMatches)
	return founder
}

// profilePicture returns the first non-empty picture URL in platform
// priority order. Within a platform, documents arrive ordered by extraction
// confidence descending.
func (a *ResultAssembler) profilePicture(ctx context.Context, personID string) string {
	docs, err := a.persons.GetProfileDocuments(ctx, personID)
	if err != nil {
		log.Printf("discovery: profile documents for %s: %v", personID, err)
		return ""
	}
	for _, platform := range types.PlatformPriority {
		for _, doc := range docs {
			if doc.Platform != platform {
				continue
			}
			if url := doc.PictureURL(); url != "" {
				return url
			}
		}
	}
	return ""
}

// loadDatapoints resolves the datapoint ids behind the strongest matches of
// one category, deduplicated in match order, at most topPerCategory rows.
func (a *ResultAssembler) loadDatapoints(ctx context.Context, personID string, matches []types.EvidenceMatch) []types.Datapoint {
	ids := make([]string, 0, a.topPerCategory)
	seen := make(map[string]struct{}, a.topPerCategory)
	for _, m := range matches {
		if m.DatapointID == "" {
			continue
		}
		if _, ok := seen[m.DatapointID]; ok {
			continue
		}
		seen[m.DatapointID] = struct{}{}
		ids = append(ids, m.DatapointID)
		if len(ids) == a.topPerCategory {
			break
		}
	}
	if len(ids) == 0 {
		return []types.Datapoint{}
	}

	rows, err := a.persons.GetDatapoints(ctx, ids)
	if err != nil {
		log.Printf("discovery: datapoints for %s: %v", personID, err)
		return []types.Datapoint{}
	}

	// Restore match order; the store does not guarantee it.
	byID := make(map[string]types.Datapoint, len(rows))
	for _, dp := range rows {
		byID[dp.ID] = dp
	}
	ordered := make([]types.Datapoint, 0, len(rows))
	for _, id := range ids {
		if dp, ok := byID[id]; ok {
			ordered = append(ordered, dp)
		}
	}
	return ordered
}

// topMatches merges the strongest subject and criteria matches, capped at n
// per category, into one list re-sorted by similarity descending so the
// strongest evidence leads regardless of category. The sort is stable, so
// equal-similarity subject matches stay ahead of criteria matches.
func topMatches(score types.PersonScore, n int) []types.EvidenceMatch {
	out := make([]types.EvidenceMatch, 0, 2*n)
	out = append(out, capMatches(score.SubjectMatches, n)...)
	out = append(out, capMatches(score.CriteriaMatches, n)...)
	sortMatches(out)
	return out
}

func capMatches(matches []types.EvidenceMatch, n int) []types.EvidenceMatch {
	if len(matches) > n {
		return matches[:n]
	}
	return matches
}
