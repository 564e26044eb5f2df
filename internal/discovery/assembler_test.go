package discovery

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrypster/prospect/internal/storage/sqlite"
	"github.com/scrypster/prospect/pkg/types"
)

func TestAssembleUnknownPerson(t *testing.T) {
	store, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	assembler := NewResultAssembler(store, store, "linkedin_enrichment", 5)

	// The score references a person id with no row behind it. The row is
	// kept with placeholder display data instead of being dropped.
	scores := []types.PersonScore{{
		PersonID:      "p-ghost",
		SubjectScore:  0.9,
		CombinedScore: 0.9,
		SubjectMatches: []types.EvidenceMatch{
			{EntityValue: "CTO", EntityType: types.EntityOccupation, Similarity: 0.9},
		},
	}}

	founders := assembler.Assemble(context.Background(), scores, 10)
	require.Len(t, founders, 1)
	assert.Equal(t, "Unknown", founders[0].Name)
	assert.Equal(t, "CTO", founders[0].MatchedOccupation)
	assert.Empty(t, founders[0].LinkedInURL)
	assert.Empty(t, founders[0].ProfilePictureURL)
	assert.InDelta(t, 0.18, founders[0].OccupationScore, 1e-9)
	assert.InDelta(t, 0.9, founders[0].CombinedScore, 1e-9)
}

func TestAssembleTruncatesAndKeepsOrder(t *testing.T) {
	store, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	var scores []types.PersonScore
	for i := 0; i < 8; i++ {
		id := fmt.Sprintf("p-%d", i)
		require.NoError(t, store.InsertPerson(ctx, types.Person{
			ID: id, FirstName: "Person", LastName: fmt.Sprintf("Number%d", i),
			CaseSessionID: "s", OrganizationID: "o",
		}))
		scores = append(scores, types.PersonScore{
			PersonID:      id,
			CombinedScore: float64(8 - i),
		})
	}

	assembler := NewResultAssembler(store, store, "linkedin_enrichment", 5)
	founders := assembler.Assemble(ctx, scores, 3)
	require.Len(t, founders, 3)
	for i, f := range founders {
		assert.Equal(t, scores[i].PersonID, f.PersonID)
	}
}

func TestTopMatchesResortsAcrossCategories(t *testing.T) {
	score := types.PersonScore{
		SubjectMatches: []types.EvidenceMatch{
			{EntityValue: "CTO", Similarity: 0.9},
			{EntityValue: "engineer", Similarity: 0.5},
		},
		CriteriaMatches: []types.EvidenceMatch{
			{EntityValue: "University of Michigan", Similarity: 0.8},
			{EntityValue: "Detroit", Similarity: 0.6},
		},
	}

	merged := topMatches(score, 5)
	values := make([]string, len(merged))
	for i, m := range merged {
		values[i] = m.EntityValue
	}
	// Strongest evidence leads regardless of which category it came from.
	assert.Equal(t, []string{"CTO", "University of Michigan", "Detroit", "engineer"}, values)

	// The per-category cap applies before the merge.
	capped := topMatches(score, 1)
	require.Len(t, capped, 2)
	assert.Equal(t, "CTO", capped[0].EntityValue)
	assert.Equal(t, "University of Michigan", capped[1].EntityValue)
}

func TestAssembleEmptyInputs(t *testing.T) {
	store, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	assembler := NewResultAssembler(store, store, "linkedin_enrichment", 5)
	assert.Empty(t, assembler.Assemble(context.Background(), nil, 10))
	assert.Empty(t, assembler.Assemble(context.Background(), []types.PersonScore{{PersonID: "p"}}, 0))
}

func TestAssembleProfilePicturePriority(t *testing.T) {
	store, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	require.NoError(t, store.InsertPerson(ctx, types.Person{
		ID: "p1", FirstName: "Ada", LastName: "Lovelace",
		CaseSessionID: "s", OrganizationID: "o",
	}))
	// Twitter has the highest extraction confidence but LinkedIn wins on
	// platform priority.
	require.NoError(t, store.InsertProfileDocument(ctx, "d-tw", "p1", types.PlatformTwitter,
		[]byte(`{"profile":{"profile_image_url":"https://img.example/tw.jpg"}}`), 0.99))
	require.NoError(t, store.InsertProfileDocument(ctx, "d-li", "p1", types.PlatformLinkedIn,
		[]byte(`{"profile":{"profile_image_url":"https://img.example/li.jpg"}}`), 0.5))

	assembler := NewResultAssembler(store, store, "linkedin_enrichment", 5)
	founders := assembler.Assemble(ctx, []types.PersonScore{{PersonID: "p1", CombinedScore: 1}}, 5)
	require.Len(t, founders, 1)
	assert.Equal(t, "https://img.example/li.jpg", founders[0].ProfilePictureURL)
}

func TestAssembleSkipsEmptyPlatformPicture(t *testing.T) {
	store, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	require.NoError(t, store.InsertPerson(ctx, types.Person{
		ID: "p1", FirstName: "Ada", LastName: "Lovelace",
		CaseSessionID: "s", OrganizationID: "o",
	}))
	// LinkedIn document exists but carries no picture; the search falls
	// through to Instagram.
	require.NoError(t, store.InsertProfileDocument(ctx, "d-li", "p1", types.PlatformLinkedIn,
		[]byte(`{"profile":{"headline":"CTO"}}`), 0.9))
	require.NoError(t, store.InsertProfileDocument(ctx, "d-ig", "p1", types.PlatformInstagram,
		[]byte(`{"profile":{"profile_picture_url":"https://img.example/ig.jpg"}}`), 0.8))

	assembler := NewResultAssembler(store, store, "linkedin_enrichment", 5)
	founders := assembler.Assemble(ctx, []types.PersonScore{{PersonID: "p1", CombinedScore: 1}}, 5)
	require.Len(t, founders, 1)
	assert.Equal(t, "https://img.example/ig.jpg", founders[0].ProfilePictureURL)
}
