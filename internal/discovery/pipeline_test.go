package discovery

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrypster/prospect/internal/config"
	"github.com/scrypster/prospect/internal/storage/sqlite"
	"github.com/scrypster/prospect/pkg/types"
)

func testDiscoveryConfig() config.DiscoveryConfig {
	return config.DiscoveryConfig{
		SubjectSimilarityMin:   0.3,
		CriteriaSimilarityMin:  0.4,
		EvidenceConfidenceMin:  0.35,
		CandidateLimit:         100,
		TopEvidencePerCategory: 5,
		DefaultNumResults:      20,
		DefaultOrganizationID:  "org-1",
		LinkedInSourceName:     "linkedin_enrichment",
		RequestTimeout:         10 * time.Second,
		EmbeddingCacheSize:     64,
	}
}

// seedDiscoveryFixture loads a small corpus: Ada is a CTO who attended the
// University of Michigan, Grace is a CTO without criteria evidence, and a
// third person lives in a different case session.
func seedDiscoveryFixture(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	entities := []types.CanonicalEntity{
		{ID: "occ-cto", Name: "chief technology officer", Type: types.EntityOccupation, Embedding: []float32{1, 0, 0}},
		{ID: "uni-umich", Name: "University of Michigan", Type: types.EntityUniversity, Embedding: []float32{0, 1, 0}},
	}
	for _, e := range entities {
		require.NoError(t, store.InsertCanonicalEntity(ctx, e))
	}

	persons := []types.Person{
		{ID: "p-ada", FirstName: "Ada", LastName: "Lovelace", CaseSessionID: "session-1", OrganizationID: "org-1"},
		{ID: "p-grace", FirstName: "Grace", LastName: "Hopper", CaseSessionID: "session-1", OrganizationID: "org-1"},
		{ID: "p-other", FirstName: "Alan", LastName: "Turing", CaseSessionID: "session-2", OrganizationID: "org-1"},
	}
	for _, p := range persons {
		require.NoError(t, store.InsertPerson(ctx, p))
	}

	datapoints := []types.Datapoint{
		{ID: "dp-ada-occ", URL: "https://example.com/ada-cto", Title: "Ada named CTO"},
		{ID: "dp-ada-uni", URL: "https://example.com/ada-umich", Title: "Ada at Michigan"},
		{ID: "dp-grace-occ", URL: "https://example.com/grace-cto"},
	}
	require.NoError(t, store.InsertDatapoint(ctx, "p-ada", datapoints[0]))
	require.NoError(t, store.InsertDatapoint(ctx, "p-ada", datapoints[1]))
	require.NoError(t, store.InsertDatapoint(ctx, "p-grace", datapoints[2]))

	evidence := map[string]types.Evidence{
		"ev-ada-occ": {PersonID: "p-ada", EntityType: types.EntityOccupation, EntityValue: "CTO",
			CanonicalEntityID: "occ-cto", Confidence: 0.9, DatapointID: "dp-ada-occ",
			SourceURL: "https://linkedin.com/in/ada", SourceName: "linkedin_enrichment"},
		"ev-ada-uni": {PersonID: "p-ada", EntityType: types.EntityUniversity, EntityValue: "UMich",
			CanonicalName: "University of Michigan", CanonicalEntityID: "uni-umich",
			Confidence: 0.8, DatapointID: "dp-ada-uni"},
		"ev-grace-occ": {PersonID: "p-grace", EntityType: types.EntityOccupation, EntityValue: "CTO",
			CanonicalEntityID: "occ-cto", Confidence: 0.7, DatapointID: "dp-grace-occ"},
		// Low-confidence extraction, filtered by the confidence floor.
		"ev-grace-uni": {PersonID: "p-grace", EntityType: types.EntityUniversity, EntityValue: "Michigan",
			CanonicalEntityID: "uni-umich", Confidence: 0.2},
		// Different case session, never visible to session-1 queries.
		"ev-other-occ": {PersonID: "p-other", EntityType: types.EntityOccupation, EntityValue: "CTO",
			CanonicalEntityID: "occ-cto", Confidence: 0.9},
	}
	for id, ev := range evidence {
		require.NoError(t, store.InsertEvidence(ctx, id, ev))
	}

	require.NoError(t, store.InsertProfileDocument(ctx, "doc-ada-li", "p-ada", types.PlatformLinkedIn,
		[]byte(`{"profile":{"profile_image_url":"https://img.example/ada.jpg"}}`), 0.9))

	return store
}

func newTestPipeline(t *testing.T, store *sqlite.Store, gen *stubGenerator, notifier Notifier) *Pipeline {
	t.Helper()
	cfg := testDiscoveryConfig()
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"CTO":                      {1, 0, 0},
		"chief technology officer": {0.95, 0.05, 0},
		"University of Michigan":   {0, 1, 0},
		"founder":                  {0.2, 0.1, 0.1},
		"co-founder":               {0.2, 0.1, 0.1},
		"startup founder":          {0.2, 0.1, 0.1},
		"CTOs who went to University of Michigan": {0.5, 0.5, 0},
	}}
	retriever, err := NewCandidateRetriever(embedder, store, cfg.CandidateLimit, cfg.EmbeddingCacheSize)
	require.NoError(t, err)
	assembler := NewResultAssembler(store, store, cfg.LinkedInSourceName, cfg.TopEvidencePerCategory)
	return NewPipeline(NewQueryParser(gen), retriever, assembler, store, cfg, notifier)
}

func TestDiscoverEndToEnd(t *testing.T) {
	store := seedDiscoveryFixture(t)
	gen := &stubGenerator{response: `{
		"subject": "CTO",
		"subject_variations": ["chief technology officer"],
		"criteria": ["University of Michigan"],
		"criteria_type": "education"
	}`}
	notifier := &recordingNotifier{}
	pipeline := newTestPipeline(t, store, gen, notifier)

	result, err := pipeline.Discover(context.Background(), Request{
		Query:         "CTOs who went to University of Michigan",
		CaseSessionID: "session-1",
		NumResults:    10,
	})
	require.NoError(t, err)

	assert.Equal(t, "CTOs who went to University of Michigan", result.Query)
	assert.Equal(t, types.CriteriaEducation, result.ParsedQuery.CriteriaType)
	assert.Equal(t, 2, result.FoundersFound)
	require.Len(t, result.TopFounders, 2)

	// Ada matches both subject and criteria and outranks Grace.
	ada := result.TopFounders[0]
	assert.Equal(t, "Ada Lovelace", ada.Name)
	assert.Equal(t, "CTO", ada.MatchedOccupation)
	assert.Equal(t, "https://linkedin.com/in/ada", ada.LinkedInURL)
	assert.Equal(t, "https://img.example/ada.jpg", ada.ProfilePictureURL)
	assert.Greater(t, ada.CombinedScore, result.TopFounders[1].CombinedScore)
	require.Len(t, ada.SubjectDatapoints, 1)
	assert.Equal(t, "dp-ada-occ", ada.SubjectDatapoints[0].ID)
	require.Len(t, ada.CriteriaDatapoints, 1)
	assert.Equal(t, "dp-ada-uni", ada.CriteriaDatapoints[0].ID)

	// Criteria evidence renders under its canonical name, not the raw
	// extracted abbreviation.
	values := make([]string, len(ada.MatchingEntities))
	for i, m := range ada.MatchingEntities {
		values[i] = m.EntityValue
	}
	assert.Contains(t, values, "University of Michigan")
	assert.NotContains(t, values, "UMich")

	// Grace's low-confidence university evidence was filtered.
	grace := result.TopFounders[1]
	assert.Equal(t, "Grace Hopper", grace.Name)
	assert.Zero(t, grace.CriteriaScore)
	assert.Empty(t, grace.LinkedInURL)

	// Alan is in another case session and never appears.
	for _, f := range result.TopFounders {
		assert.NotEqual(t, "p-other", f.PersonID)
	}

	assert.Equal(t, []string{"parsing", "retrieving", "scoring", "assembling", "done"}, notifier.stages)
	assert.GreaterOrEqual(t, result.ElapsedTimeMS, int64(0))
}

func TestDiscoverNoMatchesIsSuccess(t *testing.T) {
	store := seedDiscoveryFixture(t)
	gen := &stubGenerator{response: `{
		"subject": "CTO",
		"subject_variations": [],
		"criteria": [],
		"criteria_type": "mixed"
	}`}
	pipeline := newTestPipeline(t, store, gen, nil)

	// Empty session: retrieval succeeds but the evidence join is empty.
	result, err := pipeline.Discover(context.Background(), Request{
		Query:         "CTOs",
		CaseSessionID: "session-empty",
		NumResults:    10,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.FoundersFound)
	assert.Empty(t, result.TopFounders)
}

func TestDiscoverFallbackParseStillRuns(t *testing.T) {
	store := seedDiscoveryFixture(t)
	pipeline := newTestPipeline(t, store, &stubGenerator{err: errStub}, nil)

	result, err := pipeline.Discover(context.Background(), Request{
		Query:         "CTOs who went to University of Michigan",
		CaseSessionID: "session-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "founder", result.ParsedQuery.Subject)
}

func TestDiscoverDefaultNumResults(t *testing.T) {
	store := seedDiscoveryFixture(t)
	gen := &stubGenerator{response: `{"subject": "CTO", "criteria": [], "criteria_type": "mixed"}`}
	pipeline := newTestPipeline(t, store, gen, nil)

	result, err := pipeline.Discover(context.Background(), Request{
		Query:         "CTOs",
		CaseSessionID: "session-1",
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(result.TopFounders), testDiscoveryConfig().DefaultNumResults)
	assert.Equal(t, 2, result.FoundersFound)
}

func TestDiscoverCancelledContext(t *testing.T) {
	store := seedDiscoveryFixture(t)
	gen := &stubGenerator{response: `{"subject": "CTO", "criteria": [], "criteria_type": "mixed"}`}
	pipeline := newTestPipeline(t, store, gen, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := pipeline.Discover(ctx, Request{Query: "CTOs", CaseSessionID: "session-1"})
	assert.Error(t, err)
}
