package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/scrypster/prospect/internal/config"
	"github.com/scrypster/prospect/internal/storage"
	"github.com/scrypster/prospect/pkg/types"
)

// Notifier receives coarse progress events while a discovery request runs.
// Implementations must not block; the pipeline calls them inline.
type Notifier interface {
	Notify(stage string, detail map[string]any)
}

// NopNotifier discards all events.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(string, map[string]any) {}

// Request is one discovery invocation.
type Request struct {
	Query          string
	CaseSessionID  string
	OrganizationID string
	NumResults     int
}

// Result is the discovery response payload.
type Result struct {
	Query         string                `json:"query"`
	ParsedQuery   *types.ParsedQuery    `json:"parsed_query"`
	FoundersFound int                   `json:"founders_found"`
	TopFounders   []types.RankedFounder `json:"top_founders"`
	ElapsedTimeMS int64                 `json:"elapsed_time_ms"`
}

// Pipeline orchestrates one discovery request: parse the query, retrieve
// candidate entities for the subject and criteria passes, join them against
// the evidence index, score, and assemble the response.
type Pipeline struct {
	parser    *QueryParser
	retriever *CandidateRetriever
	assembler *ResultAssembler
	evidence  storage.EvidenceStore
	cfg       config.DiscoveryConfig
	notifier  Notifier
}

// NewPipeline wires the pipeline stages together. A nil notifier is
// replaced with NopNotifier.
func NewPipeline(parser *QueryParser, retriever *CandidateRetriever, assembler *ResultAssembler, evidence storage.EvidenceStore, cfg config.DiscoveryConfig, notifier Notifier) *Pipeline {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Pipeline{
		parser:    parser,
		retriever: retriever,
		assembler: assembler,
		evidence:  evidence,
		cfg:       cfg,
		notifier:  notifier,
	}
}

// Discover runs the full pipeline. The request is bounded by the configured
// timeout on top of whatever deadline the caller's context already carries.
// An empty result set is a successful response, not an error.
func (p *Pipeline) Discover(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	numResults := req.NumResults
	if numResults <= 0 {
		numResults = p.cfg.DefaultNumResults
	}
	if req.OrganizationID == "" {
		req.OrganizationID = p.cfg.DefaultOrganizationID
	}

	if p.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.RequestTimeout)
		defer cancel()
	}

	p.notifier.Notify("parsing", map[string]any{"query": req.Query})
	parsed := p.parser.Parse(ctx, req.Query)

	p.notifier.Notify("retrieving", map[string]any{
		"subject":  parsed.Subject,
		"criteria": len(parsed.Criteria),
	})
	subjectCandidates, err := p.retriever.Retrieve(ctx, parsed.SubjectTerms(), []types.EntityType{types.EntityOccupation})
	if err != nil {
		return nil, fmt.Errorf("subject retrieval: %w", err)
	}

	var criteriaCandidates []types.CandidateEntity
	if len(parsed.Criteria) > 0 {
		criteriaCandidates, err = p.retriever.Retrieve(ctx, parsed.Criteria, types.CriteriaEntityTypes)
		if err != nil {
			return nil, fmt.Errorf("criteria retrieval: %w", err)
		}
	}

	scope := storage.SessionScope{
		CaseSessionID:  req.CaseSessionID,
		OrganizationID: req.OrganizationID,
	}
	subjectEvidence, err := p.evidence.ListByCanonicalIDs(ctx, candidateIDs(subjectCandidates), scope, p.cfg.EvidenceConfidenceMin)
	if err != nil {
		return nil, fmt.Errorf("subject evidence: %w", err)
	}
	criteriaEvidence, err := p.evidence.ListByCanonicalIDs(ctx, candidateIDs(criteriaCandidates), scope, p.cfg.EvidenceConfidenceMin)
	if err != nil {
		return nil, fmt.Errorf("criteria evidence: %w", err)
	}

	p.notifier.Notify("scoring", map[string]any{
		"subject_candidates":  len(subjectCandidates),
		"criteria_candidates": len(criteriaCandidates),
	})
	scores := ScorePersons(subjectCandidates, criteriaCandidates, subjectEvidence, criteriaEvidence, ScoreParams{
		SubjectSimilarityMin:  p.cfg.SubjectSimilarityMin,
		CriteriaSimilarityMin: p.cfg.CriteriaSimilarityMin,
		TopPerCategory:        p.cfg.TopEvidencePerCategory,
	})

	p.notifier.Notify("assembling", map[string]any{"founders_found": len(scores)})
	founders := p.assembler.Assemble(ctx, scores, numResults)

	result := &Result{
		Query:         req.Query,
		ParsedQuery:   parsed,
		FoundersFound: len(scores),
		TopFounders:   founders,
		ElapsedTimeMS: time.Since(start).Milliseconds(),
	}
	p.notifier.Notify("done", map[string]any{
		"founders_found":  result.FoundersFound,
		"elapsed_time_ms": result.ElapsedTimeMS,
	})
	return result, nil
}

func candidateIDs(candidates []types.CandidateEntity) []string {
	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}
	return ids
}
