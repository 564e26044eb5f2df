// Package discovery implements the founder discovery pipeline: query
// parsing, candidate entity retrieval, person scoring, and result assembly.
package discovery

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/scrypster/prospect/internal/llm"
	"github.com/scrypster/prospect/pkg/types"
)

const parsePromptTemplate = `You are a query analyzer for a founder research system. Extract the subject role and qualifying criteria from the search query below.

Return ONLY a JSON object with this exact structure:
{
  "subject": "the primary role or occupation being searched for",
  "subject_variations": ["2-4 alternative phrasings of the subject"],
  "criteria": ["each qualifying attribute as a separate string"],
  "criteria_type": "one of: interest, education, location, company, mixed",
  "reasoning": "one sentence explaining the split"
}

Rules:
- subject is the WHO (e.g. "CTO", "founder", "software engineer"). Never leave it empty.
- criteria are the qualifiers (schools, companies, places, interests). A query with no qualifiers gets an empty criteria list.
- criteria_type reflects the dominant qualifier kind; use "mixed" when they differ or there are none.
- Do not invent criteria that are not in the query.

Examples:
Query: "CTOs who went to University of Michigan"
{"subject": "CTO", "subject_variations": ["chief technology officer", "technical co-founder"], "criteria": ["University of Michigan"], "criteria_type": "education", "reasoning": "Role qualified by a school."}

Query: "founders interested in rock climbing"
{"subject": "founder", "subject_variations": ["co-founder", "startup founder"], "criteria": ["rock climbing"], "criteria_type": "interest", "reasoning": "Role qualified by a hobby."}

Query: %q
JSON:`

// QueryParser converts a free-text search query into its structured form.
// Parsing is best-effort: when the language model is unavailable or returns
// something unusable, Parse falls back to a deterministic default rather
// than failing the request.
type QueryParser struct {
	generator llm.TextGenerator
}

// NewQueryParser returns a parser backed by the given text generator.
// A nil generator is allowed and always produces the fallback.
func NewQueryParser(generator llm.TextGenerator) *QueryParser {
	return &QueryParser{generator: generator}
}

// Parse analyzes the query. It never returns an error: any failure along
// the LLM path degrades to FallbackQuery.
func (p *QueryParser) Parse(ctx context.Context, query string) *types.ParsedQuery {
	query = strings.TrimSpace(query)
	if p.generator == nil {
		return FallbackQuery(query)
	}

	raw, err := p.generator.Complete(ctx, fmt.Sprintf(parsePromptTemplate, query))
	if err != nil {
		log.Printf("discovery: query parse completion failed, using fallback: %v", err)
		return FallbackQuery(query)
	}

	parsed, err := llm.ParseQueryResponse(raw)
	if err != nil {
		log.Printf("discovery: query parse response invalid, using fallback: %v", err)
		return FallbackQuery(query)
	}
	return parsed
}

// FallbackQuery is the deterministic parse used when the LLM path fails:
// treat the whole query as one mixed criterion under a generic founder
// subject. Parsing the fallback again yields the same result, so retries
// cannot oscillate.
func FallbackQuery(query string) *types.ParsedQuery {
	return &types.ParsedQuery{
		Subject:           "founder",
		SubjectVariations: []string{"co-founder", "startup founder"},
		Criteria:          []string{query},
		CriteriaType:      types.CriteriaMixed,
		Reasoning:         "fallback: query could not be parsed",
	}
}
