package discovery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrypster/prospect/pkg/types"
)

func TestParseWellFormedResponse(t *testing.T) {
	gen := &stubGenerator{response: `{
		"subject": "CTO",
		"subject_variations": ["chief technology officer", "technical co-founder"],
		"criteria": ["University of Michigan"],
		"criteria_type": "education",
		"reasoning": "Role qualified by a school."
	}`}
	parser := NewQueryParser(gen)

	parsed := parser.Parse(context.Background(), "CTOs who went to University of Michigan")
	require.NotNil(t, parsed)
	assert.Equal(t, "CTO", parsed.Subject)
	assert.Equal(t, []string{"chief technology officer", "technical co-founder"}, parsed.SubjectVariations)
	assert.Equal(t, []string{"University of Michigan"}, parsed.Criteria)
	assert.Equal(t, types.CriteriaEducation, parsed.CriteriaType)
}

func TestParseFallback(t *testing.T) {
	tests := []struct {
		name string
		gen  *stubGenerator
	}{
		{"generator error", &stubGenerator{err: errStub}},
		{"garbage output", &stubGenerator{response: "I could not parse that query, sorry!"}},
		{"empty subject", &stubGenerator{response: `{"subject": "", "criteria_type": "mixed"}`}},
		{"unknown criteria type", &stubGenerator{response: `{"subject": "CTO", "criteria_type": "vibes"}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewQueryParser(tt.gen)
			parsed := parser.Parse(context.Background(), "founders in Detroit")
			require.NotNil(t, parsed)
			assert.Equal(t, "founder", parsed.Subject)
			assert.Equal(t, []string{"co-founder", "startup founder"}, parsed.SubjectVariations)
			assert.Equal(t, []string{"founders in Detroit"}, parsed.Criteria)
			assert.Equal(t, types.CriteriaMixed, parsed.CriteriaType)
		})
	}
}

func TestParseNilGenerator(t *testing.T) {
	parser := NewQueryParser(nil)
	parsed := parser.Parse(context.Background(), "anything")
	require.NotNil(t, parsed)
	assert.Equal(t, "founder", parsed.Subject)
}

// The fallback must be a fixed point: feeding a fallback's criteria back
// through a failing parse yields an equivalent structure, so retries settle
// instead of drifting.
func TestFallbackIdempotent(t *testing.T) {
	first := FallbackQuery("quantum computing founders")
	second := FallbackQuery("quantum computing founders")
	assert.Equal(t, first, second)
	assert.True(t, first.CriteriaType.IsValid())
	assert.NotEmpty(t, first.Subject)
}
