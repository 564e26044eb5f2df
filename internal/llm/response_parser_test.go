package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrypster/prospect/pkg/types"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare object",
			input: `{"subject":"CTO"}`,
			want:  `{"subject":"CTO"}`,
		},
		{
			name:  "markdown fenced",
			input: "```json\n{\"subject\":\"CTO\"}\n```",
			want:  `{"subject":"CTO"}`,
		},
		{
			name:  "prose around json",
			input: `Here is the parse: {"subject":"CTO","criteria":[]} hope that helps`,
			want:  `{"subject":"CTO","criteria":[]}`,
		},
		{
			name:  "nested braces",
			input: `{"a":{"b":"c"},"d":"e"} trailing`,
			want:  `{"a":{"b":"c"},"d":"e"}`,
		},
		{
			name:  "braces inside strings",
			input: `{"subject":"engineer {backend}"}`,
			want:  `{"subject":"engineer {backend}"}`,
		},
		{
			name:  "no json",
			input: "sorry, I cannot parse that",
			want:  "sorry, I cannot parse that",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.input))
		})
	}
}

func TestParseQueryResponse(t *testing.T) {
	raw := "```json\n" + `{
		"subject": "CTO",
		"subject_variations": ["Chief Technology Officer", " technology executive "],
		"criteria": ["University of Michigan", "UMich", ""],
		"criteria_type": "education",
		"reasoning": "role plus school"
	}` + "\n```"

	parsed, err := ParseQueryResponse(raw)
	require.NoError(t, err)

	assert.Equal(t, "CTO", parsed.Subject)
	assert.Equal(t, []string{"Chief Technology Officer", "technology executive"}, parsed.SubjectVariations)
	assert.Equal(t, []string{"University of Michigan", "UMich"}, parsed.Criteria)
	assert.Equal(t, types.CriteriaEducation, parsed.CriteriaType)
	assert.Equal(t, "role plus school", parsed.Reasoning)
}

func TestParseQueryResponseErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "I could not parse the query"},
		{"empty subject", `{"subject":"  ","criteria":[],"criteria_type":"mixed"}`},
		{"unknown criteria type", `{"subject":"CTO","criteria":[],"criteria_type":"vibes"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQueryResponse(tt.raw)
			assert.Error(t, err)
		})
	}
}

func TestParseQueryResponseNormalizesCriteriaType(t *testing.T) {
	parsed, err := ParseQueryResponse(`{"subject":"founder","criteria":[],"criteria_type":" Mixed "}`)
	require.NoError(t, err)
	assert.Equal(t, types.CriteriaMixed, parsed.CriteriaType)
}
