package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/scrypster/prospect/pkg/types"
)

// QueryParseResponse is the structured reply expected from the query
// parsing prompt.
type QueryParseResponse struct {
	Subject           string   `json:"subject"`
	SubjectVariations []string `json:"subject_variations"`
	Criteria          []string `json:"criteria"`
	CriteriaType      string   `json:"criteria_type"`
	Reasoning         string   `json:"reasoning"`
}

// ExtractJSON extracts the first valid JSON object from a string that may
// contain extra text. This handles LLMs adding explanations or markdown
// fences around the JSON despite instructions.
func ExtractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	if start == -1 {
		return text // no JSON found, return as-is and let the parser fail
	}

	// Find the matching closing brace, tracking string literals and escapes.
	braceCount := 0
	inString := false
	escape := false

	for i := start; i < len(text); i++ {
		char := text[i]

		if escape {
			escape = false
			continue
		}
		if char == '\\' {
			escape = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}

		if !inString {
			switch char {
			case '{':
				braceCount++
			case '}':
				braceCount--
				if braceCount == 0 {
					return text[start : i+1]
				}
			}
		}
	}

	// Unbalanced braces: return the remainder and let the parser fail.
	return text[start:]
}

// ParseQueryResponse parses the raw LLM reply into a ParsedQuery.
// Returns an error for missing/empty subject or an unknown criteria type so
// the caller can fall back deterministically.
func ParseQueryResponse(raw string) (*types.ParsedQuery, error) {
	jsonStr := ExtractJSON(raw)

	var resp QueryParseResponse
	if err := json.Unmarshal([]byte(jsonStr), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse query response: %w", err)
	}

	resp.Subject = strings.TrimSpace(resp.Subject)
	if resp.Subject == "" {
		return nil, fmt.Errorf("query response has empty subject")
	}

	criteriaType := types.CriteriaType(strings.ToLower(strings.TrimSpace(resp.CriteriaType)))
	if !criteriaType.IsValid() {
		return nil, fmt.Errorf("query response has unknown criteria type %q", resp.CriteriaType)
	}

	parsed := &types.ParsedQuery{
		Subject:           resp.Subject,
		SubjectVariations: trimNonEmpty(resp.SubjectVariations),
		Criteria:          trimNonEmpty(resp.Criteria),
		CriteriaType:      criteriaType,
		Reasoning:         strings.TrimSpace(resp.Reasoning),
	}
	return parsed, nil
}

// trimNonEmpty trims each string and drops empties, preserving order.
func trimNonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
