package types

// CriteriaType classifies the dominant kind of qualifier in a parsed query.
type CriteriaType string

const (
	CriteriaInterest  CriteriaType = "interest"
	CriteriaEducation CriteriaType = "education"
	CriteriaLocation  CriteriaType = "location"
	CriteriaCompany   CriteriaType = "company"
	CriteriaMixed     CriteriaType = "mixed"
)

// IsValid reports whether c is a known criteria type.
func (c CriteriaType) IsValid() bool {
	switch c {
	case CriteriaInterest, CriteriaEducation, CriteriaLocation,
		CriteriaCompany, CriteriaMixed:
		return true
	}
	return false
}

// ParsedQuery is the structured form of a free-text search query.
// It is produced per request and never persisted.
//
// Subject is always non-empty (the parser falls back to "founder").
// SubjectVariations and Criteria may be empty: a query can be subject-only.
type ParsedQuery struct {
	Subject           string       `json:"subject"`
	SubjectVariations []string     `json:"subject_variations"`
	Criteria          []string     `json:"criteria"`
	CriteriaType      CriteriaType `json:"criteria_type"`
	Reasoning         string       `json:"reasoning,omitempty"`
}

// SubjectTerms returns the subject plus its variations, the term list used
// for the subject retrieval pass.
func (q *ParsedQuery) SubjectTerms() []string {
	terms := make([]string, 0, 1+len(q.SubjectVariations))
	terms = append(terms, q.Subject)
	terms = append(terms, q.SubjectVariations...)
	return terms
}
