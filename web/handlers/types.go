package handlers

// SuccessResponse is the standard success envelope: the payload lives under
// "data" and success is always true.
type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Success bool           `json:"success"`
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// DiscoverRequest is the JSON body of POST /api/discover. The case session
// comes from the case_session_id query parameter, matching how the rest of
// the research tooling addresses sessions.
type DiscoverRequest struct {
	Query          string `json:"query"`
	NumResults     int    `json:"num_results,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`
}

// HealthResponse is the payload of GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
