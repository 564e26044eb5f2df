// Package handlers provides HTTP handlers and middleware for the Prospect
// REST API.
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/scrypster/prospect/internal/config"
	"github.com/scrypster/prospect/internal/discovery"
	"github.com/scrypster/prospect/internal/storage"
)

// DiscoverHandler serves the founder discovery endpoint.
type DiscoverHandler struct {
	pipeline *discovery.Pipeline
	config   *config.Config
}

// NewDiscoverHandler creates a DiscoverHandler.
func NewDiscoverHandler(pipeline *discovery.Pipeline, cfg *config.Config) *DiscoverHandler {
	return &DiscoverHandler{pipeline: pipeline, config: cfg}
}

// Discover handles POST /api/discover?case_session_id={id}.
// The body carries the free-text query and optional tuning fields; an empty
// result set is a 200, not an error.
func (h *DiscoverHandler) Discover(w http.ResponseWriter, r *http.Request) {
	caseSessionID := r.URL.Query().Get("case_session_id")
	if caseSessionID == "" {
		respondError(w, http.StatusBadRequest, "case_session_id query parameter is required", nil)
		return
	}

	var req DiscoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Query == "" {
		respondError(w, http.StatusBadRequest, "query is required", nil)
		return
	}

	result, err := h.pipeline.Discover(r.Context(), discovery.Request{
		Query:          req.Query,
		CaseSessionID:  caseSessionID,
		OrganizationID: req.OrganizationID,
		NumResults:     req.NumResults,
	})
	if err != nil {
		if errors.Is(err, storage.ErrInvalidInput) {
			respondError(w, http.StatusBadRequest, "invalid discovery request", err)
			return
		}
		log.Printf("discover request failed: %v", err)
		respondError(w, http.StatusInternalServerError, "discovery failed", err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: result})
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers already sent; log and move on.
		log.Printf("failed to encode JSON response: %v", err)
	}
}

// respondError writes an error envelope with the given status code.
func respondError(w http.ResponseWriter, statusCode int, message string, err error) {
	errResp := ErrorResponse{
		Success: false,
		Error:   message,
		Code:    http.StatusText(statusCode),
	}
	if err != nil {
		errResp.Details = map[string]any{
			"error": err.Error(),
		}
	}
	respondJSON(w, statusCode, errResp)
}
