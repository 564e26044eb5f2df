package handlers

import (
	"errors"
	"net/http"

	"github.com/scrypster/prospect/internal/config"
	"github.com/scrypster/prospect/internal/storage"
)

// StatsHandler serves dashboard counters.
type StatsHandler struct {
	store  storage.StatsProvider
	config *config.Config
}

// NewStatsHandler creates a StatsHandler.
func NewStatsHandler(store storage.StatsProvider, cfg *config.Config) *StatsHandler {
	return &StatsHandler{store: store, config: cfg}
}

// GetStats handles GET /api/stats?case_session_id={id}.
// organization_id is optional and defaults to the configured organization.
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	caseSessionID := r.URL.Query().Get("case_session_id")
	if caseSessionID == "" {
		respondError(w, http.StatusBadRequest, "case_session_id query parameter is required", nil)
		return
	}
	organizationID := r.URL.Query().Get("organization_id")
	if organizationID == "" {
		organizationID = h.config.Discovery.DefaultOrganizationID
	}

	stats, err := h.store.GetStats(r.Context(), storage.SessionScope{
		CaseSessionID:  caseSessionID,
		OrganizationID: organizationID,
	})
	if err != nil {
		if errors.Is(err, storage.ErrInvalidInput) {
			respondError(w, http.StatusBadRequest, "invalid stats request", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to load stats", err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: stats})
}
