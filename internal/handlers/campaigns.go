package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/brandloop/campaigns/internal/models"
)

// RunCampaign handles POST /v1/campaigns — the full four-stage pipeline.
func (h *Handler) RunCampaign(w http.ResponseWriter, r *http.Request) {
	var req models.RunCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session := sessionKey(req.SessionID)
	result, err := h.orchestrator.RunCampaignWithProgress(r.Context(), session, req.CampaignBrief, nil)
	if err != nil {
		// Precondition failures never start the pipeline.
		if errors.Is(err, models.ErrBrandRequired) || errors.Is(err, models.ErrProductRequired) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Msg("Failed to run campaign")
		writeJSONError(w, http.StatusInternalServerError, "failed to run campaign")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ListCampaigns handles GET /v1/campaigns?session= — session history,
// newest first.
func (h *Handler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	session := r.URL.Query().Get("session")
	if session == "" {
		writeJSONError(w, http.StatusBadRequest, "session query parameter is required")
		return
	}

	campaigns := h.history.Campaigns(session)
	// Newest first.
	for i, j := 0, len(campaigns)-1; i < j; i, j = i+1, j-1 {
		campaigns[i], campaigns[j] = campaigns[j], campaigns[i]
	}

	writeJSON(w, http.StatusOK, models.HistoryResponse{
		SessionID: session,
		Campaigns: campaigns,
	})
}

// GenerateContent handles POST /v1/content — direct content-agent call.
func (h *Handler) GenerateContent(w http.ResponseWriter, r *http.Request) {
	var req models.AgentCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Brief == "" {
		writeJSONError(w, http.StatusBadRequest, "brief is required")
		return
	}

	result := h.orchestrator.GenerateContent(r.Context(), req.Brief)
	writeJSON(w, http.StatusOK, result)
}

// GenerateVisualConcepts handles POST /v1/visual-concepts — direct
// visual-agent call.
func (h *Handler) GenerateVisualConcepts(w http.ResponseWriter, r *http.Request) {
	var req models.AgentCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Brief == "" {
		writeJSONError(w, http.StatusBadRequest, "brief is required")
		return
	}

	result := h.orchestrator.GenerateVisualConcepts(r.Context(), req.Brief)
	writeJSON(w, http.StatusOK, result)
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
