package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/brandloop/campaigns/internal/imagegen"
	"github.com/brandloop/campaigns/internal/models"
)

// GenerateImage handles POST /v1/images — a single text-to-image call.
// A named format takes precedence over explicit dimensions.
func (h *Handler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Prompt == "" {
		writeJSONError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	if req.Format != "" {
		writeJSON(w, http.StatusOK, h.images.GenerateForFormat(r.Context(), req.Prompt, req.Format))
		return
	}

	opts := imagegen.DefaultOptions()
	if req.Width > 0 {
		opts.Width = req.Width
	}
	if req.Height > 0 {
		opts.Height = req.Height
	}
	if req.Quality != "" {
		opts.Quality = req.Quality
	}
	if req.SaveLocally != nil {
		opts.SaveLocally = *req.SaveLocally
	}
	if req.SaveToS3 != nil {
		opts.SaveToS3 = *req.SaveToS3
	}

	writeJSON(w, http.StatusOK, h.images.Generate(r.Context(), req.Prompt, opts))
}

// GenerateCampaignSet handles POST /v1/images/campaign-set — the
// three-format visual batch with partial-success reporting.
func (h *Handler) GenerateCampaignSet(w http.ResponseWriter, r *http.Request) {
	var req models.CampaignSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, h.images.GenerateCampaignSet(r.Context(), req.CampaignInfo))
}
