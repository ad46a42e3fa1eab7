package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/brandloop/campaigns/internal/campaign"
	"github.com/brandloop/campaigns/internal/config"
	"github.com/brandloop/campaigns/internal/imagegen"
	"github.com/brandloop/campaigns/internal/models"
)

// Orchestrator is the slice of the campaign pipeline the handlers use.
type Orchestrator interface {
	RunCampaignWithProgress(ctx context.Context, sessionKey string, brief models.CampaignBrief, progress campaign.ProgressFunc) (*models.CampaignResult, error)
	GenerateContent(ctx context.Context, contentBrief string) models.AgentResult
	GenerateVisualConcepts(ctx context.Context, visualBrief string) models.AgentResult
}

// ImageService is the slice of image generation the handlers use.
type ImageService interface {
	Generate(ctx context.Context, prompt string, opts imagegen.Options) models.ImageResult
	GenerateForFormat(ctx context.Context, prompt, format string) models.ImageResult
	GenerateCampaignSet(ctx context.Context, info models.CampaignInfo) models.CampaignSet
}

// ObjectStore is the slice of remote storage the handlers use. May be nil
// when no bucket is configured.
type ObjectStore interface {
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)
}

// Handler contains all HTTP handlers
type Handler struct {
	orchestrator Orchestrator
	images       ImageService
	history      *campaign.Store
	store        ObjectStore
	cfg          *config.Config
}

// NewHandler creates a new handler
func NewHandler(orchestrator Orchestrator, images ImageService, history *campaign.Store, store ObjectStore, cfg *config.Config) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		images:       images,
		history:      history,
		store:        store,
		cfg:          cfg,
	}
}

// sessionKey returns the supplied session identifier or a fresh one.
func sessionKey(supplied string) string {
	if supplied != "" {
		return supplied
	}
	return uuid.NewString()
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
