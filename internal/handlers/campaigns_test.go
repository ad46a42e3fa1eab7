package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/brandloop/campaigns/internal/campaign"
	"github.com/brandloop/campaigns/internal/config"
	"github.com/brandloop/campaigns/internal/imagegen"
	"github.com/brandloop/campaigns/internal/models"
)

// fakeOrchestrator is a minimal Orchestrator for tests.
type fakeOrchestrator struct {
	run     func(ctx context.Context, sessionKey string, brief models.CampaignBrief, progress campaign.ProgressFunc) (*models.CampaignResult, error)
	content func(ctx context.Context, brief string) models.AgentResult
	visual  func(ctx context.Context, brief string) models.AgentResult
}

func (f *fakeOrchestrator) RunCampaignWithProgress(ctx context.Context, sessionKey string, brief models.CampaignBrief, progress campaign.ProgressFunc) (*models.CampaignResult, error) {
	if f.run != nil {
		return f.run(ctx, sessionKey, brief, progress)
	}
	if err := brief.Validate(); err != nil {
		return nil, err
	}
	return &models.CampaignResult{Brief: brief, SessionID: sessionKey, Timestamp: time.Now()}, nil
}

func (f *fakeOrchestrator) GenerateContent(ctx context.Context, brief string) models.AgentResult {
	if f.content != nil {
		return f.content(ctx, brief)
	}
	return models.AgentSuccess("content", "session_test")
}

func (f *fakeOrchestrator) GenerateVisualConcepts(ctx context.Context, brief string) models.AgentResult {
	if f.visual != nil {
		return f.visual(ctx, brief)
	}
	return models.AgentSuccess("concepts", "session_test")
}

// fakeImageService is a minimal ImageService for tests.
type fakeImageService struct {
	generate func(ctx context.Context, prompt string, opts imagegen.Options) models.ImageResult
}

func (f *fakeImageService) Generate(ctx context.Context, prompt string, opts imagegen.Options) models.ImageResult {
	if f.generate != nil {
		return f.generate(ctx, prompt, opts)
	}
	return models.ImageResult{Success: true, Filename: "x.png", Prompt: prompt}
}

func (f *fakeImageService) GenerateForFormat(ctx context.Context, prompt, format string) models.ImageResult {
	return models.ImageResult{Success: true, Filename: "x.png", Prompt: "Social media " + format + " format: " + prompt}
}

func (f *fakeImageService) GenerateCampaignSet(ctx context.Context, info models.CampaignInfo) models.CampaignSet {
	return models.CampaignSet{Campaign: info, Visuals: map[string]models.ImageResult{}, Success: true}
}

func newTestHandler() *Handler {
	return NewHandler(&fakeOrchestrator{}, &fakeImageService{}, campaign.NewStore(), nil, &config.Config{})
}

func TestRunCampaign_InvalidBody(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/v1/campaigns", bytes.NewBufferString(`{invalid`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.RunCampaign(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRunCampaign_BlankBrandIs400(t *testing.T) {
	h := newTestHandler()

	body := bytes.NewBufferString(`{"brand":"","product":"Widget"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/campaigns", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.RunCampaign(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "brand is required") {
		t.Errorf("unexpected error body: %s", rec.Body.String())
	}
}

func TestRunCampaign_SuccessEchoesSession(t *testing.T) {
	h := newTestHandler()

	body := bytes.NewBufferString(`{"brand":"Acme","product":"Widget","session_id":"sess-7"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/campaigns", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.RunCampaign(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var result models.CampaignResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.SessionID != "sess-7" {
		t.Errorf("session id = %q, want sess-7", result.SessionID)
	}
	if result.Brief.Brand != "Acme" {
		t.Errorf("brief brand = %q", result.Brief.Brand)
	}
}

func TestRunCampaign_GeneratesSessionWhenMissing(t *testing.T) {
	h := newTestHandler()

	body := bytes.NewBufferString(`{"brand":"Acme","product":"Widget"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/campaigns", body)
	rec := httptest.NewRecorder()

	h.RunCampaign(rec, req)

	var result models.CampaignResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.SessionID == "" {
		t.Error("expected a generated session id")
	}
}

func TestListCampaigns_RequiresSession(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/campaigns", nil)
	rec := httptest.NewRecorder()

	h.ListCampaigns(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestListCampaigns_NewestFirst(t *testing.T) {
	store := campaign.NewStore()
	store.AppendCampaign("s1", &models.CampaignResult{Brief: models.CampaignBrief{Brand: "First"}})
	store.AppendCampaign("s1", &models.CampaignResult{Brief: models.CampaignBrief{Brand: "Second"}})
	h := NewHandler(&fakeOrchestrator{}, &fakeImageService{}, store, nil, &config.Config{})

	req := httptest.NewRequest(http.MethodGet, "/v1/campaigns?session=s1", nil)
	rec := httptest.NewRecorder()

	h.ListCampaigns(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp models.HistoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Campaigns) != 2 {
		t.Fatalf("campaigns = %d, want 2", len(resp.Campaigns))
	}
	if resp.Campaigns[0].Brief.Brand != "Second" {
		t.Errorf("expected newest first, got %q", resp.Campaigns[0].Brief.Brand)
	}
}

func TestGenerateContent_RequiresBrief(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/v1/content", bytes.NewBufferString(`{"brief":""}`))
	rec := httptest.NewRecorder()

	h.GenerateContent(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestGenerateContent_ReturnsAgentResult(t *testing.T) {
	h := NewHandler(&fakeOrchestrator{
		content: func(_ context.Context, brief string) models.AgentResult {
			return models.AgentSuccess("posts for "+brief, "session_abc")
		},
	}, &fakeImageService{}, campaign.NewStore(), nil, &config.Config{})

	req := httptest.NewRequest(http.MethodPost, "/v1/content", bytes.NewBufferString(`{"brief":"spring launch"}`))
	rec := httptest.NewRecorder()

	h.GenerateContent(rec, req)

	var result models.AgentResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !result.Success || result.Response != "posts for spring launch" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestGenerateImage_RequiresPrompt(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/v1/images", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()

	h.GenerateImage(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestGenerateImage_FormatTakesPrecedence(t *testing.T) {
	h := newTestHandler()

	body := bytes.NewBufferString(`{"prompt":"teaser","format":"story","width":50}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/images", body)
	rec := httptest.NewRecorder()

	h.GenerateImage(rec, req)

	var result models.ImageResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(result.Prompt, "story format") {
		t.Errorf("expected format path, got %+v", result)
	}
}

func TestGenerateImage_OptionsForwarded(t *testing.T) {
	var got imagegen.Options
	h := NewHandler(&fakeOrchestrator{}, &fakeImageService{
		generate: func(_ context.Context, _ string, opts imagegen.Options) models.ImageResult {
			got = opts
			return models.ImageResult{Success: true}
		},
	}, campaign.NewStore(), nil, &config.Config{})

	body := bytes.NewBufferString(`{"prompt":"p","width":512,"height":256,"quality":"premium","save_locally":false,"save_to_s3":true}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/images", body)
	rec := httptest.NewRecorder()

	h.GenerateImage(rec, req)

	if got.Width != 512 || got.Height != 256 || got.Quality != "premium" || got.SaveLocally || !got.SaveToS3 {
		t.Errorf("options not forwarded: %+v", got)
	}
}

func TestHealthz(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	h.Healthz(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestIndex_RendersForm(t *testing.T) {
	cfg := &config.Config{
		SupervisorAgentID: "SUP1",
		ContentAgentID:    "CON1",
		VisualAgentID:     "VIS1",
		ImageRegion:       "us-east-1",
		ImageModelID:      "amazon.nova-canvas-v1:0",
	}
	h := NewHandler(&fakeOrchestrator{}, &fakeImageService{}, campaign.NewStore(), nil, cfg)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h.Index(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"SUP1", "campaign-form", "amazon.nova-canvas-v1:0"} {
		if !strings.Contains(body, want) {
			t.Errorf("index page missing %q", want)
		}
	}
}
