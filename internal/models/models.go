package models

import (
	"time"
)

// CampaignBrief is the user-supplied description of a marketing campaign.
// All fields are free text; Brand and Product must be non-empty before the
// pipeline starts. Immutable once submitted.
type CampaignBrief struct {
	Brand    string `json:"brand"`
	Product  string `json:"product"`
	Audience string `json:"audience"`
	Goals    string `json:"goals"`
	Budget   string `json:"budget"`
	Timeline string `json:"timeline"`
}

// Validate checks the brief's preconditions before the pipeline starts.
func (b *CampaignBrief) Validate() error {
	if b.Brand == "" {
		return ErrBrandRequired
	}
	if b.Product == "" {
		return ErrProductRequired
	}
	return nil
}

// AgentResult is the outcome of one remote agent invocation. Exactly one of
// Response/Error is populated depending on Success; SessionID is always set
// so multi-turn calls can reuse the same agent session.
type AgentResult struct {
	Success   bool   `json:"success"`
	Response  string `json:"response,omitempty"`
	Error     string `json:"error,omitempty"`
	SessionID string `json:"session_id"`
}

// AgentSuccess builds a successful AgentResult.
func AgentSuccess(response, sessionID string) AgentResult {
	return AgentResult{Success: true, Response: response, SessionID: sessionID}
}

// AgentFailure builds a failed AgentResult.
func AgentFailure(errMsg, sessionID string) AgentResult {
	return AgentResult{Success: false, Error: errMsg, SessionID: sessionID}
}

// ImageResult is the outcome of one image generation. On success Filename,
// SizeBytes, Dimensions and Prompt are populated, plus whichever of
// LocalPath/S3URL persistence produced; on failure only Error is set.
type ImageResult struct {
	Success    bool   `json:"success"`
	Filename   string `json:"filename,omitempty"`
	SizeBytes  int64  `json:"size_bytes,omitempty"`
	Dimensions string `json:"dimensions,omitempty"`
	Prompt     string `json:"prompt,omitempty"`
	LocalPath  string `json:"local_path,omitempty"`
	S3URL      string `json:"s3_url,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ImageFailure builds a failed ImageResult.
func ImageFailure(errMsg string) ImageResult {
	return ImageResult{Success: false, Error: errMsg}
}

// CampaignResult is the aggregate of one pipeline run. A stage pointer is
// nil when that stage never ran. GeneratedVisuals records every attempted
// image generation in order, failures included, so callers can tell
// "3 requested, 3 failed" apart from "no images were needed".
type CampaignResult struct {
	Brief            CampaignBrief `json:"brief"`
	Strategy         *AgentResult  `json:"strategy,omitempty"`
	Content          *AgentResult  `json:"content,omitempty"`
	VisualConcepts   *AgentResult  `json:"visual_concepts,omitempty"`
	GeneratedVisuals []ImageResult `json:"generated_visuals"`
	SessionID        string        `json:"session_id"`
	Timestamp        time.Time     `json:"timestamp"`
}

// CampaignInfo parameterizes a campaign visual set.
type CampaignInfo struct {
	Brand   string `json:"brand"`
	Product string `json:"product"`
	Style   string `json:"style"`
	Colors  string `json:"colors"`
}

// CampaignSet is the partial-success aggregate of a three-format visual
// batch. Visuals holds the successful formats; Errors holds one
// "<format>: <error>" entry per failed format; Success is false iff any
// format failed.
type CampaignSet struct {
	Campaign CampaignInfo           `json:"campaign"`
	Visuals  map[string]ImageResult `json:"visuals"`
	Success  bool                   `json:"success"`
	Errors   []string               `json:"errors,omitempty"`
}

// RunCampaignRequest is the POST /v1/campaigns body.
type RunCampaignRequest struct {
	CampaignBrief
	SessionID string `json:"session_id,omitempty"`
}

// AgentCallRequest is the body for direct agent calls
// (POST /v1/content, POST /v1/visual-concepts).
type AgentCallRequest struct {
	Brief     string `json:"brief"`
	SessionID string `json:"session_id,omitempty"`
}

// GenerateImageRequest is the POST /v1/images body.
type GenerateImageRequest struct {
	Prompt      string `json:"prompt"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Quality     string `json:"quality,omitempty"`
	Format      string `json:"format,omitempty"` // named format; overrides width/height
	SaveLocally *bool  `json:"save_locally,omitempty"`
	SaveToS3    *bool  `json:"save_to_s3,omitempty"`
}

// CampaignSetRequest is the POST /v1/images/campaign-set body.
type CampaignSetRequest struct {
	CampaignInfo
}

// HistoryResponse is the GET /v1/campaigns response.
type HistoryResponse struct {
	SessionID string            `json:"session_id"`
	Campaigns []*CampaignResult `json:"campaigns"`
}
