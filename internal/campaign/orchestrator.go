package campaign

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/brandloop/campaigns/internal/imagegen"
	"github.com/brandloop/campaigns/internal/models"
)

// AgentCaller invokes a named remote agent within a session.
type AgentCaller interface {
	Invoke(ctx context.Context, agentID, message, sessionID string) models.AgentResult
}

// ImageGenerator produces a single campaign visual.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string, opts imagegen.Options) models.ImageResult
}

// EventPublisher is notified when a campaign run finishes. May be nil.
type EventPublisher interface {
	PublishCampaignCompleted(ctx context.Context, sessionKey string, result *models.CampaignResult) error
}

// ProgressFunc receives per-stage progress notifications during a run.
type ProgressFunc func(stage, message string)

// Orchestrator sequences the four campaign stages: strategy, content,
// visual concepts, image batch. Stage failures are reported in the result,
// never raised; the only short-circuit is that the image batch runs only
// when the visual-concepts stage succeeded.
type Orchestrator struct {
	agents  AgentCaller
	images  ImageGenerator
	history *Store
	events  EventPublisher

	supervisorAgentID string
	contentAgentID    string
	visualAgentID     string
}

// New creates an Orchestrator. events may be nil.
func New(agents AgentCaller, images ImageGenerator, history *Store, events EventPublisher, supervisorAgentID, contentAgentID, visualAgentID string) *Orchestrator {
	return &Orchestrator{
		agents:            agents,
		images:            images,
		history:           history,
		events:            events,
		supervisorAgentID: supervisorAgentID,
		contentAgentID:    contentAgentID,
		visualAgentID:     visualAgentID,
	}
}

// GenerateStrategy asks the supervisor agent for a campaign strategy.
func (o *Orchestrator) GenerateStrategy(ctx context.Context, brief models.CampaignBrief) models.AgentResult {
	return o.agents.Invoke(ctx, o.supervisorAgentID, strategyPrompt(brief), "")
}

// GenerateContent asks the content agent for marketing content.
func (o *Orchestrator) GenerateContent(ctx context.Context, contentBrief string) models.AgentResult {
	return o.agents.Invoke(ctx, o.contentAgentID, contentPrompt(contentBrief), "")
}

// GenerateVisualConcepts asks the visual agent for visual concepts.
func (o *Orchestrator) GenerateVisualConcepts(ctx context.Context, visualBrief string) models.AgentResult {
	return o.agents.Invoke(ctx, o.visualAgentID, visualConceptsPrompt(visualBrief), "")
}

// RunCampaign runs the full pipeline for brief and appends the result to
// the session's history. It returns an error only when the brief fails its
// preconditions, in which case the pipeline never starts.
func (o *Orchestrator) RunCampaign(ctx context.Context, sessionKey string, brief models.CampaignBrief) (*models.CampaignResult, error) {
	return o.RunCampaignWithProgress(ctx, sessionKey, brief, nil)
}

// RunCampaignWithProgress is RunCampaign with per-stage progress
// notifications; progress may be nil.
func (o *Orchestrator) RunCampaignWithProgress(ctx context.Context, sessionKey string, brief models.CampaignBrief, progress ProgressFunc) (*models.CampaignResult, error) {
	if err := brief.Validate(); err != nil {
		return nil, err
	}
	notify := func(stage, message string) {
		if progress != nil {
			progress(stage, message)
		}
	}

	log.Info().
		Str("brand", brief.Brand).
		Str("product", brief.Product).
		Str("session", sessionKey).
		Msg("Starting campaign pipeline")

	result := &models.CampaignResult{
		Brief:            brief,
		GeneratedVisuals: []models.ImageResult{},
		SessionID:        sessionKey,
		Timestamp:        time.Now(),
	}

	// Stage 1: strategy. A failure is recorded but does not halt the
	// pipeline; the content stage always runs.
	notify("strategy", "Generating marketing strategy...")
	strategy := o.GenerateStrategy(ctx, brief)
	result.Strategy = &strategy
	if !strategy.Success {
		log.Warn().Str("error", strategy.Error).Msg("Strategy stage failed, continuing")
	}

	// Stage 2: content, seeded with the truncated strategy output.
	notify("content", "Generating marketing content...")
	content := o.GenerateContent(ctx, contentBriefFromStrategy(result.Strategy, brief))
	result.Content = &content
	if !content.Success {
		log.Warn().Str("error", content.Error).Msg("Content stage failed, continuing")
	}

	// Stage 3: visual concepts.
	notify("visual_concepts", "Generating visual concepts...")
	concepts := o.GenerateVisualConcepts(ctx, visualBriefFromCampaign(brief))
	result.VisualConcepts = &concepts
	if !concepts.Success {
		log.Warn().Str("error", concepts.Error).Msg("Visual concepts stage failed, skipping image batch")
	}

	// Stage 4: the image batch runs only when stage 3 succeeded. Every
	// attempt is recorded, failures included.
	if concepts.Success {
		prompts := visualGenerationPrompts(brief)
		for i, prompt := range prompts {
			notify("visuals", visualProgressMessage(i+1, len(prompts)))
			img := o.images.Generate(ctx, prompt, imagegen.DefaultOptions())
			result.GeneratedVisuals = append(result.GeneratedVisuals, img)
			if img.Success {
				o.history.AppendVisuals(sessionKey, img)
			} else {
				log.Warn().Str("error", img.Error).Str("prompt", prompt).Msg("Visual generation failed")
			}
		}
	}

	o.history.AppendCampaign(sessionKey, result)

	if o.events != nil {
		if err := o.events.PublishCampaignCompleted(ctx, sessionKey, result); err != nil {
			log.Error().Err(err).Msg("Failed to publish campaign event")
		}
	}

	log.Info().
		Bool("strategy_ok", strategy.Success).
		Bool("content_ok", content.Success).
		Bool("concepts_ok", concepts.Success).
		Int("visuals", len(result.GeneratedVisuals)).
		Msg("Campaign pipeline finished")

	return result, nil
}

func visualProgressMessage(n, total int) string {
	return fmt.Sprintf("Generating visual %d/%d...", n, total)
}
