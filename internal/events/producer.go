package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/brandloop/campaigns/internal/models"
)

// CampaignCompletedEvent is published after every finished pipeline run.
type CampaignCompletedEvent struct {
	Event          string    `json:"event"` // "campaign_completed"
	SessionKey     string    `json:"session_key"`
	Brand          string    `json:"brand"`
	Product        string    `json:"product"`
	StrategyOK     bool      `json:"strategy_ok"`
	ContentOK      bool      `json:"content_ok"`
	ConceptsOK     bool      `json:"visual_concepts_ok"`
	VisualAttempts int       `json:"visual_attempts"`
	Timestamp      time.Time `json:"timestamp"`
}

// Producer publishes campaign lifecycle events to Kafka.
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		Async:                  false,
	}

	log.Info().
		Strs("brokers", brokers).
		Str("topic", topic).
		Msg("Kafka producer initialized")

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// PublishCampaignCompleted publishes a campaign_completed event keyed by the
// session so per-session ordering is preserved.
func (p *Producer) PublishCampaignCompleted(ctx context.Context, sessionKey string, result *models.CampaignResult) error {
	event := CampaignCompletedEvent{
		Event:          "campaign_completed",
		SessionKey:     sessionKey,
		Brand:          result.Brief.Brand,
		Product:        result.Brief.Product,
		StrategyOK:     result.Strategy != nil && result.Strategy.Success,
		ContentOK:      result.Content != nil && result.Content.Success,
		ConceptsOK:     result.VisualConcepts != nil && result.VisualConcepts.Success,
		VisualAttempts: len(result.GeneratedVisuals),
		Timestamp:      result.Timestamp,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal campaign event: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(sessionKey),
		Value: data,
	}); err != nil {
		return fmt.Errorf("failed to write campaign event to kafka: %w", err)
	}

	log.Info().
		Str("session", sessionKey).
		Str("topic", p.topic).
		Msg("Campaign event published to Kafka")

	return nil
}

// Close closes the producer
func (p *Producer) Close() error {
	log.Info().Msg("Closing Kafka producer")
	return p.writer.Close()
}
