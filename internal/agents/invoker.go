package agents

import (
	"context"
	"encoding/hex"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/brandloop/campaigns/internal/models"
)

// agentStream yields agent response events in arrival order.
type agentStream interface {
	Events() <-chan types.ResponseStream
	Close() error
	Err() error
}

// agentAPI is the slice of the Bedrock agent runtime the Invoker uses.
type agentAPI interface {
	invokeAgent(ctx context.Context, in *bedrockagentruntime.InvokeAgentInput) (agentStream, error)
}

// bedrockAgentAPI adapts the real Bedrock agent runtime client.
type bedrockAgentAPI struct {
	client *bedrockagentruntime.Client
}

func (b *bedrockAgentAPI) invokeAgent(ctx context.Context, in *bedrockagentruntime.InvokeAgentInput) (agentStream, error) {
	out, err := b.client.InvokeAgent(ctx, in)
	if err != nil {
		return nil, err
	}
	return out.GetStream(), nil
}

// Invoker sends free-text messages to named remote agents and collects the
// streamed responses. Remote failures are converted to failed AgentResults,
// never returned as errors.
type Invoker struct {
	api     agentAPI
	aliasID string
}

// NewInvoker creates an Invoker backed by the Bedrock agent runtime.
func NewInvoker(cfg aws.Config, aliasID string) *Invoker {
	return &Invoker{
		api:     &bedrockAgentAPI{client: bedrockagentruntime.NewFromConfig(cfg)},
		aliasID: aliasID,
	}
}

// NewSessionID generates a random session identifier used to correlate
// multi-turn calls to the same remote agent session.
func NewSessionID() string {
	u := uuid.New()
	return "session_" + hex.EncodeToString(u[:4])
}

// Invoke sends message to the identified agent within sessionID, generating
// a session identifier when none is supplied. Response chunks are
// concatenated in arrival order; order is significant and chunks are never
// reordered or deduplicated.
func (inv *Invoker) Invoke(ctx context.Context, agentID, message, sessionID string) models.AgentResult {
	if sessionID == "" {
		sessionID = NewSessionID()
	}

	log.Debug().
		Str("agent_id", agentID).
		Str("session_id", sessionID).
		Int("message_len", len(message)).
		Msg("Invoking agent")

	stream, err := inv.api.invokeAgent(ctx, &bedrockagentruntime.InvokeAgentInput{
		AgentId:      aws.String(agentID),
		AgentAliasId: aws.String(inv.aliasID),
		SessionId:    aws.String(sessionID),
		InputText:    aws.String(message),
	})
	if err != nil {
		log.Error().Err(err).
			Str("agent_id", agentID).
			Str("session_id", sessionID).
			Msg("Agent invocation failed")
		return models.AgentFailure(err.Error(), sessionID)
	}
	defer stream.Close()

	var sb strings.Builder
	for event := range stream.Events() {
		chunk, ok := event.(*types.ResponseStreamMemberChunk)
		if !ok || chunk.Value.Bytes == nil {
			continue
		}
		sb.Write(chunk.Value.Bytes)
	}
	if err := stream.Err(); err != nil {
		log.Error().Err(err).
			Str("agent_id", agentID).
			Str("session_id", sessionID).
			Msg("Agent response stream failed")
		return models.AgentFailure(err.Error(), sessionID)
	}

	log.Info().
		Str("agent_id", agentID).
		Str("session_id", sessionID).
		Int("response_len", sb.Len()).
		Msg("Agent invocation completed")

	return models.AgentSuccess(sb.String(), sessionID)
}
