package config

import (
	"os"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	// Server
	HTTPAddr string
	LogLevel string

	// Bedrock agents (three fixed identities configured at startup)
	AgentRegion       string
	SupervisorAgentID string
	ContentAgentID    string
	VisualAgentID     string
	AgentAliasID      string

	// Image generation (may live in a different region than the agents)
	ImageRegion  string
	ImageModelID string
	OutputDir    string

	// S3/Storage (optional; images are only uploaded when a bucket is set)
	S3Bucket    string
	S3KeyPrefix string
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string

	// Auth (optional; /v1 is open when no hash is configured)
	APITokenBcryptHash string

	// History
	SessionTTL time.Duration

	// Kafka (optional campaign events)
	KafkaBrokers     []string
	KafkaTopicEvents string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		AgentRegion:       getEnv("AGENT_REGION", "us-east-1"),
		SupervisorAgentID: getEnv("SUPERVISOR_AGENT_ID", ""),
		ContentAgentID:    getEnv("CONTENT_AGENT_ID", ""),
		VisualAgentID:     getEnv("VISUAL_AGENT_ID", ""),
		AgentAliasID:      getEnv("AGENT_ALIAS_ID", "TSTALIASID"),

		ImageRegion:  getEnv("IMAGE_REGION", "us-east-1"),
		ImageModelID: getEnv("IMAGE_MODEL_ID", "amazon.nova-canvas-v1:0"),
		OutputDir:    getEnv("OUTPUT_DIR", "."),

		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3KeyPrefix: getEnv("S3_KEY_PREFIX", "marketing-visuals"),
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),

		APITokenBcryptHash: getEnv("API_TOKEN_BCRYPT_HASH", ""),

		SessionTTL: getEnvDuration("SESSION_TTL", 24*time.Hour),

		KafkaBrokers:     splitNonEmpty(getEnv("KAFKA_BROKERS", "")),
		KafkaTopicEvents: getEnv("KAFKA_TOPIC_EVENTS", "campaigns.events.v1"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// splitNonEmpty splits a comma-separated value, dropping empty entries.
func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
