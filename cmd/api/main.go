package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/brandloop/campaigns/internal/agents"
	"github.com/brandloop/campaigns/internal/auth"
	"github.com/brandloop/campaigns/internal/campaign"
	"github.com/brandloop/campaigns/internal/config"
	"github.com/brandloop/campaigns/internal/events"
	"github.com/brandloop/campaigns/internal/handlers"
	"github.com/brandloop/campaigns/internal/imagegen"
	"github.com/brandloop/campaigns/internal/storage"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().Msg("Starting Campaigns API")

	if cfg.SupervisorAgentID == "" || cfg.ContentAgentID == "" || cfg.VisualAgentID == "" {
		log.Fatal().Msg("SUPERVISOR_AGENT_ID, CONTENT_AGENT_ID and VISUAL_AGENT_ID must be set")
	}

	ctx := context.Background()

	agentAWSCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AgentRegion))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS config for agents")
	}
	invoker := agents.NewInvoker(agentAWSCfg, cfg.AgentAliasID)

	// Image generation may live in a different region than the agents.
	imageAWSCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.ImageRegion))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS config for image generation")
	}

	var store imagegen.Uploader
	var objects handlers.ObjectStore
	if cfg.S3Bucket != "" {
		s3Client, err := storage.NewClient(cfg.S3Endpoint, cfg.S3Region, cfg.S3Bucket, cfg.S3AccessKey, cfg.S3SecretKey)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize storage client")
		}
		log.Info().Str("bucket", s3Client.Bucket()).Msg("S3 uploads enabled")
		store = s3Client
		objects = s3Client
	}

	imageService := imagegen.NewService(imageAWSCfg, cfg.ImageModelID, cfg.OutputDir, store, cfg.S3KeyPrefix)

	history := campaign.NewStore()

	var publisher campaign.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicEvents)
		defer producer.Close()
		publisher = producer
	}

	orchestrator := campaign.New(
		invoker, imageService, history, publisher,
		cfg.SupervisorAgentID, cfg.ContentAgentID, cfg.VisualAgentID,
	)

	h := handlers.NewHandler(orchestrator, imageService, history, objects, cfg)
	authService := auth.NewService(cfg.APITokenBcryptHash)

	r := mux.NewRouter()
	r.HandleFunc("/", h.Index).Methods("GET")
	r.HandleFunc("/healthz", h.Healthz).Methods("GET")

	api := r.PathPrefix("/v1").Subrouter()
	api.Use(authService.Middleware)
	api.HandleFunc("/campaigns", h.RunCampaign).Methods("POST")
	api.HandleFunc("/campaigns", h.ListCampaigns).Methods("GET")
	api.HandleFunc("/campaigns/ws", h.CampaignWS).Methods("GET")
	api.HandleFunc("/content", h.GenerateContent).Methods("POST")
	api.HandleFunc("/visual-concepts", h.GenerateVisualConcepts).Methods("POST")
	api.HandleFunc("/images", h.GenerateImage).Methods("POST")
	api.HandleFunc("/images/campaign-set", h.GenerateCampaignSet).Methods("POST")
	api.HandleFunc("/visuals/{filename}", h.GetVisual).Methods("GET")

	// Sweep idle sessions in the background.
	sweepCtx, cancelSweep := context.WithCancel(ctx)
	defer cancelSweep()
	go func() {
		ticker := time.NewTicker(cfg.SessionTTL / 4)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				history.EvictIdle(cfg.SessionTTL)
			}
		}
	}()

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Minute, // pipeline runs block on several remote calls
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down API...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("API exited")
}
