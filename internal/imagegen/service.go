package imagegen

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/brandloop/campaigns/internal/models"
)

// modelAPI is the slice of the Bedrock runtime the Service uses.
type modelAPI interface {
	invokeModel(ctx context.Context, in *bedrockruntime.InvokeModelInput) (*bedrockruntime.InvokeModelOutput, error)
}

// bedrockModelAPI adapts the real Bedrock runtime client.
type bedrockModelAPI struct {
	client *bedrockruntime.Client
}

func (b *bedrockModelAPI) invokeModel(ctx context.Context, in *bedrockruntime.InvokeModelInput) (*bedrockruntime.InvokeModelOutput, error) {
	return b.client.InvokeModel(ctx, in)
}

// Uploader is the slice of object storage used for remote persistence.
// Nil disables S3 uploads.
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	ObjectURL(key string) string
}

// Service generates marketing images through a remote text-to-image model
// and persists the results locally and/or to object storage. Remote
// failures are converted to failed ImageResults, never returned as errors.
type Service struct {
	api       modelAPI
	modelID   string
	outputDir string
	store     Uploader
	keyPrefix string
}

// NewService creates a Service backed by the Bedrock runtime. store may be
// nil when no object storage is configured.
func NewService(cfg aws.Config, modelID, outputDir string, store Uploader, keyPrefix string) *Service {
	return &Service{
		api:       &bedrockModelAPI{client: bedrockruntime.NewFromConfig(cfg)},
		modelID:   modelID,
		outputDir: outputDir,
		store:     store,
		keyPrefix: keyPrefix,
	}
}

// Options control one image generation.
type Options struct {
	Width       int
	Height      int
	Quality     string // "standard" or "premium"
	SaveLocally bool
	SaveToS3    bool
}

// DefaultOptions returns the default generation options: 1024x1024,
// standard quality, saved locally only.
func DefaultOptions() Options {
	return Options{
		Width:       1024,
		Height:      1024,
		Quality:     "standard",
		SaveLocally: true,
		SaveToS3:    false,
	}
}

// textToImageRequest is the model request body.
type textToImageRequest struct {
	TaskType              string                `json:"taskType"`
	TextToImageParams     textToImageParams     `json:"textToImageParams"`
	ImageGenerationConfig imageGenerationConfig `json:"imageGenerationConfig"`
}

type textToImageParams struct {
	Text string `json:"text"`
}

type imageGenerationConfig struct {
	NumberOfImages int    `json:"numberOfImages"`
	Quality        string `json:"quality"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
}

// textToImageResponse is the model response body: base64-encoded payloads,
// of which only the first is used.
type textToImageResponse struct {
	Images []string `json:"images"`
	Error  string   `json:"error,omitempty"`
}

// Generate submits prompt to the image model and returns the persisted
// result. Any transport or service error is reported inside the result.
func (s *Service) Generate(ctx context.Context, prompt string, opts Options) models.ImageResult {
	if opts.Width == 0 {
		opts.Width = 1024
	}
	if opts.Height == 0 {
		opts.Height = 1024
	}
	if opts.Quality == "" {
		opts.Quality = "standard"
	}

	log.Debug().
		Str("prompt", truncate(prompt, 60)).
		Int("width", opts.Width).
		Int("height", opts.Height).
		Str("model_id", s.modelID).
		Msg("Generating image")

	body, err := json.Marshal(textToImageRequest{
		TaskType:          "TEXT_IMAGE",
		TextToImageParams: textToImageParams{Text: prompt},
		ImageGenerationConfig: imageGenerationConfig{
			NumberOfImages: 1,
			Quality:        opts.Quality,
			Width:          opts.Width,
			Height:         opts.Height,
		},
	})
	if err != nil {
		return models.ImageFailure(fmt.Sprintf("failed to build request: %v", err))
	}

	out, err := s.api.invokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(s.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		log.Error().Err(err).Str("model_id", s.modelID).Msg("Image generation failed")
		return models.ImageFailure(err.Error())
	}

	var resp textToImageResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return models.ImageFailure(fmt.Sprintf("failed to parse response: %v", err))
	}
	if len(resp.Images) == 0 {
		log.Warn().Str("model_id", s.modelID).Str("model_error", resp.Error).Msg("Model returned no images")
		return models.ImageFailure("No image generated")
	}

	imageBytes, err := base64.StdEncoding.DecodeString(resp.Images[0])
	if err != nil {
		return models.ImageFailure(fmt.Sprintf("failed to decode image payload: %v", err))
	}

	filename := newFilename()
	result := models.ImageResult{
		Success:    true,
		Filename:   filename,
		SizeBytes:  int64(len(imageBytes)),
		Dimensions: fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		Prompt:     prompt,
	}

	if opts.SaveLocally {
		path := filepath.Join(s.outputDir, filename)
		if err := os.WriteFile(path, imageBytes, 0o644); err != nil {
			return models.ImageFailure(fmt.Sprintf("failed to save image: %v", err))
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		result.LocalPath = abs
		log.Info().Str("filename", filename).Int64("size_bytes", result.SizeBytes).Msg("Image saved locally")
	}

	if opts.SaveToS3 && s.store != nil {
		key := s.keyPrefix + "/" + filename
		if err := s.store.Upload(ctx, key, imageBytes, "image/png"); err != nil {
			return models.ImageFailure(fmt.Sprintf("failed to upload image: %v", err))
		}
		result.S3URL = s.store.ObjectURL(key)
	}

	return result
}

// newFilename builds a collision-resistant output name from the current
// timestamp plus a random suffix.
func newFilename() string {
	u := uuid.New()
	return fmt.Sprintf("marketing_visual_%s_%s.png",
		time.Now().Format("20060102_150405"), hex.EncodeToString(u[:4]))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
