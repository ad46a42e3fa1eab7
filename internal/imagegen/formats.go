package imagegen

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/brandloop/campaigns/internal/models"
)

// dimensions is a target width/height pair for a named format.
type dimensions struct {
	Width  int
	Height int
}

// socialFormats maps named social-media formats to their target dimensions.
var socialFormats = map[string]dimensions{
	"square": {1024, 1024}, // Instagram post
	"story":  {1080, 1920}, // Instagram/Facebook story
	"banner": {1200, 630},  // Facebook cover
	"wide":   {1024, 512},  // Twitter header
}

// squareSubstituted lists formats whose aspect ratio the backend cannot
// render natively; they fall back to the nearest supported square size.
var squareSubstituted = map[string]bool{
	"banner": true,
	"wide":   true,
}

// GenerateForFormat generates an image sized for the named social format.
// Formats the backend cannot render natively are substituted with
// 1024x1024 and logged; substitution is never an error.
func (s *Service) GenerateForFormat(ctx context.Context, prompt, format string) models.ImageResult {
	dims, ok := socialFormats[format]
	if !ok {
		return models.ImageFailure(fmt.Sprintf("unsupported format: %s", format))
	}

	if squareSubstituted[format] {
		log.Warn().
			Str("format", format).
			Int("requested_width", dims.Width).
			Int("requested_height", dims.Height).
			Msg("Aspect ratio not supported by backend, using 1024x1024")
		dims = dimensions{1024, 1024}
	}

	opts := DefaultOptions()
	opts.Width = dims.Width
	opts.Height = dims.Height

	return s.Generate(ctx, fmt.Sprintf("Social media %s format: %s", format, prompt), opts)
}
