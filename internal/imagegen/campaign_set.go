package imagegen

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/brandloop/campaigns/internal/models"
)

// setFormats are the three campaign-set formats, generated in this order.
var setFormats = []string{"social_post", "story", "banner"}

// GenerateCampaignSet generates the three-format visual set for a campaign
// and returns a partial-success aggregate: successful formats in Visuals,
// one "<format>: <error>" entry per failure, Success false iff any format
// failed.
func (s *Service) GenerateCampaignSet(ctx context.Context, info models.CampaignInfo) models.CampaignSet {
	brand := info.Brand
	if brand == "" {
		brand = "Brand"
	}
	product := info.Product
	if product == "" {
		product = "Product"
	}
	style := info.Style
	if style == "" {
		style = "modern and professional"
	}
	colors := info.Colors
	if colors == "" {
		colors = "blue and white"
	}

	base := fmt.Sprintf("Marketing visual for %s %s, %s style, %s color scheme", brand, product, style, colors)
	prompts := map[string]string{
		"social_post": base + ", social media post format",
		"story":       base + ", Instagram story format",
		"banner":      base + ", marketing banner format",
	}

	set := models.CampaignSet{
		Campaign: info,
		Visuals:  make(map[string]models.ImageResult),
		Success:  true,
	}

	for _, name := range setFormats {
		log.Info().Str("format", name).Msg("Generating campaign visual")
		// All set formats render as square; the format name only shapes the prompt.
		result := s.GenerateForFormat(ctx, prompts[name], "square")
		if result.Success {
			set.Visuals[name] = result
			continue
		}
		set.Errors = append(set.Errors, fmt.Sprintf("%s: %s", name, result.Error))
		set.Success = false
	}

	return set
}
