package campaign

import (
	"fmt"

	"github.com/brandloop/campaigns/internal/models"
)

// strategyContextLimit caps how much of the strategy response is carried
// into the content brief.
const strategyContextLimit = 500

// strategyPrompt embeds all six brief fields plus the fixed five-part ask
// for the supervisor agent.
func strategyPrompt(brief models.CampaignBrief) string {
	return fmt.Sprintf(`Create a comprehensive marketing strategy for the following campaign:

Brand: %s
Product/Service: %s
Target Audience: %s
Campaign Goals: %s
Budget Range: %s
Timeline: %s

Please provide:
1. Overall marketing strategy
2. Content recommendations
3. Visual content suggestions
4. Channel recommendations
5. Success metrics`,
		brief.Brand, brief.Product, brief.Audience, brief.Goals, brief.Budget, brief.Timeline)
}

// contentPrompt wraps a free-text content brief in the fixed ask for the
// content agent.
func contentPrompt(contentBrief string) string {
	return fmt.Sprintf(`Generate marketing content for the following brief:
%s

Please provide:
1. Social media posts (Facebook, Instagram, Twitter)
2. Email marketing content
3. Blog post outline
4. Call-to-action suggestions`, contentBrief)
}

// contentBriefFromStrategy builds the stage-2 brief: the strategy response
// truncated to its first 500 characters as context plus brand/product.
// Truncation counts runes so a multi-byte response is never cut mid-rune.
// When the strategy stage failed there is no context to carry.
func contentBriefFromStrategy(strategy *models.AgentResult, brief models.CampaignBrief) string {
	if strategy == nil || !strategy.Success {
		return fmt.Sprintf("Create content for %s %s", brief.Brand, brief.Product)
	}
	context := strategy.Response
	if runes := []rune(context); len(runes) > strategyContextLimit {
		context = string(runes[:strategyContextLimit])
	}
	return fmt.Sprintf("Based on this strategy: %s... Create content for %s %s", context, brief.Brand, brief.Product)
}

// visualConceptsPrompt wraps a free-text visual brief in the fixed ask for
// the visual agent.
func visualConceptsPrompt(visualBrief string) string {
	return fmt.Sprintf(`Create visual content concepts for:
%s

Please provide:
1. Visual style recommendations
2. Color palette suggestions
3. Layout concepts
4. Image composition ideas
5. Specific prompts for image generation`, visualBrief)
}

// visualBriefFromCampaign builds the stage-3 brief from brand, product and
// audience.
func visualBriefFromCampaign(brief models.CampaignBrief) string {
	return fmt.Sprintf("Create visual concepts for %s %s targeting %s", brief.Brand, brief.Product, brief.Audience)
}

// visualGenerationPrompts are the three fixed image prompts of stage 4,
// parameterized by brand and product.
func visualGenerationPrompts(brief models.CampaignBrief) []string {
	return []string{
		fmt.Sprintf("Professional marketing banner for %s %s, modern design, high quality", brief.Brand, brief.Product),
		fmt.Sprintf("Social media post visual for %s, engaging and vibrant, call-to-action style", brief.Brand),
		fmt.Sprintf("Product showcase image for %s, clean background, professional lighting", brief.Product),
	}
}
