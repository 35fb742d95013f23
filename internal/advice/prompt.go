package advice

import (
	"context"
	"fmt"
	"strings"

	"github.com/notexe/glowcare/internal/api"
)

const (
	temperature = 0.7
	maxTokens   = 2048
)

const requestTemplate = `Please provide comprehensive skincare advice based on the following information:

Skin Profile:
- Skin Type: %s
- Main Concerns: %s
- Current Routine: %s
- Allergies/Sensitivities: %s
- Skincare Goals: %s

Lifestyle Factors:
- Water Intake: %s
- Sleep Pattern: %s
- Dietary Habits: %s

Please include:
1. A morning and evening routine
2. Product suggestions for this skin type and these concerns
3. Key ingredients to look for
4. Ingredients to avoid
5. Facial exercises that may help
6. Home remedies and masks suited to this skin type
7. Dietary suggestions for healthier skin
8. Lifestyle changes that could improve the skin
9. A weekly plan including masks and treatments
10. Stress management techniques

Format the answer with headings and bullet points.`

// BuildPrompt renders the recommendation request for a profile.
func BuildPrompt(p Profile) string {
	answer := func(key string) string {
		if len(p[key]) == 0 {
			return "Not specified"
		}
		return strings.Join(p[key], ", ")
	}

	return fmt.Sprintf(requestTemplate,
		answer("skinType"),
		answer("skinConcerns"),
		answer("currentRoutine"),
		answer("allergies"),
		answer("goals"),
		answer("waterIntake"),
		answer("sleep"),
		answer("diet"),
	)
}

// Recommend asks the provider for advice tailored to the profile.
func Recommend(ctx context.Context, provider api.Provider, model string, p Profile) (string, error) {
	text, err := api.Ask(ctx, provider, api.Request{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}, BuildPrompt(p))
	if err != nil {
		return "", fmt.Errorf("failed to get recommendations: %w", err)
	}
	return text, nil
}
