package advice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/notexe/glowcare/internal/api"
)

// ErrNoIngredient is returned when the ingredient name is blank.
var ErrNoIngredient = errors.New("please enter an ingredient")

const ingredientTemplate = `Analyze if the following skincare ingredient "%s" is comedogenic.
Provide a rating from 0-5 where:
0 = Non-comedogenic
1 = Slightly comedogenic
2 = Moderately comedogenic
3 = Considerably comedogenic
4 = Highly comedogenic
5 = Severely comedogenic

Also provide a brief explanation of why.`

// IngredientPrompt asks for a 0-5 comedogenic rating of one ingredient.
func IngredientPrompt(ingredient string) string {
	return fmt.Sprintf(ingredientTemplate, strings.TrimSpace(ingredient))
}

// CheckIngredient rates how likely an ingredient is to clog pores.
func CheckIngredient(ctx context.Context, provider api.Provider, model, ingredient string) (string, error) {
	if strings.TrimSpace(ingredient) == "" {
		return "", ErrNoIngredient
	}

	text, err := api.Ask(ctx, provider, api.Request{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}, IngredientPrompt(ingredient))
	if err != nil {
		return "", fmt.Errorf("failed to check ingredient: %w", err)
	}
	return text, nil
}
