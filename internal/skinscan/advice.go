package skinscan

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/notexe/glowcare/internal/api"
)

const (
	topConcerns = 3
	maxTokens   = 1024
	temperature = 0.7
)

// FallbackProducts is shown when no recommendation could be generated.
const FallbackProducts = `1. Vitamin C Serum
Key ingredients: Vitamin C, Ferulic Acid, Vitamin E
Helps brighten skin, reduce hyperpigmentation, and protect against environmental damage.
2. Hyaluronic Acid Moisturizer
Key ingredients: Hyaluronic Acid, Ceramides, Glycerin
Provides deep hydration, strengthens skin barrier, and improves skin texture.
3. Retinol Night Cream
Key ingredients: Retinol, Peptides, Niacinamide
Helps reduce fine lines, improve skin texture, and promote cell turnover.`

// Concern is a skin issue scored 0..100, higher is worse.
type Concern struct {
	Name  string
	Score float64
}

// Concerns ranks the readings from worst to best. Ties keep a fixed order.
func (a Analysis) Concerns() []Concern {
	out := []Concern{
		{"acne", a.Skin.Acne},
		{"dark circles", a.Skin.DarkCircle},
		{"stains", a.Skin.Stain},
		{"dullness", 100 - a.Skin.Health},
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// Prompt asks for three products aimed at the worst concerns.
func (a Analysis) Prompt() string {
	concerns := a.Concerns()[:topConcerns]
	names := make([]string, len(concerns))
	for i, c := range concerns {
		names[i] = c.Name
	}

	return fmt.Sprintf("Based on the following skin concerns: %s, recommend 3 skincare products that would be helpful. "+
		"For each product, provide a name, key ingredients, and brief explanation of how it addresses the concern.",
		strings.Join(names, ", "))
}

// Recommend asks the provider for products matching the analysis.
func Recommend(ctx context.Context, provider api.Provider, model string, a Analysis) (string, error) {
	text, err := api.Ask(ctx, provider, api.Request{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}, a.Prompt())
	if err != nil {
		return "", fmt.Errorf("failed to get product recommendations: %w", err)
	}
	return text, nil
}
