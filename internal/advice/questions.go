// Package advice turns a short skin questionnaire into a recommendation
// request for the assistant.
package advice

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrUnknownQuestion = errors.New("unknown question")
	ErrUnknownOption   = errors.New("unknown option")
	ErrSingleSelect    = errors.New("question takes a single answer")
)

type Question struct {
	Key         string
	Prompt      string
	MultiSelect bool
	Options     []string
}

var questions = []Question{
	{
		Key:    "skinType",
		Prompt: "What's your skin type?",
		Options: []string{
			"Oily", "Dry", "Combination", "Normal", "Sensitive",
		},
	},
	{
		Key:         "skinConcerns",
		Prompt:      "What's your main skin concern?",
		MultiSelect: true,
		Options: []string{
			"Acne", "Dark spots", "Aging", "Large pores", "Dullness", "Redness",
			"Pigmentation", "Fine lines", "Wrinkles", "Hyper-pigmentation",
			"Enlarged pores", "Uneven skin tone", "Blackheads", "Whiteheads",
		},
	},
	{
		Key:    "currentRoutine",
		Prompt: "How would you describe your current skincare routine?",
		Options: []string{
			"Basic (Cleanser & Moisturizer)",
			"Intermediate (Basic + Toner & Serum)",
			"Advanced (Full routine)",
			"No routine yet",
			"Varies/Inconsistent",
		},
	},
	{
		Key:         "allergies",
		Prompt:      "Have you experienced any allergies or reactions?",
		MultiSelect: true,
		Options: []string{
			"No known allergies",
			"Sensitive to fragrances",
			"Sensitive to certain oils",
			"Sensitive to chemical sunscreens",
			"Multiple sensitivities",
		},
	},
	{
		Key:         "goals",
		Prompt:      "What's your primary skincare goal?",
		MultiSelect: true,
		Options: []string{
			"Clear acne", "Anti-aging", "Even skin tone", "Hydration",
			"Reduce pore size", "Maintain healthy skin",
		},
	},
	{
		Key:    "waterIntake",
		Prompt: "What's your typical daily water intake?",
		Options: []string{
			"Less than 4 glasses", "4-6 glasses", "6-8 glasses", "More than 8 glasses",
		},
	},
	{
		Key:    "sleep",
		Prompt: "How many hours do you sleep on average?",
		Options: []string{
			"Less than 6 hours", "6-7 hours", "7-8 hours", "More than 8 hours",
		},
	},
	{
		Key:         "diet",
		Prompt:      "Do you have any dietary restrictions?",
		MultiSelect: true,
		Options: []string{
			"No restrictions", "Vegetarian", "Vegan", "Dairy-free", "Gluten-free",
		},
	},
}

// Questions returns the questionnaire in the order it is asked.
func Questions() []Question {
	out := make([]Question, len(questions))
	for i, q := range questions {
		q.Options = slices.Clone(q.Options)
		out[i] = q
	}
	return out
}

func lookup(key string) (Question, bool) {
	for _, q := range questions {
		if q.Key == key {
			return q, true
		}
	}
	return Question{}, false
}

// Profile holds the answers given so far, keyed by question.
type Profile map[string][]string

// Select replaces the answer to a question. Passing no options clears it.
func (p Profile) Select(key string, options ...string) error {
	q, ok := lookup(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, key)
	}
	if !q.MultiSelect && len(options) > 1 {
		return fmt.Errorf("%w: %s", ErrSingleSelect, key)
	}

	var picked []string
	for _, o := range options {
		if !slices.Contains(q.Options, o) {
			return fmt.Errorf("%w: %q for %s", ErrUnknownOption, o, key)
		}
		if !slices.Contains(picked, o) {
			picked = append(picked, o)
		}
	}

	if len(picked) == 0 {
		delete(p, key)
		return nil
	}
	p[key] = picked
	return nil
}

// Answered reports whether every question has an answer.
func (p Profile) Answered() bool {
	for _, q := range questions {
		if len(p[q.Key]) == 0 {
			return false
		}
	}
	return true
}
