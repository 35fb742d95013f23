package repl

import (
	"context"
	"fmt"
	"strings"

	"github.com/notexe/glowcare/internal/advice"
	"github.com/notexe/glowcare/internal/ui"
)

// handleQuiz walks through the skin questionnaire and prints the advice.
func (r *REPL) handleQuiz(ctx context.Context) error {
	if r.provider == nil {
		return r.requireChat()
	}

	questions := advice.Questions()
	profile := advice.Profile{}
	for i, q := range questions {
		fmt.Fprintln(r.out, r.formatter.FormatSystem(fmt.Sprintf("Question %d of %d", i+1, len(questions))))

		picked, err := r.ask(q)
		if err != nil {
			return fmt.Errorf("quiz stopped: %w", err)
		}
		if err := profile.Select(q.Key, picked...); err != nil {
			return err
		}
		fmt.Fprintln(r.out, r.formatter.FormatUserMessage(strings.Join(picked, ", ")))
	}

	r.spinner.Start("Preparing your recommendations...")
	text, err := advice.Recommend(ctx, r.provider, r.config.Model.Name, profile)
	r.spinner.Stop()
	if err != nil {
		return err
	}

	r.displayAssistant(text)
	r.displayInfo("Add any step as a reminder with /add <hh:mm AM|PM> <text>")
	return nil
}

// askWithSelector shows the arrow-key menu. Readline owns the terminal while
// open, so it is closed for the menu and recreated afterwards.
func (r *REPL) askWithSelector(q advice.Question) ([]string, error) {
	if r.rl != nil {
		r.rl.Close()
		defer func() {
			if rl, err := setupReadline(); err == nil {
				rl.SetPrompt(r.formatter.FormatPrompt())
				r.rl = rl
			}
		}()
	}

	return ui.NewSelector(q.Prompt, q.Options, q.MultiSelect, r.config.UI.ColoredOutput).Run()
}
