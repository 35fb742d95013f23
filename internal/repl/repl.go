package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/notexe/glowcare/internal/advice"
	"github.com/notexe/glowcare/internal/api"
	"github.com/notexe/glowcare/internal/chat"
	"github.com/notexe/glowcare/internal/config"
	"github.com/notexe/glowcare/internal/task"
	"github.com/notexe/glowcare/internal/ui"
)

// REPL is the terminal front end for the task list and the assistant.
type REPL struct {
	tasks     *task.Store
	chat      *chat.Log    // nil when no provider is configured
	provider  api.Provider // nil when no provider is configured
	config    *config.Config
	rl        *readline.Instance
	out       io.Writer
	formatter *ui.Formatter
	spinner   *ui.Spinner
	ask       func(advice.Question) ([]string, error)
	reminders func(handle string) bool // nil trusts stored handles
	clinics   clinicFinder
	scanner   faceDetector // nil without Face++ credentials
}

func NewREPL(tasks *task.Store, log *chat.Log, provider api.Provider, cfg *config.Config) (*REPL, error) {
	rl, err := setupReadline()
	if err != nil {
		return nil, fmt.Errorf("failed to setup readline: %w", err)
	}

	r := newREPL(tasks, log, provider, cfg, os.Stdout)
	r.rl = rl
	rl.SetPrompt(r.formatter.FormatPrompt())
	return r, nil
}

func newREPL(tasks *task.Store, log *chat.Log, provider api.Provider, cfg *config.Config, out io.Writer) *REPL {
	name := ""
	if provider != nil {
		name = provider.Name()
	}
	formatter := ui.NewFormatter(cfg.UI.ColoredOutput, cfg.UI.RenderMarkdown, name)

	r := &REPL{
		tasks:     tasks,
		chat:      log,
		provider:  provider,
		config:    cfg,
		out:       out,
		formatter: formatter,
		spinner:   ui.NewSpinner(out, cfg.UI.ColoredOutput),
	}
	r.ask = r.askWithSelector
	return r
}

// TrackReminders makes /tasks mark only reminders that has still reports as
// pending. Handles left over from an earlier run are shown without a bell.
func (r *REPL) TrackReminders(has func(handle string) bool) {
	r.reminders = has
}

// Start runs the read loop until /quit, Ctrl+C or Ctrl+D.
func (r *REPL) Start(ctx context.Context) error {
	defer func() { r.rl.Close() }()

	r.displayWelcome()

	for {
		input, err := r.readInput()
		if err != nil {
			if isEOF(err) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		if input == "" {
			continue
		}

		r.tasks.Prune(ctx)
		if r.chat != nil {
			r.chat.Prune(ctx)
		}

		isCommand, command, args := r.parseCommand(input)
		if isCommand {
			if command == "/quit" || command == "/exit" || command == "/q" {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return nil
			}

			if err := r.handleCommand(ctx, command, args); err != nil {
				r.displayError(err)
			}
			continue
		}

		if err := r.handleMessage(ctx, input); err != nil {
			r.displayError(err)
		}
	}
}

func (r *REPL) Stop() {
	if r.rl != nil {
		r.rl.Close()
	}
}

func (r *REPL) handleCommand(ctx context.Context, command, args string) error {
	switch command {
	case "/help", "/h":
		r.displayHelp()
		return nil

	case "/tasks", "/t":
		r.displayTasks()
		return nil

	case "/add", "/a":
		return r.handleAdd(ctx, args)

	case "/done", "/d":
		id, err := r.resolveTask(args)
		if err != nil {
			return err
		}
		t, ok := r.tasks.ToggleCompletion(ctx, id)
		if !ok {
			return fmt.Errorf("task not found: %s", args)
		}
		if t.Completed {
			r.displaySystem("Completed: " + t.Text)
		} else {
			r.displaySystem("Reopened: " + t.Text)
		}
		return nil

	case "/delete", "/del":
		id, err := r.resolveTask(args)
		if err != nil {
			return err
		}
		t, _ := r.tasks.Get(id)
		if !r.tasks.Delete(ctx, id) {
			return fmt.Errorf("task not found: %s", args)
		}
		r.displaySystem("Deleted: " + t.Text)
		return nil

	case "/history":
		if err := r.requireChat(); err != nil {
			return err
		}
		fmt.Fprintln(r.out, r.formatter.FormatHistory(r.chat.Messages()))
		return nil

	case "/clear", "/c":
		if err := r.requireChat(); err != nil {
			return err
		}
		r.chat.Clear(ctx)
		r.displaySystem("Conversation history cleared.")
		return nil

	case "/quiz":
		return r.handleQuiz(ctx)

	case "/ingredient", "/i":
		return r.handleIngredient(ctx, args)

	case "/clinics":
		return r.handleClinics(ctx, args)

	case "/scan":
		return r.handleScan(ctx, args)

	default:
		return fmt.Errorf("unknown command: %s (type /help for available commands)", command)
	}
}

func (r *REPL) handleAdd(ctx context.Context, args string) error {
	fields := strings.Fields(args)
	if len(fields) < 3 {
		return fmt.Errorf("usage: /add <hh:mm AM|PM> <text>")
	}

	t, err := r.tasks.Add(ctx, strings.Join(fields[2:], " "), fields[0]+" "+fields[1])
	if err != nil {
		if errors.Is(err, task.ErrInvalidTime) {
			return fmt.Errorf("%w (usage: /add <hh:mm AM|PM> <text>)", err)
		}
		return err
	}

	msg := fmt.Sprintf("Added: %s at %s", t.Text, t.Time)
	if !t.HasReminder() {
		msg += " (no reminder scheduled)"
	}
	r.displaySystem(msg)
	return nil
}

func (r *REPL) handleMessage(ctx context.Context, message string) error {
	if err := r.requireChat(); err != nil {
		return err
	}

	r.spinner.Start("Thinking...")
	reply, err := r.chat.Send(ctx, message)
	r.spinner.Stop()
	if err != nil {
		return err
	}

	r.displayAssistant(reply.Text)
	return nil
}

// resolveTask accepts "#n" (1-based position in /tasks) or a raw task id.
func (r *REPL) resolveTask(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("usage: <#n|id>")
	}

	if n, ok := strings.CutPrefix(arg, "#"); ok {
		idx, err := strconv.Atoi(n)
		tasks := r.tasks.Tasks()
		if err != nil || idx < 1 || idx > len(tasks) {
			return "", fmt.Errorf("no task at position %s", arg)
		}
		return tasks[idx-1].ID, nil
	}

	if _, ok := r.tasks.Get(arg); !ok {
		return "", fmt.Errorf("task not found: %s", arg)
	}
	return arg, nil
}

func (r *REPL) requireChat() error {
	if r.chat == nil {
		return fmt.Errorf("assistant is not configured (set DEEPSEEK_API_KEY or choose another provider)")
	}
	return nil
}
