package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/notexe/glowcare/internal/api"
	"github.com/notexe/glowcare/internal/chat"
	"github.com/notexe/glowcare/internal/clinic"
	"github.com/notexe/glowcare/internal/config"
	"github.com/notexe/glowcare/internal/kvstore"
	"github.com/notexe/glowcare/internal/notify"
	"github.com/notexe/glowcare/internal/repl"
	"github.com/notexe/glowcare/internal/skinscan"
	"github.com/notexe/glowcare/internal/task"
)

func main() {
	configPath := flag.String("config", config.GetDefaultConfigPath(), "Path to configuration file")
	provider := flag.String("provider", "", "Provider to use (deepseek, ollama, openai)")
	modelName := flag.String("model", "", "Model name (overrides config)")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	ephemeral := flag.Bool("ephemeral", false, "Keep tasks and chat in memory only")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Apply CLI flag overrides
	if *provider != "" {
		cfg.Provider = *provider
	}
	if *modelName != "" {
		cfg.Model.Name = *modelName
	}
	if *noColor {
		cfg.UI.ColoredOutput = false
	}
	if *ephemeral {
		cfg.Storage.Driver = config.DriverMemory
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kv, err := kvstore.Open(ctx, cfg.Storage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening storage: %v\n", err)
		os.Exit(1)
	}
	defer kv.Close()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	var sender notify.Sender
	switch cfg.Notify.Sender {
	case config.SenderTelegram:
		sender = notify.NewTelegramSender(cfg.Notify.Telegram.BotToken, cfg.Notify.Telegram.ChatID)
	default:
		sender = notify.NewConsoleSender(os.Stdout, cfg.UI.ColoredOutput)
	}
	scheduler := notify.NewLocalScheduler(sender, notify.WithLogger(logger))
	defer scheduler.Stop()

	tasks := task.NewStore(kv, scheduler,
		task.WithKey(cfg.Tasks.StorageKey),
		task.WithTitle(cfg.Notify.Title),
		task.WithRetention(cfg.Tasks.Retention()),
		task.WithLogger(logger),
	)
	tasks.Load(ctx)

	if _, err := scheduler.RequestPermission(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: reminders are disabled: %v\n", err)
	}

	// The assistant is optional; the task list works without a provider.
	var chatLog *chat.Log
	var providerInstance api.Provider
	if err := cfg.ValidateProvider(); err != nil {
		fmt.Fprintf(os.Stderr, "Assistant disabled: %v\n", err)
	} else {
		providerInstance, err = api.NewProvider(cfg.GetProviderConfig())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating provider: %v\n", err)
			os.Exit(1)
		}
		defer providerInstance.Close()

		chatLog = chat.NewLog(kv, providerInstance,
			chat.Settings{
				Model:        cfg.Model.Name,
				MaxTokens:    cfg.Model.MaxTokens,
				Temperature:  cfg.Model.Temperature,
				SystemPrompt: cfg.Model.SystemPrompt,
			},
			chat.WithKey(cfg.Chat.StorageKey),
			chat.WithRetention(cfg.Chat.Retention()),
			chat.WithMaxHistory(cfg.Chat.MaxHistory),
			chat.WithFallback(cfg.Chat.Fallback),
			chat.WithLogger(logger),
		)
		chatLog.Load(ctx)
	}

	replInstance, err := repl.NewREPL(tasks, chatLog, providerInstance, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating REPL: %v\n", err)
		os.Exit(1)
	}
	replInstance.TrackReminders(scheduler.Has)
	replInstance.UseClinics(clinic.NewFinder(cfg.Clinics))
	if cfg.Scan.Enabled() {
		analyzer, err := skinscan.NewAnalyzer(cfg.Scan)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating face analyzer: %v\n", err)
			os.Exit(1)
		}
		replInstance.UseScanner(analyzer)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
		replInstance.Stop()
	}()

	if err := replInstance.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
