// Command mcp-tasks serves the reminder task list over MCP.
//
// Tasks are read from and written to the same storage as the glowcare
// terminal app, so both see one list. Reminders scheduled here are delivered
// while the server process is running.
//
// Usage:
//
//	./mcp-tasks                          # Start MCP server (stdio)
//	./mcp-tasks -config ~/.glowcare/config.yaml
//	./mcp-tasks --help                   # Show help
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/notexe/glowcare/internal/config"
	"github.com/notexe/glowcare/internal/kvstore"
	"github.com/notexe/glowcare/internal/notify"
	"github.com/notexe/glowcare/internal/task"
)

func main() {
	flag.Usage = printHelp
	configPath := flag.String("config", config.GetDefaultConfigPath(), "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	kv, err := kvstore.Open(ctx, cfg.Storage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open storage: %v\n", err)
		os.Exit(1)
	}
	defer kv.Close()

	// stdout carries the MCP protocol, so logs and console alerts go to stderr.
	logger := log.New(os.Stderr, "", log.LstdFlags)

	var sender notify.Sender = notify.NewConsoleSender(os.Stderr, false)
	if cfg.Notify.Sender == config.SenderTelegram {
		sender = notify.NewTelegramSender(cfg.Notify.Telegram.BotToken, cfg.Notify.Telegram.ChatID)
	}
	scheduler := notify.NewLocalScheduler(sender, notify.WithLogger(logger))
	defer scheduler.Stop()

	store := task.NewStore(kv, scheduler,
		task.WithKey(cfg.Tasks.StorageKey),
		task.WithTitle(cfg.Notify.Title),
		task.WithRetention(cfg.Tasks.Retention()),
		task.WithLogger(logger),
	)
	store.Load(ctx)

	if _, err := scheduler.RequestPermission(ctx); err != nil {
		logger.Printf("[notify] Reminders disabled: %v", err)
	}

	s := task.NewServer(store)

	if err := server.ServeStdio(s.MCPServer()); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`MCP Tasks Server - Reminder task list via MCP protocol

USAGE:
    mcp-tasks [-config path]   Start MCP server (communicates via stdio)
    mcp-tasks --help           Show this help

CONFIGURATION:
    Storage, retention and notification settings are read from the glowcare
    config file (default ~/.glowcare/config.yaml) and GLOWCARE_* variables.

TOOLS:
    add_task      Add a task with a reminder (text, time "hh:mm AM|PM")
    list_tasks    List active tasks (optional status: pending, completed)
    toggle_task   Toggle a task between pending and completed
    delete_task   Delete a task and cancel its reminder`)
}
