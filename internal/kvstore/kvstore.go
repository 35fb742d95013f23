// Package kvstore provides the key-value stores that hold the task list and
// the chat log. Values are opaque bytes; callers own their encoding.
package kvstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/notexe/glowcare/internal/config"
)

// Store is a minimal durable key-value store.
type Store interface {
	// Get returns the value under key. ok is false when the key has never been set.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set replaces the value under key.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases the underlying connection.
	Close() error
}

// Open creates the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.Path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create storage directory: %w", err)
			}
		}
		return NewSQLiteStore(ctx, cfg.Path)
	case config.DriverPostgres:
		return NewPostgresStore(ctx, cfg.DSN)
	case config.DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}
