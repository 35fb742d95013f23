// Package chat keeps the assistant conversation: a persisted message log
// with 24-hour retention, answered by a generative-text provider.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/notexe/glowcare/internal/api"
	"github.com/notexe/glowcare/internal/kvstore"
)

const (
	DefaultStorageKey = "chatMessages"
	DefaultRetention  = 24 * time.Hour
	DefaultMaxHistory = 20
	DefaultFallback   = "I apologize, but I'm having trouble connecting right now. Please try again later."
)

var ErrEmptyMessage = errors.New("message is empty")

// Message is one chat bubble.
type Message struct {
	ID        int       `json:"id"`
	Text      string    `json:"text"`
	IsUser    bool      `json:"isUser"`
	Timestamp string    `json:"timestamp"`
	CreatedAt time.Time `json:"createdAt"`
}

// Settings are the model parameters used for every reply.
type Settings struct {
	Model        string
	MaxTokens    int
	Temperature  float64
	SystemPrompt string
}

// Log is the persisted conversation.
type Log struct {
	mu         sync.Mutex
	kv         kvstore.Store
	provider   api.Provider
	settings   Settings
	key        string
	retention  time.Duration
	maxHistory int
	fallback   string
	now        func() time.Time
	logger     *log.Logger

	messages []Message
	nextID   int
}

type Option func(*Log)

func WithKey(key string) Option {
	return func(l *Log) { l.key = key }
}

func WithRetention(d time.Duration) Option {
	return func(l *Log) { l.retention = d }
}

func WithMaxHistory(n int) Option {
	return func(l *Log) { l.maxHistory = n }
}

// WithFallback sets the reply stored when the provider fails.
func WithFallback(text string) Option {
	return func(l *Log) { l.fallback = text }
}

func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

func WithLogger(lg *log.Logger) Option {
	return func(l *Log) { l.logger = lg }
}

func NewLog(kv kvstore.Store, provider api.Provider, settings Settings, opts ...Option) *Log {
	l := &Log{
		kv:         kv,
		provider:   provider,
		settings:   settings,
		key:        DefaultStorageKey,
		retention:  DefaultRetention,
		maxHistory: DefaultMaxHistory,
		fallback:   DefaultFallback,
		now:        time.Now,
		logger:     log.New(os.Stderr, "", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the persisted conversation and drops expired messages. Storage
// is rewritten only when something was dropped.
func (l *Log) Load(ctx context.Context) []Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = nil

	raw, ok, err := l.kv.Get(ctx, l.key)
	if err != nil {
		l.logger.Printf("[chat] Error loading messages: %v", err)
		return l.snapshot()
	}
	if !ok {
		return l.snapshot()
	}

	var stored []Message
	if err := json.Unmarshal(raw, &stored); err != nil {
		l.logger.Printf("[chat] Error decoding messages: %v", err)
		return l.snapshot()
	}

	l.messages = stored
	for _, m := range stored {
		if m.ID >= l.nextID {
			l.nextID = m.ID + 1
		}
	}
	l.prune(ctx)

	return l.snapshot()
}

// Send appends the user's message, asks the provider and appends the reply.
// A provider failure is logged and answered with the fallback text.
func (l *Log) Send(ctx context.Context, text string) (Message, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, ErrEmptyMessage
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.append(text, true)
	l.persist(ctx)

	reply := l.fallback
	resp, err := l.provider.Complete(ctx, api.Request{
		Messages:    window(l.messages, l.maxHistory),
		System:      l.settings.SystemPrompt,
		Model:       l.settings.Model,
		MaxTokens:   l.settings.MaxTokens,
		Temperature: l.settings.Temperature,
	})
	if err != nil {
		l.logger.Printf("[chat] Error: %s request failed: %v", l.provider.Name(), err)
	} else {
		reply = resp.Text
	}

	m := l.append(reply, false)
	l.persist(ctx)
	return m, nil
}

// Prune drops expired messages and returns how many were removed.
func (l *Log) Prune(ctx context.Context) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.prune(ctx)
}

// Clear removes every message.
func (l *Log) Clear(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = nil
	l.persist(ctx)
}

func (l *Log) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

func (l *Log) append(text string, isUser bool) Message {
	now := l.now()
	m := Message{
		ID:        l.nextID,
		Text:      text,
		IsUser:    isUser,
		Timestamp: now.Format("15:04"),
		CreatedAt: now,
	}
	l.nextID++
	l.messages = append(l.messages, m)
	return m
}

func (l *Log) prune(ctx context.Context) int {
	now := l.now()
	kept := l.messages[:0:0]
	for _, m := range l.messages {
		if now.Sub(m.CreatedAt) < l.retention {
			kept = append(kept, m)
		}
	}

	dropped := len(l.messages) - len(kept)
	l.messages = kept
	if dropped > 0 {
		l.logger.Printf("[chat] Purged %d expired messages", dropped)
		l.persist(ctx)
	}
	return dropped
}

func (l *Log) persist(ctx context.Context) {
	data, err := json.Marshal(l.snapshot())
	if err != nil {
		l.logger.Printf("[chat] Error encoding messages: %v", err)
		return
	}
	if err := l.kv.Set(ctx, l.key, data); err != nil {
		l.logger.Printf("[chat] Error saving messages: %v", err)
	}
}

func (l *Log) snapshot() []Message {
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}
