package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Provider type constants (duplicated from api package to avoid import cycle)
const (
	ProviderDeepSeek = "deepseek"
	ProviderOllama   = "ollama"
	ProviderOpenAI   = "openai"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Notification senders.
const (
	SenderConsole  = "console"
	SenderTelegram = "telegram"
)

// envPrefix scopes environment overrides, e.g. GLOWCARE_STORAGE__DRIVER=memory.
const envPrefix = "GLOWCARE_"

type Config struct {
	Provider string         `koanf:"provider"`
	DeepSeek DeepSeekConfig `koanf:"deepseek"`
	Ollama   OllamaConfig   `koanf:"ollama"`
	OpenAI   OpenAIConfig   `koanf:"openai"`
	Model    ModelConfig    `koanf:"model"`
	Storage  StorageConfig  `koanf:"storage"`
	Tasks    TasksConfig    `koanf:"tasks"`
	Notify   NotifyConfig   `koanf:"notify"`
	Chat     ChatConfig     `koanf:"chat"`
	Clinics  ClinicsConfig  `koanf:"clinics"`
	Scan     ScanConfig     `koanf:"scan"`
	UI       UIConfig       `koanf:"ui"`
}

type DeepSeekConfig struct {
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url"`
	Timeout int    `koanf:"timeout"`
}

type OllamaConfig struct {
	BaseURL string `koanf:"base_url"`
	Timeout int    `koanf:"timeout"`
}

type OpenAIConfig struct {
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url"`
}

type ModelConfig struct {
	Name         string  `koanf:"name"`
	MaxTokens    int     `koanf:"max_tokens"`
	Temperature  float64 `koanf:"temperature"`
	SystemPrompt string  `koanf:"system_prompt"`
}

// StorageConfig selects the key-value backend shared by tasks and chat.
type StorageConfig struct {
	Driver string `koanf:"driver"`
	Path   string `koanf:"path"` // sqlite file
	DSN    string `koanf:"dsn"`  // postgres connection string
}

type TasksConfig struct {
	StorageKey     string `koanf:"storage_key"`
	RetentionHours int    `koanf:"retention_hours"`
}

// Retention returns the task retention window.
func (c TasksConfig) Retention() time.Duration {
	return time.Duration(c.RetentionHours) * time.Hour
}

type NotifyConfig struct {
	Title    string         `koanf:"title"`
	Sender   string         `koanf:"sender"`
	Telegram TelegramConfig `koanf:"telegram"`
}

type TelegramConfig struct {
	BotToken string `koanf:"bot_token"`
	ChatID   int64  `koanf:"chat_id"`
}

type ChatConfig struct {
	StorageKey     string `koanf:"storage_key"`
	RetentionHours int    `koanf:"retention_hours"`
	MaxHistory     int    `koanf:"max_history"`
	Fallback       string `koanf:"fallback"`
}

// Retention returns the chat message retention window.
func (c ChatConfig) Retention() time.Duration {
	return time.Duration(c.RetentionHours) * time.Hour
}

// ClinicsConfig points the dermatologist lookup at an Overpass interpreter.
type ClinicsConfig struct {
	OverpassURL  string `koanf:"overpass_url"`
	RadiusMeters int    `koanf:"radius_meters"`
	Limit        int    `koanf:"limit"`
	Timeout      int    `koanf:"timeout"`
}

// ScanConfig holds Face++ credentials. Photo analysis is off without them.
type ScanConfig struct {
	APIKey    string `koanf:"api_key"`
	APISecret string `koanf:"api_secret"`
	BaseURL   string `koanf:"base_url"`
	Timeout   int    `koanf:"timeout"`
}

// Enabled reports whether both credentials are set.
func (c ScanConfig) Enabled() bool {
	return c.APIKey != "" && c.APISecret != ""
}

type UIConfig struct {
	ColoredOutput  bool `koanf:"colored_output"`
	RenderMarkdown bool `koanf:"render_markdown"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; real environment variables still win.
	_ = godotenv.Load()

	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		configPath = expandPath(configPath)

		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// Well-known provider variables
	if apiKey := os.Getenv("DEEPSEEK_API_KEY"); apiKey != "" {
		k.Set("deepseek.api_key", apiKey)
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		k.Set("openai.api_key", apiKey)
	}
	if key := os.Getenv("FACEPP_API_KEY"); key != "" {
		k.Set("scan.api_key", key)
	}
	if secret := os.Getenv("FACEPP_API_SECRET"); secret != "" {
		k.Set("scan.api_secret", secret)
	}
	if token := os.Getenv("TELEGRAM_TOKEN"); token != "" {
		k.Set("notify.telegram.bot_token", token)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Storage.Path = expandPath(cfg.Storage.Path)

	return &cfg, nil
}

// envKey maps GLOWCARE_NOTIFY__TELEGRAM__CHAT_ID to notify.telegram.chat_id.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for the postgres driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver: %s (supported: %s, %s, %s)",
			c.Storage.Driver, DriverSQLite, DriverPostgres, DriverMemory)
	}

	if c.Tasks.StorageKey == "" {
		return fmt.Errorf("tasks.storage_key is required")
	}
	if c.Tasks.RetentionHours <= 0 {
		return fmt.Errorf("tasks.retention_hours must be positive")
	}

	switch c.Notify.Sender {
	case SenderConsole:
	case SenderTelegram:
		if c.Notify.Telegram.BotToken == "" || c.Notify.Telegram.ChatID == 0 {
			return fmt.Errorf("telegram sender needs notify.telegram.bot_token and notify.telegram.chat_id")
		}
	default:
		return fmt.Errorf("unknown notification sender: %s (supported: %s, %s)",
			c.Notify.Sender, SenderConsole, SenderTelegram)
	}

	if c.Chat.StorageKey == "" || c.Chat.StorageKey == c.Tasks.StorageKey {
		return fmt.Errorf("chat.storage_key must be set and differ from tasks.storage_key")
	}
	if c.Chat.RetentionHours <= 0 {
		return fmt.Errorf("chat.retention_hours must be positive")
	}
	if c.Chat.MaxHistory <= 0 {
		return fmt.Errorf("chat.max_history must be positive")
	}

	if c.Clinics.RadiusMeters <= 0 || c.Clinics.Limit <= 0 {
		return fmt.Errorf("clinics.radius_meters and clinics.limit must be positive")
	}

	return nil
}

// ValidateProvider checks the settings needed to talk to the generative-text API.
// It is separate from Validate because the task list works without one.
func (c *Config) ValidateProvider() error {
	switch c.Provider {
	case ProviderDeepSeek:
		if c.DeepSeek.APIKey == "" {
			return fmt.Errorf("DeepSeek API key is required (set DEEPSEEK_API_KEY or add to config file)")
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("API key is required for the openai provider (set GEMINI_API_KEY or openai.api_key)")
		}
	case ProviderOllama:
		if c.Ollama.BaseURL == "" {
			c.Ollama.BaseURL = "http://localhost:11434"
		}
	default:
		return fmt.Errorf("unknown provider: %s (supported: %s, %s, %s)",
			c.Provider, ProviderDeepSeek, ProviderOllama, ProviderOpenAI)
	}

	if c.Model.Name == "" {
		return fmt.Errorf("model name is required")
	}

	if c.Model.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive")
	}

	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}

	return nil
}

// ProviderConfig contains provider-specific configuration for the API package.
type ProviderConfig struct {
	Type     string
	DeepSeek DeepSeekConfig
	Ollama   OllamaConfig
	OpenAI   OpenAIConfig
}

// GetProviderConfig returns the provider configuration for the API package.
func (c *Config) GetProviderConfig() *ProviderConfig {
	return &ProviderConfig{
		Type:     c.Provider,
		DeepSeek: c.DeepSeek,
		Ollama:   c.Ollama,
		OpenAI:   c.OpenAI,
	}
}

func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	return path
}
