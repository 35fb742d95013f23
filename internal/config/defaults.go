package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"provider": "deepseek",
		"deepseek": map[string]interface{}{
			"api_key":  "",
			"base_url": "https://api.deepseek.com",
			"timeout":  120,
		},
		"ollama": map[string]interface{}{
			"base_url": "http://localhost:11434",
			"timeout":  120,
		},
		// Gemini exposes an OpenAI-compatible endpoint, so the openai provider covers it.
		"openai": map[string]interface{}{
			"api_key":  "",
			"base_url": "https://generativelanguage.googleapis.com/v1beta/openai/",
		},
		"model": map[string]interface{}{
			"name":          "deepseek-chat",
			"max_tokens":    2048,
			"temperature":   0.7,
			"system_prompt": "You are a friendly skincare assistant. Give practical, safe advice and suggest seeing a dermatologist for anything that looks medical.",
		},
		"storage": map[string]interface{}{
			"driver": DriverSQLite,
			"path":   "~/.glowcare/glowcare.db",
			"dsn":    "",
		},
		"tasks": map[string]interface{}{
			"storage_key":     "@todo_tasks",
			"retention_hours": 24,
		},
		"notify": map[string]interface{}{
			"title":  "Task Reminder",
			"sender": SenderConsole,
			"telegram": map[string]interface{}{
				"bot_token": "",
				"chat_id":   0,
			},
		},
		"chat": map[string]interface{}{
			"storage_key":     "chatMessages",
			"retention_hours": 24,
			"max_history":     20,
			"fallback":        "I apologize, but I'm having trouble connecting right now. Please try again later.",
		},
		"clinics": map[string]interface{}{
			"overpass_url":  "https://overpass-api.de/api/interpreter",
			"radius_meters": 20000,
			"limit":         10,
			"timeout":       30,
		},
		"scan": map[string]interface{}{
			"api_key":    "",
			"api_secret": "",
			"base_url":   "https://api-us.faceplusplus.com/facepp/v3",
			"timeout":    30,
		},
		"ui": map[string]interface{}{
			"colored_output":  true,
			"render_markdown": true,
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}

func GetDefaultConfigPath() string {
	return "~/.glowcare/config.yaml"
}
