package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/notexe/glowcare/internal/config"
	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider for any OpenAI-compatible chat
// completions endpoint, including Gemini's compatibility layer.
type OpenAIProvider struct {
	client *openai.Client
}

// NewOpenAIProvider creates a new OpenAI-compatible provider.
func NewOpenAIProvider(cfg config.OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required for the openai provider")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
	}, nil
}

// Complete sends a chat completion request and keeps the first choice.
func (p *OpenAIProvider) Complete(ctx context.Context, req Request) (Reply, error) {
	turns := req.conversation()
	messages := make([]openai.ChatCompletionMessage, len(turns))
	for i, m := range turns {
		messages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		return Reply{}, fmt.Errorf("OpenAI-compatible API request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return newReply(p.Name(), "", "", Usage{})
	}

	choice := resp.Choices[0]
	return newReply(p.Name(), choice.Message.Content, string(choice.FinishReason), Usage{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	})
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Close releases resources (no-op for OpenAI-compatible endpoints).
func (p *OpenAIProvider) Close() error {
	return nil
}
