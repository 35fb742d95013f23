package api

import (
	"context"
	"fmt"

	"github.com/go-deepseek/deepseek"
	"github.com/go-deepseek/deepseek/request"
	"github.com/notexe/glowcare/internal/config"
)

// DeepSeekProvider talks to the hosted DeepSeek chat API through its SDK.
type DeepSeekProvider struct {
	client deepseek.Client
}

func NewDeepSeekProvider(cfg config.DeepSeekConfig) (*DeepSeekProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("DeepSeek API key is required")
	}

	client, err := deepseek.NewClient(cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create DeepSeek client: %w", err)
	}
	return &DeepSeekProvider{client: client}, nil
}

func (p *DeepSeekProvider) Complete(ctx context.Context, req Request) (Reply, error) {
	turns := req.conversation()
	messages := make([]*request.Message, len(turns))
	for i, m := range turns {
		messages[i] = &request.Message{Role: m.Role, Content: m.Content}
	}

	chatReq := &request.ChatCompletionsRequest{
		Model:     req.Model,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
	}
	// zero keeps the server default
	if req.Temperature > 0 {
		temp := float32(req.Temperature)
		chatReq.Temperature = &temp
	}

	resp, err := p.client.CallChatCompletionsChat(ctx, chatReq)
	if err != nil {
		return Reply{}, fmt.Errorf("DeepSeek API request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return newReply(p.Name(), "", "", Usage{})
	}

	choice := resp.Choices[0]
	return newReply(p.Name(), choice.Message.Content, choice.FinishReason, Usage{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	})
}

func (p *DeepSeekProvider) Name() string { return "deepseek" }

func (p *DeepSeekProvider) Close() error { return nil }
