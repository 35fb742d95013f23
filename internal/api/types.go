package api

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyReply is returned when a provider answers without any text.
var ErrEmptyReply = errors.New("empty reply")

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single completion call. System, when set, goes ahead of Messages.
type Request struct {
	System      string
	Messages    []Message
	Model       string
	MaxTokens   int
	Temperature float64
}

// Reply carries trimmed, non-empty assistant text.
type Reply struct {
	Text       string
	StopReason string
	Usage      Usage
}

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

func (r Request) conversation() []Message {
	if r.System == "" {
		return r.Messages
	}
	out := make([]Message, 0, len(r.Messages)+1)
	out = append(out, Message{Role: "system", Content: r.System})
	return append(out, r.Messages...)
}

func newReply(provider, text, stop string, usage Usage) (Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}, fmt.Errorf("%s returned an %w", provider, ErrEmptyReply)
	}
	return Reply{Text: text, StopReason: stop, Usage: usage}, nil
}
