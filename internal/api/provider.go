package api

import "context"

// Provider turns a conversation into one assistant reply.
type Provider interface {
	// Complete returns the reply, or an error wrapping ErrEmptyReply when
	// the model produced no text.
	Complete(ctx context.Context, req Request) (Reply, error)

	Name() string
	Close() error
}

// Ask sends prompt as the only user turn of req and returns the reply text.
func Ask(ctx context.Context, p Provider, req Request, prompt string) (string, error) {
	req.Messages = []Message{{Role: "user", Content: prompt}}
	reply, err := p.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	return reply.Text, nil
}
