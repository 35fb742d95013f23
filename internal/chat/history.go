package chat

import (
	"github.com/notexe/glowcare/internal/api"
)

// window returns the last maxSize messages as provider messages. Leading
// assistant turns are dropped so the request always opens with the user.
func window(messages []Message, maxSize int) []api.Message {
	if maxSize > 0 && len(messages) > maxSize {
		messages = messages[len(messages)-maxSize:]
	}
	for len(messages) > 0 && !messages[0].IsUser {
		messages = messages[1:]
	}

	out := make([]api.Message, 0, len(messages))
	for _, m := range messages {
		role := "assistant"
		if m.IsUser {
			role = "user"
		}
		out = append(out, api.Message{Role: role, Content: m.Text})
	}
	return out
}
