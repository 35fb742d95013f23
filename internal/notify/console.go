package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	alertTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("215")). // Orange
			Bold(true)

	alertBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

// ConsoleSender prints alerts to a terminal.
type ConsoleSender struct {
	mu      sync.Mutex
	w       io.Writer
	colored bool
}

func NewConsoleSender(w io.Writer, colored bool) *ConsoleSender {
	return &ConsoleSender{w: w, colored: colored}
}

func (c *ConsoleSender) Send(_ context.Context, content Content) error {
	title := "🔔 " + content.Title
	body := content.Body
	if c.colored {
		title = alertTitleStyle.Render(title)
		body = alertBodyStyle.Render(body)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := fmt.Fprintf(c.w, "\n%s: %s\n", title, body)
	return err
}

func (c *ConsoleSender) Ready(context.Context) error {
	return nil
}
