package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/notexe/glowcare/internal/chat"
	"github.com/notexe/glowcare/internal/task"
)

var (
	UserStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")). // Bright cyan
			Bold(true)

	AssistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")) // Soft green

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")). // Coral red
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")) // Warm yellow

	SystemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("183")). // Soft purple
			Italic(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	DoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Strikethrough(true)

	AccentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("147")) // Light purple
)

type Formatter struct {
	colored  bool
	markdown bool
	provider string // display name (e.g., "DeepSeek", "Ollama")
}

func NewFormatter(colored, markdown bool, provider string) *Formatter {
	return &Formatter{
		colored:  colored,
		markdown: markdown,
		provider: formatProviderName(provider),
	}
}

// formatProviderName returns a display-friendly provider name.
func formatProviderName(provider string) string {
	switch provider {
	case "":
		return "Assistant"
	case "deepseek":
		return "DeepSeek"
	case "ollama":
		return "Ollama"
	case "openai":
		return "Gemini"
	default:
		return strings.ToUpper(provider[:1]) + provider[1:]
	}
}

func (f *Formatter) render(style lipgloss.Style, s string) string {
	if f.colored {
		return style.Render(s)
	}
	return s
}

func (f *Formatter) FormatUserMessage(msg string) string {
	return f.render(UserStyle, "You: ") + msg
}

// FormatAssistantMessage renders a reply, through glamour when markdown is on.
func (f *Formatter) FormatAssistantMessage(msg string) string {
	if f.markdown {
		msg = RenderMarkdown(msg)
	}
	return f.render(AssistantStyle, f.provider+": ") + msg
}

// FormatHistory renders stored chat messages with their send time.
func (f *Formatter) FormatHistory(messages []chat.Message) string {
	if len(messages) == 0 {
		return f.FormatInfo("No messages in the last 24 hours.")
	}

	var sb strings.Builder
	for _, m := range messages {
		stamp := f.render(DimStyle, "["+m.Timestamp+"] ")
		if m.IsUser {
			sb.WriteString(stamp + f.FormatUserMessage(m.Text))
		} else {
			sb.WriteString(stamp + f.render(AssistantStyle, f.provider+": ") + m.Text)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (f *Formatter) FormatError(err error) string {
	return f.render(ErrorStyle, "Error: ") + err.Error()
}

func (f *Formatter) FormatInfo(info string) string {
	return f.render(InfoStyle, info)
}

func (f *Formatter) FormatSystem(msg string) string {
	return f.render(SystemStyle, msg)
}

// FormatTaskList renders tasks numbered from 1 so they can be addressed as #n.
// pending reports whether a reminder handle will still fire; nil trusts the
// handle stored on the task.
func (f *Formatter) FormatTaskList(tasks []task.Task, pending func(handle string) bool) string {
	if len(tasks) == 0 {
		return f.FormatInfo("No tasks yet. Add one with /add 08:00 AM Wash face")
	}

	lines := []string{f.render(HeaderStyle, "Today's tasks")}
	for i, t := range tasks {
		bell := t.HasReminder() && (pending == nil || pending(*t.NotificationID))
		lines = append(lines, f.FormatTask(i+1, t, bell))
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) FormatTask(n int, t task.Task, bell bool) string {
	box := "[ ]"
	text := t.Text
	if t.Completed {
		box = "[x]"
		text = f.render(DoneStyle, text)
	}

	mark := ""
	if bell {
		mark = " 🔔"
	}

	index := f.render(DimStyle, fmt.Sprintf("#%d", n))
	return fmt.Sprintf("  %s %s %s  %s%s", index, box, f.render(AccentStyle, t.Time), text, mark)
}

func (f *Formatter) FormatWelcome(taskCount int, chatEnabled bool) string {
	title := "GlowCare"
	if chatEnabled {
		title += " • " + f.provider
	}
	tasksLine := fmt.Sprintf("%d task(s) for today", taskCount)
	helpLine := "Type /help for commands"

	if !f.colored {
		return strings.Join([]string{"", title, tasksLine, helpLine, ""}, "\n")
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")). // Soft blue border
		Padding(0, 1).
		Width(41)

	content := strings.Join([]string{
		HeaderStyle.Render(title),
		DimStyle.Render("Tasks: ") + AssistantStyle.Render(tasksLine),
		"",
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render(helpLine),
	}, "\n")

	return "\n" + box.Render(content) + "\n"
}

type helpEntry struct{ cmd, desc string }

type helpSection struct {
	title   string
	entries []helpEntry
}

// FormatHelp lists the commands; assistant and photo commands only when usable.
func (f *Formatter) FormatHelp(chatEnabled, scanEnabled bool) string {
	sections := []helpSection{
		{"Tasks", []helpEntry{
			{"/tasks", "List today's tasks"},
			{"/add <hh:mm AM|PM> <text>", "Add a task with a reminder"},
			{"/done <#n|id>", "Toggle a task's completion"},
			{"/delete <#n|id>", "Delete a task"},
		}},
	}
	if chatEnabled {
		sections = append(sections, helpSection{"Assistant", []helpEntry{
			{"<text>", "Ask the skincare assistant"},
			{"/history", "Show the last 24 hours of chat"},
			{"/quiz", "Answer the skin quiz for a routine"},
			{"/ingredient <name>", "Rate how pore-clogging an ingredient is"},
			{"/clear", "Clear the conversation"},
		}})
	}
	care := []helpEntry{{"/clinics <lat> <lon>", "Find dermatologists within 20 km"}}
	if scanEnabled {
		care = append(care, helpEntry{"/scan <photo.jpg>", "Analyze skin from a face photo"})
	}
	sections = append(sections, helpSection{"Care", care})
	sections = append(sections, helpSection{"General", []helpEntry{
		{"/help", "Show this help"},
		{"/quit", "Exit"},
	}})

	lines := []string{"", f.render(HeaderStyle, "Commands")}
	for _, s := range sections {
		lines = append(lines, "", f.render(AccentStyle.Bold(true), s.title))
		for _, e := range s.entries {
			lines = append(lines, fmt.Sprintf("  %-27s %s", e.cmd, f.render(DimStyle, e.desc)))
		}
	}
	lines = append(lines, "", f.render(DimStyle, "  Ctrl+C or Ctrl+D to exit"), "")

	return strings.Join(lines, "\n")
}

// FormatPrompt returns the input prompt.
func (f *Formatter) FormatPrompt() string {
	if f.colored {
		promptStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("62"))
		arrowStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")).
			Bold(true)
		return promptStyle.Render("you") + arrowStyle.Render(" > ")
	}
	return "you > "
}
