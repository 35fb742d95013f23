package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Selector is an arrow-key menu for one quiz question.
type Selector struct {
	question    string
	options     []string
	selected    int
	multiSelect bool
	selections  map[int]bool
	colored     bool

	cursorStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	optionStyle   lipgloss.Style
	dimStyle      lipgloss.Style
	questionStyle lipgloss.Style
	hintStyle     lipgloss.Style
}

func NewSelector(question string, options []string, multiSelect bool, colored bool) *Selector {
	return &Selector{
		question:    question,
		options:     options,
		multiSelect: multiSelect,
		selections:  make(map[int]bool),
		colored:     colored,

		cursorStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
		selectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true),
		optionStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		dimStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		questionStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true),
		hintStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
	}
}

// ErrCancelled is returned when the user presses Ctrl+C in the menu.
var ErrCancelled = errors.New("cancelled")

// Run shows the menu on the terminal and returns the chosen option(s).
// Without a terminal it falls back to numbered line input.
func (s *Selector) Run() ([]string, error) {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return s.runSimple(bufio.NewReader(os.Stdin), os.Stdout)
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return s.runSimple(bufio.NewReader(os.Stdin), os.Stdout)
	}
	defer func() {
		term.Restore(fd, oldState)
		fmt.Print("\033[?25h") // Show cursor
	}()

	fmt.Print("\033[?25l") // Hide cursor

	totalLines := len(s.options) + 3
	s.printMenu()

	reader := bufio.NewReader(os.Stdin)
	for {
		b, err := reader.ReadByte()
		if err != nil {
			return nil, err
		}

		done := false
		switch b {
		case 13, 10: // Enter
			done = true
		case 3: // Ctrl+C
			s.clearMenu(totalLines)
			return nil, ErrCancelled
		case 'j':
			s.moveDown()
		case 'k':
			s.moveUp()
		case ' ':
			if s.multiSelect {
				s.toggleSelection()
			} else {
				done = true
			}
		case 27: // Escape sequence
			b2, _ := reader.ReadByte()
			if b2 == '[' {
				b3, _ := reader.ReadByte()
				switch b3 {
				case 'A':
					s.moveUp()
				case 'B':
					s.moveDown()
				}
			}
		default:
			if b >= '1' && b <= '9' {
				idx := int(b - '1')
				if idx < len(s.options) {
					s.selected = idx
					if s.multiSelect {
						s.toggleSelection()
					} else {
						done = true
					}
				}
			}
		}

		if done {
			s.clearMenu(totalLines)
			return s.getSelected(), nil
		}

		s.clearMenu(totalLines)
		s.printMenu()
	}
}

func (s *Selector) printMenu() {
	var sb strings.Builder

	if s.colored {
		sb.WriteString(s.questionStyle.Render(s.question))
	} else {
		sb.WriteString(s.question)
	}
	sb.WriteString("\r\n")

	hint := "[j/k or arrows] move  [enter] select"
	if s.multiSelect {
		hint = "[j/k or arrows] move  [space] toggle  [enter] confirm"
	}
	if s.colored {
		sb.WriteString(s.hintStyle.Render(hint))
	} else {
		sb.WriteString(hint)
	}
	sb.WriteString("\r\n\r\n")

	for i, label := range s.options {
		cursor := "  "
		if i == s.selected {
			cursor = "> "
		}

		checkbox := ""
		if s.multiSelect {
			checkbox = "[ ] "
			if s.selections[i] {
				checkbox = "[x] "
			}
		}

		switch {
		case !s.colored:
			sb.WriteString(cursor + checkbox + label)
		case i == s.selected:
			sb.WriteString(s.cursorStyle.Render(cursor) + checkbox + s.selectedStyle.Render(label))
		default:
			sb.WriteString(s.dimStyle.Render(cursor) + checkbox + s.optionStyle.Render(label))
		}
		sb.WriteString("\r\n")
	}

	fmt.Print(sb.String())
	os.Stdout.Sync()
}

func (s *Selector) clearMenu(lines int) {
	for i := 0; i < lines; i++ {
		fmt.Print("\033[A\033[2K\r")
	}
	os.Stdout.Sync()
}

// runSimple reads option numbers from a line, comma separated for
// multi-select questions, and asks again until the input is valid.
func (s *Selector) runSimple(in *bufio.Reader, out io.Writer) ([]string, error) {
	fmt.Fprintln(out, s.question)
	for i, label := range s.options {
		fmt.Fprintf(out, "  [%d] %s\n", i+1, label)
	}

	hint := "Enter number: "
	if s.multiSelect {
		hint = "Enter numbers (e.g. 1,3): "
	}

	for {
		fmt.Fprint(out, hint)

		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			return nil, err
		}

		picked, ok := s.parseChoice(line)
		if ok {
			return picked, nil
		}
		fmt.Fprintln(out, "Invalid choice.")
		if err != nil {
			return nil, err
		}
	}
}

func (s *Selector) parseChoice(line string) ([]string, bool) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\r' || r == '\n'
	})
	if len(fields) == 0 || (!s.multiSelect && len(fields) > 1) {
		return nil, false
	}

	var picked []string
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 1 || n > len(s.options) {
			return nil, false
		}
		if !slices.Contains(picked, s.options[n-1]) {
			picked = append(picked, s.options[n-1])
		}
	}
	return picked, true
}

func (s *Selector) moveUp() {
	if s.selected > 0 {
		s.selected--
	} else {
		s.selected = len(s.options) - 1
	}
}

func (s *Selector) moveDown() {
	if s.selected < len(s.options)-1 {
		s.selected++
	} else {
		s.selected = 0
	}
}

func (s *Selector) toggleSelection() {
	s.selections[s.selected] = !s.selections[s.selected]
}

func (s *Selector) getSelected() []string {
	if s.multiSelect {
		var result []string
		for i, label := range s.options {
			if s.selections[i] {
				result = append(result, label)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return []string{s.options[s.selected]}
}
