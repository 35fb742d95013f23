package repl

import (
	"errors"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

func (r *REPL) readInput() (string, error) {
	line, err := r.rl.Readline()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(line), nil
}

func (r *REPL) parseCommand(input string) (bool, string, string) {
	if !strings.HasPrefix(input, "/") {
		return false, "", ""
	}

	parts := strings.SplitN(input, " ", 2)
	command := strings.ToLower(parts[0])

	args := ""
	if len(parts) > 1 {
		args = strings.TrimSpace(parts[1])
	}

	return true, command, args
}

var commands = readline.NewPrefixCompleter(
	readline.PcItem("/tasks"),
	readline.PcItem("/add"),
	readline.PcItem("/done"),
	readline.PcItem("/delete"),
	readline.PcItem("/history"),
	readline.PcItem("/quiz"),
	readline.PcItem("/ingredient"),
	readline.PcItem("/clinics"),
	readline.PcItem("/scan"),
	readline.PcItem("/clear"),
	readline.PcItem("/help"),
	readline.PcItem("/quit"),
)

func setupReadline() (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:              "you > ",
		AutoComplete:        commands,
		InterruptPrompt:     "^C",
		EOFPrompt:           "exit",
		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
}

func filterInput(r rune) (rune, bool) {
	switch r {
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt)
}
