package repl

import (
	"fmt"
)

func (r *REPL) displayError(err error) {
	r.spinner.Stop()
	fmt.Fprintln(r.out, r.formatter.FormatError(err))
	fmt.Fprintln(r.out)
}

func (r *REPL) displayWelcome() {
	fmt.Fprint(r.out, r.formatter.FormatWelcome(len(r.tasks.Tasks()), r.chat != nil))
}

func (r *REPL) displayHelp() {
	fmt.Fprint(r.out, r.formatter.FormatHelp(r.chat != nil, r.scanner != nil))
}

func (r *REPL) displayTasks() {
	fmt.Fprintln(r.out, r.formatter.FormatTaskList(r.tasks.Tasks(), r.reminders))
	fmt.Fprintln(r.out)
}

func (r *REPL) displayAssistant(msg string) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.formatter.FormatAssistantMessage(msg))
	fmt.Fprintln(r.out)
}

func (r *REPL) displayInfo(msg string) {
	fmt.Fprintln(r.out, r.formatter.FormatInfo(msg))
	fmt.Fprintln(r.out)
}

func (r *REPL) displaySystem(msg string) {
	fmt.Fprintln(r.out, r.formatter.FormatSystem(msg))
	fmt.Fprintln(r.out)
}
