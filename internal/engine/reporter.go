package engine

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/zero-day-ai/wintermute/internal/task"
)

// Reporter prints the run's progress banners to the console: the task
// list, the task about to run, and its result. Output is a human side
// channel, not a machine-readable contract; logs carry the same
// information structurally. A nil or disabled Reporter prints nothing.
type Reporter struct {
	out       io.Writer
	enabled   bool
	agentName string

	listHeader   *color.Color
	nextHeader   *color.Color
	resultHeader *color.Color
	goalHeader   *color.Color
	label        *color.Color
}

// NewReporter creates a Reporter writing to out. Tests pass a buffer with
// enabled true; production code goes through NewConsoleReporter.
func NewReporter(out io.Writer, agentName string, enabled bool) *Reporter {
	return &Reporter{
		out:          out,
		enabled:      enabled,
		agentName:    agentName,
		listHeader:   color.New(color.FgMagenta, color.Bold),
		nextHeader:   color.New(color.FgGreen, color.Bold),
		resultHeader: color.New(color.FgYellow, color.Bold),
		goalHeader:   color.New(color.FgBlue, color.Bold),
		label:        color.New(color.FgYellow, color.Bold),
	}
}

// NewConsoleReporter creates a Reporter for the given file, enabled only
// when the file is a terminal and output is not suppressed (JSON output
// mode or quiet).
func NewConsoleReporter(out *os.File, agentName string, suppress bool) *Reporter {
	enabled := !suppress && term.IsTerminal(int(out.Fd()))
	return NewReporter(out, agentName, enabled)
}

// Configuration prints the startup banner with the agent name, model, and
// run mode.
func (r *Reporter) Configuration(model, mode string) {
	if r == nil || !r.enabled {
		return
	}
	fmt.Fprintln(r.out, r.listHeader.Sprint("\n*****CONFIGURATION*****\n"))
	fmt.Fprintf(r.out, "Name: %s\n", r.agentName)
	fmt.Fprintf(r.out, "LLM : %s\n", model)
	fmt.Fprintf(r.out, "Mode: %s\n", mode)
}

// Objective prints the objective banner and either the initial task or the
// joining notice.
func (r *Reporter) Objective(objective, initialTask string, joining bool) {
	if r == nil || !r.enabled {
		return
	}
	fmt.Fprintln(r.out, r.goalHeader.Sprint("\n*****OBJECTIVE*****\n"))
	fmt.Fprintln(r.out, objective)
	if joining {
		r.label.Fprintln(r.out, "\nJoining to help the objective")
		return
	}
	fmt.Fprintf(r.out, "%s %s\n", r.label.Sprint("\nInitial task:"), initialTask)
}

// TaskList prints the queued task names.
func (r *Reporter) TaskList(names []string) {
	if r == nil || !r.enabled {
		return
	}
	fmt.Fprintln(r.out, r.listHeader.Sprint("\n*****TASK LIST*****\n"))
	for _, name := range names {
		fmt.Fprintln(r.out, " • "+name)
	}
}

// NextTask prints the task about to be executed.
func (r *Reporter) NextTask(t task.Task) {
	if r == nil || !r.enabled {
		return
	}
	fmt.Fprintln(r.out, r.nextHeader.Sprint("\n*****NEXT TASK*****\n"))
	fmt.Fprintln(r.out, t.Name)
}

// Result prints a completed task's result.
func (r *Reporter) Result(result string) {
	if r == nil || !r.enabled {
		return
	}
	fmt.Fprintln(r.out, r.resultHeader.Sprint("\n*****TASK RESULT*****\n"))
	fmt.Fprintln(r.out, result)
}
