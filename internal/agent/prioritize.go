package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/zero-day-ai/wintermute/internal/llm"
	"github.com/zero-day-ai/wintermute/internal/task"
)

// PrioritizationAgent asks the completion client to clean and reorder the
// queued task names, then replaces the queue with the parsed result.
type PrioritizationAgent struct {
	completer llm.Completer
	store     task.Store
	logger    *slog.Logger
}

// NewPrioritizationAgent creates a PrioritizationAgent over the given
// queue.
func NewPrioritizationAgent(completer llm.Completer, store task.Store, logger *slog.Logger) *PrioritizationAgent {
	if logger == nil {
		logger = slog.Default()
	}
	return &PrioritizationAgent{
		completer: completer,
		store:     store,
		logger:    logger,
	}
}

// Prioritize rewrites the queue from the completion response. Response
// lines of the form "<id>. <name>" become tasks; anything else is dropped.
// The replacement keeps whatever IDs the response declares, so the queue
// can shrink when the model misformats lines. An empty queue is left
// untouched.
func (a *PrioritizationAgent) Prioritize(ctx context.Context, objective string, startID int) error {
	names, err := a.store.TaskNames(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		a.logger.Debug("skipping prioritization of empty queue")
		return nil
	}

	prompt := buildPrioritizationPrompt(names, objective, startID)

	response, err := a.completer.Complete(ctx, llm.CompletionRequest{Prompt: prompt})
	if err != nil {
		return err
	}

	return a.store.Replace(ctx, a.parseNumberedList(response))
}

// buildPrioritizationPrompt lists the queued names and asks for a cleaned
// numbered list starting at startID.
func buildPrioritizationPrompt(taskNames []string, objective string, startID int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("You are a task prioritization AI tasked with cleaning the formatting of and reprioritizing the following tasks: %s.\n", strings.Join(taskNames, ", ")))
	b.WriteString(fmt.Sprintf("Consider the ultimate objective of your team: %s.\n", objective))
	b.WriteString("Do not remove any tasks. Return the result as a numbered list, like:\n")
	b.WriteString("#. First task\n")
	b.WriteString("#. Second task\n")
	b.WriteString(fmt.Sprintf("Start the task list with number %d.", startID))

	return b.String()
}

// parseNumberedList parses "<id>.<name>" lines, splitting on the first
// dot. Lines without a dot, with a non-integer id, or with an empty name
// are dropped.
func (a *PrioritizationAgent) parseNumberedList(response string) []task.Task {
	var tasks []task.Task
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		idPart, namePart, found := strings.Cut(line, ".")
		if !found {
			a.logger.Debug("dropping task line without numbering", "line", line)
			continue
		}

		id, err := strconv.Atoi(strings.TrimSpace(idPart))
		if err != nil {
			a.logger.Debug("dropping task line with non-integer id", "line", line)
			continue
		}

		name := strings.TrimSpace(namePart)
		if name == "" {
			a.logger.Debug("dropping task line with empty name", "line", line)
			continue
		}

		tasks = append(tasks, task.Task{ID: id, Name: name})
	}
	return tasks
}
