// Package agent implements the reasoning roles of a run: executing tasks
// with retrieved context, generating follow-up tasks, and reprioritizing
// the queue.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zero-day-ai/wintermute/internal/llm"
)

// DefaultRecallTopK is how many prior results are retrieved as execution
// context when no depth is configured.
const DefaultRecallTopK = 5

// Recaller retrieves the names of prior tasks most relevant to a query.
// SemanticMemory satisfies it.
type Recaller interface {
	RecallRelated(ctx context.Context, query string, topK int) ([]string, error)
}

// ExecutionAgent performs one task at a time: it recalls related prior
// results, frames them with the objective into a completion prompt, and
// returns the completion text. It never persists results; the driver owns
// persistence.
type ExecutionAgent struct {
	completer llm.Completer
	recaller  Recaller
	topK      int
	logger    *slog.Logger
}

// NewExecutionAgent creates an ExecutionAgent. A non-positive topK falls
// back to DefaultRecallTopK.
func NewExecutionAgent(completer llm.Completer, recaller Recaller, topK int, logger *slog.Logger) *ExecutionAgent {
	if topK <= 0 {
		topK = DefaultRecallTopK
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecutionAgent{
		completer: completer,
		recaller:  recaller,
		topK:      topK,
		logger:    logger,
	}
}

// Execute runs a single task against the objective and returns the
// completion text. The task name doubles as the recall query.
func (a *ExecutionAgent) Execute(ctx context.Context, objective, taskName string) (string, error) {
	prior, err := a.recaller.RecallRelated(ctx, taskName, a.topK)
	if err != nil {
		return "", err
	}

	prompt := buildExecutionPrompt(objective, prior, taskName)
	a.logger.Debug("executing task", "task", taskName, "context_size", len(prior))

	return a.completer.Complete(ctx, llm.CompletionRequest{Prompt: prompt})
}

// buildExecutionPrompt frames the task with the objective and any recalled
// prior tasks.
func buildExecutionPrompt(objective string, prior []string, taskName string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("You are an AI who performs one task based on the following objective: %s.\n", objective))
	if len(prior) > 0 {
		b.WriteString(fmt.Sprintf("Take into account these previously completed tasks: %s.\n", strings.Join(prior, ", ")))
	}
	b.WriteString(fmt.Sprintf("Your task: %s\n", taskName))
	b.WriteString("Response:")

	return b.String()
}
