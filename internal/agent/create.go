package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/zero-day-ai/wintermute/internal/llm"
	"github.com/zero-day-ai/wintermute/internal/types"
)

// CreationPolicy decides which child tasks follow a completed task. The
// driver inserts the returned names into both the thought tree and the
// task queue; policies never mutate state themselves.
type CreationPolicy interface {
	Name() string
	GenerateChildren(ctx context.Context, objective, taskName, result string) ([]string, error)
}

// NewCreationPolicy builds the policy selected by config. The playbook
// policy uses the built-in table unless a playbook file is given; the
// oracle policy needs a completion client.
func NewCreationPolicy(policy, playbookPath string, completer llm.Completer) (CreationPolicy, error) {
	switch policy {
	case "playbook":
		if playbookPath == "" {
			return NewPlaybookPolicy(nil), nil
		}
		table, err := LoadPlaybook(playbookPath)
		if err != nil {
			return nil, err
		}
		return NewPlaybookPolicy(table), nil
	case "oracle":
		if completer == nil {
			return nil, types.NewError(types.CONFIG_VALIDATION_FAILED,
				"oracle policy requires a completion client")
		}
		return NewOraclePolicy(completer), nil
	default:
		return nil, types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("unknown creation policy: %s", policy))
	}
}

// PlaybookPolicy generates children from a deterministic lookup table.
type PlaybookPolicy struct {
	table Playbook
}

// NewPlaybookPolicy creates a PlaybookPolicy. A nil table uses the
// built-in default.
func NewPlaybookPolicy(table Playbook) *PlaybookPolicy {
	if table == nil {
		table = DefaultPlaybook()
	}
	return &PlaybookPolicy{table: table}
}

// Name returns the policy name.
func (p *PlaybookPolicy) Name() string {
	return "playbook"
}

// GenerateChildren looks the completed task up in the table. Unknown names
// yield no children.
func (p *PlaybookPolicy) GenerateChildren(_ context.Context, _, taskName, _ string) ([]string, error) {
	return p.table[taskName], nil
}

// OraclePolicy asks the completion client which tasks follow from the
// completed task, one task per non-empty response line.
type OraclePolicy struct {
	completer llm.Completer
}

// NewOraclePolicy creates an OraclePolicy backed by the given client.
func NewOraclePolicy(completer llm.Completer) *OraclePolicy {
	return &OraclePolicy{completer: completer}
}

// Name returns the policy name.
func (p *OraclePolicy) Name() string {
	return "oracle"
}

// GenerateChildren queries the completion client and parses one task per
// non-empty response line.
func (p *OraclePolicy) GenerateChildren(ctx context.Context, objective, taskName, result string) ([]string, error) {
	prompt := buildCreationPrompt(objective, taskName, result)

	response, err := p.completer.Complete(ctx, llm.CompletionRequest{Prompt: prompt})
	if err != nil {
		return nil, err
	}

	return parseTaskLines(response), nil
}

// buildCreationPrompt frames the completed task and its result for
// follow-up task generation.
func buildCreationPrompt(objective, taskName, result string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("You are a task creation AI that uses the result of an execution agent to create new tasks with the following objective: %s.\n", objective))
	b.WriteString(fmt.Sprintf("The last completed task has the result: %s.\n", result))
	b.WriteString(fmt.Sprintf("This result was based on this task description: %s.\n", taskName))
	b.WriteString("Return the new tasks as a list, one task per line.")

	return b.String()
}

// parseTaskLines returns one task name per non-empty response line.
func parseTaskLines(response string) []string {
	var names []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		names = append(names, line)
	}
	return names
}
