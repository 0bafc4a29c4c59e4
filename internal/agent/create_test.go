package agent

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/wintermute/internal/llm"
	"github.com/zero-day-ai/wintermute/internal/types"
)

func writePlaybookFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "playbook.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultPlaybookTable(t *testing.T) {
	pb := DefaultPlaybook()

	assert.Equal(t, []string{"Identify key components", "Determine constraints", "Set goals"},
		pb["Define problem"])
	assert.Equal(t, []string{"Search for information", "Organize resources", "Evaluate resources"},
		pb["Gather resources"])
	assert.Equal(t, []string{"Outline steps", "Assign responsibilities", "Set timeline"},
		pb["Develop plan"])
}

func TestPlaybookPolicyGeneratesChildren(t *testing.T) {
	policy := NewPlaybookPolicy(nil)

	children, err := policy.GenerateChildren(context.Background(), "Plan a trip", "Define problem", "done")
	require.NoError(t, err)
	assert.Equal(t, []string{"Identify key components", "Determine constraints", "Set goals"}, children)
}

func TestPlaybookPolicyUnknownNameYieldsNothing(t *testing.T) {
	policy := NewPlaybookPolicy(nil)

	children, err := policy.GenerateChildren(context.Background(), "Plan a trip", "Paint the shed", "done")
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestLoadPlaybookFromYAML(t *testing.T) {
	path := writePlaybookFile(t, `
"Plan meals":
  - "List groceries"
  - "Check pantry"
"Book travel":
  - "Compare flights"
`)

	pb, err := LoadPlaybook(path)
	require.NoError(t, err)

	policy := NewPlaybookPolicy(pb)
	children, err := policy.GenerateChildren(context.Background(), "obj", "Plan meals", "done")
	require.NoError(t, err)
	assert.Equal(t, []string{"List groceries", "Check pantry"}, children)

	// File tables fully replace the built-in one.
	children, err = policy.GenerateChildren(context.Background(), "obj", "Define problem", "done")
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestLoadPlaybookMissingFile(t *testing.T) {
	_, err := LoadPlaybook(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, types.HasCode(err, ErrCodePlaybookLoadFailed))
}

func TestLoadPlaybookMalformedYAML(t *testing.T) {
	path := writePlaybookFile(t, "{not yaml: [")

	_, err := LoadPlaybook(path)
	require.Error(t, err)
	assert.True(t, types.HasCode(err, ErrCodePlaybookLoadFailed))
}

func TestOraclePolicyParsesOneTaskPerLine(t *testing.T) {
	completer := llm.NewMockCompleter("Research flights\n\n  Book hotel  \nPack bags")
	policy := NewOraclePolicy(completer)

	children, err := policy.GenerateChildren(context.Background(), "Plan a trip", "Develop plan", "Itinerary drafted")
	require.NoError(t, err)
	assert.Equal(t, []string{"Research flights", "Book hotel", "Pack bags"}, children)

	calls := completer.Calls()
	require.Len(t, calls, 1)
	prompt := calls[0].Request.Prompt
	assert.Contains(t, prompt, "objective: Plan a trip.")
	assert.Contains(t, prompt, "The last completed task has the result: Itinerary drafted.")
	assert.Contains(t, prompt, "task description: Develop plan.")
	assert.Contains(t, prompt, "one task per line")
}

func TestOraclePolicyEmptyResponseYieldsNothing(t *testing.T) {
	completer := llm.NewMockCompleter("\n\n")
	policy := NewOraclePolicy(completer)

	children, err := policy.GenerateChildren(context.Background(), "obj", "task", "result")
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestOraclePolicyPropagatesCompletionError(t *testing.T) {
	completer := llm.NewMockCompleter("unused")
	completer.EnqueueError(llm.NewCompletionError("no choices returned", nil))
	policy := NewOraclePolicy(completer)

	_, err := policy.GenerateChildren(context.Background(), "obj", "task", "result")
	require.Error(t, err)
	assert.True(t, types.HasCode(err, llm.ErrCompletionFailed))
}

func TestNewCreationPolicy(t *testing.T) {
	completer := llm.NewMockCompleter("ok")

	t.Run("playbook with built-in table", func(t *testing.T) {
		policy, err := NewCreationPolicy("playbook", "", nil)
		require.NoError(t, err)
		assert.Equal(t, "playbook", policy.Name())
	})

	t.Run("playbook from file", func(t *testing.T) {
		path := writePlaybookFile(t, `"A": ["B"]`)
		policy, err := NewCreationPolicy("playbook", path, nil)
		require.NoError(t, err)

		children, err := policy.GenerateChildren(context.Background(), "obj", "A", "r")
		require.NoError(t, err)
		assert.Equal(t, []string{"B"}, children)
	})

	t.Run("playbook file missing", func(t *testing.T) {
		_, err := NewCreationPolicy("playbook", filepath.Join(t.TempDir(), "nope.yaml"), nil)
		require.Error(t, err)
		assert.True(t, types.HasCode(err, ErrCodePlaybookLoadFailed))
	})

	t.Run("oracle", func(t *testing.T) {
		policy, err := NewCreationPolicy("oracle", "", completer)
		require.NoError(t, err)
		assert.Equal(t, "oracle", policy.Name())
	})

	t.Run("oracle without completer", func(t *testing.T) {
		_, err := NewCreationPolicy("oracle", "", nil)
		require.Error(t, err)
		assert.True(t, types.HasCode(err, types.CONFIG_VALIDATION_FAILED))
	})

	t.Run("unknown policy", func(t *testing.T) {
		_, err := NewCreationPolicy("vibes", "", nil)
		require.Error(t, err)
		assert.True(t, types.HasCode(err, types.CONFIG_VALIDATION_FAILED))
	})
}
