package llm

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/wintermute/internal/types"
)

func writeFakeModel(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake model script requires a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "fake-model")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return path
}

func TestLocalCompleterComplete(t *testing.T) {
	binary := writeFakeModel(t, `echo "  local answer  "`)

	completer, err := NewLocalCompleter(ClientConfig{LocalCommand: binary, MaxTokens: 100})
	require.NoError(t, err)

	result, err := completer.Complete(context.Background(), CompletionRequest{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "local answer", result)
}

func TestLocalCompleterArguments(t *testing.T) {
	binary := writeFakeModel(t, `echo "$@"`)

	completer, err := NewLocalCompleter(ClientConfig{LocalCommand: binary})
	require.NoError(t, err)

	result, err := completer.Complete(context.Background(), CompletionRequest{
		Prompt:      "the prompt",
		MaxTokens:   64,
		Temperature: 0.5,
	})
	require.NoError(t, err)
	assert.Contains(t, result, "-p the prompt")
	assert.Contains(t, result, "-n 64")
	assert.Contains(t, result, "--temp 0.5")
}

func TestLocalCompleterFailure(t *testing.T) {
	binary := writeFakeModel(t, `echo "model exploded" >&2; exit 3`)

	completer, err := NewLocalCompleter(ClientConfig{LocalCommand: binary})
	require.NoError(t, err)

	_, err = completer.Complete(context.Background(), CompletionRequest{Prompt: "p"})
	require.Error(t, err)
	assert.True(t, types.HasCode(err, ErrCompletionFailed))
	assert.Contains(t, err.Error(), "model exploded")
}

func TestLocalCompleterMissingBinary(t *testing.T) {
	completer, err := NewLocalCompleter(ClientConfig{LocalCommand: "wintermute-no-such-binary"})
	require.NoError(t, err)

	_, err = completer.Complete(context.Background(), CompletionRequest{Prompt: "p"})
	assert.True(t, types.HasCode(err, ErrInvalidRequest))
}

func TestNewLocalCompleterRequiresCommand(t *testing.T) {
	_, err := NewLocalCompleter(ClientConfig{})
	assert.True(t, types.HasCode(err, ErrInvalidRequest))
}
