package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/wintermute/internal/types"
)

func TestRetryingCompleterRecovers(t *testing.T) {
	mock := NewMockCompleter("finally worked")
	mock.EnqueueError(NewRateLimitError("mock"))
	mock.EnqueueError(NewTimeoutError("request timeout"))

	completer := NewRetryingCompleter(mock, time.Millisecond, nil)

	result, err := completer.Complete(context.Background(), CompletionRequest{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "finally worked", result)
	assert.Len(t, mock.Calls(), 3)
}

func TestRetryingCompleterFatalPropagates(t *testing.T) {
	mock := NewMockCompleter("never reached")
	mock.EnqueueError(NewInvalidRequestError("malformed prompt"))

	completer := NewRetryingCompleter(mock, time.Millisecond, nil)

	_, err := completer.Complete(context.Background(), CompletionRequest{Prompt: "p"})
	assert.True(t, types.HasCode(err, ErrInvalidRequest))
	assert.Len(t, mock.Calls(), 1, "fatal errors must not be retried")
}

func TestRetryingCompleterCancelAbortsWait(t *testing.T) {
	mock := NewMockCompleter()
	mock.EnqueueError(NewRateLimitError("mock"))

	completer := NewRetryingCompleter(mock, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := completer.Complete(ctx, CompletionRequest{Prompt: "p"})
	elapsed := time.Since(start)

	assert.True(t, types.HasCode(err, ErrContextCanceled))
	assert.Less(t, elapsed, time.Second, "cancellation must interrupt the wait")
	assert.Len(t, mock.Calls(), 1)
}

func TestRetryingCompleterName(t *testing.T) {
	completer := NewRetryingCompleter(NewMockCompleter(), 0, nil)
	assert.Equal(t, "mock", completer.Name())
}

func TestMockCompleterCyclesResponses(t *testing.T) {
	mock := NewMockCompleter("one", "two")

	for _, expected := range []string{"one", "two", "one"} {
		result, err := mock.Complete(context.Background(), CompletionRequest{Prompt: "p"})
		require.NoError(t, err)
		assert.Equal(t, expected, result)
	}
}

func TestMockCompleterExhausted(t *testing.T) {
	mock := NewMockCompleter()

	_, err := mock.Complete(context.Background(), CompletionRequest{Prompt: "p"})
	assert.True(t, types.HasCode(err, ErrCompletionFailed))
}

func TestNewCompleterFactory(t *testing.T) {
	t.Run("chat", func(t *testing.T) {
		cfg := DefaultClientConfig()
		cfg.APIKey = "sk-test"

		completer, err := NewCompleter(cfg, nil)
		require.NoError(t, err)
		assert.Equal(t, "chat", completer.Name())
	})

	t.Run("completion", func(t *testing.T) {
		cfg := DefaultClientConfig()
		cfg.Style = StyleCompletion
		cfg.APIKey = "sk-test"

		completer, err := NewCompleter(cfg, nil)
		require.NoError(t, err)
		assert.Equal(t, "completion", completer.Name())
	})

	t.Run("local", func(t *testing.T) {
		cfg := DefaultClientConfig()
		cfg.Style = StyleLocal
		cfg.LocalCommand = "llama/main"

		completer, err := NewCompleter(cfg, nil)
		require.NoError(t, err)
		assert.Equal(t, "local", completer.Name())
	})

	t.Run("unknown style", func(t *testing.T) {
		cfg := DefaultClientConfig()
		cfg.Style = "telepathy"

		_, err := NewCompleter(cfg, nil)
		assert.True(t, types.HasCode(err, ErrInvalidRequest))
	})
}
