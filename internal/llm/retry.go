package llm

import (
	"context"
	"log/slog"
	"time"
)

// DefaultRetryDelay is the pause between attempts when no delay is
// configured.
const DefaultRetryDelay = 10 * time.Second

// RetryingCompleter wraps a Completer with a fixed-delay retry loop.
// Transient failures (rate limits, timeouts, network drops, service
// unavailability) are retried indefinitely; anything else propagates
// immediately. Cancelling the context aborts both in-flight calls and
// the waits between them.
type RetryingCompleter struct {
	inner  Completer
	delay  time.Duration
	logger *slog.Logger
}

// NewRetryingCompleter wraps inner with retry behavior.
func NewRetryingCompleter(inner Completer, delay time.Duration, logger *slog.Logger) *RetryingCompleter {
	if delay <= 0 {
		delay = DefaultRetryDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RetryingCompleter{
		inner:  inner,
		delay:  delay,
		logger: logger,
	}
}

// Name returns the wrapped client's name.
func (r *RetryingCompleter) Name() string {
	return r.inner.Name()
}

// Complete calls the wrapped client until it succeeds, fails fatally, or
// the context is cancelled.
func (r *RetryingCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	for attempt := 1; ; attempt++ {
		result, err := r.inner.Complete(ctx, req)
		if err == nil {
			return result, nil
		}
		if !IsRetryable(err) {
			return "", err
		}

		r.logger.Warn("completion failed, retrying",
			"client", r.inner.Name(),
			"attempt", attempt,
			"delay", r.delay.String(),
			"error", err)

		timer := time.NewTimer(r.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", NewContextCanceledError(ctx.Err())
		case <-timer.C:
		}
	}
}
