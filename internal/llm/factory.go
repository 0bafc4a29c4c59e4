package llm

import (
	"fmt"
	"log/slog"
)

// NewCompleter creates the completion client selected by the
// configuration and wraps it with retry behavior. The style decision
// happens once here; callers never branch on it again.
func NewCompleter(cfg ClientConfig, logger *slog.Logger) (Completer, error) {
	inner, err := newStyleCompleter(cfg)
	if err != nil {
		return nil, err
	}
	return NewRetryingCompleter(inner, cfg.RetryDelay, logger), nil
}

func newStyleCompleter(cfg ClientConfig) (Completer, error) {
	switch cfg.Style {
	case StyleChat:
		return NewChatCompleter(cfg)

	case StyleCompletion:
		return NewTextCompleter(cfg)

	case StyleLocal:
		return NewLocalCompleter(cfg)

	default:
		return nil, NewInvalidRequestError(fmt.Sprintf("unknown completion style: %s", cfg.Style))
	}
}
