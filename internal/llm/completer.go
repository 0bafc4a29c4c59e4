// Package llm provides the completion client the agent drives its
// reasoning through: a narrow text-in/text-out contract with three
// call-shape implementations (chat API, legacy completion API, local
// process) selected once at startup, plus a fixed-delay retry wrapper for
// transient failures.
package llm

import (
	"context"
	"fmt"

	"github.com/zero-day-ai/wintermute/internal/types"
)

// Style selects the call shape used to reach the completion service.
// It is chosen once from configuration, never re-derived per call.
type Style string

const (
	// StyleChat uses an OpenAI-compatible chat completion API.
	StyleChat Style = "chat"
	// StyleCompletion uses the legacy text completion API.
	StyleCompletion Style = "completion"
	// StyleLocal shells out to a local inference binary per call.
	StyleLocal Style = "local"
)

// IsValid checks if the style is a known value.
func (s Style) IsValid() bool {
	switch s {
	case StyleChat, StyleCompletion, StyleLocal:
		return true
	default:
		return false
	}
}

// String returns the string representation of the Style.
func (s Style) String() string {
	return string(s)
}

// CompletionRequest is a single text completion call.
type CompletionRequest struct {
	// Prompt is the full prompt text.
	Prompt string `json:"prompt"`

	// Model identifies the model to run; empty uses the client default.
	Model string `json:"model,omitempty"`

	// Temperature controls sampling randomness.
	Temperature float64 `json:"temperature,omitempty"`

	// MaxTokens bounds the generated completion length.
	MaxTokens int `json:"max_tokens,omitempty"`
}

// Validate checks if the request is well-formed.
func (r CompletionRequest) Validate() error {
	if r.Prompt == "" {
		return types.NewError(ErrInvalidRequest, "prompt cannot be empty")
	}
	if r.Temperature < 0 || r.Temperature > 2 {
		return types.NewError(ErrInvalidRequest,
			fmt.Sprintf("temperature must be between 0 and 2, got %f", r.Temperature))
	}
	if r.MaxTokens < 0 {
		return types.NewError(ErrInvalidRequest,
			fmt.Sprintf("max_tokens must be non-negative, got %d", r.MaxTokens))
	}
	return nil
}

// Completer is the completion service contract. Implementations block
// until the service answers or the context is cancelled; classification
// of failures into retryable and fatal is done through the error codes in
// this package.
type Completer interface {
	// Name returns the client name (e.g. "chat", "completion", "local").
	Name() string

	// Complete sends one completion request and returns the raw text.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
