package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/zero-day-ai/wintermute/internal/types"
)

// LLM error codes follow the wintermute error pattern.
const (
	// Transient errors, absorbed by the retry wrapper
	ErrRateLimited types.ErrorCode = "LLM_RATE_LIMITED"
	ErrTimeout     types.ErrorCode = "LLM_TIMEOUT"
	ErrNetwork     types.ErrorCode = "LLM_NETWORK_FAILED"
	ErrUnavailable types.ErrorCode = "LLM_UNAVAILABLE"

	// Fatal errors
	ErrUnauthorized     types.ErrorCode = "LLM_UNAUTHORIZED"
	ErrInvalidRequest   types.ErrorCode = "LLM_INVALID_REQUEST"
	ErrCompletionFailed types.ErrorCode = "LLM_COMPLETION_FAILED"
	ErrContextCanceled  types.ErrorCode = "LLM_CONTEXT_CANCELED"
)

// IsRetryable determines if an error is transient and may succeed on
// retry. Invalid requests are deliberately not retryable: re-sending a
// malformed request can only fail the same way.
func IsRetryable(err error) bool {
	var agentErr *types.AgentError
	if !errors.As(err, &agentErr) {
		return false
	}

	if agentErr.Retryable {
		return true
	}

	switch agentErr.Code {
	case ErrRateLimited, ErrTimeout, ErrNetwork, ErrUnavailable:
		return true

	// Context cancellation is user-initiated, never retried.
	case ErrContextCanceled:
		return false

	case ErrUnauthorized, ErrInvalidRequest, ErrCompletionFailed:
		return false

	default:
		return false
	}
}

// NewRateLimitError creates a retryable error for rate limiting.
func NewRateLimitError(client string) *types.AgentError {
	return &types.AgentError{
		Code:      ErrRateLimited,
		Message:   "rate limit exceeded for client: " + client,
		Retryable: true,
	}
}

// NewTimeoutError creates a retryable error for timeout failures.
func NewTimeoutError(message string) *types.AgentError {
	return &types.AgentError{
		Code:      ErrTimeout,
		Message:   message,
		Retryable: true,
	}
}

// NewNetworkError creates a retryable error for network failures.
func NewNetworkError(message string, cause error) *types.AgentError {
	return &types.AgentError{
		Code:      ErrNetwork,
		Message:   message,
		Retryable: true,
		Cause:     cause,
	}
}

// NewUnavailableError creates a retryable error for a temporarily
// unavailable service.
func NewUnavailableError(client string, cause error) *types.AgentError {
	return &types.AgentError{
		Code:      ErrUnavailable,
		Message:   "completion service temporarily unavailable: " + client,
		Retryable: true,
		Cause:     cause,
	}
}

// NewUnauthorizedError creates an authentication error.
func NewUnauthorizedError(client string, cause error) *types.AgentError {
	return &types.AgentError{
		Code:    ErrUnauthorized,
		Message: fmt.Sprintf("client '%s' authentication failed", client),
		Cause:   cause,
	}
}

// NewInvalidRequestError creates an error for invalid requests.
func NewInvalidRequestError(message string) *types.AgentError {
	return types.NewError(ErrInvalidRequest, message)
}

// NewCompletionError creates an error for completion failures.
func NewCompletionError(message string, cause error) *types.AgentError {
	return types.WrapError(ErrCompletionFailed, message, cause)
}

// NewContextCanceledError creates an error for caller-cancelled calls.
func NewContextCanceledError(cause error) *types.AgentError {
	return types.WrapError(ErrContextCanceled, "completion call cancelled", cause)
}

// TranslateError translates generic client errors into wintermute errors
// based on error message content.
func TranslateError(client string, err error) error {
	if err == nil {
		return nil
	}

	var agentErr *types.AgentError
	if errors.As(err, &agentErr) {
		return err
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NewContextCanceledError(err)
	}

	lowerMsg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(lowerMsg, "unauthorized") || strings.Contains(lowerMsg, "authentication") || strings.Contains(lowerMsg, "api key"):
		return NewUnauthorizedError(client, err)
	case strings.Contains(lowerMsg, "rate limit") || strings.Contains(lowerMsg, "too many requests"):
		return NewRateLimitError(client)
	case strings.Contains(lowerMsg, "timeout") || strings.Contains(lowerMsg, "deadline"):
		return NewTimeoutError(err.Error())
	case strings.Contains(lowerMsg, "network") || strings.Contains(lowerMsg, "connection"):
		return NewNetworkError(err.Error(), err)
	case strings.Contains(lowerMsg, "invalid request") || strings.Contains(lowerMsg, "bad request"):
		return NewInvalidRequestError(err.Error())
	default:
		return NewUnavailableError(client, err)
	}
}

// ClassifyStatus maps an HTTP status code onto the error taxonomy.
func ClassifyStatus(client string, status int, body string) error {
	switch {
	case status == http.StatusTooManyRequests:
		return NewRateLimitError(client)
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return NewTimeoutError(fmt.Sprintf("completion request timed out: %s", body))
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return NewUnauthorizedError(client, fmt.Errorf("status %d: %s", status, body))
	case status == http.StatusBadRequest:
		return NewInvalidRequestError(fmt.Sprintf("status %d: %s", status, body))
	case status >= 500:
		return NewUnavailableError(client, fmt.Errorf("status %d: %s", status, body))
	default:
		return NewCompletionError(fmt.Sprintf("unexpected status %d", status),
			fmt.Errorf("%s", body))
	}
}
