package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for wintermute errors.
type ErrorCode string

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// Task store error codes
const (
	TASK_STORE_EMPTY  ErrorCode = "TASK_STORE_EMPTY"
	TASK_STORE_FAILED ErrorCode = "TASK_STORE_FAILED"
)

// Thought tree error codes
const (
	THOUGHT_TREE_HAS_ROOT ErrorCode = "THOUGHT_TREE_HAS_ROOT"
	THOUGHT_NOT_FOUND     ErrorCode = "THOUGHT_NOT_FOUND"
)

// Engine error codes
const (
	ENGINE_INVALID_TRANSITION ErrorCode = "ENGINE_INVALID_TRANSITION"
	ENGINE_ITERATION_FAILED   ErrorCode = "ENGINE_ITERATION_FAILED"
)

// AgentError represents a structured error with error code, message, and optional cause.
// It supports error wrapping and retryability hints for error handling logic.
type AgentError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *AgentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
// This enables using errors.Is() and errors.As() with wrapped errors.
func (e *AgentError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
// Returns true if target is an AgentError with the same Code.
func (e *AgentError) Is(target error) bool {
	var agentErr *AgentError
	if errors.As(target, &agentErr) {
		return e.Code == agentErr.Code
	}
	return false
}

// NewError creates a new non-retryable AgentError with the given code and message.
func NewError(code ErrorCode, message string) *AgentError {
	return &AgentError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Cause:     nil,
	}
}

// NewRetryableError creates a new retryable AgentError with the given code and message.
// Use this for transient errors that may succeed on retry (e.g., network timeouts).
func NewRetryableError(code ErrorCode, message string) *AgentError {
	return &AgentError{
		Code:      code,
		Message:   message,
		Retryable: true,
		Cause:     nil,
	}
}

// WrapError creates a new non-retryable AgentError that wraps an existing error.
// The wrapped error is accessible via Unwrap() for error chain inspection.
func WrapError(code ErrorCode, message string, cause error) *AgentError {
	return &AgentError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Cause:     cause,
	}
}

// HasCode reports whether err or any error in its chain is an AgentError
// with the given code.
func HasCode(err error, code ErrorCode) bool {
	var agentErr *AgentError
	if errors.As(err, &agentErr) {
		return agentErr.Code == code
	}
	return false
}
