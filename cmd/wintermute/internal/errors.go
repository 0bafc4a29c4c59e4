package internal

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zero-day-ai/wintermute/internal/llm"
	"github.com/zero-day-ai/wintermute/internal/types"
)

// Exit code constants for the CLI
const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitError indicates a general error
	ExitError = 1
	// ExitTimeout indicates the operation timed out
	ExitTimeout = 3
	// ExitCancelled indicates the operation was cancelled
	ExitCancelled = 4
	// ExitConfigError indicates a configuration error
	ExitConfigError = 10
	// ExitStoreError indicates a task or vector store error
	ExitStoreError = 11
	// ExitLLMError indicates a completion or embedding provider error
	ExitLLMError = 12
)

// CLIError represents a CLI-specific error with an exit code
type CLIError struct {
	Code    int
	Message string
	Cause   error
}

// Error implements the error interface
func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// WrapError creates a new CLIError wrapping an existing error
func WrapError(code int, message string, err error) *CLIError {
	return &CLIError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// NewCLIError creates a new CLIError with the given code and message
func NewCLIError(code int, message string) *CLIError {
	return &CLIError{
		Code:    code,
		Message: message,
	}
}

// HandleError handles an error and returns the appropriate exit code.
// It also prints the error message to the command's error output.
func HandleError(cmd *cobra.Command, err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, context.Canceled) {
		cmd.PrintErrln("Operation cancelled")
		return ExitCancelled
	}

	if errors.Is(err, context.DeadlineExceeded) {
		cmd.PrintErrln("Operation timed out")
		return ExitTimeout
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		cmd.PrintErrln("Error:", cliErr.Message)
		if cliErr.Cause != nil {
			verboseFlag := cmd.Flag("verbose")
			if verboseFlag != nil && verboseFlag.Changed {
				cmd.PrintErrln("Cause:", cliErr.Cause)
			}
		}
		return cliErr.Code
	}

	var agentErr *types.AgentError
	if errors.As(err, &agentErr) {
		cmd.PrintErrln("Error:", agentErr.Error())
		return mapAgentErrorToExitCode(agentErr)
	}

	cmd.PrintErrln("Error:", err)
	return ExitError
}

// mapAgentErrorToExitCode maps AgentError codes to CLI exit codes
func mapAgentErrorToExitCode(err *types.AgentError) int {
	switch err.Code {
	case types.CONFIG_LOAD_FAILED,
		types.CONFIG_PARSE_FAILED,
		types.CONFIG_VALIDATION_FAILED:
		return ExitConfigError
	case types.TASK_STORE_EMPTY,
		types.TASK_STORE_FAILED:
		return ExitStoreError
	case llm.ErrTimeout:
		return ExitTimeout
	case llm.ErrRateLimited,
		llm.ErrNetwork,
		llm.ErrUnavailable,
		llm.ErrUnauthorized,
		llm.ErrInvalidRequest,
		llm.ErrCompletionFailed:
		return ExitLLMError
	default:
		return ExitError
	}
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	var agentErr *types.AgentError
	if errors.As(err, &agentErr) {
		return agentErr.Retryable
	}
	return false
}

// IsVerbose checks if verbose mode is enabled via environment variable or
// flag. This is used for panic recovery to determine if stack traces should
// be shown.
func IsVerbose() bool {
	if os.Getenv("WINTERMUTE_VERBOSE") != "" {
		return true
	}

	for _, arg := range os.Args {
		if arg == "-v" || arg == "--verbose" {
			return true
		}
	}

	return false
}
