package observability

import "github.com/zero-day-ai/wintermute/internal/types"

// Observability error codes.
const (
	// ErrCodeExporterFailed indicates the trace exporter could not be
	// created or configured.
	ErrCodeExporterFailed types.ErrorCode = "TRACING_EXPORTER_FAILED"

	// ErrCodeShutdownFailed indicates the tracer provider failed to
	// flush and shut down.
	ErrCodeShutdownFailed types.ErrorCode = "TRACING_SHUTDOWN_FAILED"
)

// NewExporterError wraps an exporter setup failure.
func NewExporterError(message string, cause error) *types.AgentError {
	return types.WrapError(ErrCodeExporterFailed, message, cause)
}

// NewShutdownError wraps a tracer provider shutdown failure.
func NewShutdownError(cause error) *types.AgentError {
	return types.WrapError(ErrCodeShutdownFailed, "failed to shutdown tracer provider", cause)
}
