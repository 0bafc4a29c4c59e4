// Package observability provides structured logging with trace correlation
// and OpenTelemetry tracing for agent runs.
package observability

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

// TracedLogger is a structured logger with automatic trace correlation.
// It wraps slog.Logger and adds the run ID, agent name, and OpenTelemetry
// trace/span IDs to every record.
type TracedLogger struct {
	logger          *slog.Logger
	runID           string
	agentName       string
	redactSensitive bool
}

// NewTracedLogger creates a TracedLogger writing through the given handler.
// Every record carries the run ID and agent name; records logged with a
// context holding an active span also carry trace_id and span_id.
func NewTracedLogger(handler slog.Handler, runID, agentName string) *TracedLogger {
	return &TracedLogger{
		logger:          slog.New(handler),
		runID:           runID,
		agentName:       agentName,
		redactSensitive: true,
	}
}

// Debug logs a debug-level message. Debug records are not redacted so
// prompts stay inspectable during development.
func (l *TracedLogger) Debug(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).Debug(msg, args...)
}

// Info logs an info-level message. Sensitive values are redacted.
func (l *TracedLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.redactSensitive {
		args = redactSensitiveData(args)
	}
	l.WithContext(ctx).Info(msg, args...)
}

// Warn logs a warning-level message. Sensitive values are redacted.
func (l *TracedLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.redactSensitive {
		args = redactSensitiveData(args)
	}
	l.WithContext(ctx).Warn(msg, args...)
}

// Error logs an error-level message. Sensitive values are redacted.
func (l *TracedLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.redactSensitive {
		args = redactSensitiveData(args)
	}
	l.WithContext(ctx).Error(msg, args...)
}

// WithContext returns a slog.Logger carrying the run fields plus any trace
// correlation fields available from the context's span.
func (l *TracedLogger) WithContext(ctx context.Context) *slog.Logger {
	logger := l.logger.With(
		slog.String("run_id", l.runID),
		slog.String("agent_name", l.agentName),
	)

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		spanCtx := span.SpanContext()
		logger = logger.With(
			slog.String("trace_id", spanCtx.TraceID().String()),
			slog.String("span_id", spanCtx.SpanID().String()),
		)
	}

	return logger
}

// Slog returns a plain slog.Logger carrying the run fields, for components
// that log without a context.
func (l *TracedLogger) Slog() *slog.Logger {
	return l.logger.With(
		slog.String("run_id", l.runID),
		slog.String("agent_name", l.agentName),
	)
}

// NewHandler creates a slog handler for the configured format ("json" or
// "text") and level ("debug", "info", "warn", "error"). Unknown values
// fall back to text at info level.
func NewHandler(w io.Writer, format, level string) slog.Handler {
	lvl := ParseLevel(level)
	if strings.EqualFold(format, "json") {
		return NewJSONHandler(w, lvl)
	}
	return NewTextHandler(w, lvl)
}

// NewJSONHandler creates a JSON log handler with the specified output and level.
func NewJSONHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
}

// NewTextHandler creates a text log handler with the specified output and level.
func NewTextHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
}

// ParseLevel maps a config level string onto a slog.Level. Unknown strings
// map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// redactSensitiveData replaces the values of sensitive keys with
// "[REDACTED]". Keys are compared case-insensitively with underscores
// removed, so api_key and APIKey both match.
func redactSensitiveData(args []any) []any {
	if len(args)%2 != 0 {
		return args
	}

	sensitiveFields := map[string]bool{
		"prompt":     true,
		"prompts":    true,
		"apikey":     true,
		"secret":     true,
		"secretkey":  true,
		"password":   true,
		"token":      true,
		"credential": true,
	}

	redacted := make([]any, len(args))
	copy(redacted, args)

	for i := 0; i < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			normalizedKey := strings.ToLower(strings.ReplaceAll(key, "_", ""))
			if sensitiveFields[normalizedKey] {
				redacted[i+1] = "[REDACTED]"
			}
		}
	}

	return redacted
}
