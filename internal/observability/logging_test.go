package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/embedded"
)

var (
	mockTraceID = trace.TraceID{0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef, 0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef}
	mockSpanID  = trace.SpanID{0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef}
)

// mockSpan implements trace.Span for testing trace correlation.
type mockSpan struct {
	embedded.Span
	traceID trace.TraceID
	spanID  trace.SpanID
}

func (m *mockSpan) SpanContext() trace.SpanContext {
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    m.traceID,
		SpanID:     m.spanID,
		TraceFlags: trace.FlagsSampled,
	})
}

func (m *mockSpan) IsRecording() bool { return true }

func (m *mockSpan) SetStatus(code codes.Code, description string) {}

func (m *mockSpan) SetAttributes(attributes ...attribute.KeyValue) {}

func (m *mockSpan) End(options ...trace.SpanEndOption) {}

func (m *mockSpan) RecordError(err error, options ...trace.EventOption) {}

func (m *mockSpan) AddEvent(name string, options ...trace.EventOption) {}

func (m *mockSpan) SetName(name string) {}

func (m *mockSpan) TracerProvider() trace.TracerProvider { return nil }

func (m *mockSpan) AddLink(link trace.Link) {}

func createMockSpanContext() context.Context {
	span := &mockSpan{
		traceID: mockTraceID,
		spanID:  mockSpanID,
	}
	return trace.ContextWithSpan(context.Background(), span)
}

func TestNewTracedLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := NewJSONHandler(buf, slog.LevelInfo)

	logger := NewTracedLogger(handler, "run-123", "wintermute")

	require.NotNil(t, logger)
	assert.Equal(t, "run-123", logger.runID)
	assert.Equal(t, "wintermute", logger.agentName)
	assert.True(t, logger.redactSensitive)
}

func TestTracedLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		log   func(l *TracedLogger, ctx context.Context)
		level string
	}{
		{
			name:  "debug",
			log:   func(l *TracedLogger, ctx context.Context) { l.Debug(ctx, "debug message") },
			level: "DEBUG",
		},
		{
			name:  "info",
			log:   func(l *TracedLogger, ctx context.Context) { l.Info(ctx, "info message") },
			level: "INFO",
		},
		{
			name:  "warn",
			log:   func(l *TracedLogger, ctx context.Context) { l.Warn(ctx, "warn message") },
			level: "WARN",
		},
		{
			name:  "error",
			log:   func(l *TracedLogger, ctx context.Context) { l.Error(ctx, "error message") },
			level: "ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			handler := NewJSONHandler(buf, slog.LevelDebug)
			logger := NewTracedLogger(handler, "run-123", "wintermute")

			tt.log(logger, context.Background())

			output := buf.String()
			assert.Contains(t, output, tt.name+" message")
			assert.Contains(t, output, "run-123")
			assert.Contains(t, output, "wintermute")
			assert.Contains(t, output, tt.level)
		})
	}
}

func TestTracedLogger_WithContext_TraceCorrelation(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := NewJSONHandler(buf, slog.LevelInfo)
	logger := NewTracedLogger(handler, "run-123", "wintermute")

	ctx := createMockSpanContext()

	logger.Info(ctx, "test message with trace")

	output := buf.String()

	assert.Contains(t, output, "trace_id")
	assert.Contains(t, output, "span_id")
	assert.Contains(t, output, mockTraceID.String())
	assert.Contains(t, output, mockSpanID.String())

	assert.Contains(t, output, "run_id")
	assert.Contains(t, output, "run-123")
	assert.Contains(t, output, "agent_name")
	assert.Contains(t, output, "wintermute")
}

func TestTracedLogger_WithContext_NoTrace(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := NewJSONHandler(buf, slog.LevelInfo)
	logger := NewTracedLogger(handler, "run-123", "wintermute")

	logger.Info(context.Background(), "test message without trace")

	output := buf.String()

	assert.Contains(t, output, "run_id")
	assert.Contains(t, output, "run-123")
	assert.NotContains(t, output, "trace_id")
	assert.NotContains(t, output, "span_id")
}

func TestTracedLogger_Slog(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := NewJSONHandler(buf, slog.LevelInfo)
	logger := NewTracedLogger(handler, "run-123", "wintermute")

	logger.Slog().Info("plain message", "key", "value")

	output := buf.String()
	assert.Contains(t, output, "plain message")
	assert.Contains(t, output, "run-123")
	assert.Contains(t, output, "wintermute")
	assert.Contains(t, output, "value")
}

func TestNewJSONHandler(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := NewJSONHandler(buf, slog.LevelInfo)

	require.NotNil(t, handler)

	logger := slog.New(handler)
	logger.Info("test message", "key", "value")

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err)

	assert.Equal(t, "INFO", logEntry["level"])
	assert.Equal(t, "test message", logEntry["msg"])
	assert.Equal(t, "value", logEntry["key"])
}

func TestNewTextHandler(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := NewTextHandler(buf, slog.LevelInfo)

	require.NotNil(t, handler)

	logger := slog.New(handler)
	logger.Info("test message", "key", "value")

	output := buf.String()
	assert.Contains(t, output, "INFO")
	assert.Contains(t, output, "test message")
	assert.Contains(t, output, "key=value")
}

func TestNewHandler(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		level    string
		logged   string
		expected string
	}{
		{
			name:     "json format",
			format:   "json",
			level:    "info",
			logged:   "hello",
			expected: `"msg":"hello"`,
		},
		{
			name:     "text format",
			format:   "text",
			level:    "info",
			logged:   "hello",
			expected: "msg=hello",
		},
		{
			name:     "unknown format falls back to text",
			format:   "xml",
			level:    "info",
			logged:   "hello",
			expected: "msg=hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			handler := NewHandler(buf, tt.format, tt.level)

			slog.New(handler).Info(tt.logged)

			assert.Contains(t, buf.String(), tt.expected)
		})
	}
}

func TestNewHandler_LevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := NewHandler(buf, "json", "warn")

	logger := slog.New(handler)
	logger.Info("filtered out")
	logger.Warn("kept")

	output := buf.String()
	assert.NotContains(t, output, "filtered out")
	assert.Contains(t, output, "kept")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseLevel(tt.input), "input: %q", tt.input)
	}
}

func TestRedactSensitiveData_Prompt(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := NewJSONHandler(buf, slog.LevelInfo)
	logger := NewTracedLogger(handler, "run-123", "wintermute")

	logger.Info(context.Background(), "llm call", "prompt", "secret prompt data", "response", "public data")

	output := buf.String()

	assert.Contains(t, output, "[REDACTED]")
	assert.NotContains(t, output, "secret prompt data")
	assert.Contains(t, output, "public data")
}

func TestRedactSensitiveData_APIKey(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := NewJSONHandler(buf, slog.LevelInfo)
	logger := NewTracedLogger(handler, "run-123", "wintermute")

	logger.Info(context.Background(), "api call", "api_key", "sk-1234567890", "endpoint", "/v1/completions")

	output := buf.String()

	assert.Contains(t, output, "[REDACTED]")
	assert.NotContains(t, output, "sk-1234567890")
	assert.Contains(t, output, "/v1/completions")
}

func TestRedactSensitiveData_MultipleSensitiveFields(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := NewJSONHandler(buf, slog.LevelInfo)
	logger := NewTracedLogger(handler, "run-123", "wintermute")

	logger.Info(context.Background(), "auth flow",
		"api_key", "key-123",
		"password", "pass-456",
		"token", "token-789",
		"user", "john.doe",
	)

	output := buf.String()

	assert.NotContains(t, output, "key-123")
	assert.NotContains(t, output, "pass-456")
	assert.NotContains(t, output, "token-789")
	assert.Contains(t, output, "john.doe")
	assert.Contains(t, output, "[REDACTED]")
}

func TestRedactSensitiveData_DebugLevel_NoRedaction(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := NewJSONHandler(buf, slog.LevelDebug)
	logger := NewTracedLogger(handler, "run-123", "wintermute")

	logger.Debug(context.Background(), "debug info", "prompt", "full prompt text", "api_key", "sk-12345")

	output := buf.String()

	assert.Contains(t, output, "full prompt text")
	assert.Contains(t, output, "sk-12345")
	assert.NotContains(t, output, "[REDACTED]")
}

func TestRedactSensitiveData_CaseInsensitive(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := NewJSONHandler(buf, slog.LevelInfo)
	logger := NewTracedLogger(handler, "run-123", "wintermute")

	tests := []struct {
		key   string
		value string
	}{
		{"API_KEY", "key1"},
		{"Api_Key", "key2"},
		{"apiKey", "key3"},
		{"PROMPT", "prompt1"},
		{"Secret", "secret1"},
		{"Password", "pass1"},
	}

	for _, tt := range tests {
		buf.Reset()
		logger.Info(context.Background(), "test", tt.key, tt.value, "public", "data")
		output := buf.String()

		assert.Contains(t, output, "[REDACTED]", "key: %s", tt.key)
		assert.NotContains(t, output, tt.value, "key: %s", tt.key)
	}
}

func TestRedactSensitiveData_OddNumberOfArgs(t *testing.T) {
	args := []any{"key1", "value1", "key2"}
	result := redactSensitiveData(args)

	assert.Equal(t, args, result)
}
