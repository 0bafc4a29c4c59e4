package llm

import (
	"context"
	"fmt"
	"sync"
)

// MockCall records one request made against the mock client.
type MockCall struct {
	Request CompletionRequest
}

// MockCompleter implements Completer for testing. Queued errors are
// returned before scripted responses, which cycle once exhausted.
type MockCompleter struct {
	mu            sync.Mutex
	responses     []string
	responseIndex int
	errs          []error
	calls         []MockCall
}

// NewMockCompleter creates a mock client with scripted responses.
func NewMockCompleter(responses ...string) *MockCompleter {
	return &MockCompleter{
		responses: responses,
		calls:     make([]MockCall, 0),
	}
}

// Name returns the client name.
func (m *MockCompleter) Name() string {
	return "mock"
}

// Complete returns the next queued error or scripted response.
func (m *MockCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", NewContextCanceledError(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockCall{Request: req})

	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		return "", err
	}

	if len(m.responses) == 0 {
		return "", NewCompletionError("no responses configured", fmt.Errorf("mock exhausted"))
	}

	response := m.responses[m.responseIndex%len(m.responses)]
	m.responseIndex++
	return response, nil
}

// EnqueueError schedules an error to be returned ahead of responses.
func (m *MockCompleter) EnqueueError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = append(m.errs, err)
}

// SetResponses replaces all scripted responses.
func (m *MockCompleter) SetResponses(responses ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = responses
	m.responseIndex = 0
}

// Calls returns all recorded calls.
func (m *MockCompleter) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]MockCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// Reset clears recorded calls and rewinds scripted responses.
func (m *MockCompleter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = make([]MockCall, 0)
	m.errs = nil
	m.responseIndex = 0
}
