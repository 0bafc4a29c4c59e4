package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// LocalCompleter shells out to a llama.cpp-style binary for each request
// and captures its stdout as the completion text. No network access is
// involved, so the only retryable outcome is a caller cancellation.
type LocalCompleter struct {
	command string
	config  ClientConfig
}

// NewLocalCompleter creates a completion client backed by a local binary.
func NewLocalCompleter(cfg ClientConfig) (*LocalCompleter, error) {
	if cfg.LocalCommand == "" {
		return nil, NewInvalidRequestError("local completion requires llm.local_command")
	}
	return &LocalCompleter{command: cfg.LocalCommand, config: cfg}, nil
}

// Name returns the client name.
func (c *LocalCompleter) Name() string {
	return "local"
}

// Complete runs the local binary once and returns its trimmed stdout.
func (c *LocalCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	req = c.config.withDefaults(req)

	args := []string{
		"-p", req.Prompt,
		"-n", strconv.Itoa(req.MaxTokens),
		"--temp", strconv.FormatFloat(req.Temperature, 'f', -1, 64),
	}

	cmd := exec.CommandContext(ctx, c.command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", TranslateError("local", ctx.Err())
		}
		if errors.Is(err, exec.ErrNotFound) {
			return "", NewInvalidRequestError(fmt.Sprintf("local model binary %q not found", c.command))
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", NewCompletionError(fmt.Sprintf("local model run failed: %s", msg), err)
	}

	return strings.TrimSpace(stdout.String()), nil
}
