package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultCompletionBaseURL = "https://api.openai.com/v1"

// TextCompleter reaches a legacy text-completion endpoint directly over
// HTTP for models that predate the chat API.
type TextCompleter struct {
	baseURL string
	apiKey  string
	config  ClientConfig
	client  *http.Client
}

type completionPayload struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewTextCompleter creates a completion-style client against an
// OpenAI-compatible text-completion endpoint.
func NewTextCompleter(cfg ClientConfig) (*TextCompleter, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, NewUnauthorizedError("completion", nil)
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultCompletionBaseURL
	}

	return &TextCompleter{
		baseURL: baseURL,
		apiKey:  apiKey,
		config:  cfg,
		client:  &http.Client{Timeout: 120 * time.Second},
	}, nil
}

// Name returns the client name.
func (c *TextCompleter) Name() string {
	return "completion"
}

// Complete sends one completion request to the text endpoint.
func (c *TextCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	req = c.config.withDefaults(req)

	body, err := json.Marshal(completionPayload{
		Model:       req.Model,
		Prompt:      req.Prompt,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", NewCompletionError("failed to encode completion request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/completions", bytes.NewReader(body))
	if err != nil {
		return "", NewCompletionError("failed to build completion request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", TranslateError("completion", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(raw))

		var decoded completionResponse
		if json.Unmarshal(raw, &decoded) == nil && decoded.Error != nil {
			msg = decoded.Error.Message
		}
		return "", ClassifyStatus("completion", resp.StatusCode, msg)
	}

	var decoded completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", NewCompletionError("failed to decode completion response", err)
	}
	if len(decoded.Choices) == 0 {
		return "", NewCompletionError("completion API returned no choices", nil)
	}

	return strings.TrimSpace(decoded.Choices[0].Text), nil
}
