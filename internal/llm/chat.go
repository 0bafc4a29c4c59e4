package llm

import (
	"context"
	"os"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// ChatCompleter reaches an OpenAI-compatible chat completion API. Prompts
// arrive fully framed by the caller, so each request travels as a single
// system message and the first choice's content comes back as the
// completion text.
type ChatCompleter struct {
	client *openai.LLM
	config ClientConfig
}

// NewChatCompleter creates a chat-style completion client.
func NewChatCompleter(cfg ClientConfig) (*ChatCompleter, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, NewUnauthorizedError("chat", nil)
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
	}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, TranslateError("chat", err)
	}

	return &ChatCompleter{client: client, config: cfg}, nil
}

// Name returns the client name.
func (c *ChatCompleter) Name() string {
	return "chat"
}

// Complete sends one completion request through the chat API.
func (c *ChatCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	req = c.config.withDefaults(req)

	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(req.Prompt)},
		},
	}

	callOpts := []llms.CallOption{
		llms.WithModel(req.Model),
		llms.WithMaxTokens(req.MaxTokens),
		llms.WithTemperature(req.Temperature),
	}

	resp, err := c.client.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		return "", TranslateError("chat", err)
	}

	if resp == nil || len(resp.Choices) == 0 {
		return "", NewCompletionError("chat API returned no choices", nil)
	}

	return strings.TrimSpace(resp.Choices[0].Content), nil
}
