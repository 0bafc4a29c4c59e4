package llm

import (
	"os"
	"time"

	"github.com/zero-day-ai/wintermute/internal/types"
)

// ClientConfig contains configuration for the completion client. Values
// here become the per-request defaults; requests may override model,
// temperature, and max tokens individually.
type ClientConfig struct {
	// Style selects the call shape: chat, completion, or local.
	Style Style `mapstructure:"style" yaml:"style" validate:"required,oneof=chat completion local"`

	// Model is the default model identifier.
	Model string `mapstructure:"model" yaml:"model" validate:"required"`

	// APIKey authenticates against remote endpoints. Unused for local.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`

	// BaseURL overrides the API endpoint, e.g. for OpenAI-compatible
	// gateways. Empty uses the provider default.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// LocalCommand is the inference binary invoked by the local style.
	LocalCommand string `mapstructure:"local_command" yaml:"local_command"`

	// Temperature is the default sampling temperature.
	Temperature float64 `mapstructure:"temperature" yaml:"temperature" validate:"gte=0,lte=2"`

	// MaxTokens is the default completion length bound.
	MaxTokens int `mapstructure:"max_tokens" yaml:"max_tokens" validate:"gt=0"`

	// RetryDelay is the fixed pause between retries of transient
	// failures. Retries continue until the call succeeds or the context
	// is cancelled.
	RetryDelay time.Duration `mapstructure:"retry_delay" yaml:"retry_delay"`
}

// Validate performs validation on the ClientConfig beyond struct tags.
func (c *ClientConfig) Validate() error {
	if !c.Style.IsValid() {
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			"llm style must be one of: chat, completion, local")
	}
	if c.Model == "" {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "llm model cannot be empty")
	}
	if c.Style == StyleLocal && c.LocalCommand == "" {
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			"local style requires local_command")
	}
	if c.Style != StyleLocal && c.APIKey == "" && os.Getenv("OPENAI_API_KEY") == "" {
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			"remote styles require api_key (or OPENAI_API_KEY environment variable)")
	}
	return nil
}

// DefaultClientConfig returns the default completion client configuration.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Style:       StyleChat,
		Model:       "gpt-3.5-turbo",
		Temperature: 0.0,
		MaxTokens:   100,
		RetryDelay:  10 * time.Second,
	}
}

// withDefaults fills zero-valued request fields from the client config.
func (c ClientConfig) withDefaults(req CompletionRequest) CompletionRequest {
	if req.Model == "" {
		req.Model = c.Model
	}
	if req.Temperature == 0 {
		req.Temperature = c.Temperature
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = c.MaxTokens
	}
	return req
}
