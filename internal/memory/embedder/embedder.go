// Package embedder turns text into the fixed-dimension vectors semantic
// memory is indexed by.
package embedder

import (
	"context"

	"github.com/zero-day-ai/wintermute/internal/types"
)

// Embedder generates embedding vectors from text content.
// Implementations must be thread-safe for concurrent access.
type Embedder interface {
	// Embed generates an embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float64, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)

	// Dimensions returns the dimensionality of embedding vectors.
	Dimensions() int

	// Model returns the name of the embedding model being used.
	Model() string
}

// Config holds configuration for embedding providers.
type Config struct {
	// Provider selects the embedder implementation: "openai" or "mock".
	Provider string `mapstructure:"provider" yaml:"provider" validate:"required,oneof=openai mock"`

	// Model is the embedding model to use.
	Model string `mapstructure:"model" yaml:"model"`

	// APIKey authenticates against the embedding API. Falls back to the
	// OPENAI_API_KEY environment variable.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`

	// BaseURL overrides the embedding API endpoint.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// Dimensions is the expected vector dimensionality.
	Dimensions int `mapstructure:"dimensions" yaml:"dimensions" validate:"gt=0"`

	// Timeout is the request timeout in seconds.
	Timeout int `mapstructure:"timeout" yaml:"timeout"`
}

// Validate checks if the Config is valid.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return types.NewError(ErrCodeInvalidConfig, "embedder provider cannot be empty")
	}
	if c.Provider != "openai" && c.Provider != "mock" {
		return types.NewError(ErrCodeInvalidConfig,
			"embedder provider must be 'openai' or 'mock', got '"+c.Provider+"'")
	}
	if c.Dimensions <= 0 {
		return types.NewError(ErrCodeInvalidConfig, "embedder dimensions must be positive")
	}
	if c.Timeout < 0 {
		return types.NewError(ErrCodeInvalidConfig, "embedder timeout must be non-negative")
	}
	return nil
}

// DefaultConfig returns the default embedder configuration.
func DefaultConfig() Config {
	return Config{
		Provider:   "openai",
		Model:      "text-embedding-ada-002",
		BaseURL:    "https://api.openai.com/v1",
		Dimensions: 1536,
		Timeout:    30,
	}
}
