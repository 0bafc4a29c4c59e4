package embedder

import (
	"fmt"

	"github.com/zero-day-ai/wintermute/internal/types"
)

// NewEmbedder creates an embedder based on the provided configuration.
func NewEmbedder(cfg Config) (Embedder, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIEmbedder(cfg)

	case "mock":
		mock := NewMockEmbedder()
		if cfg.Dimensions > 0 {
			mock.SetDimensions(cfg.Dimensions)
		}
		return mock, nil

	default:
		return nil, types.NewError(ErrCodeInvalidConfig,
			fmt.Sprintf("unknown embedder provider '%s' - must be 'openai' or 'mock'", cfg.Provider))
	}
}
