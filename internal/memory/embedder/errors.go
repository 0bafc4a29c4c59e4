package embedder

import "github.com/zero-day-ai/wintermute/internal/types"

// Embedder error codes
const (
	ErrCodeEmbeddingFailed      types.ErrorCode = "EMBEDDING_FAILED"
	ErrCodeEmbeddingBatchFailed types.ErrorCode = "EMBEDDING_BATCH_FAILED"
	ErrCodeInvalidConfig        types.ErrorCode = "INVALID_EMBEDDER_CONFIG"
)

// NewEmbeddingError creates an error for a failed embedding call.
func NewEmbeddingError(message string, cause error) *types.AgentError {
	return types.WrapError(ErrCodeEmbeddingFailed, message, cause)
}

// NewBatchError creates an error for a failed batch embedding call.
func NewBatchError(message string, cause error) *types.AgentError {
	return types.WrapError(ErrCodeEmbeddingBatchFailed, message, cause)
}
