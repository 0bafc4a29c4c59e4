package memory

import "github.com/zero-day-ai/wintermute/internal/types"

// Memory error codes
const (
	ErrCodeEmbedFailed types.ErrorCode = "MEMORY_EMBED_FAILED"
	ErrCodeStoreFailed types.ErrorCode = "MEMORY_STORE_FAILED"
	ErrCodeQueryFailed types.ErrorCode = "MEMORY_QUERY_FAILED"
)

// NewEmbedError creates an error for a failed embedding step.
func NewEmbedError(message string, cause error) *types.AgentError {
	return types.WrapError(ErrCodeEmbedFailed, message, cause)
}

// NewStoreError creates an error for a failed memory write.
func NewStoreError(message string, cause error) *types.AgentError {
	return types.WrapError(ErrCodeStoreFailed, message, cause)
}

// NewQueryError creates an error for a failed memory recall.
func NewQueryError(message string, cause error) *types.AgentError {
	return types.WrapError(ErrCodeQueryFailed, message, cause)
}
