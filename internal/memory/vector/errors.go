package vector

import "github.com/zero-day-ai/wintermute/internal/types"

// Vector store error codes
const (
	ErrCodeVectorStoreUnavailable types.ErrorCode = "VECTOR_STORE_UNAVAILABLE"
	ErrCodeVectorStoreFailed      types.ErrorCode = "VECTOR_STORE_FAILED"
	ErrCodeVectorQueryFailed      types.ErrorCode = "VECTOR_QUERY_FAILED"
	ErrCodeInvalidConfig          types.ErrorCode = "INVALID_VECTOR_CONFIG"
)

// NewStoreUnavailableError creates an error for a closed or unreachable store.
func NewStoreUnavailableError(message string) *types.AgentError {
	return types.NewError(ErrCodeVectorStoreUnavailable, message)
}

// NewStoreError creates an error for a failed store operation.
func NewStoreError(message string, cause error) *types.AgentError {
	return types.WrapError(ErrCodeVectorStoreFailed, message, cause)
}

// NewQueryError creates an error for a failed similarity query.
func NewQueryError(message string, cause error) *types.AgentError {
	return types.WrapError(ErrCodeVectorQueryFailed, message, cause)
}
