package agent

import "github.com/zero-day-ai/wintermute/internal/types"

// Agent error codes.
const (
	// ErrCodePlaybookLoadFailed indicates a playbook file could not be
	// read or parsed.
	ErrCodePlaybookLoadFailed types.ErrorCode = "PLAYBOOK_LOAD_FAILED"
)
