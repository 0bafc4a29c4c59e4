package task

import (
	"context"

	"github.com/zero-day-ai/wintermute/internal/types"
)

// Store holds the ordered queue of pending tasks for a run. Ordering is
// FIFO except when the whole queue is replaced by prioritization.
// Implementations must be safe for concurrent use: the in-memory store may
// be shared across goroutines, and the SQLite store may be shared across
// cooperating processes.
type Store interface {
	// Append adds a task to the tail of the queue.
	Append(ctx context.Context, t Task) error

	// PopFront removes and returns the head of the queue. It fails with
	// code TASK_STORE_EMPTY when the queue is empty.
	PopFront(ctx context.Context) (Task, error)

	// Replace atomically substitutes the entire queue contents,
	// preserving the supplied order.
	Replace(ctx context.Context, tasks []Task) error

	// NextTaskID allocates and returns the next task ID. IDs start at 1
	// and are strictly increasing for the lifetime of the store.
	NextTaskID(ctx context.Context) (int, error)

	// IsEmpty reports whether the queue holds no tasks.
	IsEmpty(ctx context.Context) (bool, error)

	// TaskNames returns the names of all queued tasks in current order.
	TaskNames(ctx context.Context) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}

// NewEmptyStoreError returns the error produced by popping an empty store.
func NewEmptyStoreError() *types.AgentError {
	return types.NewError(types.TASK_STORE_EMPTY, "task store is empty")
}
