package task

import (
	"context"
	"sync"
)

// ListStore is the in-memory Store implementation: a mutex-guarded slice
// acting as a deque plus a monotonic ID counter. It is the default backend
// for single-process runs.
type ListStore struct {
	mu     sync.Mutex
	tasks  []Task
	nextID int
}

// NewListStore creates an empty in-memory task store. The first allocated
// task ID is 1.
func NewListStore() *ListStore {
	return &ListStore{nextID: 1}
}

// Append adds a task to the tail of the queue.
func (s *ListStore) Append(ctx context.Context, t Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = append(s.tasks, t)
	return nil
}

// PopFront removes and returns the head of the queue.
func (s *ListStore) PopFront(ctx context.Context) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.tasks) == 0 {
		return Task{}, NewEmptyStoreError()
	}

	head := s.tasks[0]
	s.tasks = s.tasks[1:]
	return head, nil
}

// Replace atomically substitutes the queue contents with the supplied
// tasks, preserving their order. The slice is copied so later caller
// mutations cannot alias the store.
func (s *ListStore) Replace(ctx context.Context, tasks []Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = make([]Task, len(tasks))
	copy(s.tasks, tasks)
	return nil
}

// NextTaskID allocates and returns the next task ID, starting at 1.
func (s *ListStore) NextTaskID(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	return id, nil
}

// IsEmpty reports whether the queue holds no tasks.
func (s *ListStore) IsEmpty(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.tasks) == 0, nil
}

// TaskNames returns the names of all queued tasks in current order.
func (s *ListStore) TaskNames(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, len(s.tasks))
	for i, t := range s.tasks {
		names[i] = t.Name
	}
	return names, nil
}

// Close is a no-op for the in-memory store.
func (s *ListStore) Close() error {
	return nil
}
