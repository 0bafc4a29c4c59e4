// Package task defines the pending-work queue for an agent run: the Task
// model, the Store contract, and its in-memory and SQLite-backed
// implementations.
package task

// Task is a unit of pending work. IDs are allocated by the owning Store,
// are strictly increasing from 1, and are never reused within a store's
// lifetime.
type Task struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
