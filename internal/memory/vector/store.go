// Package vector provides the nearest-neighbor stores behind semantic
// memory. Records live in namespaces so independent objectives sharing a
// store never see each other's results.
package vector

import "context"

// Store provides vector-based semantic search.
// Implementations must be thread-safe for concurrent access.
type Store interface {
	// Upsert adds a record to the namespace, replacing any record with
	// the same ID.
	Upsert(ctx context.Context, namespace string, record Record) error

	// Query finds the records most similar to the query embedding,
	// sorted descending by cosine similarity.
	Query(ctx context.Context, namespace string, query Query) ([]Result, error)

	// Count returns the number of records in the namespace.
	Count(ctx context.Context, namespace string) (int, error)

	// Close releases all resources held by the store.
	Close() error
}
