package vector

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/zero-day-ai/wintermute/internal/types"
)

// MemoryStore is an in-memory vector store using brute-force cosine
// search. Suitable for development and tests; results are lost when the
// process exits.
type MemoryStore struct {
	mu         sync.RWMutex
	namespaces map[string]map[string]Record
	dims       int
	closed     bool
}

// NewMemoryStore creates an in-memory vector store expecting embeddings
// of the given dimensionality.
func NewMemoryStore(dims int) *MemoryStore {
	return &MemoryStore{
		namespaces: make(map[string]map[string]Record),
		dims:       dims,
	}
}

// Upsert adds a record to the namespace, replacing on ID collision.
func (s *MemoryStore) Upsert(ctx context.Context, namespace string, record Record) error {
	if err := record.Validate(); err != nil {
		return err
	}
	if len(record.Embedding) != s.dims {
		return types.NewError(ErrCodeVectorStoreFailed,
			fmt.Sprintf("embedding dimensions mismatch: expected %d, got %d", s.dims, len(record.Embedding)))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStoreUnavailableError("vector store is closed")
	}

	records, ok := s.namespaces[namespace]
	if !ok {
		records = make(map[string]Record)
		s.namespaces[namespace] = records
	}
	records[record.ID] = record
	return nil
}

// Query finds the most similar records in the namespace.
func (s *MemoryStore) Query(ctx context.Context, namespace string, query Query) ([]Result, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if len(query.Embedding) != s.dims {
		return nil, types.NewError(ErrCodeVectorQueryFailed,
			fmt.Sprintf("query embedding dimensions mismatch: expected %d, got %d", s.dims, len(query.Embedding)))
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStoreUnavailableError("vector store is closed")
	}

	records := s.namespaces[namespace]
	results := make([]Result, 0, len(records))
	for _, record := range records {
		results = append(results, Result{
			Record: record,
			Score:  CosineSimilarity(query.Embedding, record.Embedding),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > query.TopK {
		results = results[:query.TopK]
	}
	return results, nil
}

// Count returns the number of records in the namespace.
func (s *MemoryStore) Count(ctx context.Context, namespace string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, NewStoreUnavailableError("vector store is closed")
	}
	return len(s.namespaces[namespace]), nil
}

// Close releases the store's records.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.namespaces = nil
	return nil
}
