// Package memory provides the semantic memory the agent accumulates
// results in: every executed task's result is embedded and written to a
// vector store, and later tasks recall the most similar past work for
// context. Records are partitioned by an objective-derived namespace.
package memory

import (
	"context"
	"fmt"

	"github.com/zero-day-ai/wintermute/internal/memory/embedder"
	"github.com/zero-day-ai/wintermute/internal/memory/vector"
)

// SemanticMemory combines an Embedder and a vector Store under one
// namespace.
type SemanticMemory struct {
	embedder  embedder.Embedder
	store     vector.Store
	namespace string
}

// NewSemanticMemory creates a semantic memory scoped to the namespace.
func NewSemanticMemory(emb embedder.Embedder, store vector.Store, namespace string) *SemanticMemory {
	return &SemanticMemory{
		embedder:  emb,
		store:     store,
		namespace: namespace,
	}
}

// Namespace returns the partition key this memory writes under.
func (m *SemanticMemory) Namespace() string {
	return m.namespace
}

// PersistResult embeds a task's result text and stores it under the id
// "result_<taskID>" with the task name and result as metadata. Results
// are written once per executed task and never updated.
func (m *SemanticMemory) PersistResult(ctx context.Context, taskID int, taskName, result string) error {
	embedding, err := m.embedder.Embed(ctx, result)
	if err != nil {
		return NewEmbedError("failed to embed task result", err)
	}

	record := vector.NewRecord(
		fmt.Sprintf("result_%d", taskID),
		result,
		embedding,
		map[string]any{"task": taskName, "result": result},
	)

	if err := m.store.Upsert(ctx, m.namespace, record); err != nil {
		return NewStoreError("failed to store task result", err)
	}
	return nil
}

// RecallRelated embeds the query and returns the task names of the topK
// most similar stored results, best first. Records without a task name
// in their metadata are skipped.
func (m *SemanticMemory) RecallRelated(ctx context.Context, query string, topK int) ([]string, error) {
	embedding, err := m.embedder.Embed(ctx, query)
	if err != nil {
		return nil, NewEmbedError("failed to embed recall query", err)
	}

	results, err := m.store.Query(ctx, m.namespace, vector.Query{Embedding: embedding, TopK: topK})
	if err != nil {
		return nil, NewQueryError("failed to query stored results", err)
	}

	tasks := make([]string, 0, len(results))
	for _, result := range results {
		if task, ok := result.Record.Metadata["task"].(string); ok {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

// Count returns the number of results stored in this namespace.
func (m *SemanticMemory) Count(ctx context.Context) (int, error) {
	count, err := m.store.Count(ctx, m.namespace)
	if err != nil {
		return 0, NewQueryError("failed to count stored results", err)
	}
	return count, nil
}
