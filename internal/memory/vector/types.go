package vector

import (
	"fmt"
	"math"
	"time"

	"github.com/zero-day-ai/wintermute/internal/types"
)

// Record is a stored vector with its source content and metadata.
type Record struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	Embedding []float64      `json:"embedding"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewRecord creates a Record with the current timestamp.
func NewRecord(id, content string, embedding []float64, metadata map[string]any) Record {
	return Record{
		ID:        id,
		Content:   content,
		Embedding: embedding,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}
}

// Validate ensures the Record has valid fields.
func (r *Record) Validate() error {
	if r.ID == "" {
		return types.NewError(ErrCodeVectorStoreFailed, "record ID cannot be empty")
	}
	if r.Content == "" {
		return types.NewError(ErrCodeVectorStoreFailed, "record content cannot be empty")
	}
	if len(r.Embedding) == 0 {
		return types.NewError(ErrCodeVectorStoreFailed, "record embedding cannot be empty")
	}
	return nil
}

// Query is a nearest-neighbor search request.
type Query struct {
	Embedding []float64 `json:"embedding"`
	TopK      int       `json:"top_k"`
}

// Validate ensures the Query has valid fields.
func (q *Query) Validate() error {
	if len(q.Embedding) == 0 {
		return types.NewError(ErrCodeVectorQueryFailed, "query embedding cannot be empty")
	}
	if q.TopK <= 0 {
		return types.NewError(ErrCodeVectorQueryFailed,
			fmt.Sprintf("query top_k must be greater than 0, got %d", q.TopK))
	}
	return nil
}

// Result pairs a matched record with its similarity score.
type Result struct {
	Record Record  `json:"record"`
	Score  float64 `json:"score"`
}

// CosineSimilarity computes the cosine similarity between two embedding
// vectors: (a · b) / (||a|| * ||b||). Mismatched lengths and zero vectors
// score 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
