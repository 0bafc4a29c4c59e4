package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"math/rand"
	"sync"
)

// MockEmbedder is a deterministic Embedder for testing. Vectors are
// derived from a SHA256 hash of the text, so the same text always embeds
// to the same unit vector.
type MockEmbedder struct {
	mu         sync.RWMutex
	dimensions int
	texts      []string
	embedError error
}

// NewMockEmbedder creates a mock embedder producing 1536-dimension
// vectors.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{dimensions: 1536}
}

// Embed generates a deterministic embedding for a single text.
func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.texts = append(m.texts, text)
	if m.embedError != nil {
		return nil, m.embedError
	}
	return m.generate(text), nil
}

// EmbedBatch generates deterministic embeddings for multiple texts.
func (m *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.texts = append(m.texts, texts...)
	if m.embedError != nil {
		return nil, m.embedError
	}

	embeddings := make([][]float64, len(texts))
	for i, text := range texts {
		embeddings[i] = m.generate(text)
	}
	return embeddings, nil
}

// generate hashes the text into a seed and draws a normalized vector
// from it.
func (m *MockEmbedder) generate(text string) []float64 {
	hash := sha256.Sum256([]byte(text))
	seed := int64(binary.BigEndian.Uint64(hash[:8]))
	rng := rand.New(rand.NewSource(seed))

	embedding := make([]float64, m.dimensions)
	for i := range embedding {
		embedding[i] = (rng.Float64() * 2) - 1
	}
	return normalize(embedding)
}

// Dimensions returns the dimensionality of embedding vectors.
func (m *MockEmbedder) Dimensions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dimensions
}

// Model returns the mock model name.
func (m *MockEmbedder) Model() string {
	return "mock-embedder"
}

// SetDimensions changes the embedding dimensionality for testing.
func (m *MockEmbedder) SetDimensions(dims int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dimensions = dims
}

// SetEmbedError configures both Embed and EmbedBatch to fail.
func (m *MockEmbedder) SetEmbedError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedError = err
}

// EmbeddedTexts returns every text passed to Embed or EmbedBatch.
func (m *MockEmbedder) EmbeddedTexts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	texts := make([]string, len(m.texts))
	copy(texts, m.texts)
	return texts
}

// Reset clears recorded texts and any configured error.
func (m *MockEmbedder) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts = nil
	m.embedError = nil
}

// normalize scales a vector to unit length.
func normalize(v []float64) []float64 {
	var sum float64
	for _, val := range v {
		sum += val * val
	}
	if sum == 0 {
		return v
	}

	norm := math.Sqrt(sum)
	normalized := make([]float64, len(v))
	for i, val := range v {
		normalized[i] = val / norm
	}
	return normalized
}
