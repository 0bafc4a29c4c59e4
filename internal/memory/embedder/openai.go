package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/zero-day-ai/wintermute/internal/types"
)

// OpenAIEmbedder reaches an OpenAI-compatible embeddings endpoint.
// Newlines are replaced with spaces before embedding; ada-era models
// score noticeably worse with raw newlines in the input.
type OpenAIEmbedder struct {
	baseURL string
	apiKey  string
	model   string
	dims    int
	client  *http.Client
}

type embeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewOpenAIEmbedder creates an embedder using an OpenAI-compatible API.
func NewOpenAIEmbedder(cfg Config) (*OpenAIEmbedder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, types.NewError(ErrCodeInvalidConfig,
			"openai embedder requires api_key (or OPENAI_API_KEY environment variable)")
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := cfg.Model
	if model == "" {
		model = "text-embedding-ada-002"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30
	}

	return &OpenAIEmbedder{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		dims:    cfg.Dimensions,
		client:  &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}, nil
}

// Embed generates an embedding vector for a single text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	embeddings, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one call.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	cleaned := make([]string, len(texts))
	for i, text := range texts {
		cleaned[i] = strings.ReplaceAll(text, "\n", " ")
	}

	body, err := json.Marshal(embeddingRequest{Input: cleaned, Model: e.model})
	if err != nil {
		return nil, NewBatchError("failed to encode embedding request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, NewBatchError("failed to build embedding request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, NewBatchError("embedding request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(raw))

		var decoded embeddingResponse
		if json.Unmarshal(raw, &decoded) == nil && decoded.Error != nil {
			msg = decoded.Error.Message
		}
		return nil, NewBatchError(
			fmt.Sprintf("embedding API status %d: %s", resp.StatusCode, msg), nil)
	}

	var decoded embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, NewBatchError("failed to decode embedding response", err)
	}
	if len(decoded.Data) != len(texts) {
		return nil, NewBatchError(
			fmt.Sprintf("embedding API returned %d vectors for %d inputs", len(decoded.Data), len(texts)), nil)
	}

	// Vectors are matched to inputs by index, not response position.
	sort.Slice(decoded.Data, func(i, j int) bool {
		return decoded.Data[i].Index < decoded.Data[j].Index
	})

	embeddings := make([][]float64, len(decoded.Data))
	for i, item := range decoded.Data {
		if len(item.Embedding) != e.dims {
			return nil, NewBatchError(
				fmt.Sprintf("embedding %d has %d dimensions, expected %d", i, len(item.Embedding), e.dims), nil)
		}
		embeddings[i] = item.Embedding
	}
	return embeddings, nil
}

// Dimensions returns the dimensionality of embedding vectors.
func (e *OpenAIEmbedder) Dimensions() int {
	return e.dims
}

// Model returns the embedding model name.
func (e *OpenAIEmbedder) Model() string {
	return e.model
}
