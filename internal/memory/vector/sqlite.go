package vector

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/zero-day-ai/wintermute/internal/types"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is a persistent vector store backed by SQLite. Records are
// keyed by (namespace, id); similarity search is brute-force cosine over
// the namespace, scored across CPU cores for larger namespaces.
type SQLiteStore struct {
	mu        sync.RWMutex
	db        *sql.DB
	dims      int
	tableName string // quoted identifier, safe to interpolate
	closed    bool
}

// SQLiteConfig holds configuration for SQLiteStore.
type SQLiteConfig struct {
	DBPath    string // Path to SQLite database file
	TableName string // Name for the vectors table (default: "vectors")
	Dims      int    // Embedding dimensions
}

// NewSQLiteStore opens (creating if necessary) a persistent vector store.
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.DBPath == "" {
		return nil, types.NewError(ErrCodeInvalidConfig, "database path cannot be empty")
	}
	if cfg.Dims <= 0 {
		return nil, types.NewError(ErrCodeInvalidConfig,
			fmt.Sprintf("dimensions must be positive, got %d", cfg.Dims))
	}
	if cfg.TableName == "" {
		cfg.TableName = "vectors"
	}

	// WAL mode so cooperative readers don't block the writer
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000", cfg.DBPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, types.WrapError(ErrCodeVectorStoreFailed, "failed to open database", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, types.WrapError(ErrCodeVectorStoreFailed, "failed to ping database", err)
	}

	store := &SQLiteStore{
		db:        db,
		dims:      cfg.Dims,
		tableName: quoteIdent(cfg.TableName),
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, types.WrapError(ErrCodeVectorStoreFailed, "failed to initialize schema", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	createTableSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			namespace TEXT NOT NULL,
			id TEXT NOT NULL,
			content TEXT NOT NULL,
			embedding BLOB NOT NULL,
			metadata TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (namespace, id)
		)
	`, s.tableName)

	if _, err := s.db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create vectors table: %w", err)
	}
	return nil
}

// Upsert adds a record to the namespace, replacing on ID collision.
func (s *SQLiteStore) Upsert(ctx context.Context, namespace string, record Record) error {
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

	var metadataJSON []byte
	if record.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(record.Metadata)
		if err != nil {
			return types.WrapError(ErrCodeVectorStoreFailed, "failed to serialize metadata", err)
		}
	}

	insertSQL := fmt.Sprintf(`
		INSERT OR REPLACE INTO %s (namespace, id, content, embedding, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.tableName)

	_, err := s.db.ExecContext(ctx, insertSQL,
		namespace,
		record.ID,
		record.Content,
		serializeEmbedding(record.Embedding),
		metadataJSON,
		record.CreatedAt,
	)
	if err != nil {
		return types.WrapError(ErrCodeVectorStoreFailed, "failed to insert record", err)
	}
	return nil
}

// Query finds the most similar records in the namespace.
func (s *SQLiteStore) Query(ctx context.Context, namespace string, query Query) ([]Result, error) {
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

	selectSQL := fmt.Sprintf(
		"SELECT id, content, embedding, metadata, created_at FROM %s WHERE namespace = ?", s.tableName)
	rows, err := s.db.QueryContext(ctx, selectSQL, namespace)
	if err != nil {
		return nil, NewQueryError("failed to query vectors", err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var record Record
		var embeddingBytes []byte
		var metadataJSON []byte

		if err := rows.Scan(&record.ID, &record.Content, &embeddingBytes, &metadataJSON, &record.CreatedAt); err != nil {
			return nil, NewQueryError("failed to scan record", err)
		}

		record.Embedding, err = deserializeEmbedding(embeddingBytes, s.dims)
		if err != nil {
			return nil, NewQueryError("failed to deserialize embedding", err)
		}

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &record.Metadata); err != nil {
				return nil, NewQueryError("failed to deserialize metadata", err)
			}
		}

		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, NewQueryError("error iterating rows", err)
	}

	results, err := scoreRecords(ctx, records, query.Embedding)
	if err != nil {
		return nil, NewQueryError("failed to score records", err)
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
func (s *SQLiteStore) Count(ctx context.Context, namespace string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, NewStoreUnavailableError("vector store is closed")
	}

	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE namespace = ?", s.tableName)

	var count int
	if err := s.db.QueryRowContext(ctx, countSQL, namespace).Scan(&count); err != nil {
		return 0, NewQueryError("failed to count records", err)
	}
	return count, nil
}

// Close releases all resources held by the store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// scoreRecords computes similarity scores, sharding the work across CPU
// cores. Cancelling the context abandons unfinished shards.
func scoreRecords(ctx context.Context, records []Record, embedding []float64) ([]Result, error) {
	if len(records) == 0 {
		return []Result{}, nil
	}

	workers := runtime.NumCPU()
	if workers > len(records) {
		workers = len(records)
	}
	chunk := (len(records) + workers - 1) / workers

	results := make([]Result, len(records))
	g, ctx := errgroup.WithContext(ctx)

	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, len(records))
		if start >= end {
			break
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				results[i] = Result{
					Record: records[i],
					Score:  CosineSimilarity(embedding, records[i].Embedding),
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// quoteIdent wraps a table name in double quotes so configured names
// like "wintermute-results" stay valid SQL identifiers.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// serializeEmbedding packs a float64 slice into little-endian bytes,
// 8 bytes per component.
func serializeEmbedding(embedding []float64) []byte {
	buf := make([]byte, len(embedding)*8)
	for i, val := range embedding {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(val))
	}
	return buf
}

// deserializeEmbedding unpacks little-endian bytes back into a float64
// slice of the expected dimensionality.
func deserializeEmbedding(buf []byte, dims int) ([]float64, error) {
	if len(buf) != dims*8 {
		return nil, fmt.Errorf("invalid embedding bytes length: expected %d, got %d", dims*8, len(buf))
	}

	embedding := make([]float64, dims)
	for i := range embedding {
		embedding[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	return embedding, nil
}
