package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/zero-day-ai/wintermute/internal/types"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is a Store backed by a SQLite database file. It exists for
// cooperative runs where several agent processes share one queue: every
// operation is a single atomic statement or transaction, so concurrent
// processes observe the same FIFO and ID-allocation contracts as the
// in-memory store.
type SQLiteStore struct {
	mu           sync.Mutex
	db           *sql.DB
	tableName    string // quoted identifier, safe to interpolate
	counterTable string
	closed       bool
}

// SQLiteStoreConfig holds configuration for SQLiteStore.
type SQLiteStoreConfig struct {
	DBPath    string // Path to SQLite database file
	TableName string // Name for the tasks table (default: "tasks")
}

// NewSQLiteStore opens (creating if necessary) a shared task queue in the
// given SQLite database. WAL mode keeps concurrent readers from blocking
// the single writer.
func NewSQLiteStore(cfg SQLiteStoreConfig) (*SQLiteStore, error) {
	if cfg.DBPath == "" {
		return nil, types.NewError(types.TASK_STORE_FAILED, "database path cannot be empty")
	}
	if cfg.TableName == "" {
		cfg.TableName = "tasks"
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000", cfg.DBPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, types.WrapError(types.TASK_STORE_FAILED, "failed to open database", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, types.WrapError(types.TASK_STORE_FAILED, "failed to ping database", err)
	}

	store := &SQLiteStore{
		db:           db,
		tableName:    quoteIdent(cfg.TableName),
		counterTable: quoteIdent(cfg.TableName + "_counter"),
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, types.WrapError(types.TASK_STORE_FAILED, "failed to initialize schema", err)
	}

	return store, nil
}

// initSchema creates the queue table and the ID counter row.
func (s *SQLiteStore) initSchema() error {
	createTableSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			position INTEGER PRIMARY KEY AUTOINCREMENT,
			task_id INTEGER NOT NULL,
			name TEXT NOT NULL
		)
	`, s.tableName)

	if _, err := s.db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create tasks table: %w", err)
	}

	createCounterSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			next_id INTEGER NOT NULL
		)
	`, s.counterTable)

	if _, err := s.db.Exec(createCounterSQL); err != nil {
		return fmt.Errorf("failed to create counter table: %w", err)
	}

	seedCounterSQL := fmt.Sprintf(`
		INSERT OR IGNORE INTO %s (id, next_id) VALUES (1, 1)
	`, s.counterTable)

	if _, err := s.db.Exec(seedCounterSQL); err != nil {
		return fmt.Errorf("failed to seed counter: %w", err)
	}

	return nil
}

// Append adds a task to the tail of the queue.
func (s *SQLiteStore) Append(ctx context.Context, t Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.NewError(types.TASK_STORE_FAILED, "task store is closed")
	}

	query := fmt.Sprintf("INSERT INTO %s (task_id, name) VALUES (?, ?)", s.tableName)
	if _, err := s.db.ExecContext(ctx, query, t.ID, t.Name); err != nil {
		return types.WrapError(types.TASK_STORE_FAILED, "failed to append task", err)
	}

	return nil
}

// PopFront removes and returns the head of the queue. The delete-returning
// statement makes the dequeue atomic across cooperating processes.
func (s *SQLiteStore) PopFront(ctx context.Context) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Task{}, types.NewError(types.TASK_STORE_FAILED, "task store is closed")
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE position = (SELECT MIN(position) FROM %s)
		RETURNING task_id, name
	`, s.tableName, s.tableName)

	var t Task
	err := s.db.QueryRowContext(ctx, query).Scan(&t.ID, &t.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, NewEmptyStoreError()
	}
	if err != nil {
		return Task{}, types.WrapError(types.TASK_STORE_FAILED, "failed to pop task", err)
	}

	return t, nil
}

// Replace atomically substitutes the queue contents inside a transaction.
func (s *SQLiteStore) Replace(ctx context.Context, tasks []Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.NewError(types.TASK_STORE_FAILED, "task store is closed")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.WrapError(types.TASK_STORE_FAILED, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	clearSQL := fmt.Sprintf("DELETE FROM %s", s.tableName)
	if _, err := tx.ExecContext(ctx, clearSQL); err != nil {
		return types.WrapError(types.TASK_STORE_FAILED, "failed to clear queue", err)
	}

	insertSQL := fmt.Sprintf("INSERT INTO %s (task_id, name) VALUES (?, ?)", s.tableName)
	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return types.WrapError(types.TASK_STORE_FAILED, "failed to prepare insert", err)
	}
	defer stmt.Close()

	for _, t := range tasks {
		if _, err := stmt.ExecContext(ctx, t.ID, t.Name); err != nil {
			return types.WrapError(types.TASK_STORE_FAILED, "failed to insert task", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return types.WrapError(types.TASK_STORE_FAILED, "failed to commit transaction", err)
	}

	return nil
}

// NextTaskID allocates the next task ID. The update-returning statement is
// atomic, so two cooperating processes can never be handed the same ID.
func (s *SQLiteStore) NextTaskID(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, types.NewError(types.TASK_STORE_FAILED, "task store is closed")
	}

	query := fmt.Sprintf(`
		UPDATE %s SET next_id = next_id + 1 WHERE id = 1
		RETURNING next_id - 1
	`, s.counterTable)

	var id int
	if err := s.db.QueryRowContext(ctx, query).Scan(&id); err != nil {
		return 0, types.WrapError(types.TASK_STORE_FAILED, "failed to allocate task id", err)
	}

	return id, nil
}

// IsEmpty reports whether the queue holds no tasks.
func (s *SQLiteStore) IsEmpty(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, types.NewError(types.TASK_STORE_FAILED, "task store is closed")
	}

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.tableName)
	var count int
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return false, types.WrapError(types.TASK_STORE_FAILED, "failed to count tasks", err)
	}

	return count == 0, nil
}

// TaskNames returns the names of all queued tasks in current order.
func (s *SQLiteStore) TaskNames(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, types.NewError(types.TASK_STORE_FAILED, "task store is closed")
	}

	query := fmt.Sprintf("SELECT name FROM %s ORDER BY position", s.tableName)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, types.WrapError(types.TASK_STORE_FAILED, "failed to list tasks", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, types.WrapError(types.TASK_STORE_FAILED, "failed to scan task", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, types.WrapError(types.TASK_STORE_FAILED, "error iterating tasks", err)
	}

	return names, nil
}

// quoteIdent wraps a table name in double quotes so configured names
// like "shared-tasks" stay valid SQL identifiers.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Close releases the underlying database handle.
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
