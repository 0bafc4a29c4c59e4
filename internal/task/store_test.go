package task

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zero-day-ai/wintermute/internal/types"
)

// runStoreContract exercises the Store contract shared by every
// implementation.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("fifo order", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Append(ctx, Task{ID: 1, Name: "first"}))
		require.NoError(t, s.Append(ctx, Task{ID: 2, Name: "second"}))
		require.NoError(t, s.Append(ctx, Task{ID: 3, Name: "third"}))

		for _, want := range []Task{{ID: 1, Name: "first"}, {ID: 2, Name: "second"}, {ID: 3, Name: "third"}} {
			got, err := s.PopFront(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("interleaved append and pop", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Append(ctx, Task{ID: 1, Name: "a"}))
		require.NoError(t, s.Append(ctx, Task{ID: 2, Name: "b"}))

		got, err := s.PopFront(ctx)
		require.NoError(t, err)
		assert.Equal(t, "a", got.Name)

		require.NoError(t, s.Append(ctx, Task{ID: 3, Name: "c"}))

		got, err = s.PopFront(ctx)
		require.NoError(t, err)
		assert.Equal(t, "b", got.Name)

		got, err = s.PopFront(ctx)
		require.NoError(t, err)
		assert.Equal(t, "c", got.Name)
	})

	t.Run("pop empty fails with store empty code", func(t *testing.T) {
		s := newStore(t)

		_, err := s.PopFront(ctx)
		require.Error(t, err)
		assert.True(t, types.HasCode(err, types.TASK_STORE_EMPTY))
	})

	t.Run("next task id strictly increasing from 1", func(t *testing.T) {
		s := newStore(t)

		prev := 0
		for i := 0; i < 10; i++ {
			id, err := s.NextTaskID(ctx)
			require.NoError(t, err)
			assert.Greater(t, id, prev)
			prev = id
		}
		assert.Equal(t, 10, prev)
	})

	t.Run("replace preserves supplied order", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Append(ctx, Task{ID: 1, Name: "stale"}))

		replacement := []Task{
			{ID: 4, Name: "Confirm hotel"},
			{ID: 2, Name: "Pack bags"},
			{ID: 3, Name: "Book flight"},
		}
		require.NoError(t, s.Replace(ctx, replacement))

		names, err := s.TaskNames(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Confirm hotel", "Pack bags", "Book flight"}, names)

		got, err := s.PopFront(ctx)
		require.NoError(t, err)
		assert.Equal(t, Task{ID: 4, Name: "Confirm hotel"}, got)
	})

	t.Run("replace with empty clears the queue", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Append(ctx, Task{ID: 1, Name: "only"}))
		require.NoError(t, s.Replace(ctx, nil))

		empty, err := s.IsEmpty(ctx)
		require.NoError(t, err)
		assert.True(t, empty)
	})

	t.Run("is empty is idempotent", func(t *testing.T) {
		s := newStore(t)

		for i := 0; i < 3; i++ {
			empty, err := s.IsEmpty(ctx)
			require.NoError(t, err)
			assert.True(t, empty)
		}

		require.NoError(t, s.Append(ctx, Task{ID: 1, Name: "x"}))

		for i := 0; i < 3; i++ {
			empty, err := s.IsEmpty(ctx)
			require.NoError(t, err)
			assert.False(t, empty)
		}
	})

	t.Run("task names reflects queue order", func(t *testing.T) {
		s := newStore(t)

		names, err := s.TaskNames(ctx)
		require.NoError(t, err)
		assert.Empty(t, names)

		require.NoError(t, s.Append(ctx, Task{ID: 1, Name: "one"}))
		require.NoError(t, s.Append(ctx, Task{ID: 2, Name: "two"}))

		names, err = s.TaskNames(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"one", "two"}, names)
	})
}

func TestListStore_Contract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store {
		return NewListStore()
	})
}

func TestSQLiteStore_Contract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store {
		dbPath := filepath.Join(t.TempDir(), "tasks.db")
		store, err := NewSQLiteStore(SQLiteStoreConfig{DBPath: dbPath})
		require.NoError(t, err)
		t.Cleanup(func() { store.Close() })
		return store
	})
}

func TestNewSQLiteStore_InvalidConfig(t *testing.T) {
	_, err := NewSQLiteStore(SQLiteStoreConfig{})
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.TASK_STORE_FAILED))
}

func TestSQLiteStore_DashedTableName(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteStore(SQLiteStoreConfig{
		DBPath:    filepath.Join(t.TempDir(), "tasks.db"),
		TableName: "shared-tasks",
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	id, err := store.NextTaskID(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, Task{ID: id, Name: "quoted"}))

	got, err := store.PopFront(ctx)
	require.NoError(t, err)
	assert.Equal(t, Task{ID: 1, Name: "quoted"}, got)
}

func TestSQLiteStore_SharedQueue(t *testing.T) {
	// Two stores over the same file model two cooperating processes:
	// IDs must never collide and a pop in one is visible to the other.
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "shared.db")

	a, err := NewSQLiteStore(SQLiteStoreConfig{DBPath: dbPath})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	b, err := NewSQLiteStore(SQLiteStoreConfig{DBPath: dbPath})
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })

	seen := make(map[int]bool)
	for i := 0; i < 4; i++ {
		idA, err := a.NextTaskID(ctx)
		require.NoError(t, err)
		idB, err := b.NextTaskID(ctx)
		require.NoError(t, err)

		assert.False(t, seen[idA], "id %d allocated twice", idA)
		assert.False(t, seen[idB], "id %d allocated twice", idB)
		seen[idA] = true
		seen[idB] = true
	}

	require.NoError(t, a.Append(ctx, Task{ID: 1, Name: "shared"}))

	got, err := b.PopFront(ctx)
	require.NoError(t, err)
	assert.Equal(t, "shared", got.Name)

	_, err = a.PopFront(ctx)
	assert.True(t, types.HasCode(err, types.TASK_STORE_EMPTY))
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "persist.db")

	store, err := NewSQLiteStore(SQLiteStoreConfig{DBPath: dbPath})
	require.NoError(t, err)

	id, err := store.NextTaskID(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, Task{ID: id, Name: "survives"}))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(SQLiteStoreConfig{DBPath: dbPath})
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	got, err := reopened.PopFront(ctx)
	require.NoError(t, err)
	assert.Equal(t, Task{ID: 1, Name: "survives"}, got)

	// Counter survives too: next allocation continues the sequence.
	next, err := reopened.NextTaskID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, next)
}

func TestSQLiteStore_ClosedOperations(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "closed.db")
	store, err := NewSQLiteStore(SQLiteStoreConfig{DBPath: dbPath})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Close is idempotent.
	require.NoError(t, store.Close())

	ctx := context.Background()
	err = store.Append(ctx, Task{ID: 1, Name: "late"})
	assert.True(t, types.HasCode(err, types.TASK_STORE_FAILED))

	_, err = store.PopFront(ctx)
	assert.True(t, types.HasCode(err, types.TASK_STORE_FAILED))
}
