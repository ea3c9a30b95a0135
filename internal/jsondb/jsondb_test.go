package jsondb

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir(), NewFileLockManager(), zap.NewNop().Sugar())
	require.NoError(t, err)
	return store
}

func TestReadMissingFileYieldsEmptyDocument(t *testing.T) {
	store := newTestStore(t)
	assert.Empty(t, store.Read("absent.json"))
}

func TestReadCorruptFileYieldsEmptyDocument(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir, NewFileLockManager(), zap.NewNop().Sugar())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644))
	assert.Empty(t, store.Read("broken.json"))
}

func TestSetGetDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "users.json", "u1", map[string]string{"name": "Asha"}))

	var out map[string]string
	require.NoError(t, store.Get("users.json", "u1", &out))
	assert.Equal(t, "Asha", out["name"])
	assert.True(t, store.Has("users.json", "u1"))

	require.NoError(t, store.Delete(ctx, "users.json", "u1"))
	assert.ErrorIs(t, store.Get("users.json", "u1", &out), ErrKeyNotFound)
}

func TestWriteIsPrettyPrinted(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir, NewFileLockManager(), zap.NewNop().Sugar())
	require.NoError(t, err)

	require.NoError(t, store.Set(context.Background(), "products.json", "p1", map[string]int{"stock": 3}))

	data, err := os.ReadFile(filepath.Join(dir, "products.json"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "\n  \""))
	assert.True(t, strings.HasSuffix(string(data), "\n"))
}

func TestUpdateSerializesConcurrentMutations(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	const goroutines = 8
	const iterations = 25

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				err := store.Update(ctx, "counter.json", func(doc Document) (Document, error) {
					n := 0
					if raw, ok := doc["n"]; ok {
						if err := json.Unmarshal(raw, &n); err != nil {
							return nil, err
						}
					}
					raw, err := json.Marshal(n + 1)
					if err != nil {
						return nil, err
					}
					doc["n"] = raw
					return doc, nil
				})
				if err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	var n int
	require.NoError(t, store.Get("counter.json", "n", &n))
	assert.Equal(t, goroutines*iterations, n)
}

func TestAcquireTimesOutOnHeldLock(t *testing.T) {
	locks := &FileLockManager{
		locks:   make(map[string]bool),
		poll:    2 * time.Millisecond,
		timeout: 30 * time.Millisecond,
	}
	ctx := context.Background()

	require.NoError(t, locks.Acquire(ctx, "orders.json"))

	err := locks.Acquire(ctx, "orders.json")
	require.ErrorIs(t, err, ErrLockTimeout)
	assert.Contains(t, err.Error(), "orders.json")

	locks.Release("orders.json")
	require.NoError(t, locks.Acquire(ctx, "orders.json"))
}

func TestAcquireHonorsContextCancellation(t *testing.T) {
	locks := NewFileLockManager()
	require.NoError(t, locks.Acquire(context.Background(), "users.json"))
	defer locks.Release("users.json")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, locks.Acquire(ctx, "users.json"), context.DeadlineExceeded)
}

func TestLocksAreIndependentPerFile(t *testing.T) {
	locks := NewFileLockManager()
	ctx := context.Background()

	require.NoError(t, locks.Acquire(ctx, "orders.json"))
	require.NoError(t, locks.Acquire(ctx, "users.json"))
	locks.Release("orders.json")
	locks.Release("users.json")
}
