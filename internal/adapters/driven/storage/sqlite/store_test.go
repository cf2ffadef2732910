package sqlite

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crboyd/phantom/internal/core/domain"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func testDescriptor(id, container string) domain.StoreDescriptor {
	return domain.StoreDescriptor{
		ID:          id,
		Path:        "/vault/" + container + "/" + id + "-file.txt",
		Name:        "file.txt",
		ContainerID: container,
		Size:        11,
		Hash:        "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262",
		CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 123, time.UTC),
	}
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	store := setupTestStore(t)
	assert.FileExists(t, store.Path())
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.VaultIndex().Insert(ctx, testDescriptor("abcd-4", "c1")))
	require.NoError(t, store.Close())

	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.VaultIndex().Get(ctx, "abcd-4")
	require.NoError(t, err)
	assert.Equal(t, "c1", got.ContainerID)

	seq, err := store.VaultIndex().MaxSequence(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), seq)
}

func TestVaultIndex_InsertGet(t *testing.T) {
	idx := setupTestStore(t).VaultIndex()
	ctx := context.Background()

	desc := testDescriptor("abcd-1", "case")
	require.NoError(t, idx.Insert(ctx, desc))

	got, err := idx.Get(ctx, "abcd-1")
	require.NoError(t, err)
	assert.Equal(t, desc.ID, got.ID)
	assert.Equal(t, desc.Path, got.Path)
	assert.Equal(t, desc.Name, got.Name)
	assert.Equal(t, desc.Size, got.Size)
	assert.Equal(t, desc.Hash, got.Hash)
	assert.True(t, desc.CreatedAt.Equal(got.CreatedAt))
}

func TestVaultIndex_InsertDuplicate(t *testing.T) {
	idx := setupTestStore(t).VaultIndex()
	ctx := context.Background()

	require.NoError(t, idx.Insert(ctx, testDescriptor("abcd-1", "case")))
	assert.ErrorIs(t, idx.Insert(ctx, testDescriptor("abcd-1", "other")), domain.ErrAlreadyExists)
}

func TestVaultIndex_GetMissing(t *testing.T) {
	_, err := setupTestStore(t).VaultIndex().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVaultIndex_ListOrderedBySequence(t *testing.T) {
	idx := setupTestStore(t).VaultIndex()
	ctx := context.Background()

	require.NoError(t, idx.Insert(ctx, testDescriptor("ffff-3", "a")))
	require.NoError(t, idx.Insert(ctx, testDescriptor("eeee-1", "a")))
	require.NoError(t, idx.Insert(ctx, testDescriptor("dddd-2", "b")))

	all, err := idx.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"eeee-1", "dddd-2", "ffff-3"}, []string{all[0].ID, all[1].ID, all[2].ID})

	inA, err := idx.List(ctx, "a")
	require.NoError(t, err)
	require.Len(t, inA, 2)
	assert.Equal(t, "eeee-1", inA[0].ID)

	none, err := idx.List(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestVaultIndex_ConcurrentInsert(t *testing.T) {
	idx := setupTestStore(t).VaultIndex()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			assert.NoError(t, idx.Insert(ctx, testDescriptor(fmt.Sprintf("abcd-%d", n), "c")))
		}(i)
	}
	wg.Wait()

	seq, err := idx.MaxSequence(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(20), seq)
}
