package store

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brca-pedigree-sim/internal/domain"
)

// countingStore counts the Get calls reaching the wrapped store.
type countingStore struct {
	Store
	gets int
}

func (c *countingStore) Get(ctx context.Context, id uuid.UUID) (*Run, error) {
	c.gets++
	return c.Store.Get(ctx, id)
}

func newCountingCache(t *testing.T, size int) (*CachedStore, *countingStore) {
	t.Helper()
	backend := &countingStore{Store: createTestStore(t)}
	cached, err := NewCachedStore(backend, size, newTestLogger())
	require.NoError(t, err)
	return cached, backend
}

func TestCachedStore_ReadThrough(t *testing.T) {
	cached, backend := newCountingCache(t, 4)
	defer cached.Close()
	ctx := context.Background()

	run := sampleRun(t, 1)
	require.NoError(t, backend.Store.Save(ctx, run))

	first, err := cached.Get(ctx, run.ID)
	require.NoError(t, err)
	second, err := cached.Get(ctx, run.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, backend.gets)
	assert.Same(t, first, second)
	assert.Equal(t, 1, cached.Len())
}

func TestCachedStore_SaveCaches(t *testing.T) {
	cached, backend := newCountingCache(t, 4)
	defer cached.Close()
	ctx := context.Background()
	run := sampleRun(t, 2)

	require.NoError(t, cached.Save(ctx, run))
	got, err := cached.Get(ctx, run.ID)

	require.NoError(t, err)
	assert.Same(t, run, got)
	assert.Zero(t, backend.gets)
}

func TestCachedStore_Eviction(t *testing.T) {
	cached, backend := newCountingCache(t, 1)
	defer cached.Close()
	ctx := context.Background()
	a, b := sampleRun(t, 3), sampleRun(t, 4)
	require.NoError(t, cached.Save(ctx, a))
	require.NoError(t, cached.Save(ctx, b))

	_, err := cached.Get(ctx, a.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, backend.gets, "a was evicted by b")
}

func TestCachedStore_DeleteInvalidates(t *testing.T) {
	cached, _ := newCountingCache(t, 4)
	defer cached.Close()
	ctx := context.Background()
	run := sampleRun(t, 5)
	require.NoError(t, cached.Save(ctx, run))

	require.NoError(t, cached.Delete(ctx, run.ID))
	_, err := cached.Get(ctx, run.ID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, cached.Len())
}

func TestCachedStore_ImportPurges(t *testing.T) {
	cached, _ := newCountingCache(t, 4)
	defer cached.Close()
	ctx := context.Background()
	require.NoError(t, cached.Save(ctx, sampleRun(t, 6)))

	var buf bytes.Buffer
	require.NoError(t, cached.ExportJSON(ctx, &buf))
	imported, skipped, err := cached.ImportJSON(ctx, &buf)

	require.NoError(t, err)
	assert.Zero(t, imported)
	assert.Equal(t, 1, skipped)
	assert.Zero(t, cached.Len())
}
