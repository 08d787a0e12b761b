package store

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
)

// DefaultCacheSize is used when NewCachedStore is given a size below one.
const DefaultCacheSize = 128

// CachedStore is a read-through LRU cache in front of another Store. Cached
// runs are shared between callers and must not be modified.
type CachedStore struct {
	next   Store
	cache  *lru.Cache[uuid.UUID, *Run]
	logger *logrus.Logger
}

// NewCachedStore wraps next with an LRU cache holding up to size runs.
func NewCachedStore(next Store, size int, logger *logrus.Logger) (*CachedStore, error) {
	if size < 1 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[uuid.UUID, *Run](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create run cache: %w", err)
	}
	return &CachedStore{next: next, cache: cache, logger: logger}, nil
}

// Save writes through to the wrapped store and caches the run.
func (c *CachedStore) Save(ctx context.Context, run *Run) error {
	if err := c.next.Save(ctx, run); err != nil {
		return err
	}
	c.cache.Add(run.ID, run)
	return nil
}

// Get returns a cached run or loads it from the wrapped store.
func (c *CachedStore) Get(ctx context.Context, id uuid.UUID) (*Run, error) {
	if run, ok := c.cache.Get(id); ok {
		c.logger.WithField("run_id", id).Debug("Run cache hit")
		return run, nil
	}
	run, err := c.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.Add(id, run)
	return run, nil
}

// List is not cached.
func (c *CachedStore) List(ctx context.Context, limit, offset int) ([]*Run, error) {
	return c.next.List(ctx, limit, offset)
}

// Count is not cached.
func (c *CachedStore) Count(ctx context.Context) (int64, error) {
	return c.next.Count(ctx)
}

// Delete removes the run from the wrapped store and the cache.
func (c *CachedStore) Delete(ctx context.Context, id uuid.UUID) error {
	c.cache.Remove(id)
	return c.next.Delete(ctx, id)
}

// ExportJSON exports all runs of the wrapped store.
func (c *CachedStore) ExportJSON(ctx context.Context, writer io.Writer) error {
	return c.next.ExportJSON(ctx, writer)
}

// ImportJSON imports into the wrapped store and drops the cache.
func (c *CachedStore) ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error) {
	imported, skipped, err = c.next.ImportJSON(ctx, reader)
	c.cache.Purge()
	return imported, skipped, err
}

// Len returns the number of cached runs.
func (c *CachedStore) Len() int {
	return c.cache.Len()
}

// Close closes the wrapped store.
func (c *CachedStore) Close() error {
	c.cache.Purge()
	return c.next.Close()
}
