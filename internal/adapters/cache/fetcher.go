package cache

import (
	"context"
	"errors"

	"golang.org/x/sync/singleflight"

	"github.com/aocbot/aocbot/internal/domain/model"
	"github.com/aocbot/aocbot/pkg/logger"
	"github.com/aocbot/aocbot/pkg/metrics"
)

// Fetcher loads a fresh snapshot.
type Fetcher interface {
	Fetch(ctx context.Context) (model.Snapshot, error)
}

// CachingFetcher serves snapshots from the cache and falls back to the fetcher.
type CachingFetcher struct {
	next  Fetcher
	cache SnapshotCache
	key   string
	log   logger.Logger
	group singleflight.Group
}

// NewCachingFetcher wraps next with c under key.
func NewCachingFetcher(next Fetcher, c SnapshotCache, key string, log logger.Logger) *CachingFetcher {
	if c == nil {
		c = Noop{}
	}
	return &CachingFetcher{next: next, cache: c, key: key, log: log}
}

// Fetch returns the cached snapshot, fetching and storing it on a miss.
// Concurrent misses share one upstream request. Cache failures degrade to a
// direct fetch.
func (f *CachingFetcher) Fetch(ctx context.Context) (model.Snapshot, error) {
	snap, err := f.cache.Get(ctx, f.key)
	if err == nil {
		metrics.RecordCacheHit()
		return snap, nil
	}
	metrics.RecordCacheMiss()
	if !errors.Is(err, ErrMiss) {
		f.log.Warn(ctx, "snapshot cache read failed", logger.String("key", f.key), logger.Error(err))
	}
	return f.do(func() (model.Snapshot, error) {
		// Another caller may have filled the cache while this one waited.
		if snap, err := f.cache.Get(ctx, f.key); err == nil {
			return snap, nil
		}
		return f.fetch(ctx)
	})
}

// Refresh bypasses the cache and stores the fresh snapshot. It joins an
// upstream request already in flight.
func (f *CachingFetcher) Refresh(ctx context.Context) (model.Snapshot, error) {
	return f.do(func() (model.Snapshot, error) { return f.fetch(ctx) })
}

func (f *CachingFetcher) do(fn func() (model.Snapshot, error)) (model.Snapshot, error) {
	v, err, _ := f.group.Do(f.key, func() (any, error) { return fn() })
	if err != nil {
		return model.Snapshot{}, err
	}
	return v.(model.Snapshot), nil
}

func (f *CachingFetcher) fetch(ctx context.Context) (model.Snapshot, error) {
	snap, err := f.next.Fetch(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}
	if err := f.cache.Set(ctx, f.key, snap); err != nil {
		f.log.Warn(ctx, "snapshot cache write failed", logger.String("key", f.key), logger.Error(err))
	}
	return snap, nil
}
