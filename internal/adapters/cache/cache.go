// Package cache keeps the last fetched leaderboard snapshot between requests.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aocbot/aocbot/internal/domain/model"
)

// DefaultTTL matches the adventofcode.com polling policy.
const DefaultTTL = 15 * time.Minute

// SnapshotCache stores one serialized snapshot per key.
type SnapshotCache interface {
	Get(ctx context.Context, key string) (model.Snapshot, error)
	Set(ctx context.Context, key string, snap model.Snapshot) error
}

// Key is the cache key of a leaderboard.
func Key(event int, leaderboardID string) string {
	return fmt.Sprintf("aocbot:snapshot:%d:%s", event, leaderboardID)
}

// Redis is a SnapshotCache backed by go-redis.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to addr and verifies the connection.
func NewRedis(ctx context.Context, opts *redis.Options, ttl time.Duration) (*Redis, error) {
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl}, nil
}

// Get loads the snapshot stored under key.
func (r *Redis) Get(ctx context.Context, key string) (model.Snapshot, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Snapshot{}, ErrMiss
		}
		return model.Snapshot{}, err
	}
	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return snap, nil
}

// Set stores snap under key with the configured TTL.
func (r *Redis) Set(ctx context.Context, key string, snap model.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return r.client.Set(ctx, key, data, r.ttl).Err()
}

// Ping checks if Redis is reachable.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Memory is an in-process SnapshotCache used when no Redis is configured.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	snap    model.Snapshot
	expires time.Time
}

// MemoryOption configures a Memory cache.
type MemoryOption func(*Memory)

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemory creates an in-process cache. Non-positive ttl uses DefaultTTL.
func NewMemory(ttl time.Duration, opts ...MemoryOption) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Memory{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the snapshot under key until it expires.
func (m *Memory) Get(_ context.Context, key string) (model.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return model.Snapshot{}, ErrMiss
	}
	if !m.now().Before(e.expires) {
		delete(m.entries, key)
		return model.Snapshot{}, ErrMiss
	}
	return e.snap, nil
}

// Set stores snap under key for the configured TTL.
func (m *Memory) Set(_ context.Context, key string, snap model.Snapshot) error {
	m.mu.Lock()
	m.entries[key] = memoryEntry{snap: snap, expires: m.now().Add(m.ttl)}
	m.mu.Unlock()
	return nil
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) (model.Snapshot, error) { return model.Snapshot{}, ErrMiss }
func (Noop) Set(context.Context, string, model.Snapshot) error    { return nil }
