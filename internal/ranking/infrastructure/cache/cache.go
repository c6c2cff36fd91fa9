// Package cache stores serialized analysis results keyed by a digest of the request.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrCacheMiss is returned by Get when no live entry exists for a key.
var ErrCacheMiss = errors.New("cache miss")

// ResultCache stores opaque encoded results.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// NoopCache never stores anything.
type NoopCache struct{}

// Get always misses.
func (NoopCache) Get(context.Context, string) ([]byte, error) { return nil, ErrCacheMiss }

// Set discards the value.
func (NoopCache) Set(context.Context, string, []byte) error { return nil }

// DefaultMaxEntries bounds an InMemoryCache built with NewInMemoryCache.
const DefaultMaxEntries = 1024

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// InMemoryCache is a process-local LRU cache with a fixed TTL.
// Expired entries are dropped lazily on read.
type InMemoryCache struct {
	entries *lru.Cache[string, memoryEntry]
	ttl     time.Duration
	now     func() time.Time
}

// NewInMemoryCache creates an in-memory cache holding up to DefaultMaxEntries
// results. A non-positive ttl keeps entries until they are evicted.
func NewInMemoryCache(ttl time.Duration) *InMemoryCache {
	c, _ := NewSizedInMemoryCache(DefaultMaxEntries, ttl)
	return c
}

// NewSizedInMemoryCache creates an in-memory cache holding up to size results.
func NewSizedInMemoryCache(size int, ttl time.Duration) (*InMemoryCache, error) {
	if size <= 0 {
		return nil, fmt.Errorf("cache size must be greater than zero, got %d", size)
	}
	entries, err := lru.New[string, memoryEntry](size)
	if err != nil {
		return nil, fmt.Errorf("init cache: %w", err)
	}
	return &InMemoryCache{entries: entries, ttl: ttl, now: time.Now}, nil
}

// Get returns a copy of the stored value.
func (c *InMemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	entry, ok := c.entries.Get(key)
	if !ok {
		return nil, ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt) {
		c.entries.Remove(key)
		return nil, ErrCacheMiss
	}
	return append([]byte(nil), entry.value...), nil
}

// Set stores a copy of value, evicting the least recently used entry when full.
func (c *InMemoryCache) Set(_ context.Context, key string, value []byte) error {
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if c.ttl > 0 {
		entry.expiresAt = c.now().Add(c.ttl)
	}
	c.entries.Add(key, entry)
	return nil
}

// Len returns the number of stored entries, including expired ones not yet read.
func (c *InMemoryCache) Len() int {
	return c.entries.Len()
}
