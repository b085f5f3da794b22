package cache

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultTTL is the default time-to-live for cache items.
	DefaultTTL = 5 * time.Minute
	// DefaultCleanupInterval is the default interval for cleaning up expired items.
	DefaultCleanupInterval = 10 * time.Minute
)

// Store defines the behavior of a TTL cache.
type Store[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, key K)
	Count() int
}

// item represents a cached value, including its expiration time.
type item[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a thread-safe, generic cache with expiration and background cleanup.
type Cache[K comparable, V any] struct {
	mu              sync.RWMutex
	items           map[K]item[V]
	defaultTTL      time.Duration
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	stopOnce        sync.Once
}

// Option is a functional option for configuring the cache.
type Option[K comparable, V any] func(*Cache[K, V])

// WithDefaultTTL sets the default time-to-live for cache items.
func WithDefaultTTL[K comparable, V any](ttl time.Duration) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.defaultTTL = ttl
	}
}

// WithCleanupInterval sets the interval for cleaning up expired items.
func WithCleanupInterval[K comparable, V any](interval time.Duration) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.cleanupInterval = interval
	}
}

// New creates a new cache with the given options.
func New[K comparable, V any](opts ...Option[K, V]) *Cache[K, V] {
	c := &Cache[K, V]{
		items:           make(map[K]item[V]),
		defaultTTL:      DefaultTTL,
		cleanupInterval: DefaultCleanupInterval,
		stopCleanup:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	go c.cleanupLoop()

	return c
}

// Set adds an item to the cache, overwriting any existing item.
// If ttl is 0, the default TTL is used.
func (c *Cache[K, V]) Set(ctx context.Context, key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl == 0 {
		ttl = c.defaultTTL
	}

	c.items[key] = item[V]{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

// Get retrieves an item from the cache. It returns the value and true if
// the item was found and has not expired.
func (c *Cache[K, V]) Get(ctx context.Context, key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cachedItem, found := c.items[key]
	if !found || time.Now().After(cachedItem.expiresAt) {
		// Expired items are left for the cleanup goroutine to avoid a
		// lock upgrade on the read path.
		var zeroV V
		return zeroV, false
	}

	return cachedItem.value, true
}

// Delete removes an item from the cache.
func (c *Cache[K, V]) Delete(ctx context.Context, key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Count returns the number of items in the cache, expired items included.
func (c *Cache[K, V]) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the background cleanup goroutine.
func (c *Cache[K, V]) Close() {
	c.stopOnce.Do(func() {
		close(c.stopCleanup)
	})
}

func (c *Cache[K, V]) cleanupLoop() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.deleteExpired()
		case <-c.stopCleanup:
			return
		}
	}
}

func (c *Cache[K, V]) deleteExpired() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, cachedItem := range c.items {
		if now.After(cachedItem.expiresAt) {
			delete(c.items, key)
		}
	}
}
