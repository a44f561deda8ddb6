// Package cache provides a generic in-memory TTL cache
package cache

import (
	"sync"
	"time"
)

// Cache represents a generic in-memory cache with per-item expiry and
// least-recently-used eviction once maxSize items are stored.
type Cache[K comparable, V any] struct {
	items      map[K]*Item[V]
	mutex      sync.Mutex
	defaultTTL time.Duration
	maxSize    int
	now        func() time.Time
	stop       chan struct{}
	stopOnce   sync.Once
}

// Item represents a cached item with expiration
type Item[V any] struct {
	Value     V
	ExpiresAt time.Time
	LastUsed  time.Time
}

// NewCache creates a new cache instance. Expired items are swept in the
// background until Close is called.
func NewCache[K comparable, V any](defaultTTL time.Duration, maxSize int) *Cache[K, V] {
	c := &Cache[K, V]{
		items:      make(map[K]*Item[V]),
		defaultTTL: defaultTTL,
		maxSize:    maxSize,
		now:        time.Now,
		stop:       make(chan struct{}),
	}

	if defaultTTL > 0 {
		go c.startCleanup()
	}

	return c
}

// Set stores a value in the cache with default TTL
func (c *Cache[K, V]) Set(key K, value V) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores a value in the cache with custom TTL
func (c *Cache[K, V]) SetWithTTL(key K, value V, ttl time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.items[key]; !exists && c.maxSize > 0 && len(c.items) >= c.maxSize {
		c.evictLRU()
	}

	now := c.now()
	c.items[key] = &Item[V]{
		Value:     value,
		ExpiresAt: now.Add(ttl),
		LastUsed:  now,
	}
}

// Get retrieves a value from the cache
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	item, exists := c.items[key]
	if !exists {
		var zero V
		return zero, false
	}

	now := c.now()
	if !now.Before(item.ExpiresAt) {
		delete(c.items, key)
		var zero V
		return zero, false
	}

	item.LastUsed = now
	return item.Value, true
}

// Delete removes a value from the cache
func (c *Cache[K, V]) Delete(key K) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.items, key)
}

// Clear removes all items from the cache
func (c *Cache[K, V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items = make(map[K]*Item[V])
}

// Size returns the number of stored items, expired ones included until swept
func (c *Cache[K, V]) Size() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return len(c.items)
}

// Close stops the background sweep
func (c *Cache[K, V]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// evictLRU removes the least recently used item
func (c *Cache[K, V]) evictLRU() {
	var oldestKey K
	var oldestTime time.Time
	first := true

	for key, item := range c.items {
		if first || item.LastUsed.Before(oldestTime) {
			oldestKey = key
			oldestTime = item.LastUsed
			first = false
		}
	}

	if !first {
		delete(c.items, oldestKey)
	}
}

func (c *Cache[K, V]) startCleanup() {
	ticker := time.NewTicker(c.defaultTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

// cleanup removes expired items
func (c *Cache[K, V]) cleanup() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	for key, item := range c.items {
		if !now.Before(item.ExpiresAt) {
			delete(c.items, key)
		}
	}
}
