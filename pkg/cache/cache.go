package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache is a size bounded read-through cache whose entries expire after a TTL.
// Writers call Invalidate after changing the underlying record.
type Cache[K comparable, V any] struct {
	lru *expirable.LRU[K, V]
}

// New creates a cache holding at most size entries for ttl each
func New[K comparable, V any](size int, ttl time.Duration) *Cache[K, V] {
	if size <= 0 {
		size = 1
	}
	return &Cache[K, V]{lru: expirable.NewLRU[K, V](size, nil, ttl)}
}

// GetOrLoad returns the cached value for key, calling load and storing its
// result on a miss. Errors are returned as is and never cached.
func (c *Cache[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	if value, ok := c.lru.Get(key); ok {
		return value, nil
	}
	value, err := load()
	if err != nil {
		var zero V
		return zero, err
	}
	c.lru.Add(key, value)
	return value, nil
}

// Get returns a cached value without loading
func (c *Cache[K, V]) Get(key K) (V, bool) {
	return c.lru.Get(key)
}

// Invalidate drops key from the cache
func (c *Cache[K, V]) Invalidate(key K) {
	c.lru.Remove(key)
}

// Purge drops every entry
func (c *Cache[K, V]) Purge() {
	c.lru.Purge()
}

func (c *Cache[K, V]) Len() int {
	return c.lru.Len()
}
