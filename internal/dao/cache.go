package dao

import (
	"sync"
	"time"

	"github.com/stbl/stbl/internal/model1"
)

// DefaultCacheTTL is the default time-to-live for cached row batches.
const DefaultCacheTTL = 5 * time.Second

// cacheEntry holds a cached batch with its timestamp.
type cacheEntry struct {
	rows      model1.Rows
	timestamp time.Time
}

// ResponseCache provides TTL-based caching of row batches keyed by request URL.
type ResponseCache struct {
	data map[string]cacheEntry
	ttl  time.Duration
	now  func() time.Time
	mx   sync.RWMutex
}

// NewResponseCache creates a new ResponseCache with the specified TTL.
func NewResponseCache(ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		data: make(map[string]cacheEntry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Get retrieves a cached batch for the given key. Expired entries are evicted.
func (c *ResponseCache) Get(key string) (model1.Rows, bool) {
	c.mx.RLock()
	entry, exists := c.data[key]
	c.mx.RUnlock()
	if !exists {
		return nil, false
	}

	if c.now().Sub(entry.timestamp) > c.ttl {
		c.Invalidate(key)
		return nil, false
	}

	return entry.rows, true
}

// Set stores a batch in the cache with the given key.
func (c *ResponseCache) Set(key string, rows model1.Rows) {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.data[key] = cacheEntry{
		rows:      rows,
		timestamp: c.now(),
	}
}

// Invalidate removes a specific key from the cache.
func (c *ResponseCache) Invalidate(key string) {
	c.mx.Lock()
	defer c.mx.Unlock()

	delete(c.data, key)
}

// Len returns the number of entries, including expired ones not read since.
func (c *ResponseCache) Len() int {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return len(c.data)
}
