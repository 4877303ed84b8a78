// Package cache is a TTL cache for data read from the league sheet. The
// sheet API is quota-limited, so every logical table read is cached under
// its own key and served until its entry expires or a mutation evicts it.
package cache

import (
	"sync"
	"time"

	"github.com/itbasis/go-clock"
)

type entry struct {
	value   any
	expires time.Time
}

type Cache struct {
	mu      sync.RWMutex
	clock   clock.Clock
	ttl     time.Duration
	entries map[string]entry
}

// New creates a cache whose entries live for ttl after each Put.
func New(c clock.Clock, ttl time.Duration) *Cache {
	return &Cache{
		clock:   c,
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

// Get returns the cached value for key, or false if the key is absent or
// its entry has expired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.clock.Now().After(e.expires) {
		return nil, false
	}
	return e.value, true
}

// Put stores value under key with the default TTL.
func (c *Cache) Put(key string, value any) {
	c.PutTTL(key, value, c.ttl)
}

// PutTTL stores value under key with an entry-specific TTL.
func (c *Cache) PutTTL(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expires: c.clock.Now().Add(ttl)}
}

// Delete evicts a single entry. Deleting an absent key is a no-op.
func (c *Cache) Delete(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
}

// Clear evicts everything, forcing fresh fetches on the next reads.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}
