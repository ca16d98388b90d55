package metadata

import "sync"

// Cache memoizes lookups by key. Entries are never evicted. Concurrent
// writers for one key race harmlessly: the last write wins and every
// writer stores an equivalent result.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Metadata
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]Metadata)}
}

// Get returns the cached entry for key.
func (c *Cache) Get(key string) (Metadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.entries[key]
	return m, ok
}

// Put stores m under key.
func (c *Cache) Put(key string, m Metadata) {
	c.mu.Lock()
	c.entries[key] = m
	c.mu.Unlock()
}

// Seed copies entries into the cache, overwriting existing keys.
func (c *Cache) Seed(entries map[string]Metadata) {
	c.mu.Lock()
	for k, m := range entries {
		c.entries[k] = m
	}
	c.mu.Unlock()
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
