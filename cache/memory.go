package cache

import (
	"sync"
	"time"
)

// cacheEntry holds a cached value with its timestamp.
type cacheEntry struct {
	value     string
	timestamp time.Time
	seq       uint64 // insertion sequence, unchanged by overwrites
}

type orderedKey struct {
	key string
	seq uint64
}

// InMemoryCache is a thread-safe in-memory cache with TTL support and an
// optional entry cap that evicts the oldest-inserted key.
type InMemoryCache struct {
	cache      map[string]cacheEntry
	order      []orderedKey
	seq        uint64
	maxEntries int
	mu         sync.RWMutex
	ttl        time.Duration

	hits      int64
	misses    int64
	evictions int64
}

// MemoryOption configures an InMemoryCache.
type MemoryOption func(*InMemoryCache)

// WithMaxEntries caps the number of entries. Zero means unbounded.
func WithMaxEntries(n int) MemoryOption {
	return func(c *InMemoryCache) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// NewInMemoryCache creates a new in-memory cache with the specified TTL.
// If ttlSeconds is 0 or negative, entries never expire.
func NewInMemoryCache(ttlSeconds int, opts ...MemoryOption) *InMemoryCache {
	ttl := time.Duration(ttlSeconds) * time.Second
	if ttlSeconds <= 0 {
		ttl = 0
	}
	c := &InMemoryCache{
		cache: make(map[string]cacheEntry),
		ttl:   ttl,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get retrieves a value from the cache.
// Returns the value and true if found and not expired, empty string and false otherwise.
func (c *InMemoryCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.cache[key]
	if !ok {
		c.misses++
		return "", false
	}

	if c.ttl > 0 && time.Since(entry.timestamp) > c.ttl {
		delete(c.cache, key)
		c.misses++
		return "", false
	}

	c.hits++
	return entry.value, true
}

// Set stores a value in the cache.
func (c *InMemoryCache) Set(key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.cache[key]; ok {
		existing.value = value
		existing.timestamp = time.Now()
		c.cache[key] = existing
		return nil
	}

	c.seq++
	c.cache[key] = cacheEntry{
		value:     value,
		timestamp: time.Now(),
		seq:       c.seq,
	}
	c.order = append(c.order, orderedKey{key: key, seq: c.seq})
	c.evictLocked()
	return nil
}

// evictLocked drops the oldest-inserted entries above the cap. Order slots
// whose entry was deleted or re-inserted since are skipped.
func (c *InMemoryCache) evictLocked() {
	for c.maxEntries > 0 && len(c.cache) > c.maxEntries && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		if entry, ok := c.cache[oldest.key]; ok && entry.seq == oldest.seq {
			delete(c.cache, oldest.key)
			c.evictions++
		}
	}
	if len(c.order) > 2*len(c.cache)+64 {
		c.compactLocked()
	}
}

func (c *InMemoryCache) compactLocked() {
	live := make([]orderedKey, 0, len(c.cache))
	for _, k := range c.order {
		if entry, ok := c.cache[k.key]; ok && entry.seq == k.seq {
			live = append(live, k)
		}
	}
	c.order = live
}

// Len returns the number of entries in the cache (including expired ones).
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Clear removes all entries from the cache.
func (c *InMemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]cacheEntry)
	c.order = nil
}

// Stats returns usage counters.
func (c *InMemoryCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Size:      len(c.cache),
	}
}

// Entries returns all non-expired entries as key-value pairs.
// This is used for cache export.
func (c *InMemoryCache) Entries() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]string)
	now := time.Now()

	for key, entry := range c.cache {
		if c.ttl > 0 && now.Sub(entry.timestamp) > c.ttl {
			continue
		}
		result[key] = entry.value
	}

	return result
}

// Verify InMemoryCache implements TranslationCache
var _ TranslationCache = (*InMemoryCache)(nil)
