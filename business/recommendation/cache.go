package recommendation

import (
	"sync"
	"time"
)

// DefaultPreferenceTTL is how long a computed preference entry stays valid.
const DefaultPreferenceTTL = 5 * time.Minute

// PreferenceCache maps a user id to its most recently computed top
// categories. Implementations must be safe for concurrent use from multiple
// recommendation requests; concurrent writers for the same user may race and
// last write wins, since entries are idempotently recomputable.
type PreferenceCache interface {
	Get(userID string) ([]string, bool)
	Put(userID string, categories []string)
	Clear()
}

type cacheEntry struct {
	categories []string
	computedAt time.Time
}

// MemoryPreferenceCache is the default in-process cache. Entries expire
// lazily on read once older than the TTL; there is no other eviction, so
// growth is bounded only by the set of active user ids.
type MemoryPreferenceCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

func NewMemoryPreferenceCache(ttl time.Duration) *MemoryPreferenceCache {
	if ttl <= 0 {
		ttl = DefaultPreferenceTTL
	}

	return &MemoryPreferenceCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func (c *MemoryPreferenceCache) Get(userID string) ([]string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[userID]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if time.Since(entry.computedAt) >= c.ttl {
		return nil, false
	}

	return entry.categories, true
}

func (c *MemoryPreferenceCache) Put(userID string, categories []string) {
	c.mu.Lock()
	c.entries[userID] = cacheEntry{
		categories: categories,
		computedAt: time.Now(),
	}
	c.mu.Unlock()
}

func (c *MemoryPreferenceCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}
