package cache

import (
	"sync"
	"time"
)

// Entry represents a cached value with TTL
type Entry struct {
	Value     interface{}
	ExpiresAt time.Time
}

// IsExpired checks if the cache entry has expired
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.ExpiresAt)
}

// Stats tracks cache performance counters
type Stats struct {
	Hits   int64
	Misses int64
	Sets   int64
}

// LocalCache implements an in-memory cache with TTL support
type LocalCache struct {
	mu    sync.RWMutex
	data  map[string]*Entry
	stats Stats
}

// NewLocalCache creates a new in-memory cache
func NewLocalCache() *LocalCache {
	return &LocalCache{
		data: make(map[string]*Entry),
	}
}

// Get retrieves a value from the cache
func (lc *LocalCache) Get(key string) (interface{}, bool) {
	lc.mu.RLock()
	entry, exists := lc.data[key]
	lc.mu.RUnlock()

	if !exists || entry.IsExpired() {
		lc.mu.Lock()
		if exists {
			delete(lc.data, key)
		}
		lc.stats.Misses++
		lc.mu.Unlock()
		return nil, false
	}

	lc.mu.Lock()
	lc.stats.Hits++
	lc.mu.Unlock()

	return entry.Value, true
}

// Set stores a value with a TTL
func (lc *LocalCache) Set(key string, value interface{}, ttl time.Duration) {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	lc.data[key] = &Entry{
		Value:     value,
		ExpiresAt: time.Now().Add(ttl),
	}
	lc.stats.Sets++
}

// Delete removes a key from the cache
func (lc *LocalCache) Delete(key string) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	delete(lc.data, key)
}

// Clear removes all entries
func (lc *LocalCache) Clear() {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.data = make(map[string]*Entry)
}

// GetStats returns a snapshot of the cache counters
func (lc *LocalCache) GetStats() Stats {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return lc.stats
}
