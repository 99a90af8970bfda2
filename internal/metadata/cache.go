package metadata

import (
	"sync"
	"time"
)

// Cache provides in-memory caching with TTL for remote catalog results.
type Cache struct {
	mu       sync.RWMutex
	items    map[string]cacheItem
	ttl      time.Duration
	maxItems int
	now      func() time.Time
}

type cacheItem struct {
	value     interface{}
	expiresAt time.Time
}

// CacheConfig holds cache configuration.
type CacheConfig struct {
	TTL      time.Duration
	MaxItems int
}

// DefaultCacheConfig returns default cache configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:      10 * time.Minute,
		MaxItems: 1000,
	}
}

// NewCache creates a new cache. Expired entries are dropped lazily and by Prune.
func NewCache(cfg CacheConfig) *Cache {
	if cfg.TTL == 0 {
		cfg.TTL = 10 * time.Minute
	}
	if cfg.MaxItems == 0 {
		cfg.MaxItems = 1000
	}

	return &Cache{
		items:    make(map[string]cacheItem),
		ttl:      cfg.TTL,
		maxItems: cfg.MaxItems,
		now:      time.Now,
	}
}

// TTL returns the default time-to-live of entries.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get retrieves an item from the cache.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[key]
	if !ok || c.now().After(item.expiresAt) {
		return nil, false
	}
	return item.value, true
}

// Set stores an item in the cache with the default TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores an item with a custom TTL.
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxItems {
		c.evictOldest()
	}

	c.items[key] = cacheItem{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
}

// Delete removes an item from the cache.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Clear removes all items from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]cacheItem)
}

// Len returns the number of items in the cache, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Prune removes expired items and returns how many were dropped.
func (c *Cache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropExpired()
}

func (c *Cache) dropExpired() int {
	now := c.now()
	dropped := 0
	for key, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, key)
			dropped++
		}
	}
	return dropped
}

// evictOldest frees room for one insert (must be called with lock held).
// Expired items go first, then the 10% closest to expiry.
func (c *Cache) evictOldest() {
	c.dropExpired()
	if len(c.items) < c.maxItems {
		return
	}

	toRemove := c.maxItems / 10
	if toRemove < 1 {
		toRemove = 1
	}

	oldest := make([]string, 0, toRemove)
	oldestTimes := make([]time.Time, 0, toRemove)

	for key, item := range c.items {
		if len(oldest) < toRemove {
			oldest = append(oldest, key)
			oldestTimes = append(oldestTimes, item.expiresAt)
			continue
		}
		// Replace the latest-expiring candidate if this one expires sooner.
		latest := 0
		for i := range oldestTimes {
			if oldestTimes[i].After(oldestTimes[latest]) {
				latest = i
			}
		}
		if item.expiresAt.Before(oldestTimes[latest]) {
			oldest[latest] = key
			oldestTimes[latest] = item.expiresAt
		}
	}

	for _, key := range oldest {
		delete(c.items, key)
	}
}

// GetMovies retrieves cached movie summaries.
func (c *Cache) GetMovies(key string) ([]MovieSummary, bool) {
	val, ok := c.Get(key)
	if !ok {
		return nil, false
	}
	results, ok := val.([]MovieSummary)
	return results, ok
}

// GetGenres retrieves a cached genre list.
func (c *Cache) GetGenres(key string) ([]Genre, bool) {
	val, ok := c.Get(key)
	if !ok {
		return nil, false
	}
	results, ok := val.([]Genre)
	return results, ok
}
