package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"hotel-review-graphrag/translator"
)

// TranslationCache memoizes translation results so repeated questions skip
// the generation call entirely. Keyed by normalized question text plus the
// effective limit; language is derived from the text so it needs no key part.
type TranslationCache interface {
	Get(rawText string, limit int) (translator.Result, bool)
	Set(rawText string, limit int, result translator.Result)
	Clear()
	GetStats() CacheStats
}

// CacheStats provides cache performance metrics
type CacheStats struct {
	Hits        int64     `json:"hits"`
	Misses      int64     `json:"misses"`
	HitRate     float64   `json:"hit_rate"`
	Size        int       `json:"size"`
	MaxSize     int       `json:"max_size"`
	Evictions   int64     `json:"evictions"`
	LastCleared time.Time `json:"last_cleared"`
}

type cacheEntry struct {
	result    translator.Result
	expiresAt time.Time
	createdAt time.Time
}

// InMemoryTranslationCache implements TranslationCache with TTL expiry and
// oldest-first eviction.
type InMemoryTranslationCache struct {
	mu       sync.RWMutex
	data     map[string]*cacheEntry
	maxSize  int
	ttl      time.Duration
	stats    CacheStats
	janitor  *time.Ticker
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewInMemoryTranslationCache creates a translation cache with a background
// janitor that removes expired entries.
func NewInMemoryTranslationCache(maxSize int, ttl, cleanupInterval time.Duration) *InMemoryTranslationCache {
	cache := &InMemoryTranslationCache{
		data:     make(map[string]*cacheEntry),
		maxSize:  maxSize,
		ttl:      ttl,
		stats:    CacheStats{MaxSize: maxSize, LastCleared: time.Now()},
		janitor:  time.NewTicker(cleanupInterval),
		stopChan: make(chan struct{}),
	}

	go cache.cleanup()

	return cache
}

// Get returns the cached translation for a question, if fresh.
func (c *InMemoryTranslationCache) Get(rawText string, limit int) (translator.Result, bool) {
	key := cacheKey(rawText, limit)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.data[key]
	if !exists {
		c.stats.Misses++
		c.updateHitRate()
		return translator.Result{}, false
	}

	if time.Now().After(entry.expiresAt) {
		c.stats.Misses++
		delete(c.data, key)
		c.stats.Size = len(c.data)
		c.updateHitRate()
		return translator.Result{}, false
	}

	c.stats.Hits++
	c.updateHitRate()
	return entry.result, true
}

// Set stores a translation result.
func (c *InMemoryTranslationCache) Set(rawText string, limit int, result translator.Result) {
	key := cacheKey(rawText, limit)
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.data[key]; !exists && len(c.data) >= c.maxSize {
		c.evictOldest()
	}

	c.data[key] = &cacheEntry{
		result:    result,
		expiresAt: now.Add(c.ttl),
		createdAt: now,
	}
	c.stats.Size = len(c.data)
}

// Clear removes all entries from cache
func (c *InMemoryTranslationCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = make(map[string]*cacheEntry)
	c.stats.Size = 0
	c.stats.LastCleared = time.Now()
}

// GetStats returns cache statistics
func (c *InMemoryTranslationCache) GetStats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := c.stats
	stats.Size = len(c.data)
	return stats
}

// Stop stops the cache cleanup goroutine
func (c *InMemoryTranslationCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
		c.janitor.Stop()
	})
}

// cleanup removes expired entries periodically
func (c *InMemoryTranslationCache) cleanup() {
	for {
		select {
		case <-c.janitor.C:
			c.removeExpired()
		case <-c.stopChan:
			return
		}
	}
}

// removeExpired removes all expired entries
func (c *InMemoryTranslationCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, entry := range c.data {
		if now.After(entry.expiresAt) {
			delete(c.data, key)
		}
	}
	c.stats.Size = len(c.data)
}

// evictOldest removes the oldest entry to make room for new ones
func (c *InMemoryTranslationCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range c.data {
		if oldestKey == "" || entry.createdAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.createdAt
		}
	}

	if oldestKey != "" {
		delete(c.data, oldestKey)
		c.stats.Evictions++
	}
}

// updateHitRate calculates the current hit rate
func (c *InMemoryTranslationCache) updateHitRate() {
	total := c.stats.Hits + c.stats.Misses
	if total > 0 {
		c.stats.HitRate = float64(c.stats.Hits) / float64(total)
	}
}

// cacheKey hashes the normalized question plus limit. Hashing keeps keys
// bounded regardless of question length.
func cacheKey(rawText string, limit int) string {
	normalized := strings.ToLower(strings.TrimSpace(rawText))
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%s", limit, normalized)))
	return hex.EncodeToString(sum[:])
}

// noopTranslationCache is used when caching is disabled.
type noopTranslationCache struct{}

// NewNoopTranslationCache returns a cache that stores nothing.
func NewNoopTranslationCache() TranslationCache {
	return noopTranslationCache{}
}

func (noopTranslationCache) Get(string, int) (translator.Result, bool)  { return translator.Result{}, false }
func (noopTranslationCache) Set(string, int, translator.Result)        {}
func (noopTranslationCache) Clear()                                    {}
func (noopTranslationCache) GetStats() CacheStats                      { return CacheStats{} }
