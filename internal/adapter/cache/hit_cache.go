package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"docsearch/internal/domain"
)

// HitCache is an in-process LRU cache of query results. Entries expire
// after a TTL and the whole cache is invalidated by bumping the index
// generation after a successful ingestion run.
type HitCache struct {
	mu       sync.RWMutex
	entries  map[string]*cacheEntry
	order    []string
	maxSize  int
	ttl      time.Duration
	indexGen uint64
}

type cacheEntry struct {
	hits      []domain.Hit
	timestamp time.Time
	indexGen  uint64
}

func NewHitCache(maxSize int, ttl time.Duration) *HitCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &HitCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

func cacheKey(query string, limit int) string {
	data := []byte(query)
	data = append(data, byte(limit>>8), byte(limit))
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:16])
}

// Get returns the cached hits for (query, limit), if still valid.
func (c *HitCache) Get(query string, limit int) ([]domain.Hit, bool) {
	key := cacheKey(query, limit)

	c.mu.RLock()
	entry, exists := c.entries[key]
	currentGen := c.indexGen
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}
	if time.Since(entry.timestamp) > c.ttl || entry.indexGen != currentGen {
		c.mu.Lock()
		delete(c.entries, key)
		c.removeFromOrder(key)
		c.mu.Unlock()
		return nil, false
	}

	c.mu.Lock()
	c.moveToEnd(key)
	c.mu.Unlock()

	return entry.hits, true
}

// Put stores hits for (query, limit).
func (c *HitCache) Put(query string, limit int, hits []domain.Hit) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(query, limit)

	if _, exists := c.entries[key]; !exists {
		if len(c.entries) >= c.maxSize {
			c.evictOldest()
		}
		c.order = append(c.order, key)
	} else {
		c.moveToEnd(key)
	}

	c.entries[key] = &cacheEntry{
		hits:      hits,
		timestamp: time.Now(),
		indexGen:  c.indexGen,
	}
}

// Invalidate drops all entries. Called after every committed index run.
func (c *HitCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.order = c.order[:0]
	c.indexGen++
}

// Size returns the number of live entries.
func (c *HitCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *HitCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *HitCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *HitCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
