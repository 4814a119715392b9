package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/npavezibarra/flow-sub/internal/cache"
)

var _ cache.Cache = (*InMemoryCache)(nil)

type cacheEntry struct {
	value     interface{}
	expiresAt time.Time
}

// InMemoryCache is a cache.Cache for tests. It honors TTLs against the
// wall clock and counts calls so tests can assert hit/miss behavior and
// the expiry a service chose for a key.
type InMemoryCache struct {
	mu    sync.RWMutex
	items map[string]cacheEntry
	ttls  map[string]time.Duration

	GetCount    int
	SetCount    int
	DeleteCount int
}

// NewInMemoryCache creates a new test cache
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		items: make(map[string]cacheEntry),
		ttls:  make(map[string]time.Duration),
	}
}

func (c *InMemoryCache) Get(_ context.Context, key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.GetCount++
	entry, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(c.items, key)
		return nil, false
	}
	return entry.value, true
}

func (c *InMemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.SetCount++
	entry := cacheEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	c.items[key] = entry
	c.ttls[key] = ttl
}

func (c *InMemoryCache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.DeleteCount++
	delete(c.items, key)
	delete(c.ttls, key)
}

func (c *InMemoryCache) DeleteByPrefix(_ context.Context, prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
			delete(c.ttls, key)
		}
	}
}

func (c *InMemoryCache) Flush(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]cacheEntry)
	c.ttls = make(map[string]time.Duration)
}

// TTLFor returns the expiry that was passed on the last Set for a key.
func (c *InMemoryCache) TTLFor(key string) (time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ttl, ok := c.ttls[key]
	return ttl, ok
}

// Has reports whether a key is currently cached, without counting a Get.
func (c *InMemoryCache) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.items[key]
	return ok
}
