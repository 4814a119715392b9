package cache

import (
	"context"
	"strings"
	"time"

	"github.com/npavezibarra/flow-sub/internal/logger"

	gocache "github.com/patrickmn/go-cache"
)

// InMemoryCache implements the Cache interface using patrickmn/go-cache
type InMemoryCache struct {
	store *gocache.Cache
	log   *logger.Logger
}

// NewInMemoryCache creates a new in-memory cache
func NewInMemoryCache(log *logger.Logger) *InMemoryCache {
	return &InMemoryCache{
		store: gocache.New(ExpiryDefaultInMemory, 10*time.Minute),
		log:   log,
	}
}

// Get retrieves a value from the cache
func (c *InMemoryCache) Get(_ context.Context, key string) (interface{}, bool) {
	return c.store.Get(key)
}

// Set adds a value to the cache with the specified expiration
func (c *InMemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) {
	if expiration == 0 {
		expiration = ExpiryDefaultInMemory
	}
	c.store.Set(key, value, expiration)
}

// Delete removes a key from the cache
func (c *InMemoryCache) Delete(_ context.Context, key string) {
	c.store.Delete(key)
}

// DeleteByPrefix removes all keys with the given prefix
func (c *InMemoryCache) DeleteByPrefix(_ context.Context, prefix string) {
	for key := range c.store.Items() {
		if strings.HasPrefix(key, prefix) {
			c.store.Delete(key)
		}
	}
}

// Flush removes all items from the cache
func (c *InMemoryCache) Flush(_ context.Context) {
	c.store.Flush()
}
