package cache

import (
	"github.com/npavezibarra/flow-sub/internal/config"
	"github.com/npavezibarra/flow-sub/internal/logger"
	redisClient "github.com/npavezibarra/flow-sub/internal/redis"
)

// CacheType represents the type of cache to use
type CacheType string

const (
	// CacheTypeInMemory represents an in-memory cache
	CacheTypeInMemory CacheType = "inmemory"

	// CacheTypeRedis represents a Redis-backed cache
	CacheTypeRedis CacheType = "redis"
)

// Initialize builds the cache backend selected by configuration. A nil
// Redis client with cache type redis falls back to in-memory.
func Initialize(cfg *config.Configuration, client *redisClient.Client, log *logger.Logger) Cache {
	log.Infow("initializing cache system", "type", cfg.Cache.Type)

	switch CacheType(cfg.Cache.Type) {
	case CacheTypeRedis:
		if client != nil {
			return NewRedisCache(client, log)
		}
		log.Warn("redis cache requested but no redis client available, using in-memory cache")
		return NewInMemoryCache(log)
	case CacheTypeInMemory:
		fallthrough
	default:
		return NewInMemoryCache(log)
	}
}
