package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is the contract shared by the in-memory and Redis backends.
// Get returns the raw stored value; callers use UnmarshalCacheValue to
// recover a typed value regardless of backend.
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration)
	Delete(ctx context.Context, key string)
	DeleteByPrefix(ctx context.Context, prefix string)
	Flush(ctx context.Context)
}

// Key joins key parts with the canonical separator.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}
