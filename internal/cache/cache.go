package cache

import (
	"context"
	"time"
)

// Cache is a key -> bytes store with per-entry TTL. Values are opaque to the
// cache; callers do their own encoding.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
