package cache

import (
	"context"
	"time"
)

// NullCache disables caching: reads always miss and writes are dropped.
// It stands in wherever a nil cache is passed (client and enricher
// constructors) and backs the build command's --no-cache flag, so callers
// never branch on whether a cache is configured.
type NullCache struct{}

// NewNullCache returns the no-op cache.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get reports a miss for every key.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the value.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete is a no-op.
func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close is a no-op.
func (c *NullCache) Close() error {
	return nil
}

// Ensure NullCache implements Cache.
var _ Cache = (*NullCache)(nil)
