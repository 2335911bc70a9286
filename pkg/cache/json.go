package cache

import (
	"context"
	"encoding/json"
	"time"
)

// GetJSON retrieves a cached value and unmarshals it into v.
// An entry that fails to unmarshal is treated as a miss and removed, so a
// schema change cannot poison the cache.
func GetJSON(ctx context.Context, c Cache, key string, v any) (bool, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		_ = c.Delete(ctx, key)
		return false, nil
	}
	return true, nil
}

// SetJSON marshals v and stores it under key with the given TTL.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
