// Package cache provides the key/value gateway used by the catalog builder.
//
// Two lifetime classes run through the same interface: the ephemeral
// catalog snapshot (short TTL, [TTLCatalog] by default) and durable
// per-version facts such as file counts and descriptors (TTL 0, never
// expiring — published artifacts are immutable, so these entries never
// need invalidation).
//
// Backends:
//   - redis: production, shared across instances
//   - memory: single-process and tests
//   - null: caching disabled
package cache

import (
	"context"
	"time"
)

// TTL classes used by the catalog core.
const (
	// TTLCatalog is the default lifetime of a built catalog snapshot.
	TTLCatalog = time.Hour

	// TTLForever marks entries that never expire.
	TTLForever time.Duration = 0
)

// Cache is the storage interface for all caching backends.
// A ttl of 0 means the entry never expires.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
