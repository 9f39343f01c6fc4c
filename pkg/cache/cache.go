// Package cache provides response caching for registry lookups.
//
// Backends:
//   - FileCache: directory-backed cache for CLI usage (the default)
//   - RedisCache: shared cache for CI environments
//   - NullCache: no-op cache for testing or --refresh runs
package cache

import (
	"context"
	"time"
)

// Cache is the interface implemented by all cache backends.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found
	// and fresh; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
