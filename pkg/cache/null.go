package cache

import (
	"context"
	"time"
)

// NullCache discards writes and misses every read. It backs --no-cache
// runs and stands in when no real backend could be opened.
type NullCache struct{}

// NewNullCache returns the no-op backend.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) { return nil, false, nil }

func (*NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

func (*NullCache) Delete(ctx context.Context, key string) error { return nil }

func (*NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
