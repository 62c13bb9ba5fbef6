package cache

import (
	"context"
	"time"
)

// DefaultTTL is the expiry horizon for cached analysis results.
const DefaultTTL = 24 * time.Hour

// ResultCache is a key-value store with time-bounded entries. Population is
// cache-aside: the orchestrator decides when to read and write, the cache
// never fills itself. Implementations must be safe for concurrent use.
type ResultCache interface {
	// Get returns the cached value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores the value under key for the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
