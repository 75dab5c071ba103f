// Package cache provides an artifact cache for generated seals.
//
// Seal generation is a pure function of (token, version, config), so the
// resulting artifact bytes can be cached indefinitely under a digest of those
// inputs. The cache stores opaque byte blobs; it never inspects artifacts.
//
// Two implementations are provided:
//   - FileCache: directory-backed cache for CLI usage
//   - NullCache: no-op cache for tests or when caching is disabled
package cache

import (
	"context"
	"time"
)

// Cache is the interface for artifact byte storage.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means the entry never expires, which is
	// the normal mode for seal artifacts (deterministic output never goes
	// stale; only template or generator version changes invalidate it).
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
