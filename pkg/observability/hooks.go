// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about seal generation stages and artifact cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSealHooks(&mySealHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Seal().OnEncodeComplete(ctx, level, modules, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// SealHooks receives events from the seal generation pipeline.
type SealHooks interface {
	// OnGenerateStart fires when a generation call begins, after input
	// validation but before any encoding work.
	OnGenerateStart(ctx context.Context, version string)

	// OnGenerateComplete fires when a generation call finishes.
	// artifactSize is 0 when err is non-nil.
	OnGenerateComplete(ctx context.Context, version string, artifactSize int, duration time.Duration, err error)

	// OnEncodeComplete fires after QR matrix encoding.
	// modules is the matrix side length N (0 on error).
	OnEncodeComplete(ctx context.Context, level string, modules int, err error)

	// OnTextureComplete fires after spore field generation.
	// accepted/masked are sample counts; omitted reports whether the texture
	// layer was unavailable and the artifact composed without it.
	OnTextureComplete(ctx context.Context, accepted, masked int, omitted bool, duration time.Duration)

	// OnTemplateIntegrityFailure fires when the base template fails checksum
	// validation. This is the operator-alert path: every future seal from
	// this process is unreliable until the drift is fixed.
	OnTemplateIntegrityFailure(ctx context.Context, expected, actual string)
}

// CacheHooks receives events from artifact cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSealHooks is a no-op implementation of SealHooks.
type NoopSealHooks struct{}

func (NoopSealHooks) OnGenerateStart(context.Context, string)                               {}
func (NoopSealHooks) OnGenerateComplete(context.Context, string, int, time.Duration, error) {}
func (NoopSealHooks) OnEncodeComplete(context.Context, string, int, error)                  {}
func (NoopSealHooks) OnTextureComplete(context.Context, int, int, bool, time.Duration)      {}
func (NoopSealHooks) OnTemplateIntegrityFailure(context.Context, string, string)            {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	sealHooks  SealHooks  = NoopSealHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	hooksMu    sync.RWMutex
)

// SetSealHooks registers custom seal generation hooks.
// This should be called once at application startup before any generation.
func SetSealHooks(h SealHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sealHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Seal returns the registered seal generation hooks.
func Seal() SealHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sealHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	sealHooks = NoopSealHooks{}
	cacheHooks = NoopCacheHooks{}
}
