// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about pipeline stages, cache operations, and HTTP fetches.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the core packages stay
// free of observability-framework dependencies and import cycles.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetStageHooks(&myStageHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Stages().OnStageStart(ctx, "extract")
//	// ... extract the domain ...
//	observability.Stages().OnStageComplete(ctx, "extract", duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Stage Hooks
// =============================================================================

// StageHooks receives events from the meshing pipeline. Stage names are
// "extract", "grade", "mesh" and "write".
type StageHooks interface {
	// OnStageStart records the start of a pipeline stage.
	OnStageStart(ctx context.Context, stage string)

	// OnStageComplete records the completion of a pipeline stage.
	OnStageComplete(ctx context.Context, stage string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations. Key types are the
// cache key prefixes, e.g. "domain" and "hfun".
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP fetches of remote constraint files.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, url string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, url string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, url string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopStageHooks is a no-op implementation of StageHooks.
type NoopStageHooks struct{}

func (NoopStageHooks) OnStageStart(context.Context, string)                          {}
func (NoopStageHooks) OnStageComplete(context.Context, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                              {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration)         {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                         {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	stageHooks StageHooks = NoopStageHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetStageHooks registers custom stage hooks.
// This should be called once at application startup before any pipeline runs.
func SetStageHooks(h StageHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		stageHooks = h
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

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP fetches.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Stages returns the registered stage hooks.
func Stages() StageHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return stageHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	stageHooks = NoopStageHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
