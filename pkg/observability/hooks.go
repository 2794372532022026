// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about editing, export, cache operations, and image fetches.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// The layer store itself stays free of hooks; the interaction controller and
// the exporter emit editor events after they mutate it.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEditorHooks(&myEditorHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Editor().OnExportStart(ctx, region)
//	// ... rasterize ...
//	observability.Editor().OnExportComplete(ctx, filename, size, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Editor Hooks
// =============================================================================

// EditorHooks receives events from the interaction controller and exporter.
type EditorHooks interface {
	// Layer lifecycle
	OnLayerAdded(ctx context.Context, id int, width, height float64)
	OnLayerRemoved(ctx context.Context, id int)

	// OnReorder records a z-order operation ("up", "down", "front", "back").
	OnReorder(ctx context.Context, id int, op string)

	// Export events
	OnExportStart(ctx context.Context, layerCount int)
	OnExportComplete(ctx context.Context, filename string, size int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
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

// HTTPHooks receives events from remote image fetches.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEditorHooks is a no-op implementation of EditorHooks.
type NoopEditorHooks struct{}

func (NoopEditorHooks) OnLayerAdded(context.Context, int, float64, float64) {}
func (NoopEditorHooks) OnLayerRemoved(context.Context, int)                 {}
func (NoopEditorHooks) OnReorder(context.Context, int, string)              {}
func (NoopEditorHooks) OnExportStart(context.Context, int)                  {}
func (NoopEditorHooks) OnExportComplete(context.Context, string, int, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	editorHooks EditorHooks = NoopEditorHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetEditorHooks registers custom editor hooks.
// This should be called once at application startup before any editing.
func SetEditorHooks(h EditorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		editorHooks = h
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
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Editor returns the registered editor hooks.
func Editor() EditorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return editorHooks
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
	editorHooks = NoopEditorHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
