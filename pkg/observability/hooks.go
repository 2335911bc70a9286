// Package observability provides hooks for metrics and tracing.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register
// hooks at startup to receive events about catalog builds and snapshot
// cache activity.
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach avoids import cycles (hooks are registered by main, not
// by libraries) and keeps the build core free of observability framework
// dependencies.
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetBuildHooks(&myBuildHooks{})
//	    // ... run application
//	}
package observability

import (
	"context"
	"sync"
	"time"
)

// BuildHooks receives events from the catalog build pipeline.
type BuildHooks interface {
	// OnBuildStart records the beginning of a catalog rebuild.
	OnBuildStart(ctx context.Context, typeName, buildID string)

	// OnBuildComplete records the end of a catalog rebuild.
	OnBuildComplete(ctx context.Context, typeName, buildID string, packages int, duration time.Duration, err error)

	// OnSnapshotHit records a read served from the snapshot cache.
	OnSnapshotHit(ctx context.Context, typeName string)
}

// NoopBuildHooks is a no-op implementation of BuildHooks.
type NoopBuildHooks struct{}

func (NoopBuildHooks) OnBuildStart(context.Context, string, string) {}
func (NoopBuildHooks) OnBuildComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopBuildHooks) OnSnapshotHit(context.Context, string) {}

var (
	buildHooks BuildHooks = NoopBuildHooks{}
	hooksMu    sync.RWMutex
)

// SetBuildHooks registers custom build hooks.
// This should be called once at application startup before any builds.
func SetBuildHooks(h BuildHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		buildHooks = h
	}
}

// Build returns the registered build hooks.
func Build() BuildHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return buildHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	buildHooks = NoopBuildHooks{}
}
