package builder

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/packdex/packdex/pkg/catalog"
)

// ErrBuildInProgress is returned when a catalog build for the same package
// type is already running. Callers should not wait: the running build will
// populate the shared cache, which the caller can re-read shortly.
var ErrBuildInProgress = errors.New("catalog build already in progress")

// Coordinator guarantees at most one catalog build per package type at any
// time. A full rebuild fans out into hundreds of upstream calls, so a
// cache-miss stampede without this guard would multiply upstream load
// linearly with the number of concurrent callers.
//
// The in-flight registry is the only mutable shared state in the build
// core. Construct a fresh Coordinator per test to keep tests isolated.
type Coordinator struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewCoordinator creates a coordinator with an empty in-flight registry.
func NewCoordinator() *Coordinator {
	return &Coordinator{inflight: make(map[string]struct{})}
}

// TryAcquire atomically registers name as in-flight. It returns false if a
// build for name is already registered.
func (c *Coordinator) TryAcquire(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inflight[name]; busy {
		return false
	}
	c.inflight[name] = struct{}{}
	return true
}

// Release deregisters name. Releasing an unregistered name is a no-op.
func (c *Coordinator) Release(name string) {
	c.mu.Lock()
	delete(c.inflight, name)
	c.mu.Unlock()
}

// InFlight reports whether a build for name is currently registered.
func (c *Coordinator) InFlight(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, busy := c.inflight[name]
	return busy
}

// Run executes fn under the single-flight guard for pt. If another build
// for the same type is running, it fails immediately with an error
// wrapping [ErrBuildInProgress]. The registration is released on every
// exit path, including fn panicking or failing, so a failed build can
// never leave the type stuck in-flight.
func (c *Coordinator) Run(ctx context.Context, pt catalog.PackageType, fn func(ctx context.Context) (catalog.Catalog, error)) (catalog.Catalog, error) {
	if !c.TryAcquire(pt.Name) {
		return nil, fmt.Errorf("%w: %s", ErrBuildInProgress, pt.Name)
	}
	defer c.Release(pt.Name)
	return fn(ctx)
}
