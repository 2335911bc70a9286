package builder

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/packdex/packdex/pkg/catalog"
)

func TestCoordinatorTryAcquire(t *testing.T) {
	c := NewCoordinator()

	if !c.TryAcquire("libraries") {
		t.Fatal("first TryAcquire should succeed")
	}
	if c.TryAcquire("libraries") {
		t.Error("second TryAcquire for the same name should fail")
	}
	if !c.TryAcquire("plugins") {
		t.Error("TryAcquire for a different name should succeed")
	}

	c.Release("libraries")
	if !c.TryAcquire("libraries") {
		t.Error("TryAcquire after Release should succeed")
	}
}

func TestCoordinatorRunSingleFlight(t *testing.T) {
	c := NewCoordinator()
	pt := catalog.PackageType{Name: "libraries"}

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		_, err := c.Run(context.Background(), pt, func(ctx context.Context) (catalog.Catalog, error) {
			close(started)
			<-release
			return catalog.Catalog{}, nil
		})
		done <- err
	}()

	<-started
	_, err := c.Run(context.Background(), pt, func(ctx context.Context) (catalog.Catalog, error) {
		t.Error("second build must not execute while the first is running")
		return nil, nil
	})
	if !errors.Is(err, ErrBuildInProgress) {
		t.Errorf("concurrent Run error = %v, want ErrBuildInProgress", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Errorf("first Run failed: %v", err)
	}
}

func TestCoordinatorReleasesAfterFailure(t *testing.T) {
	c := NewCoordinator()
	pt := catalog.PackageType{Name: "libraries"}
	boom := errors.New("boom")

	_, err := c.Run(context.Background(), pt, func(ctx context.Context) (catalog.Catalog, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Run error = %v, want %v", err, boom)
	}

	if c.InFlight(pt.Name) {
		t.Error("type should not be in-flight after a failed build")
	}

	ran := false
	if _, err := c.Run(context.Background(), pt, func(ctx context.Context) (catalog.Catalog, error) {
		ran = true
		return catalog.Catalog{}, nil
	}); err != nil {
		t.Errorf("Run after failure should succeed, got %v", err)
	}
	if !ran {
		t.Error("build after failure did not execute")
	}
}

func TestCoordinatorErrorNamesType(t *testing.T) {
	c := NewCoordinator()
	pt := catalog.PackageType{Name: "plugins"}

	if !c.TryAcquire(pt.Name) {
		t.Fatal("TryAcquire failed")
	}
	_, err := c.Run(context.Background(), pt, nil)
	if err == nil || !errors.Is(err, ErrBuildInProgress) {
		t.Fatalf("Run error = %v, want ErrBuildInProgress", err)
	}
	if want := "plugins"; !strings.Contains(err.Error(), want) {
		t.Errorf("error %q should name the package type %q", err, want)
	}
}
