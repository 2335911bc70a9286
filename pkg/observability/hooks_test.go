package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	h := NoopBuildHooks{}
	h.OnBuildStart(ctx, "libraries", "build-1")
	h.OnBuildComplete(ctx, "libraries", "build-1", 42, time.Second, nil)
	h.OnSnapshotHit(ctx, "libraries")
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	if _, ok := Build().(NoopBuildHooks); !ok {
		t.Error("Build() should return NoopBuildHooks by default")
	}

	custom := &testBuildHooks{}
	SetBuildHooks(custom)
	if Build() != custom {
		t.Error("SetBuildHooks should set custom hooks")
	}

	Reset()
	if _, ok := Build().(NoopBuildHooks); !ok {
		t.Error("Reset() should restore NoopBuildHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testBuildHooks{}
	SetBuildHooks(custom)

	// Setting nil should be ignored
	SetBuildHooks(nil)

	if Build() != custom {
		t.Error("SetBuildHooks(nil) should be ignored")
	}

	Reset()
}

type testBuildHooks struct{ NoopBuildHooks }
