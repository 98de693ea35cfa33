package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Stage hooks
	s := NoopStageHooks{}
	s.OnStageStart(ctx, "extract")
	s.OnStageComplete(ctx, "extract", time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "domain")
	c.OnCacheMiss(ctx, "hfun")
	c.OnCacheSet(ctx, "domain", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "https://example.com/rivers.geojson")
	h.OnResponse(ctx, "GET", "https://example.com/rivers.geojson", 200, time.Second)
	h.OnError(ctx, "GET", "https://example.com/rivers.geojson", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Stages().(NoopStageHooks); !ok {
		t.Error("Stages() should return NoopStageHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customStages := &testStageHooks{}
	SetStageHooks(customStages)
	if Stages() != customStages {
		t.Error("SetStageHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Stages().(NoopStageHooks); !ok {
		t.Error("Reset() should restore NoopStageHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testStageHooks{}
	SetStageHooks(custom)

	// Setting nil should be ignored
	SetStageHooks(nil)

	if Stages() != custom {
		t.Error("SetStageHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testStageHooks struct{ NoopStageHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
