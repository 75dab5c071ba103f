package observability

import (
	"context"
	"testing"
	"time"
)

type testSealHooks struct {
	generateStarts int
	encodes        int
	textures       int
	integrity      int
}

func (h *testSealHooks) OnGenerateStart(context.Context, string) { h.generateStarts++ }
func (h *testSealHooks) OnGenerateComplete(context.Context, string, int, time.Duration, error) {}
func (h *testSealHooks) OnEncodeComplete(context.Context, string, int, error) { h.encodes++ }
func (h *testSealHooks) OnTextureComplete(context.Context, int, int, bool, time.Duration) {
	h.textures++
}
func (h *testSealHooks) OnTemplateIntegrityFailure(context.Context, string, string) { h.integrity++ }

type testCacheHooks struct {
	hits int
}

func (h *testCacheHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *testCacheHooks) OnCacheMiss(context.Context, string)     {}
func (h *testCacheHooks) OnCacheSet(context.Context, string, int) {}

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopSealHooks{}
	s.OnGenerateStart(ctx, "v1")
	s.OnGenerateComplete(ctx, "v1", 4096, time.Second, nil)
	s.OnEncodeComplete(ctx, "Q", 33, nil)
	s.OnTextureComplete(ctx, 9000, 240, false, time.Second)
	s.OnTemplateIntegrityFailure(ctx, "aaaa", "bbbb")

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "artifact")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Seal().(NoopSealHooks); !ok {
		t.Error("Seal() should return NoopSealHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customSeal := &testSealHooks{}
	SetSealHooks(customSeal)
	if Seal() != SealHooks(customSeal) {
		t.Error("SetSealHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != CacheHooks(customCache) {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// nil registration is ignored
	SetSealHooks(nil)
	if Seal() != SealHooks(customSeal) {
		t.Error("SetSealHooks(nil) should be a no-op")
	}

	Reset()
	if _, ok := Seal().(NoopSealHooks); !ok {
		t.Error("Reset() should restore noop hooks")
	}
}

func TestHooksFire(t *testing.T) {
	Reset()
	defer Reset()

	h := &testSealHooks{}
	SetSealHooks(h)

	ctx := context.Background()
	Seal().OnGenerateStart(ctx, "v1")
	Seal().OnEncodeComplete(ctx, "H", 37, nil)
	Seal().OnTextureComplete(ctx, 100, 5, false, time.Millisecond)

	if h.generateStarts != 1 || h.encodes != 1 || h.textures != 1 {
		t.Errorf("hook counts = %+v, want 1 each", h)
	}
}
