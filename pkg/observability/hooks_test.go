package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnFetchStart(ctx, "file", "home")
	p.OnFetchComplete(ctx, "file", "home", 12, time.Second, nil)
	p.OnBlockRendered(ctx, "GLTextBlock", false, time.Millisecond, nil)
	p.OnUnknownTypename(ctx, "GLLegacyBlock")
	p.OnPageComplete(ctx, "home", 12, time.Second, nil)

	NoopFormHooks{}.OnSubmit(ctx, "GLContactFormBlock", "success", time.Millisecond)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "page")
	c.OnCacheMiss(ctx, "block")
	c.OnCacheSet(ctx, "block", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "cms.example.com", "/graphql")
	h.OnResponse(ctx, "POST", "cms.example.com", "/graphql", 200, time.Second)
	h.OnError(ctx, "POST", "cms.example.com", "/graphql", nil)
}

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T, want NoopPipelineHooks", Pipeline())
	}
	if _, ok := Forms().(NoopFormHooks); !ok {
		t.Errorf("Forms() = %T, want NoopFormHooks", Forms())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T, want NoopCacheHooks", Cache())
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("HTTP() = %T, want NoopHTTPHooks", HTTP())
	}
}

func TestSetAndReset(t *testing.T) {
	t.Cleanup(Reset)

	p := &testPipelineHooks{}
	SetPipelineHooks(p)
	SetPipelineHooks(nil)
	if Pipeline() != p {
		t.Error("SetPipelineHooks(nil) should keep the registered hooks")
	}

	f := &testFormHooks{}
	SetFormHooks(f)
	if Forms() != f {
		t.Error("SetFormHooks should register the hooks")
	}

	Reset()
	if Pipeline() == p || Forms() == f {
		t.Error("Reset should restore the no-op hooks")
	}
}

func TestInstall(t *testing.T) {
	t.Cleanup(Reset)

	if n := Install(&testCacheHooks{}); n != 1 {
		t.Errorf("Install(cache only) = %d, want 1", n)
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Install should leave kinds the value does not implement alone")
	}

	h := NewLogHooks(log.New(&bytes.Buffer{}))
	if n := Install(h); n != 4 {
		t.Errorf("Install(LogHooks) = %d, want 4", n)
	}
	if Pipeline() != h || Forms() != h || Cache() != h || HTTP() != h {
		t.Error("LogHooks should take over every hook kind")
	}

	if n := Install("not hooks"); n != 0 {
		t.Errorf("Install(string) = %d, want 0", n)
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)
	h := NewLogHooks(logger)
	ctx := context.Background()

	h.OnCacheHit(ctx, "page")
	h.OnPageComplete(ctx, "home", 3, time.Millisecond, errors.New("boom"))
	h.OnUnknownTypename(ctx, "GLLegacyBlock")

	out := buf.String()
	for _, want := range []string{"hooks", "cache hit", "kind=page", "page complete", "err=boom", "typename=GLLegacyBlock"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksRespectLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.InfoLevel)
	h := NewLogHooks(logger)

	h.OnCacheMiss(context.Background(), "block")
	if buf.Len() != 0 {
		t.Errorf("debug events should be dropped at info level, got %q", buf.String())
	}
}

type testPipelineHooks struct{ NoopPipelineHooks }
type testFormHooks struct{ NoopFormHooks }
type testCacheHooks struct{ NoopCacheHooks }
