// Package observability lets a binary observe page renders, form posts,
// cache lookups and CMS requests.
//
// Libraries in this module emit events through the registered hooks; the
// defaults do nothing. A binary registers its implementations once at
// startup, before serving. [LogHooks] covers every hook kind and writes the
// events to a charmbracelet logger at debug level:
//
//	observability.Install(observability.NewLogHooks(logger))
//
// A metrics exporter can take over single kinds:
//
//	observability.SetCacheHooks(&promCacheHooks{})
//
// Libraries call hooks around the work they do:
//
//	observability.Pipeline().OnFetchStart(ctx, "graphql", pageID)
//	// ... fetch the page ...
//	observability.Pipeline().OnFetchComplete(ctx, "graphql", pageID, len(page.Blocks), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the page rendering pipeline.
type PipelineHooks interface {
	// Fetch events
	OnFetchStart(ctx context.Context, source, pageID string)
	OnFetchComplete(ctx context.Context, source, pageID string, blocks int, duration time.Duration, err error)

	// Block events
	OnBlockRendered(ctx context.Context, typename string, cached bool, duration time.Duration, err error)
	OnUnknownTypename(ctx context.Context, typename string)

	// Page events
	OnPageComplete(ctx context.Context, pageID string, blocks int, duration time.Duration, err error)
}

// =============================================================================
// Form Hooks
// =============================================================================

// FormHooks receives events from form submissions.
type FormHooks interface {
	// OnSubmit records a finished submission attempt and its resulting status.
	OnSubmit(ctx context.Context, typename, status string, duration time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives page, block and response cache lookups. kind is one
// of "page", "block" or "response".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, kind string)
	OnCacheMiss(ctx context.Context, kind string)
	OnCacheSet(ctx context.Context, kind string, bytes int)
}

// =============================================================================
// CMS Transport Hooks
// =============================================================================

// HTTPHooks receives the requests the GraphQL source sends to the CMS.
// OnError covers transport failures only; error statuses arrive through
// OnResponse.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, status int, took time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// Defaults
// =============================================================================

// NoopPipelineHooks ignores every event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnFetchStart(context.Context, string, string) {}
func (NoopPipelineHooks) OnFetchComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnBlockRendered(context.Context, string, bool, time.Duration, error) {}
func (NoopPipelineHooks) OnUnknownTypename(context.Context, string)                           {}
func (NoopPipelineHooks) OnPageComplete(context.Context, string, int, time.Duration, error)   {}

// NoopFormHooks is a no-op implementation of FormHooks.
type NoopFormHooks struct{}

func (NoopFormHooks) OnSubmit(context.Context, string, string, time.Duration) {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Registration
// =============================================================================

// slot holds the registered implementation of one hook kind.
type slot[T any] struct {
	mu   sync.RWMutex
	cur  T
	noop T
}

func newSlot[T any](noop T) *slot[T] {
	return &slot[T]{cur: noop, noop: noop}
}

func (s *slot[T]) get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// set installs h unless it is a nil interface.
func (s *slot[T]) set(h T) {
	if any(h) == nil {
		return
	}
	s.mu.Lock()
	s.cur = h
	s.mu.Unlock()
}

func (s *slot[T]) reset() {
	s.mu.Lock()
	s.cur = s.noop
	s.mu.Unlock()
}

var (
	pipelineSlot = newSlot[PipelineHooks](NoopPipelineHooks{})
	formSlot     = newSlot[FormHooks](NoopFormHooks{})
	cacheSlot    = newSlot[CacheHooks](NoopCacheHooks{})
	httpSlot     = newSlot[HTTPHooks](NoopHTTPHooks{})
)

// SetPipelineHooks registers custom pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) { pipelineSlot.set(h) }

// SetFormHooks registers custom form hooks. Nil is ignored.
func SetFormHooks(h FormHooks) { formSlot.set(h) }

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) { cacheSlot.set(h) }

// SetHTTPHooks registers custom HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) { httpSlot.set(h) }

// Install registers h for every hook kind it implements and reports how
// many kinds it took over.
func Install(h any) int {
	n := 0
	if v, ok := h.(PipelineHooks); ok {
		SetPipelineHooks(v)
		n++
	}
	if v, ok := h.(FormHooks); ok {
		SetFormHooks(v)
		n++
	}
	if v, ok := h.(CacheHooks); ok {
		SetCacheHooks(v)
		n++
	}
	if v, ok := h.(HTTPHooks); ok {
		SetHTTPHooks(v)
		n++
	}
	return n
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return pipelineSlot.get() }

// Forms returns the registered form hooks.
func Forms() FormHooks { return formSlot.get() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return cacheSlot.get() }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return httpSlot.get() }

// Reset restores all hooks to their no-op defaults.
func Reset() {
	pipelineSlot.reset()
	formSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}
