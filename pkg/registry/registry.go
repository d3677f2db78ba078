// Package registry maps CMS typenames to block renderers.
//
// A [Registry] is built once at startup, sealed, and then shared read-only by
// every request. Lookups are exact, case-sensitive string matches; an unknown
// typename is reported through the second return value of [Registry.Resolve],
// never as a default renderer.
//
//	reg := registry.New()
//	_ = reg.Register("GLTextBlock", textRenderer)
//	reg.Seal()
//
//	if r, ok := reg.Resolve(desc.Typename); ok {
//	    html, err := r.Render(ctx, props)
//	}
package registry

import (
	"sort"
	"sync"

	"github.com/matzehuels/storeblocks/pkg/errors"
	"github.com/matzehuels/storeblocks/pkg/render"
)

// Entry is one typename binding.
type Entry struct {
	Typename string
	Renderer render.Renderer
}

// Registry is a typename to renderer table. Registration is only allowed
// before Seal; after that the registry is safe for concurrent reads.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]render.Renderer
	sealed  bool
}

// New returns an empty, unsealed registry.
func New() *Registry {
	return &Registry{entries: make(map[string]render.Renderer)}
}

// Register binds typename to r. A later registration of the same typename
// replaces the earlier one.
func (g *Registry) Register(typename string, r render.Renderer) error {
	if err := errors.ValidateTypename(typename); err != nil {
		return err
	}
	if r == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil renderer for %s", typename)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sealed {
		return errors.New(errors.ErrCodeRegistrySealed, "cannot register %s: registry is sealed", typename)
	}
	g.entries[typename] = r
	return nil
}

// MustRegister is like Register but panics on error.
func (g *Registry) MustRegister(typename string, r render.Renderer) {
	if err := g.Register(typename, r); err != nil {
		panic(err)
	}
}

// Seal makes the registry read-only.
func (g *Registry) Seal() {
	g.mu.Lock()
	g.sealed = true
	g.mu.Unlock()
}

// Sealed reports whether Seal has been called.
func (g *Registry) Sealed() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.sealed
}

// Resolve returns the renderer bound to typename. The same renderer value is
// returned on every call until the binding is replaced.
func (g *Registry) Resolve(typename string) (render.Renderer, bool) {
	g.mu.RLock()
	r, ok := g.entries[typename]
	g.mu.RUnlock()
	return r, ok
}

// Len returns the number of bindings.
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.entries)
}

// Typenames returns all bound typenames, sorted.
func (g *Registry) Typenames() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, 0, len(g.entries))
	for name := range g.entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Entries returns all bindings sorted by typename.
func (g *Registry) Entries() []Entry {
	names := g.Typenames()
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Entry, 0, len(names))
	for _, name := range names {
		if r, ok := g.entries[name]; ok {
			out = append(out, Entry{Typename: name, Renderer: r})
		}
	}
	return out
}
