package registry

import (
	"context"
	"html/template"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/storeblocks/pkg/errors"
	"github.com/matzehuels/storeblocks/pkg/render"
)

type stubRenderer struct{ out string }

func (s *stubRenderer) Render(context.Context, render.Props) (template.HTML, error) {
	return template.HTML(s.out), nil
}

func TestResolveReturnsSameRenderer(t *testing.T) {
	reg := New()
	text := &stubRenderer{out: "text"}
	require.NoError(t, reg.Register("GLTextBlock", text))
	reg.Seal()

	first, ok := reg.Resolve("GLTextBlock")
	require.True(t, ok)
	second, ok := reg.Resolve("GLTextBlock")
	require.True(t, ok)

	assert.Same(t, text, first)
	assert.Same(t, first, second)
}

func TestResolveUnknown(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register("GLTextBlock", &stubRenderer{}))

	tests := []string{"UnknownBlock", "gltextblock", "", "GLTextBlock "}
	for _, name := range tests {
		r, ok := reg.Resolve(name)
		assert.False(t, ok, "Resolve(%q)", name)
		assert.Nil(t, r, "Resolve(%q)", name)
	}
}

func TestRegisterLastWins(t *testing.T) {
	reg := New()
	a := &stubRenderer{out: "a"}
	b := &stubRenderer{out: "b"}
	require.NoError(t, reg.Register("GLEmptyBlock", a))
	require.NoError(t, reg.Register("GLEmptyBlock", b))

	got, ok := reg.Resolve("GLEmptyBlock")
	require.True(t, ok)
	assert.Same(t, b, got)
	assert.Equal(t, 1, reg.Len())
}

func TestRegisterAfterSeal(t *testing.T) {
	reg := New()
	reg.Seal()
	assert.True(t, reg.Sealed())

	err := reg.Register("GLTextBlock", &stubRenderer{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeRegistrySealed))
	assert.Equal(t, 0, reg.Len())
}

func TestRegisterInvalid(t *testing.T) {
	reg := New()
	assert.Error(t, reg.Register("", &stubRenderer{}))
	assert.Error(t, reg.Register("GL Text", &stubRenderer{}))
	assert.Error(t, reg.Register("GLTextBlock", nil))
	assert.Panics(t, func() { reg.MustRegister("", &stubRenderer{}) })
}

func TestTypenamesSorted(t *testing.T) {
	reg := New()
	for _, name := range []string{"GLTextBlock", "GLBrandListBlock", "GLEmptyBlock"} {
		reg.MustRegister(name, &stubRenderer{out: name})
	}
	assert.Equal(t, []string{"GLBrandListBlock", "GLEmptyBlock", "GLTextBlock"}, reg.Typenames())

	entries := reg.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "GLBrandListBlock", entries[0].Typename)
}

func TestConcurrentResolve(t *testing.T) {
	reg := New()
	text := &stubRenderer{}
	reg.MustRegister("GLTextBlock", text)
	reg.Seal()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, ok := reg.Resolve("GLTextBlock")
			assert.True(t, ok)
			assert.Same(t, text, r)
		}()
	}
	wg.Wait()
}
