package fragments

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/matzehuels/storeblocks/pkg/errors"
	"github.com/matzehuels/storeblocks/pkg/schema"
)

func TestTypenames(t *testing.T) {
	s := Builtin()
	names := s.Typenames()
	assert.Len(t, names, 21)
	assert.NotContains(t, names, "ProductCard")
	assert.IsIncreasing(t, names)
}

func TestFragmentIncludesSpreads(t *testing.T) {
	s := Builtin()

	text, err := s.Fragment("GLProductListingBlock")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "fragment GLProductListingBlock on GLProductListingBlock"))
	assert.Contains(t, text, "fragment ProductCard on IProductItem")

	alias, err := s.Fragment("GLMonoBanner")
	require.NoError(t, err)
	canon, _ := s.Fragment("GLMonoBannerBlock")
	assert.Equal(t, canon, alias)
}

func TestFragmentNotFound(t *testing.T) {
	s := Builtin()
	for _, name := range []string{"GLNopeBlock", "ProductCard", ""} {
		_, err := s.Fragment(name)
		assert.True(t, errors.Is(err, errors.ErrCodeFragmentNotFound), name)
	}
}

func TestAllBlockTypesParses(t *testing.T) {
	doc := Builtin().AllBlockTypes()
	parsed, err := parser.ParseQuery(&ast.Source{Input: doc})
	require.Nil(t, err)

	// one composite, 21 blocks, one helper
	assert.Len(t, parsed.Fragments, 23)
	assert.Equal(t, 1, strings.Count(doc, "fragment ProductCard "))
	assert.Contains(t, doc, "...GLTextBlock\n")
}

func TestPaths(t *testing.T) {
	paths, err := Builtin().Paths("GLHeroBannerBlock")
	require.NoError(t, err)
	assert.Contains(t, paths, "fields.blockImagePointer.item.url")
	// inline fragments contribute under children
	assert.Contains(t, paths, "children.fields.multiLangEditor")

	featured, err := Builtin().Paths("GLFeaturedProductsBannerBlock")
	require.NoError(t, err)
	assert.Contains(t, featured, "fields.productsLinkList.item.images.url")
}

func TestLoadRejectsMismatchedName(t *testing.T) {
	fsys := fstest.MapFS{
		"a/Wrong.graphql": {Data: []byte("fragment Other on Other { id }")},
	}
	_, err := Load(fsys)
	assert.Error(t, err)

	fsys = fstest.MapFS{
		"a/Broken.graphql": {Data: []byte("fragment Broken on Broken {")},
	}
	_, err = Load(fsys)
	assert.Error(t, err)
}

// Every path a field template reads must be selected by the block's fragment,
// otherwise the CMS never returns it.
func TestTemplatesCoveredByFragments(t *testing.T) {
	frags := Builtin()
	tpls := schema.Builtin()

	var names []string
	for _, tpl := range tpls.Templates() {
		names = append(names, tpl.Typename)
		selected, err := frags.Paths(tpl.Typename)
		require.NoError(t, err, tpl.Typename)

		have := make(map[string]bool, len(selected))
		for _, p := range selected {
			have[p] = true
		}
		var missing []string
		for _, p := range tpl.Paths() {
			if !have[p] {
				missing = append(missing, p)
			}
		}
		assert.Empty(t, missing, tpl.Typename)
	}

	if diff := cmp.Diff(frags.Typenames(), names); diff != "" {
		t.Errorf("templates and fragments disagree (-fragments +templates):\n%s", diff)
	}
}
