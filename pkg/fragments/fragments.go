// Package fragments holds the GraphQL fragment of every block kind.
//
// Each fragment declares which fields the CMS must return for a block. The
// composite [AllBlockTypes] document is what a page query spreads inside its
// blocks selection. [Set.Paths] flattens a fragment into dotted field paths so
// the field templates in package schema can be checked against it.
package fragments

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/matzehuels/storeblocks/pkg/errors"
)

//go:embed graphql/*.graphql
var files embed.FS

// aliases maps legacy typenames onto the fragment that serves them.
var aliases = map[string]string{
	"GLMonoBanner":        "GLMonoBannerBlock",
	"GLHeroBanner":        "GLHeroBannerBlock",
	"GLGridBanner":        "GLGridBannerBlock",
	"GLRequestQuoteBlock": "GLRequestQuoteFormBlock",
}

// Set is a parsed collection of fragment documents.
type Set struct {
	sources map[string]string
	defs    map[string]*ast.FragmentDefinition
}

// Builtin parses the bundled fragments.
func Builtin() *Set {
	s, err := Load(files)
	if err != nil {
		panic("fragments: bundled documents: " + err.Error())
	}
	return s
}

// Load parses every *.graphql file under fsys. Each file holds exactly one
// fragment named after the file.
func Load(fsys fs.FS) (*Set, error) {
	s := &Set{
		sources: make(map[string]string),
		defs:    make(map[string]*ast.FragmentDefinition),
	}
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || path.Ext(p) != ".graphql" {
			return err
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		doc, perr := parser.ParseQuery(&ast.Source{Name: p, Input: string(data)})
		if perr != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, perr, "parse %s", p)
		}
		name := strings.TrimSuffix(path.Base(p), ".graphql")
		def := doc.Fragments.ForName(name)
		if def == nil || len(doc.Fragments) != 1 || len(doc.Operations) != 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must define exactly fragment %s", p, name)
		}
		s.sources[name] = strings.TrimSpace(string(data))
		s.defs[name] = def
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func canonical(typename string) string {
	if c, ok := aliases[typename]; ok {
		return c
	}
	return typename
}

// Fragment returns the fragment text for a block typename or alias, followed
// by any fragment it spreads.
func (s *Set) Fragment(typename string) (string, error) {
	name := canonical(typename)
	if _, ok := s.defs[name]; !ok || !s.isBlock(name) {
		return "", errors.New(errors.ErrCodeFragmentNotFound, "no fragment for %q", typename)
	}
	parts := []string{s.sources[name]}
	for _, dep := range s.spreads(name) {
		parts = append(parts, s.sources[dep])
	}
	return strings.Join(parts, "\n\n") + "\n", nil
}

// isBlock reports whether the fragment applies to its own block type rather
// than being a helper like ProductCard.
func (s *Set) isBlock(name string) bool {
	def := s.defs[name]
	return def != nil && def.TypeCondition == name
}

// Typenames returns the block typenames that have a fragment, sorted.
func (s *Set) Typenames() []string {
	var out []string
	for name := range s.defs {
		if s.isBlock(name) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Aliases returns the legacy typename aliases and their canonical names.
func Aliases() map[string]string {
	out := make(map[string]string, len(aliases))
	for k, v := range aliases {
		out[k] = v
	}
	return out
}

// AllBlockTypes returns a document with every block fragment and the
// helpers they spread, plus an AllBlockTypes fragment spreading them all.
func (s *Set) AllBlockTypes() string {
	names := s.Typenames()
	var b strings.Builder
	b.WriteString("fragment AllBlockTypes on IBlockItem {\n  __typename\n  systemId\n")
	for _, n := range names {
		b.WriteString("  ..." + n + "\n")
	}
	b.WriteString("}\n")

	seen := make(map[string]bool)
	for _, n := range names {
		for _, dep := range append([]string{n}, s.spreads(n)...) {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			b.WriteString("\n" + s.sources[dep] + "\n")
		}
	}
	return b.String()
}

// spreads returns the named fragments reachable from name, in first-use order.
func (s *Set) spreads(name string) []string {
	var out []string
	seen := map[string]bool{name: true}
	var walk func(ast.SelectionSet)
	walk = func(set ast.SelectionSet) {
		for _, sel := range set {
			switch v := sel.(type) {
			case *ast.Field:
				walk(v.SelectionSet)
			case *ast.InlineFragment:
				walk(v.SelectionSet)
			case *ast.FragmentSpread:
				if seen[v.Name] {
					continue
				}
				seen[v.Name] = true
				out = append(out, v.Name)
				if def, ok := s.defs[v.Name]; ok {
					walk(def.SelectionSet)
				}
			}
		}
	}
	if def, ok := s.defs[name]; ok {
		walk(def.SelectionSet)
	}
	return out
}

// Paths returns every dotted field path selected by a block fragment,
// including intermediate objects. Spreads are expanded in place and inline
// fragments contribute under the enclosing field.
func (s *Set) Paths(typename string) ([]string, error) {
	name := canonical(typename)
	def, ok := s.defs[name]
	if !ok || !s.isBlock(name) {
		return nil, errors.New(errors.ErrCodeFragmentNotFound, "no fragment for %q", typename)
	}
	set := make(map[string]bool)
	s.collect("", def.SelectionSet, set, map[string]bool{name: true})
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

func (s *Set) collect(prefix string, sels ast.SelectionSet, out, active map[string]bool) {
	for _, sel := range sels {
		switch v := sel.(type) {
		case *ast.Field:
			key := v.Alias
			if key == "" {
				key = v.Name
			}
			p := key
			if prefix != "" {
				p = prefix + "." + key
			}
			out[p] = true
			s.collect(p, v.SelectionSet, out, active)
		case *ast.InlineFragment:
			s.collect(prefix, v.SelectionSet, out, active)
		case *ast.FragmentSpread:
			def, ok := s.defs[v.Name]
			if !ok || active[v.Name] {
				continue
			}
			active[v.Name] = true
			s.collect(prefix, def.SelectionSet, out, active)
			delete(active, v.Name)
		}
	}
}
