// Package schema describes the field template of every block kind and checks
// descriptors against it at the data-fetch boundary.
//
// Templates live in an embedded YAML file. Each template lists the fields a
// block may carry, their kind, whether they are required and the default
// used when the CMS leaves them out. Renderers can then rely on defaults
// being present and on values having the declared shape.
package schema

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/storeblocks/pkg/block"
	"github.com/matzehuels/storeblocks/pkg/errors"
)

// Kind is the declared shape of a field.
type Kind string

const (
	KindString   Kind = "string"
	KindRichText Kind = "richtext"
	KindNumber   Kind = "number"
	KindBool     Kind = "bool"
	KindColor    Kind = "color"
	KindOption   Kind = "option"
	KindOptions  Kind = "options"
	KindMedia    Kind = "media"
	KindPointer  Kind = "pointer"
	KindLink     Kind = "link"
	KindList     Kind = "list"
	KindRefs     Kind = "refs"
	KindAny      Kind = "any"
)

var knownKinds = map[Kind]bool{
	KindString: true, KindRichText: true, KindNumber: true, KindBool: true,
	KindColor: true, KindOption: true, KindOptions: true, KindMedia: true,
	KindPointer: true, KindLink: true, KindList: true, KindRefs: true, KindAny: true,
}

// Field is one entry of a template.
type Field struct {
	Name     string  `yaml:"name"`
	Kind     Kind    `yaml:"kind"`
	Required bool    `yaml:"required"`
	Default  any     `yaml:"default"`
	Fields   []Field `yaml:"fields"`
}

// Template is the field contract of one block kind.
type Template struct {
	Typename string   `yaml:"typename"`
	Aliases  []string `yaml:"aliases"`
	Fields   []Field  `yaml:"fields"`
}

// Set is a collection of templates indexed by typename and alias.
type Set struct {
	templates []*Template
	byName    map[string]*Template
}

//go:embed blocks.yaml
var builtin []byte

// Builtin returns the templates of every bundled block kind.
func Builtin() *Set {
	s, err := Parse(builtin)
	if err != nil {
		panic(fmt.Sprintf("schema: bundled templates: %v", err))
	}
	return s
}

// Parse decodes and checks a YAML template list.
func Parse(data []byte) (*Set, error) {
	var templates []*Template
	if err := yaml.Unmarshal(data, &templates); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse block templates")
	}

	s := &Set{byName: make(map[string]*Template)}
	for _, t := range templates {
		if err := errors.ValidateTypename(t.Typename); err != nil {
			return nil, err
		}
		if err := checkFields(t.Typename, t.Fields); err != nil {
			return nil, err
		}
		for _, name := range append([]string{t.Typename}, t.Aliases...) {
			if _, dup := s.byName[name]; dup {
				return nil, errors.New(errors.ErrCodeInvalidConfig, "duplicate template %s", name)
			}
			s.byName[name] = t
		}
		s.templates = append(s.templates, t)
	}
	return s, nil
}

func checkFields(owner string, fields []Field) error {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "%s: field without name", owner)
		}
		if seen[f.Name] {
			return errors.New(errors.ErrCodeInvalidConfig, "%s: duplicate field %s", owner, f.Name)
		}
		seen[f.Name] = true
		if !knownKinds[f.Kind] {
			return errors.New(errors.ErrCodeInvalidConfig, "%s.%s: unknown kind %q", owner, f.Name, f.Kind)
		}
		if f.Kind == KindList {
			if err := checkFields(owner+"."+f.Name, f.Fields); err != nil {
				return err
			}
		}
	}
	return nil
}

// Lookup returns the template for a typename or one of its aliases.
func (s *Set) Lookup(typename string) (*Template, bool) {
	t, ok := s.byName[typename]
	return t, ok
}

// Templates returns all templates sorted by typename.
func (s *Set) Templates() []*Template {
	out := append([]*Template(nil), s.templates...)
	sort.Slice(out, func(i, j int) bool { return out[i].Typename < out[j].Typename })
	return out
}

// Names returns every typename and alias, sorted.
func (s *Set) Names() []string {
	out := make([]string, 0, len(s.byName))
	for name := range s.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Paths returns the fragment selection paths the template reads, such as
// "fields.blockImagePointer.item.url".
func (t *Template) Paths() []string {
	var out []string
	collectPaths("fields", t.Fields, &out)
	sort.Strings(out)
	return out
}

func collectPaths(prefix string, fields []Field, out *[]string) {
	for _, f := range fields {
		p := prefix + "." + f.Name
		switch f.Kind {
		case KindOption, KindOptions:
			*out = append(*out, p+".value")
		case KindMedia, KindPointer:
			*out = append(*out, p+".item.url")
		case KindLink:
			*out = append(*out, p+".url")
		case KindRefs:
			*out = append(*out, p+".item")
		case KindList:
			collectPaths(p, f.Fields, out)
		default:
			*out = append(*out, p)
		}
	}
}

// Issue is one validation finding.
type Issue struct {
	Path    string
	Message string
}

func (i Issue) String() string {
	return i.Path + ": " + i.Message
}

// ValidationError aggregates the issues of one block.
type ValidationError struct {
	Typename string
	BlockID  string
	Issues   []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		parts[i] = is.String()
	}
	return fmt.Sprintf("%s %s: %s", e.Typename, e.BlockID, strings.Join(parts, "; "))
}

// Validate checks d against its template. Blocks without a template are
// reported with ErrCodeUnknownTypename so the caller can apply its unknown
// typename policy. Shape mismatches are returned as a *ValidationError
// wrapped with ErrCodeInvalidBlock.
func (s *Set) Validate(d block.Descriptor) error {
	t, ok := s.Lookup(d.Typename)
	if !ok {
		return errors.New(errors.ErrCodeUnknownTypename, "no template for %q", d.Typename)
	}
	var issues []Issue
	validateFields("fields", t.Fields, d.Fields, &issues)
	if len(issues) == 0 {
		return nil
	}
	verr := &ValidationError{Typename: d.Typename, BlockID: d.ID(), Issues: issues}
	return errors.Wrap(errors.ErrCodeInvalidBlock, verr, "block %s failed validation", d.ID())
}

func validateFields(prefix string, fields []Field, values block.Fields, issues *[]Issue) {
	for _, f := range fields {
		p := prefix + "." + f.Name
		v, present := values[f.Name]
		if !present || v.IsNull() {
			if f.Required {
				*issues = append(*issues, Issue{Path: p, Message: "required field is missing"})
			}
			continue
		}
		if msg := checkKind(f.Kind, v); msg != "" {
			*issues = append(*issues, Issue{Path: p, Message: msg})
			continue
		}
		if f.Kind == KindList {
			for i, item := range v.Items() {
				validateFields(fmt.Sprintf("%s.%d", p, i), f.Fields, item.Fields(), issues)
			}
		}
	}
}

func checkKind(k Kind, v block.Value) string {
	vk := v.Kind()
	want := func(kinds ...block.Kind) string {
		for _, ok := range kinds {
			if vk == ok {
				return ""
			}
		}
		return fmt.Sprintf("expected %s, got %s", k, vk)
	}
	switch k {
	case KindString, KindRichText:
		return want(block.KindString, block.KindNumber)
	case KindNumber:
		if _, ok := v.Float(); !ok {
			return fmt.Sprintf("expected number, got %s", vk)
		}
		return ""
	case KindBool:
		if vk == block.KindString && (v.Text() == "true" || v.Text() == "false") {
			return ""
		}
		return want(block.KindBool)
	case KindColor, KindOption:
		return want(block.KindString, block.KindRecord, block.KindList)
	case KindOptions, KindRefs:
		return want(block.KindList, block.KindRecord, block.KindString)
	case KindMedia, KindPointer, KindLink:
		return want(block.KindRecord, block.KindList)
	case KindList:
		if msg := want(block.KindList); msg != "" {
			return msg
		}
		for i, item := range v.Items() {
			if item.Kind() != block.KindRecord {
				return fmt.Sprintf("item %d: expected record, got %s", i, item.Kind())
			}
		}
		return ""
	default:
		return ""
	}
}

// ApplyDefaults returns a copy of d with template defaults filled in for
// absent fields, including inside list items.
func (s *Set) ApplyDefaults(d block.Descriptor) block.Descriptor {
	t, ok := s.Lookup(d.Typename)
	if !ok {
		return d
	}
	out := d
	out.Fields = applyDefaults(t.Fields, d.Fields.Clone())
	return out
}

func applyDefaults(fields []Field, values block.Fields) block.Fields {
	if values == nil {
		values = block.Fields{}
	}
	for _, f := range fields {
		v, present := values[f.Name]
		if (!present || v.IsNull()) && f.Default != nil {
			values[f.Name] = block.FromAny(normalizeYAML(f.Default))
			continue
		}
		if f.Kind == KindList && v.Kind() == block.KindList {
			items := v.Items()
			filled := make([]block.Value, len(items))
			for i, item := range items {
				if item.Kind() == block.KindRecord {
					filled[i] = block.Record(applyDefaults(f.Fields, item.Fields()))
				} else {
					filled[i] = item
				}
			}
			values[f.Name] = block.List(filled...)
		}
	}
	return values
}

// normalizeYAML converts yaml.v3 decoded maps into map[string]any.
func normalizeYAML(x any) any {
	switch t := x.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = normalizeYAML(v)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = normalizeYAML(v)
		}
		return out
	default:
		return x
	}
}
