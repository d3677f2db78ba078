package block

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Fields is the field bag of a block or of a nested record such as one
// carousel slide.
type Fields map[string]Value

// Get returns the value at path. Path segments are separated by dots and
// numeric segments index into lists, so "slides.0.title" reads the title of
// the first slide. Missing segments yield null.
func (f Fields) Get(path string) Value {
	if f == nil {
		return Null()
	}
	head, rest, nested := strings.Cut(path, ".")
	v, ok := f[head]
	if !ok {
		return Null()
	}
	if !nested {
		return v
	}
	return v.get(rest)
}

func (v Value) get(path string) Value {
	head, rest, nested := strings.Cut(path, ".")
	var next Value
	switch v.kind {
	case KindRecord:
		n, ok := v.rec[head]
		if !ok {
			return Null()
		}
		next = n
	case KindList:
		i, err := strconv.Atoi(head)
		if err != nil {
			// Descend into the first element for non-index segments so
			// pointer lists ("item": [...]) read like single pointers.
			if len(v.list) == 0 {
				return Null()
			}
			return v.list[0].get(path)
		}
		if i < 0 || i >= len(v.list) {
			return Null()
		}
		next = v.list[i]
	default:
		return Null()
	}
	if !nested {
		return next
	}
	return next.get(rest)
}

// Has reports whether path resolves to a non-null value.
func (f Fields) Has(path string) bool {
	return !f.Get(path).IsNull()
}

// String returns the text at path, or "".
func (f Fields) String(path string) string {
	return f.Get(path).Text()
}

// StringOr returns the text at path, or def when it is empty.
func (f Fields) StringOr(path, def string) string {
	if s := f.String(path); s != "" {
		return s
	}
	return def
}

// Bool reports whether the value at path is truthy.
func (f Fields) Bool(path string) bool {
	return f.Get(path).Truthy()
}

// BoolOr returns def when path is absent, otherwise its truthiness.
func (f Fields) BoolOr(path string, def bool) bool {
	v := f.Get(path)
	if v.IsNull() {
		return def
	}
	return v.Truthy()
}

// Int returns the value at path as an int, or def when it is not numeric.
func (f Fields) Int(path string, def int) int {
	n, ok := f.Get(path).Float()
	if !ok {
		return def
	}
	return int(n)
}

// List returns the items at path.
func (f Fields) List(path string) []Value {
	return f.Get(path).Items()
}

// Record returns the nested record at path.
func (f Fields) Record(path string) Fields {
	return f.Get(path).Fields()
}

// Records returns every record in the list at path, skipping non-records.
func (f Fields) Records(path string) []Fields {
	items := f.List(path)
	out := make([]Fields, 0, len(items))
	for _, it := range items {
		if it.kind == KindRecord {
			out = append(out, it.rec)
		}
	}
	return out
}

// Option reads a single-select field. Multi-select lists yield their first
// entry; bare strings are treated as the option value.
func (f Fields) Option(path string) Option {
	return optionOf(f.Get(path))
}

// Options reads a multi-select field.
func (f Fields) Options(path string) []Option {
	items := f.List(path)
	out := make([]Option, 0, len(items))
	for _, it := range items {
		if o := optionOf(it); !o.IsZero() {
			out = append(out, o)
		}
	}
	return out
}

// Media reads an image pointer such as blockImagePointer.
func (f Fields) Media(path string) Media {
	return mediaOf(f.Get(path))
}

// Link reads a navigation link.
func (f Fields) Link(path string) Link {
	return linkOf(f.Get(path))
}

// Names returns the field names in sorted order.
func (f Fields) Names() []string {
	return sortedKeys(f)
}

// Equal reports structural equality.
func (f Fields) Equal(o Fields) bool {
	if len(f) != len(o) {
		return false
	}
	for k, v := range f {
		ov, ok := o[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of f.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v.clone()
	}
	return out
}

func (v Value) clone() Value {
	switch v.kind {
	case KindList:
		items := make([]Value, len(v.list))
		for i, e := range v.list {
			items[i] = e.clone()
		}
		return List(items...)
	case KindRecord:
		return Record(v.rec.Clone())
	default:
		return v
	}
}

// Any converts f into a plain map.
func (f Fields) Any() map[string]any {
	out := make(map[string]any, len(f))
	for k, v := range f {
		out[k] = v.Any()
	}
	return out
}

// MarshalJSON implements json.Marshaler.
func (f Fields) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(f.Any())
}
