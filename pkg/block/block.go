// Package block defines the CMS block descriptor and its field values.
//
// A page is an ordered list of [Descriptor] values. Each descriptor carries
// the GraphQL __typename used for registry dispatch, the CMS system id and a
// [Fields] bag whose values are arbitrarily nested [Value]s.
//
// Descriptors decode from the CMS JSON shape:
//
//	{"__typename": "GLTextBlock", "systemId": "blt1", "fields": {...}, "children": [...]}
//
// Renderers only read descriptors; nothing in this module mutates one after
// decoding.
package block

import (
	"encoding/json"
	"fmt"
)

// Descriptor is one block instance on a page.
type Descriptor struct {
	Typename string       `json:"__typename"`
	SystemID string       `json:"systemId,omitempty"`
	Fields   Fields       `json:"fields"`
	Children []Descriptor `json:"children,omitempty"`
}

// ID returns the system id, or the typename when the CMS omitted it.
func (d Descriptor) ID() string {
	if d.SystemID != "" {
		return d.SystemID
	}
	return d.Typename
}

// Name returns the editor-facing _name field, if any.
func (d Descriptor) Name() string {
	return d.Fields.String("_name")
}

// UnmarshalJSON implements json.Unmarshaler. A missing fields object decodes
// as an empty bag; a missing systemId falls back to "id".
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	var raw struct {
		Typename string          `json:"__typename"`
		SystemID string          `json:"systemId"`
		ID       string          `json:"id"`
		Fields   json.RawMessage `json:"fields"`
		Children []Descriptor    `json:"children"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	fields := Fields{}
	if len(raw.Fields) > 0 && string(raw.Fields) != "null" {
		var v Value
		if err := v.UnmarshalJSON(raw.Fields); err != nil {
			return fmt.Errorf("decode fields of %s: %w", raw.Typename, err)
		}
		if v.Kind() != KindRecord {
			return fmt.Errorf("decode fields of %s: expected object, got %s", raw.Typename, v.Kind())
		}
		fields = v.Fields()
	}

	d.Typename = raw.Typename
	d.SystemID = raw.SystemID
	if d.SystemID == "" {
		d.SystemID = raw.ID
	}
	d.Fields = fields
	d.Children = raw.Children
	return nil
}

// Page is an ordered list of blocks with page metadata.
type Page struct {
	ID     string       `json:"id"`
	Title  string       `json:"title,omitempty"`
	Blocks []Descriptor `json:"blocks"`
}

// Typenames returns the distinct typenames on the page in first-seen order.
func (p Page) Typenames() []string {
	seen := make(map[string]bool, len(p.Blocks))
	var out []string
	for _, b := range p.Blocks {
		if !seen[b.Typename] {
			seen[b.Typename] = true
			out = append(out, b.Typename)
		}
	}
	return out
}
