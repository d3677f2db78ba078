// Package catalog holds the commerce records that listing blocks display:
// products and categories. Blocks reference them by id; the records either
// arrive inline in the block fields or are resolved through a [Resolver].
package catalog

import (
	"context"
	"strings"

	"github.com/matzehuels/storeblocks/pkg/block"
)

// Product is the card-level view of a product.
type Product struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	URL      string           `json:"url,omitempty"`
	Brand    string           `json:"brand,omitempty"`
	Price    string           `json:"price,omitempty"`
	Image    block.Media      `json:"image,omitempty"`
	Variants []ProductVariant `json:"variants,omitempty"`
}

// ProductVariant is one purchasable variant of a product.
type ProductVariant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price,omitempty"`
}

// Category is a product category.
type Category struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	URL          string        `json:"url,omitempty"`
	Description  string        `json:"description,omitempty"`
	Images       []block.Media `json:"images,omitempty"`
	ProductCount int           `json:"productCount,omitempty"`
}

// Image returns the first category image.
func (c Category) Image() block.Media {
	if len(c.Images) == 0 {
		return block.Media{}
	}
	return c.Images[0]
}

// Resolver looks up records by id. Missing ids are skipped, not errors.
type Resolver interface {
	Products(ctx context.Context, ids []string) ([]Product, error)
	Categories(ctx context.Context, ids []string) ([]Category, error)
}

// Ref is a pointer to a catalog record as it appears in block fields.
// Inline records carry their data; bare references only carry the id.
type Ref struct {
	ID     string
	Fields block.Fields
}

// Refs collects the records behind a pointer list such as
// productsLinkList or categoryList. Each element may be a bare id string,
// an {item: {...}} pointer or an {item: [{...}]} pointer list.
func Refs(f block.Fields, path string) []Ref {
	var out []Ref
	for _, v := range f.List(path) {
		out = append(out, refsOf(v)...)
	}
	return out
}

func refsOf(v block.Value) []Ref {
	switch v.Kind() {
	case block.KindString:
		if id := strings.TrimSpace(v.Text()); id != "" {
			return []Ref{{ID: id}}
		}
	case block.KindRecord:
		rec := v.Fields()
		if item := rec.Get("item"); !item.IsNull() {
			var out []Ref
			for _, it := range item.Items() {
				out = append(out, refsOf(it)...)
			}
			return out
		}
		return []Ref{{ID: rec.String("id"), Fields: rec}}
	}
	return nil
}

// Inline reports whether the ref carries record data beyond the id.
func (r Ref) Inline() bool {
	return r.Fields != nil && r.Fields.Has("name")
}

// Product builds a product from inline ref data.
func (r Ref) Product() Product {
	f := r.Fields
	p := Product{
		ID:    r.ID,
		Name:  f.String("name"),
		URL:   f.String("url"),
		Brand: f.String("brand"),
		Price: f.String("price"),
		Image: f.Media("image"),
	}
	if p.Image.IsZero() {
		p.Image = f.Media("images")
	}
	for _, vf := range f.Records("variants") {
		p.Variants = append(p.Variants, ProductVariant{
			ID:    vf.String("id"),
			Name:  vf.String("name"),
			Price: vf.String("price"),
		})
	}
	return p
}

// Category builds a category from inline ref data.
func (r Ref) Category() Category {
	f := r.Fields
	c := Category{
		ID:           r.ID,
		Name:         f.String("name"),
		URL:          f.String("url"),
		Description:  f.String("description"),
		ProductCount: f.Int("products.totalCount", 0),
	}
	for _, img := range f.List("images") {
		if m := (block.Fields{"m": img}).Media("m"); !m.IsZero() {
			c.Images = append(c.Images, m)
		}
	}
	return c
}

// IDs returns the ids of refs, skipping empty ones.
func IDs(refs []Ref) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		if r.ID != "" {
			out = append(out, r.ID)
		}
	}
	return out
}
