package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Static is an in-memory Resolver backed by a catalog export.
type Static struct {
	products   map[string]Product
	categories map[string]Category
}

// Export is the on-disk catalog format.
type Export struct {
	Products   []Product  `json:"products"`
	Categories []Category `json:"categories"`
}

// NewStatic indexes the records of e by id.
func NewStatic(e Export) *Static {
	s := &Static{
		products:   make(map[string]Product, len(e.Products)),
		categories: make(map[string]Category, len(e.Categories)),
	}
	for _, p := range e.Products {
		s.products[p.ID] = p
	}
	for _, c := range e.Categories {
		s.categories[c.ID] = c
	}
	return s
}

// LoadStatic reads a catalog export from path.
func LoadStatic(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var e Export
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return NewStatic(e), nil
}

// Products returns the known products among ids, in id order.
func (s *Static) Products(_ context.Context, ids []string) ([]Product, error) {
	out := make([]Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// Categories returns the known categories among ids, in id order.
func (s *Static) Categories(_ context.Context, ids []string) ([]Category, error) {
	out := make([]Category, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.categories[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}
