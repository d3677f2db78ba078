// Package source fetches pages of block descriptors from a CMS.
//
// Three backends implement [Source]:
//   - [File]: one JSON document per page in a directory (CMS export)
//   - [GraphQL]: a page query against the CMS GraphQL endpoint, spreading
//     the bundled block fragments
//   - [Mongo]: one document per page in a MongoDB collection
//
// Every backend returns a [block.Page] exactly as the CMS delivered it.
// Field template validation and defaults happen later, in the pipeline.
package source

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/storeblocks/pkg/block"
	"github.com/matzehuels/storeblocks/pkg/errors"
)

// Source fetches pages by id.
type Source interface {
	// Page returns the page with the given id. A missing page is an error
	// with code PAGE_NOT_FOUND.
	Page(ctx context.Context, id string) (block.Page, error)

	// Name identifies the backend in logs and cache keys.
	Name() string

	// Close releases connections held by the backend.
	Close() error
}

// DecodePage parses a page document. When the document carries no id,
// fallbackID is used.
func DecodePage(data []byte, fallbackID string) (block.Page, error) {
	var p block.Page
	if err := json.Unmarshal(data, &p); err != nil {
		return block.Page{}, errors.Wrap(errors.ErrCodeInvalidPage, err, "decode page %s", fallbackID)
	}
	if p.ID == "" {
		p.ID = fallbackID
	}
	return p, nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodePageNotFound, "page %q not found", id)
}
