package cache

import "time"

// Keyer builds cache keys.
type Keyer interface {
	// PageKey is the key of a page fetched from a source.
	PageKey(source, pageID string) string

	// ResponseKey is the key of a raw GraphQL response.
	ResponseKey(endpoint, query string, variables map[string]any) string

	// BlockKey is the key of one block's rendered markup. contentHash covers
	// the block descriptor and the catalog records it displays.
	BlockKey(contentHash string, opts BlockKeyOpts) string
}

// BlockKeyOpts are the render settings that change a block's markup.
type BlockKeyOpts struct {
	PageID         string        `json:"page_id"`
	Slide          int           `json:"slide,omitempty"`
	Interval       time.Duration `json:"interval,omitempty"`
	ImageServerURL string        `json:"image_server_url,omitempty"`
	// Actions is set when item, slide or form hooks are installed; their
	// URLs end up in the markup.
	Actions bool `json:"actions,omitempty"`
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard key layout.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// PageKey returns "page:<source>:<id>".
func (DefaultKeyer) PageKey(source, pageID string) string {
	return "page:" + source + ":" + pageID
}

// ResponseKey hashes the request so variables never leak into key names.
func (DefaultKeyer) ResponseKey(endpoint, query string, variables map[string]any) string {
	return hashKey("gql", endpoint, query, variables)
}

// BlockKey hashes the content hash together with the render settings.
func (DefaultKeyer) BlockKey(contentHash string, opts BlockKeyOpts) string {
	return hashKey("block", contentHash, opts)
}

var _ Keyer = DefaultKeyer{}
