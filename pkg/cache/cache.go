// Package cache stores fetched pages, GraphQL responses and rendered block
// markup between requests.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for multi-instance servers
//   - [NullCache]: caching disabled
//
// Keys are built by a [Keyer] so every component that reads or writes the
// cache agrees on the key layout. Block keys hash the block's content, so an
// edited block never hits a stale entry even before its TTL runs out.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Get returns the entry for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero keeps the entry until it is
	// deleted.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Default TTLs per entry kind.
const (
	// TTLPage bounds how long a fetched page is served before the source is
	// asked again. Editors expect their changes to show up quickly.
	TTLPage = 5 * time.Minute

	// TTLResponse is the TTL of raw GraphQL responses.
	TTLResponse = 5 * time.Minute

	// TTLBlock is the TTL of rendered block markup. Block keys are content
	// hashes, so this only bounds memory.
	TTLBlock = 24 * time.Hour
)
