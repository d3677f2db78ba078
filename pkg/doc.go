// Package pkg provides the core libraries for Storeblocks, a renderer for
// CMS-driven storefront pages.
//
// # Overview
//
// A storefront page is an ordered list of content blocks authored in a
// headless CMS. Each block carries a GraphQL __typename and a bag of
// fields. Storeblocks dispatches every block to the renderer registered
// for its typename and assembles the resulting HTML fragments into a page.
// The pkg directory is organized into four areas:
//
//  1. Domain types - [block], [catalog] and [forms]
//  2. Rendering - [render], [registry], [blocks], [carousel] and [sanitize]
//  3. Infrastructure - [source], [cache], [submissions], [config] and [httputil]
//  4. Orchestration - [pipeline]
//
// # Architecture
//
// The typical data flow for one page:
//
//	CMS (GraphQL, MongoDB or JSON files)
//	         ↓
//	    [source] package (fetch the page)
//	         ↓
//	    [schema] package (validate block fields)
//	         ↓
//	    [catalog] package (resolve product and category references)
//	         ↓
//	    [registry] + [blocks] packages (render each block)
//	         ↓
//	    HTML page or fragment
//
// # Quick Start
//
//	reg, _ := blocks.NewRegistry()
//	src, _ := source.NewFile("pages")
//	runner := pipeline.NewRunner(src, reg, cache.NewNullCache(), cache.DefaultKeyer{}, nil)
//	defer runner.Close()
//
//	result, _ := runner.Execute(ctx, pipeline.Options{PageID: "home", Document: true})
//	fmt.Println(result.HTML)
//
// # Main Packages
//
// [block] - Block descriptors, pages and typed access to loosely shaped CMS
// fields.
//
// [registry] - Maps typenames to renderers. Sealed before concurrent use.
//
// [blocks] - The built-in renderers: text and editor blocks, the banner
// family, carousels, testimonials, brand lists, listings and the three form
// blocks. Markup comes from embedded html/template files.
//
// [schema] - Declarative per-typename field rules, loaded from YAML.
//
// [fragments] - The GraphQL fragment that selects each block's fields,
// checked against the block schema.
//
// [forms] - Form state machine: fields, required-field validation and
// submission through an injected handler.
//
// [carousel] - Slide index arithmetic and the timed rotator used by the
// terminal preview.
//
// [sanitize] - HTML sanitization for rich text fields.
//
// [source] - Page sources: a GraphQL endpoint, a MongoDB collection or a
// directory of JSON files.
//
// [cache] - Rendered block and fetched page caching with file, Redis and
// null backends.
//
// [submissions] - Durable form submission records in files or MongoDB.
//
// [observability] - Hooks for metrics and tracing. No-op by default.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                        # All tests
//	go test ./pkg/blocks/...                 # Specific package
//	UPDATE_SNAPS=true go test ./pkg/blocks/  # Refresh markup snapshots
//
// [block]: https://pkg.go.dev/github.com/matzehuels/storeblocks/pkg/block
// [blocks]: https://pkg.go.dev/github.com/matzehuels/storeblocks/pkg/blocks
// [cache]: https://pkg.go.dev/github.com/matzehuels/storeblocks/pkg/cache
// [carousel]: https://pkg.go.dev/github.com/matzehuels/storeblocks/pkg/carousel
// [catalog]: https://pkg.go.dev/github.com/matzehuels/storeblocks/pkg/catalog
// [config]: https://pkg.go.dev/github.com/matzehuels/storeblocks/pkg/config
// [forms]: https://pkg.go.dev/github.com/matzehuels/storeblocks/pkg/forms
// [fragments]: https://pkg.go.dev/github.com/matzehuels/storeblocks/pkg/fragments
// [httputil]: https://pkg.go.dev/github.com/matzehuels/storeblocks/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/storeblocks/pkg/observability
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/storeblocks/pkg/pipeline
// [registry]: https://pkg.go.dev/github.com/matzehuels/storeblocks/pkg/registry
// [render]: https://pkg.go.dev/github.com/matzehuels/storeblocks/pkg/render
// [sanitize]: https://pkg.go.dev/github.com/matzehuels/storeblocks/pkg/sanitize
// [schema]: https://pkg.go.dev/github.com/matzehuels/storeblocks/pkg/schema
// [source]: https://pkg.go.dev/github.com/matzehuels/storeblocks/pkg/source
// [submissions]: https://pkg.go.dev/github.com/matzehuels/storeblocks/pkg/submissions
package pkg
