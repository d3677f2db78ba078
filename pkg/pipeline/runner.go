package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/storeblocks/pkg/block"
	"github.com/matzehuels/storeblocks/pkg/cache"
	"github.com/matzehuels/storeblocks/pkg/catalog"
	"github.com/matzehuels/storeblocks/pkg/errors"
	"github.com/matzehuels/storeblocks/pkg/observability"
	"github.com/matzehuels/storeblocks/pkg/registry"
	"github.com/matzehuels/storeblocks/pkg/schema"
	"github.com/matzehuels/storeblocks/pkg/source"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use it to avoid duplicating the render logic.
//
// The Runner is stateless apart from its collaborators: it doesn't store
// results, and the registry it holds must be sealed. Multiple goroutines can
// safely use the same Runner with different options.
type Runner struct {
	Source   source.Source
	Registry *registry.Registry
	Schema   *schema.Set
	// Catalog resolves product and category references. Nil renders only
	// the records inlined in block fields.
	Catalog catalog.Resolver
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
}

// NewRunner creates a runner. src may be nil when only RenderPage is used.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(src source.Source, reg *registry.Registry, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Source:   src,
		Registry: reg,
		Schema:   schema.Builtin(),
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
	}
}

// Execute fetches a page and renders it.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	fetchStart := time.Now()
	page, pageHit, err := r.FetchWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	fetchTime := time.Since(fetchStart)

	opts.Logger.Info("fetched page",
		"page", page.ID,
		"source", r.Source.Name(),
		"blocks", len(page.Blocks),
		"cached", pageHit,
		"duration", fetchTime)

	result, err := r.RenderPage(ctx, page, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.FetchTime = fetchTime
	result.CacheInfo.PageHit = pageHit
	return result, nil
}

// FetchWithCacheInfo reads a page through the page cache and reports
// whether it was a cache hit.
func (r *Runner) FetchWithCacheInfo(ctx context.Context, opts Options) (block.Page, bool, error) {
	if err := opts.ValidateForFetch(); err != nil {
		return block.Page{}, false, err
	}
	if r.Source == nil {
		return block.Page{}, false, errors.New(errors.ErrCodeInvalidConfig, "no page source configured")
	}

	cacheKey := r.Keyer.PageKey(r.Source.Name(), opts.PageID)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var page block.Page
			if err := json.Unmarshal(data, &page); err == nil {
				observability.Cache().OnCacheHit(ctx, "page")
				return page, true, nil
			}
			// Undecodable entries fall through to a refetch.
		}
		observability.Cache().OnCacheMiss(ctx, "page")
	}

	hooks := observability.Pipeline()
	hooks.OnFetchStart(ctx, r.Source.Name(), opts.PageID)
	start := time.Now()
	page, err := r.Source.Page(ctx, opts.PageID)
	hooks.OnFetchComplete(ctx, r.Source.Name(), opts.PageID, len(page.Blocks), time.Since(start), err)
	if err != nil {
		return block.Page{}, false, err
	}

	if data, err := json.Marshal(page); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLPage); err == nil {
			observability.Cache().OnCacheSet(ctx, "page", len(data))
		}
	}
	return page, false, nil
}

// Fetch is a convenience wrapper that calls FetchWithCacheInfo and discards the cache hit info.
func (r *Runner) Fetch(ctx context.Context, opts Options) (block.Page, error) {
	page, _, err := r.FetchWithCacheInfo(ctx, opts)
	return page, err
}

// RenderPage runs the prepare, resolve and render stages on a page that is
// already in memory. opts.PageID defaults to the page's id.
func (r *Runner) RenderPage(ctx context.Context, page block.Page, opts Options) (*Result, error) {
	if opts.PageID == "" {
		opts.PageID = page.ID
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if r.Registry == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no block registry configured")
	}

	start := time.Now()
	result := &Result{Page: page}
	result.Stats.Blocks = len(page.Blocks)

	jobs, err := r.prepare(ctx, page, opts, result)
	if err == nil {
		resolveStart := time.Now()
		err = r.resolve(ctx, jobs, opts, result)
		result.Stats.ResolveTime = time.Since(resolveStart)
	}
	if err == nil {
		renderStart := time.Now()
		err = r.renderBlocks(ctx, jobs, opts, result)
		result.Stats.RenderTime = time.Since(renderStart)
	}
	if err == nil {
		result.HTML, err = assemble(page, result.Blocks, opts)
	}
	observability.Pipeline().OnPageComplete(ctx, opts.PageID, len(result.Blocks), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	opts.Logger.Info("rendered page",
		"page", opts.PageID,
		"blocks", result.Stats.Rendered,
		"cached", result.CacheInfo.BlockHits,
		"issues", len(result.Issues),
		"duration", time.Since(start))
	return result, nil
}

// Close releases resources held by the runner: the cache and the source.
func (r *Runner) Close() error {
	var firstErr error
	if r.Cache != nil {
		firstErr = r.Cache.Close()
	}
	if r.Source != nil {
		if err := r.Source.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
