package pipeline

import (
	"context"
	"html/template"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/storeblocks/pkg/block"
	"github.com/matzehuels/storeblocks/pkg/buildinfo"
	"github.com/matzehuels/storeblocks/pkg/cache"
	"github.com/matzehuels/storeblocks/pkg/catalog"
	"github.com/matzehuels/storeblocks/pkg/errors"
	"github.com/matzehuels/storeblocks/pkg/observability"
	"github.com/matzehuels/storeblocks/pkg/render"
)

// renderBlocks renders the prepared blocks concurrently, keeping page order.
func (r *Runner) renderBlocks(ctx context.Context, jobs []*job, opts Options, result *Result) error {
	out := make([]Rendered, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, j := range jobs {
		g.Go(func() error {
			rb, err := r.renderBlock(gctx, j, opts)
			if err != nil {
				return err
			}
			out[i] = rb
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, rb := range out {
		if rb.Cached {
			result.CacheInfo.BlockHits++
		}
	}
	result.Blocks = out
	result.Stats.Rendered = len(out)
	return nil
}

// renderBlock renders one block through the block markup cache. Blocks
// showing a submission state bypass the cache.
func (r *Runner) renderBlock(ctx context.Context, j *job, opts Options) (Rendered, error) {
	d := j.block
	rb := Rendered{ID: d.ID(), Typename: d.Typename}
	if j.renderer == nil {
		rb.HTML = j.placeholder
		return rb, nil
	}

	start := time.Now()
	hooks := observability.Pipeline()
	state := opts.Forms[d.ID()]

	var cacheKey string
	if state == nil {
		if hash, err := contentHash(j); err == nil {
			cacheKey = r.Keyer.BlockKey(hash, opts.BlockKeyOpts(d.ID()))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "block")
				hooks.OnBlockRendered(ctx, d.Typename, true, time.Since(start), nil)
				rb.HTML = template.HTML(data)
				rb.Cached = true
				return rb, nil
			}
			observability.Cache().OnCacheMiss(ctx, "block")
		}
	}

	html, err := j.renderer.Render(ctx, render.Props{
		Block:      d,
		PageID:     opts.PageID,
		Products:   j.products,
		Categories: j.categories,
		Form:       state,
		Slide:      opts.Slides[d.ID()],
		Options:    opts.RenderOptions(),
	})
	hooks.OnBlockRendered(ctx, d.Typename, false, time.Since(start), err)
	if err != nil {
		if ctx.Err() != nil {
			return rb, ctx.Err()
		}
		return rb, errors.Wrap(errors.ErrCodeInternal, err, "render block %s", d.ID())
	}
	opts.Logger.Debug("rendered block", "typename", d.Typename, "block", d.ID(), "bytes", len(html))

	if cacheKey != "" {
		if err := r.Cache.Set(ctx, cacheKey, []byte(html), cache.TTLBlock); err == nil {
			observability.Cache().OnCacheSet(ctx, "block", len(html))
		}
	}
	rb.HTML = html
	return rb, nil
}

// contentHash covers everything a block's markup depends on besides the
// render options: the descriptor, its resolved records and the build.
func contentHash(j *job) (string, error) {
	return cache.HashJSON(struct {
		Revision   string             `json:"revision"`
		Block      block.Descriptor   `json:"block"`
		Products   []catalog.Product  `json:"products,omitempty"`
		Categories []catalog.Category `json:"categories,omitempty"`
	}{buildinfo.Revision(), j.block, j.products, j.categories})
}
