package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/storeblocks/pkg/catalog"
	"github.com/matzehuels/storeblocks/pkg/errors"
)

// resolve looks up the catalog records of every listing block concurrently.
// A failed lookup degrades the block to its inline records; only
// cancellation aborts the page.
func (r *Runner) resolve(ctx context.Context, jobs []*job, opts Options, result *Result) error {
	if r.Catalog == nil {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for _, j := range jobs {
		if !needsLookup(j.productRefs) && !needsLookup(j.categoryRefs) {
			continue
		}
		g.Go(func() error {
			j.resolveErr = r.lookup(gctx, j)
			if j.resolveErr != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, j := range jobs {
		if j.resolveErr == nil {
			continue
		}
		opts.Logger.Warn("catalog lookup failed", "block", j.block.ID(), "err", j.resolveErr)
		result.Issues = append(result.Issues, Issue{
			BlockID:  j.block.ID(),
			Typename: j.block.Typename,
			Code:     errors.GetCode(j.resolveErr),
			Message:  errors.UserMessage(j.resolveErr),
		})
	}
	return nil
}

func (r *Runner) lookup(ctx context.Context, j *job) error {
	if needsLookup(j.productRefs) {
		found, err := r.Catalog.Products(ctx, bareIDs(j.productRefs))
		if err != nil {
			return errors.Wrap(errors.ErrCodeNetwork, err, "resolve products")
		}
		byID := make(map[string]catalog.Product, len(found))
		for _, p := range found {
			byID[p.ID] = p
		}
		j.products = merge(j.productRefs, byID, catalog.Ref.Product)
	}
	if needsLookup(j.categoryRefs) {
		found, err := r.Catalog.Categories(ctx, bareIDs(j.categoryRefs))
		if err != nil {
			return errors.Wrap(errors.ErrCodeNetwork, err, "resolve categories")
		}
		byID := make(map[string]catalog.Category, len(found))
		for _, c := range found {
			byID[c.ID] = c
		}
		j.categories = merge(j.categoryRefs, byID, catalog.Ref.Category)
	}
	return nil
}

// merge keeps ref order: inline refs use their own data, bare refs the
// resolved record. Unknown ids are dropped.
func merge[T any](refs []catalog.Ref, byID map[string]T, inline func(catalog.Ref) T) []T {
	out := make([]T, 0, len(refs))
	for _, ref := range refs {
		if ref.Inline() {
			out = append(out, inline(ref))
		} else if rec, ok := byID[ref.ID]; ok {
			out = append(out, rec)
		}
	}
	return out
}

func needsLookup(refs []catalog.Ref) bool {
	for _, ref := range refs {
		if !ref.Inline() && ref.ID != "" {
			return true
		}
	}
	return false
}

func bareIDs(refs []catalog.Ref) []string {
	var ids []string
	for _, ref := range refs {
		if !ref.Inline() && ref.ID != "" {
			ids = append(ids, ref.ID)
		}
	}
	return ids
}
