package pipeline

import (
	"context"
	stderrors "errors"
	"html/template"
	"strings"

	"github.com/matzehuels/storeblocks/pkg/block"
	"github.com/matzehuels/storeblocks/pkg/blocks"
	"github.com/matzehuels/storeblocks/pkg/catalog"
	"github.com/matzehuels/storeblocks/pkg/errors"
	"github.com/matzehuels/storeblocks/pkg/observability"
	"github.com/matzehuels/storeblocks/pkg/render"
	"github.com/matzehuels/storeblocks/pkg/schema"
)

// job is one block on its way through the resolve and render stages.
type job struct {
	block    block.Descriptor
	renderer render.Renderer
	// placeholder replaces the markup of blocks without a renderer.
	placeholder template.HTML

	productRefs  []catalog.Ref
	categoryRefs []catalog.Ref
	products     []catalog.Product
	categories   []catalog.Category
	resolveErr   error
}

// prepare dispatches every block through the registry and validates it at
// the fetch boundary. Blocks that cannot be rendered are reported as issues.
func (r *Runner) prepare(ctx context.Context, page block.Page, opts Options, result *Result) ([]*job, error) {
	var jobs []*job
	found := opts.Block == ""

	for _, d := range page.Blocks {
		if opts.Block != "" && d.ID() != opts.Block {
			continue
		}
		found = true

		renderer, ok := r.Registry.Resolve(d.Typename)
		if !ok {
			result.Stats.Unknown++
			observability.Pipeline().OnUnknownTypename(ctx, d.Typename)
			opts.Logger.Warn("unknown block typename",
				"typename", d.Typename,
				"block", d.ID(),
				"policy", opts.UnknownTypename)
			result.Issues = append(result.Issues, Issue{
				BlockID:  d.ID(),
				Typename: d.Typename,
				Code:     errors.ErrCodeUnknownTypename,
				Message:  "no renderer registered",
			})
			if opts.UnknownTypename == UnknownPlaceholder {
				jobs = append(jobs, &job{block: d, placeholder: unknownPlaceholder(d.Typename)})
			}
			continue
		}

		if r.Schema != nil {
			err := r.Schema.Validate(d)
			if err != nil && !errors.Is(err, errors.ErrCodeUnknownTypename) {
				result.Stats.Invalid++
				if opts.Strict {
					return nil, err
				}
				opts.Logger.Warn("skipping invalid block", "typename", d.Typename, "block", d.ID(), "err", err)
				result.Issues = append(result.Issues, Issue{
					BlockID:  d.ID(),
					Typename: d.Typename,
					Code:     errors.ErrCodeInvalidBlock,
					Message:  validationMessage(err),
				})
				continue
			}
			d = r.Schema.ApplyDefaults(d)
		}

		products, categories := blocks.CatalogRefs(d)
		jobs = append(jobs, &job{
			block:        d,
			renderer:     renderer,
			productRefs:  products,
			categoryRefs: categories,
		})
	}

	if !found {
		return nil, errors.New(errors.ErrCodeNotFound, "block %q not found on page %s", opts.Block, page.ID)
	}
	return jobs, nil
}

func unknownPlaceholder(typename string) template.HTML {
	if errors.ValidateTypename(typename) != nil {
		return "<!-- unknown block -->"
	}
	return template.HTML("<!-- unknown block: " + typename + " -->")
}

func validationMessage(err error) string {
	var verr *schema.ValidationError
	if stderrors.As(err, &verr) {
		parts := make([]string, len(verr.Issues))
		for i, is := range verr.Issues {
			parts[i] = is.String()
		}
		return strings.Join(parts, "; ")
	}
	return errors.UserMessage(err)
}
