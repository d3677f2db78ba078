package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/storeblocks/pkg/config"
	"github.com/matzehuels/storeblocks/pkg/errors"
	"github.com/matzehuels/storeblocks/pkg/pipeline"
	"github.com/matzehuels/storeblocks/pkg/source"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file; stdout when empty
	file     string   // render a page JSON file instead of fetching
	block    string   // render a single block
	slides   []string // carousel slides as <block>:<n>
	fragment bool     // omit the document wrapper
	unknown  string   // unknown typename policy override
	strict   bool     // fail on invalid blocks
	noCache  bool     // disable caching
	refresh  bool     // bypass the page cache
	stats    bool     // print timings
	jsonOut  bool     // write the result summary as JSON
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [page-id]",
		Short: "Render a page to HTML",
		Long: `Render a storefront page to HTML.

The page is fetched from the configured source, or read from a JSON file
with --file. Output is a complete HTML document unless --fragment or
--block is given.`,
		Example: `  storeblocks render home -o home.html
  storeblocks render --file pages/promo.json --block c1 --slide c1:2
  storeblocks render home --unknown placeholder --stats`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && opts.file == "" {
				return errors.New(errors.ErrCodeInvalidInput, "page id or --file is required")
			}
			pageID := ""
			if len(args) == 1 {
				pageID = args[0]
			}
			return c.runRender(cmd, pageID, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "render a page JSON file instead of fetching")
	cmd.Flags().StringVarP(&opts.block, "block", "b", "", "render only this block id")
	cmd.Flags().StringSliceVar(&opts.slides, "slide", nil, "carousel slide as <block>:<n> (repeatable)")
	cmd.Flags().BoolVar(&opts.fragment, "fragment", false, "omit the HTML document wrapper")
	cmd.Flags().StringVar(&opts.unknown, "unknown", "", "unknown typename policy: skip, placeholder")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail on blocks that do not match their schema")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "refetch the page even when cached")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "print stage timings")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "write a JSON summary instead of HTML")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, pageID string, opts *renderOpts) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	popts := renderDefaults(cfg)
	popts.PageID = pageID
	popts.Block = opts.block
	popts.Document = !opts.fragment && opts.block == ""
	popts.Refresh = opts.refresh
	if opts.unknown != "" {
		popts.UnknownTypename = opts.unknown
	}
	if opts.strict {
		popts.Strict = true
	}
	if popts.Slides, err = parseSlideFlags(opts.slides); err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	var result *pipeline.Result
	if opts.file != "" {
		result, err = c.renderFile(ctx, cfg, opts.file, popts)
	} else {
		result, err = c.renderFetched(ctx, cfg, popts, opts.noCache)
	}
	if err != nil {
		return err
	}
	prog.step("render")

	printIssues(result.Issues)
	if opts.stats {
		printStats(result.Stats, result.CacheInfo)
		printTimings(result.Stats)
	}

	out := []byte(result.HTML)
	if opts.jsonOut {
		if out, err = json.MarshalIndent(summarize(result), "", "  "); err != nil {
			return err
		}
		out = append(out, '\n')
	}
	if opts.output == "" {
		if _, err := os.Stdout.Write(out); err != nil {
			return err
		}
		prog.done("rendered page", "page", result.Page.ID, "blocks", len(result.Blocks), "bytes", len(out))
		return nil
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		return err
	}
	prog.done("rendered page", "page", result.Page.ID, "blocks", len(result.Blocks), "bytes", len(out))
	printSuccess("Wrote %s", result.Page.ID)
	printFile(opts.output)
	return nil
}

func (c *CLI) renderFetched(ctx context.Context, cfg *config.Config, popts pipeline.Options, noCache bool) (*pipeline.Result, error) {
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Fetching %s from %s...", popts.PageID, runner.Source.Name()))
	spinner.Start()
	result, err := runner.Execute(ctx, popts)
	spinner.Stop()
	return result, err
}

func (c *CLI) renderFile(ctx context.Context, cfg *config.Config, path string, popts pipeline.Options) (*pipeline.Result, error) {
	page, err := source.ReadPage(path)
	if err != nil {
		return nil, err
	}
	runner, err := c.newOfflineRunner(ctx, cfg, true)
	if err != nil {
		return nil, err
	}
	defer runner.Close()
	return runner.RenderPage(ctx, page, popts)
}

// parseSlideFlags reads --slide values of the form <block>:<n>.
func parseSlideFlags(values []string) (map[string]int, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make(map[string]int, len(values))
	for _, v := range values {
		i := strings.LastIndexByte(v, ':')
		if i <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid --slide %q (want <block>:<n>)", v)
		}
		n, err := strconv.Atoi(v[i+1:])
		if err != nil || n < 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid --slide %q (want <block>:<n>)", v)
		}
		out[v[:i]] = n
	}
	return out, nil
}

// renderSummary is the --json output: everything but the markup.
type renderSummary struct {
	Page      string           `json:"page"`
	Title     string           `json:"title,omitempty"`
	Blocks    []blockSummary   `json:"blocks"`
	Issues    []pipeline.Issue `json:"issues,omitempty"`
	Stats     statsSummary     `json:"stats"`
	PageCache bool             `json:"page_cached"`
}

type blockSummary struct {
	ID       string `json:"id"`
	Typename string `json:"typename"`
	Bytes    int    `json:"bytes"`
	Cached   bool   `json:"cached"`
}

type statsSummary struct {
	Blocks    int   `json:"blocks"`
	Rendered  int   `json:"rendered"`
	Unknown   int   `json:"unknown"`
	Invalid   int   `json:"invalid"`
	FetchMS   int64 `json:"fetch_ms"`
	ResolveMS int64 `json:"resolve_ms"`
	RenderMS  int64 `json:"render_ms"`
}

func summarize(r *pipeline.Result) renderSummary {
	s := renderSummary{
		Page:      r.Page.ID,
		Title:     r.Page.Title,
		Blocks:    make([]blockSummary, len(r.Blocks)),
		Issues:    r.Issues,
		PageCache: r.CacheInfo.PageHit,
		Stats: statsSummary{
			Blocks:    r.Stats.Blocks,
			Rendered:  r.Stats.Rendered,
			Unknown:   r.Stats.Unknown,
			Invalid:   r.Stats.Invalid,
			FetchMS:   r.Stats.FetchTime.Milliseconds(),
			ResolveMS: r.Stats.ResolveTime.Milliseconds(),
			RenderMS:  r.Stats.RenderTime.Milliseconds(),
		},
	}
	for i, b := range r.Blocks {
		s.Blocks[i] = blockSummary{ID: b.ID, Typename: b.Typename, Bytes: len(b.HTML), Cached: b.Cached}
	}
	return s
}
