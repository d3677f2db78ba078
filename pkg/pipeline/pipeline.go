// Package pipeline renders CMS pages to HTML.
//
// This package implements the fetch → validate → resolve → render pipeline
// shared by the CLI and the HTTP server. Centralizing it keeps both entry
// points consistent: same validation, same unknown-typename policy, same
// caching.
//
// # Architecture
//
// A page goes through four stages:
//
//  1. Fetch: read the page from a [source.Source], through the page cache
//  2. Prepare: validate each block against its field template, fill in
//     defaults and apply the unknown-typename policy
//  3. Resolve: look up the catalog records listing blocks display
//  4. Render: dispatch each block through the registry, through the block
//     markup cache, and assemble the page
//
// # Usage
//
//	runner := pipeline.NewRunner(src, reg, cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{PageID: "home"})
//	if err != nil {
//	    return err
//	}
//	w.Write([]byte(result.HTML))
//
// Render a page that is already in memory:
//
//	result, err := runner.RenderPage(ctx, page, opts)
package pipeline

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/storeblocks/pkg/block"
	"github.com/matzehuels/storeblocks/pkg/cache"
	"github.com/matzehuels/storeblocks/pkg/errors"
	"github.com/matzehuels/storeblocks/pkg/forms"
	"github.com/matzehuels/storeblocks/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

// Unknown typename policies.
const (
	// UnknownSkip drops blocks no renderer is registered for.
	UnknownSkip = "skip"

	// UnknownPlaceholder renders an HTML comment in place of the block.
	UnknownPlaceholder = "placeholder"
)

// DefaultUnknownPolicy is applied when Options.UnknownTypename is empty.
const DefaultUnknownPolicy = UnknownSkip

// DefaultConcurrency bounds the catalog lookups and block renders in flight.
const DefaultConcurrency = 8

// ValidUnknownPolicies is the set of supported unknown typename policies.
var ValidUnknownPolicies = map[string]bool{
	UnknownSkip:        true,
	UnknownPlaceholder: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one page render.
type Options struct {
	PageID string `json:"page_id"`

	// Block restricts output to a single block id. Used by fragment
	// requests and server-side carousel navigation.
	Block string `json:"block,omitempty"`

	// Slides selects the visible carousel slide per block id.
	Slides map[string]int `json:"slides,omitempty"`

	// UnknownTypename is the unknown typename policy (skip or placeholder).
	UnknownTypename string `json:"unknown_typename,omitempty"`

	// Strict turns schema validation failures into errors. Otherwise an
	// invalid block is skipped and reported in Result.Issues.
	Strict bool `json:"strict,omitempty"`

	// Document wraps the page in a complete HTML document.
	Document bool `json:"document,omitempty"`

	// Refresh bypasses the page cache.
	Refresh bool `json:"refresh,omitempty"`

	CarouselInterval time.Duration `json:"carousel_interval,omitempty"`
	ImageServerURL   string        `json:"image_server_url,omitempty"`
	Concurrency      int           `json:"concurrency,omitempty"`

	// Runtime options (not serialized)
	Forms   map[string]*forms.State `json:"-"` // block id → state after a submission
	Actions Actions                 `json:"-"`
	Logger  *log.Logger             `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Actions are the URL builders renderers embed in their markup.
type Actions struct {
	Form  func(pageID, blockID string) string
	Item  func(pageID, blockID, itemID string) string
	Slide func(pageID, blockID string, slide int) string
}

func (a Actions) any() bool {
	return a.Form != nil || a.Item != nil || a.Slide != nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Page is the page as fetched, before validation.
	Page block.Page

	// Blocks are the rendered blocks in page order. Skipped blocks are
	// absent.
	Blocks []Rendered

	// HTML is the assembled page.
	HTML template.HTML

	// Issues lists the blocks that were skipped or degraded.
	Issues []Issue

	// Stats contains timing and count information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Rendered is one block's markup.
type Rendered struct {
	ID       string
	Typename string
	HTML     template.HTML
	Cached   bool
}

// Issue describes a block the pipeline could not render as authored.
type Issue struct {
	BlockID  string
	Typename string
	Code     errors.Code
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s %s: %s", i.Typename, i.BlockID, i.Message)
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Blocks      int // blocks on the page
	Rendered    int // blocks in the output
	Unknown     int // blocks without a renderer
	Invalid     int // blocks that failed validation
	FetchTime   time.Duration
	ResolveTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	PageHit   bool // Whether the page came from cache
	BlockHits int  // Number of blocks whose markup came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateUnknownPolicy checks that an unknown typename policy is valid.
func ValidateUnknownPolicy(policy string) error {
	if !ValidUnknownPolicies[policy] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid unknown typename policy: %q (must be one of: skip, placeholder)", policy)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForFetch(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForFetch checks the fields needed to fetch a page.
func (o *Options) ValidateForFetch() error {
	if err := errors.ValidatePageID(o.PageID); err != nil {
		return err
	}
	o.setLoggerDefault()
	return nil
}

// ValidateForRender applies render defaults and validates them.
func (o *Options) ValidateForRender() error {
	if o.UnknownTypename == "" {
		o.UnknownTypename = DefaultUnknownPolicy
	}
	if o.CarouselInterval <= 0 {
		o.CarouselInterval = render.DefaultCarouselInterval
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	o.setLoggerDefault()
	if o.ImageServerURL != "" {
		if err := errors.ValidateURL(o.ImageServerURL); err != nil {
			return err
		}
	}
	return ValidateUnknownPolicy(o.UnknownTypename)
}

func (o *Options) setLoggerDefault() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// RenderOptions returns the page-wide settings handed to renderers.
func (o *Options) RenderOptions() render.Options {
	return render.Options{
		CarouselInterval: o.CarouselInterval,
		FormAction:       o.Actions.Form,
		ItemAction:       o.Actions.Item,
		SlideAction:      o.Actions.Slide,
		ImageServerURL:   o.ImageServerURL,
	}
}

// BlockKeyOpts returns cache key options for one block's markup.
func (o *Options) BlockKeyOpts(blockID string) cache.BlockKeyOpts {
	return cache.BlockKeyOpts{
		PageID:         o.PageID,
		Slide:          o.Slides[blockID],
		Interval:       o.CarouselInterval,
		ImageServerURL: o.ImageServerURL,
		Actions:        o.Actions.any(),
	}
}
