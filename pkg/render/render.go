package render

import (
	"context"
	"html/template"
	"strings"
	"time"

	"github.com/matzehuels/storeblocks/pkg/block"
	"github.com/matzehuels/storeblocks/pkg/catalog"
	"github.com/matzehuels/storeblocks/pkg/forms"
)

// Renderer renders one block kind.
type Renderer interface {
	Render(ctx context.Context, p Props) (template.HTML, error)
}

// Func adapts a function to the Renderer interface.
type Func func(ctx context.Context, p Props) (template.HTML, error)

// Render calls f.
func (f Func) Render(ctx context.Context, p Props) (template.HTML, error) {
	return f(ctx, p)
}

// Props is everything a renderer may read.
type Props struct {
	Block      block.Descriptor
	PageID     string
	Products   []catalog.Product
	Categories []catalog.Category
	// Form is the state of the block's form after a submission, nil before.
	Form *forms.State
	// Slide is the carousel slide to show, as requested by server-side
	// navigation. Out-of-range values fall back to the first slide.
	Slide   int
	Options Options
}

// Options are page-wide rendering settings.
type Options struct {
	// CarouselInterval is the auto-advance period of carousels and
	// testimonial rotators.
	CarouselInterval time.Duration
	// FormAction builds the URL a form block posts to. When nil, forms
	// post to the current page.
	FormAction func(pageID, blockID string) string
	// ItemAction builds the URL an item click navigates through. When nil,
	// items link straight to their own URL.
	ItemAction func(pageID, blockID, itemID string) string
	// SlideAction builds the URL of a carousel navigation control. When
	// nil, arrows and dots carry no href and rely on the client script.
	SlideAction func(pageID, blockID string, slide int) string
	// ImageServerURL is prefixed to root-relative image URLs.
	ImageServerURL string
}

// DefaultCarouselInterval is used when Options.CarouselInterval is zero.
const DefaultCarouselInterval = 5 * time.Second

// Interval returns the carousel interval, falling back to the default.
func (o Options) Interval() time.Duration {
	if o.CarouselInterval <= 0 {
		return DefaultCarouselInterval
	}
	return o.CarouselInterval
}

// FormURL returns the form post target for a block.
func (p Props) FormURL() string {
	if p.Options.FormAction == nil {
		return ""
	}
	return p.Options.FormAction(p.PageID, p.Block.ID())
}

// SlideURL returns the navigation target for a carousel slide.
func (p Props) SlideURL(slide int) string {
	if p.Options.SlideAction == nil {
		return ""
	}
	return p.Options.SlideAction(p.PageID, p.Block.ID(), slide)
}

// ImageURL makes a root-relative image URL absolute against the image
// server, when one is configured.
func (p Props) ImageURL(u string) string {
	base := strings.TrimRight(p.Options.ImageServerURL, "/")
	if base == "" || !strings.HasPrefix(u, "/") || strings.HasPrefix(u, "//") {
		return u
	}
	return base + u
}

// ItemURL returns the click target of an item, falling back to href.
func (p Props) ItemURL(itemID, href string) string {
	if p.Options.ItemAction == nil || itemID == "" {
		return href
	}
	return p.Options.ItemAction(p.PageID, p.Block.ID(), itemID)
}
