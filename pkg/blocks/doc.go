// Package blocks implements the renderer of every storefront block kind.
//
// # Overview
//
// Each block kind decodes its field bag into a small typed view (defaults
// applied, colours split into classes and inline styles, rich text passed
// through the kind's sanitizer preset) and executes an embedded
// html/template against it. Renderers keep no state and perform no I/O.
//
// # Registry
//
// [NewRegistry] builds the sealed typename registry the pipeline and the
// HTTP server share:
//
//	reg, err := blocks.NewRegistry()
//	r, ok := reg.Resolve("GLTextBlock")
//	html, err := r.Render(ctx, render.Props{Block: desc})
//
// Legacy typenames (GLMonoBanner, GLHeroBanner, GLGridBanner,
// GLRequestQuoteBlock) resolve to the same renderer value as their canonical
// names.
//
// # Empty states
//
// Listings with nothing to show render a fixed placeholder text instead of an
// empty container; see [EmptyBrandLogos] and friends.
//
// # Interaction
//
// Carousels and testimonial rotators render the slide chosen by
// [render.Props.Slide] and carry the auto-advance interval as data-interval
// for [Script]. Item links and form actions are built through the hooks in
// [render.Options]; nothing is executed while rendering.
package blocks
