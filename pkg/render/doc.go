// Package render defines the contract between the block registry and the
// block renderers.
//
// # Overview
//
// A [Renderer] turns one block descriptor plus its collaborator data into an
// HTML fragment. Renderers are pure: they read [Props], never perform I/O and
// keep no state between calls, so one renderer value serves every request.
//
// Collaborator data that a renderer cannot derive from its own fields
// (products, categories, the state of a form after a submission) is resolved
// by the pipeline and handed in through [Props].
//
// # Handlers
//
// Interactive behaviour is not executed during rendering. Item clicks and form
// submissions are expressed as markup (data attributes and form actions) that
// point back at the HTTP server, which invokes the injected handlers.
//
//	html, err := r.Render(ctx, render.Props{
//	    Block:    desc,
//	    Products: products,
//	    Options:  render.Options{CarouselInterval: 5 * time.Second},
//	})
package render
