package pipeline

import (
	"bytes"
	"html/template"

	"github.com/matzehuels/storeblocks/pkg/block"
	"github.com/matzehuels/storeblocks/pkg/blocks"
	"github.com/matzehuels/storeblocks/pkg/errors"
)

var pageTemplates = template.Must(template.New("page").Parse(`
{{- define "blocks"}}<main class="storeblocks" data-page-id="{{.PageID}}">
{{range .Blocks}}<section id="block-{{.ID}}" data-block-id="{{.ID}}" data-typename="{{.Typename}}">{{.HTML}}</section>
{{end}}</main>
{{with .Script}}{{.}}
{{end}}{{end}}
{{- define "document"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
</head>
<body>
{{template "blocks" .}}</body>
</html>
{{end}}`))

type pageData struct {
	PageID string
	Title  string
	Blocks []Rendered
	Script template.HTML
}

// assemble joins the rendered blocks into the page markup. The carousel
// script is included once when the page shows a full page; single-block
// fragments leave it to the host page.
func assemble(page block.Page, rendered []Rendered, opts Options) (template.HTML, error) {
	data := pageData{
		PageID: opts.PageID,
		Title:  page.Title,
		Blocks: rendered,
	}
	if data.Title == "" {
		data.Title = page.ID
	}
	if opts.Block == "" {
		data.Script = blocks.Script()
	}

	name := "blocks"
	if opts.Document {
		name = "document"
	}
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "assemble page %s", opts.PageID)
	}
	return template.HTML(buf.String()), nil
}
