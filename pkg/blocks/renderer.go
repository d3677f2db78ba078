package blocks

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/matzehuels/storeblocks/pkg/render"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("blocks").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	// arrow styles a prev/next control.
	"arrow": func(n nav, class string) nav {
		n.Class = class
		return n
	},
}).ParseFS(templateFS, "templates/*.html"))

// view decodes a block into the data its template executes against.
type view func(p render.Props) any

// templated renders a block by executing one named template against the
// block's view.
type templated struct {
	name string
	view view
}

func newTemplated(name string, v view) *templated {
	if templates.Lookup(name) == nil {
		panic(fmt.Sprintf("blocks: missing template %q", name))
	}
	return &templated{name: name, view: v}
}

func (t *templated) Render(ctx context.Context, p render.Props) (template.HTML, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, t.name, t.view(p)); err != nil {
		return "", fmt.Errorf("render %s %s: %w", p.Block.Typename, p.Block.ID(), err)
	}
	return template.HTML(buf.String()), nil
}
