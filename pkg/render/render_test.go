package render

import (
	"context"
	"html/template"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/matzehuels/storeblocks/pkg/block"
)

func TestInterval(t *testing.T) {
	assert.Equal(t, DefaultCarouselInterval, Options{}.Interval())
	assert.Equal(t, DefaultCarouselInterval, Options{CarouselInterval: -time.Second}.Interval())
	assert.Equal(t, 2*time.Second, Options{CarouselInterval: 2 * time.Second}.Interval())
}

func TestHooks(t *testing.T) {
	p := Props{Block: block.Descriptor{Typename: "GLContactFormBlock", SystemID: "b1"}, PageID: "home"}
	assert.Empty(t, p.FormURL())
	assert.Empty(t, p.SlideURL(2))
	assert.Equal(t, "/p/1", p.ItemURL("1", "/p/1"))

	p.Options = Options{
		FormAction:  func(page, blk string) string { return page + "/" + blk },
		SlideAction: func(page, blk string, slide int) string { return page + "/" + blk + "/" + strconv.Itoa(slide) },
		ItemAction:  func(page, blk, item string) string { return page + "/" + blk + "/" + item },
	}
	assert.Equal(t, "home/b1", p.FormURL())
	assert.Equal(t, "home/b1/2", p.SlideURL(2))
	assert.Equal(t, "home/b1/p9", p.ItemURL("p9", "/p/9"))
	assert.Equal(t, "/p/9", p.ItemURL("", "/p/9"))
}

func TestImageURL(t *testing.T) {
	tests := []struct {
		base, in, want string
	}{
		{"", "/a.jpg", "/a.jpg"},
		{"https://img.example.com/", "/a.jpg", "https://img.example.com/a.jpg"},
		{"https://img.example.com", "/a.jpg", "https://img.example.com/a.jpg"},
		{"https://img.example.com", "https://cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg"},
		{"https://img.example.com", "//cdn.example.com/a.jpg", "//cdn.example.com/a.jpg"},
		{"https://img.example.com", "a.jpg", "a.jpg"},
	}
	for _, tt := range tests {
		p := Props{Options: Options{ImageServerURL: tt.base}}
		assert.Equal(t, tt.want, p.ImageURL(tt.in), "%s + %s", tt.base, tt.in)
	}
}

func TestFunc(t *testing.T) {
	var r Renderer = Func(func(_ context.Context, p Props) (template.HTML, error) {
		return template.HTML("<p>" + p.PageID + "</p>"), nil
	})
	out, err := r.Render(context.Background(), Props{PageID: "x"})
	assert.NoError(t, err)
	assert.Equal(t, template.HTML("<p>x</p>"), out)
}
