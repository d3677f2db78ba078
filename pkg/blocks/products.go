package blocks

import (
	"html/template"

	"github.com/matzehuels/storeblocks/pkg/block"
	"github.com/matzehuels/storeblocks/pkg/catalog"
	"github.com/matzehuels/storeblocks/pkg/render"
)

// productCard is one product tile. The link goes through the item hook so
// the server can record the click.
type productCard struct {
	ID       string
	Name     string
	Brand    string
	Price    string
	URL      template.URL
	Image    image
	Variants []catalog.ProductVariant
}

// categoryCard is one category tile.
type categoryCard struct {
	ID          string
	Name        string
	Description string
	URL         template.URL
	Image       image
	Count       string
}

// CatalogRefs returns the product and category pointers a block displays,
// so the caller can resolve them before rendering. Blocks that show no
// catalog records return nothing.
func CatalogRefs(d block.Descriptor) (products, categories []catalog.Ref) {
	f := d.Fields
	switch d.Typename {
	case "GLFeaturedProductsBannerBlock", "GLProductListingBlock":
		products = catalog.Refs(f, "productsLinkList")
	case "GLProductCategoryBlock":
		categories = catalog.Refs(f, "categoryList")
	case "GLCategoryListingBlock":
		for _, sel := range f.Records("categorySelector") {
			categories = append(categories, catalog.Refs(sel, "categoryPointer")...)
		}
	}
	return products, categories
}

// productsOf returns the resolved products, or the inline records of the
// pointer list at path when nothing was resolved.
func productsOf(p render.Props, path string) []catalog.Product {
	if len(p.Products) > 0 {
		return p.Products
	}
	var out []catalog.Product
	for _, ref := range catalog.Refs(p.Block.Fields, path) {
		if ref.Inline() {
			out = append(out, ref.Product())
		}
	}
	return out
}

// categoriesOf is productsOf for categories.
func categoriesOf(p render.Props, path string) []catalog.Category {
	if len(p.Categories) > 0 {
		return p.Categories
	}
	var out []catalog.Category
	for _, ref := range catalog.Refs(p.Block.Fields, path) {
		if ref.Inline() {
			out = append(out, ref.Category())
		}
	}
	return out
}

func productCards(p render.Props, products []catalog.Product, variants bool) []productCard {
	out := make([]productCard, 0, len(products))
	for _, pr := range products {
		c := productCard{
			ID:    pr.ID,
			Name:  pr.Name,
			Brand: pr.Brand,
			Price: pr.Price,
			URL:   safeURL(p.ItemURL(pr.ID, pr.URL)),
			Image: imageOf(p, pr.Image, pr.Name),
		}
		if variants {
			c.Variants = pr.Variants
		}
		out = append(out, c)
	}
	return out
}

func categoryCards(p render.Props, categories []catalog.Category) []categoryCard {
	out := make([]categoryCard, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryCard{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			URL:         safeURL(p.ItemURL(c.ID, c.URL)),
			Image:       imageOf(p, c.Image(), c.Name),
			Count:       productCount(c.ProductCount),
		})
	}
	return out
}

// productCount renders "1 product" or "N products"; zero renders nothing.
func productCount(n int) string {
	switch {
	case n <= 0:
		return ""
	case n == 1:
		return "1 product"
	default:
		return itoa(n) + " products"
	}
}

// imageOf converts media into a rendered image, resolving the URL against
// the image server and using alt when the media has none.
func imageOf(p render.Props, m block.Media, alt string) image {
	if m.URL == "" {
		return image{}
	}
	return image{
		URL:    safeURL(p.ImageURL(m.URL)),
		Alt:    firstNonEmpty(m.Alt, alt),
		Width:  m.Width,
		Height: m.Height,
	}
}
