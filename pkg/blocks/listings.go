package blocks

import (
	"html/template"

	"github.com/matzehuels/storeblocks/pkg/catalog"
	"github.com/matzehuels/storeblocks/pkg/render"
)

type listingData struct {
	Class      string
	Style      template.CSS
	Title      string
	Products   []productCard
	Categories []categoryCard
	Links      []linkTile
	Empty      string
}

func listingContainer(p render.Props, base, constrained string) (string, template.CSS) {
	f := p.Block.Fields
	bg := paintOf("background-color", f.Option("backgroundColor").Value)
	return classes(base, pick(f.Bool("fullWidthBlock"), "", constrained), bg.Class), css(bg.Decl)
}

// GLProductListingBlock

func viewProductListing(p render.Props) any {
	f := p.Block.Fields
	d := listingData{Title: f.String("blockTitle")}
	d.Class, d.Style = listingContainer(p, "gfl-block gfl-w-full", "gfl-max-w-7xl gfl-mx-auto")
	d.Products = productCards(p, productsOf(p, "productsLinkList"), f.Bool("showVariants"))
	if len(d.Products) == 0 {
		d.Empty = EmptyProducts
	}
	return d
}

// GLProductCategoryBlock

func viewProductCategory(p render.Props) any {
	d := listingData{}
	d.Class, d.Style = listingContainer(p, "gfl-block gfl-w-full gfl-p-8", "gfl-max-w-7xl gfl-mx-auto")
	d.Categories = categoryCards(p, categoriesOf(p, "categoryList"))
	if len(d.Categories) == 0 {
		d.Empty = EmptyCategories
	}
	return d
}

// GLCategoryListingBlock

// selectedCategories collects the inline categories behind every
// categorySelector entry.
func selectedCategories(p render.Props) []catalog.Category {
	if len(p.Categories) > 0 {
		return p.Categories
	}
	var out []catalog.Category
	for _, sel := range p.Block.Fields.Records("categorySelector") {
		for _, ref := range catalog.Refs(sel, "categoryPointer") {
			if ref.Inline() {
				out = append(out, ref.Category())
			}
		}
	}
	return out
}

func viewCategoryListing(p render.Props) any {
	d := listingData{Title: p.Block.Fields.String("title")}
	d.Class, d.Style = listingContainer(p, "gfl-block gfl-w-full gfl-px-12 gfl-py-12", "gfl-max-w-7xl gfl-mx-auto")
	d.Categories = categoryCards(p, selectedCategories(p))
	if len(d.Categories) == 0 {
		d.Empty = EmptyCategories
	}
	return d
}

// GLLinkListingBlock

type linkTile struct {
	URL   template.URL
	Text  string
	Image image
}

func viewLinkListing(p render.Props) any {
	d := listingData{Title: p.Block.Fields.String("title")}
	d.Class, d.Style = listingContainer(p, "gfl-block w-full px-12 py-12", "max-w-7xl mx-auto")

	n := 0
	for _, it := range p.Block.Fields.Records("navigationList") {
		if !it.Has("blockImagePointer") && !it.Has("navigationLink") {
			continue
		}
		n++
		l := it.Link("navigationLink")
		text := firstNonEmpty(l.Text, "Link "+itoa(n))
		d.Links = append(d.Links, linkTile{
			URL:   safeURL(firstNonEmpty(l.URL, "#")),
			Text:  text,
			Image: imageOf(p, it.Media("blockImagePointer"), text),
		})
	}
	if len(d.Links) == 0 {
		d.Empty = EmptyLinks
	}
	return d
}

var (
	productListingRenderer  = newTemplated("productListing", viewProductListing)
	productCategoryRenderer = newTemplated("productCategory", viewProductCategory)
	categoryListingRenderer = newTemplated("categoryListing", viewCategoryListing)
	linkListingRenderer     = newTemplated("linkListing", viewLinkListing)
)
