package blocks

import (
	"fmt"
	"html/template"

	"github.com/matzehuels/storeblocks/pkg/render"
	"github.com/matzehuels/storeblocks/pkg/sanitize"
)

// GLBrandBannerBlock

type brandBannerData struct {
	Class        string
	PanelStyle   template.CSS
	Title        string
	TitleStyle   template.CSS
	ContentStyle template.CSS
	Left         bool
	Subheading   string
	Heading      string
	Description  template.HTML
	SectionTitle string
	GridClass    string
	Logos        []image
	Empty        string
}

// brandGrid maps the first gridColumns option to a column class. Only 2 to 6
// columns are supported; anything else is 4.
func brandGrid(value string) string {
	switch value {
	case "2", "3", "4", "5", "6":
		return "grid-cols-" + value
	}
	return "grid-cols-4"
}

func viewBrandBanner(p render.Props) any {
	f := p.Block.Fields
	bg := paintOf("background-color", f.Option("backgroundColor").Value)
	cols := ""
	if opts := f.Options("gridColumns"); len(opts) > 0 {
		cols = opts[0].Value
	}

	d := brandBannerData{
		Class:        classes("w-full", pick(f.Bool("isFullWidth"), "", "mx-auto max-w-7xl"), "px-6 py-12 sm:px-12"),
		PanelStyle:   css(bg.Decl),
		Title:        f.String("blockTitle"),
		TitleStyle:   css(decl("color", f.Option("titleFontColor").Value)),
		ContentStyle: css(decl("color", f.Option("fontColor").Value)),
		Subheading:   f.String("leftSubheading"),
		Heading:      f.String("leftHeading"),
		Description:  sanitize.Basic.HTML(f.String("leftDescription")),
		SectionTitle: f.String("brandSectionTitle"),
		GridClass:    classes("grid", brandGrid(cols), "gap-4 md:gap-8"),
	}
	d.Left = d.Heading != "" || d.Subheading != "" || f.String("leftDescription") != ""
	for i, logo := range f.Records("brandLogos") {
		img := imageOf(p, logo.Media("blockImagePointer"), fmt.Sprintf("Brand logo %d", i+1))
		if img.URL != "" {
			d.Logos = append(d.Logos, img)
		}
	}
	if len(d.Logos) == 0 {
		d.Empty = EmptyBrandLogos
	}
	return d
}

// GLBrandListBlock

type brand struct {
	Title string
	Image image
	Link  *anchor
	Label string
}

type brandListData struct {
	Class     string
	Style     template.CSS
	TextStyle template.CSS
	Title     string
	GridClass string
	Brands    []brand
	Empty     string
}

// brandListGrid picks responsive columns from the number of brands.
func brandListGrid(n int) string {
	switch {
	case n <= 0:
		return ""
	case n == 1:
		return "gfl-grid-cols-1"
	case n == 2:
		return "gfl-grid-cols-1 sm:gfl-grid-cols-2"
	case n == 3:
		return "gfl-grid-cols-1 sm:gfl-grid-cols-2 md:gfl-grid-cols-3"
	case n == 4:
		return "gfl-grid-cols-2 sm:gfl-grid-cols-2 md:gfl-grid-cols-4"
	case n == 5:
		return "gfl-grid-cols-2 sm:gfl-grid-cols-3 md:gfl-grid-cols-5"
	case n == 6:
		return "gfl-grid-cols-2 sm:gfl-grid-cols-3 md:gfl-grid-cols-6"
	default:
		return "gfl-grid-cols-2 sm:gfl-grid-cols-3 md:gfl-grid-cols-4 lg:gfl-grid-cols-5 xl:gfl-grid-cols-6 2xl:gfl-grid-cols-7"
	}
}

func viewBrandList(p render.Props) any {
	f := p.Block.Fields
	bg := paintOf("background-color", f.Option("backgroundColor").Value)
	items := f.Records("brandList")

	d := brandListData{
		Class:     classes("gfl-block gfl-w-full", pick(f.Bool("isFullWidth"), "", "gfl-max-w-7xl gfl-mx-auto"), bg.Class),
		Style:     css(bg.Decl),
		TextStyle: css(decl("color", f.Option("fontColor").Value)),
		Title:     f.String("title"),
		GridClass: classes("gfl-grid", brandListGrid(len(items)), "gfl-gap-8 gfl-items-center gfl-justify-items-center"),
	}
	if len(items) == 0 {
		d.Empty = EmptyBrands
		return d
	}
	for i, it := range items {
		fallback := fmt.Sprintf("Brand %d", i+1)
		title := it.String("title")
		b := brand{
			Title: title,
			Image: imageOf(p, it.Media("blockImagePointer"), firstNonEmpty(title, fallback)),
		}
		if l := it.Link("navigationLink"); l.URL != "" {
			target, rel := linkTarget(l.Target, false, false)
			b.Link = &anchor{URL: safeURL(l.URL), Target: target, Rel: rel}
			b.Label = firstNonEmpty(l.Text, title, fallback)
		}
		d.Brands = append(d.Brands, b)
	}
	return d
}

var (
	brandBannerRenderer = newTemplated("brandBanner", viewBrandBanner)
	brandListRenderer   = newTemplated("brandList", viewBrandList)
)
