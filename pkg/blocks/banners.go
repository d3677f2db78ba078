package blocks

import (
	"html/template"

	"github.com/matzehuels/storeblocks/pkg/block"
	"github.com/matzehuels/storeblocks/pkg/render"
	"github.com/matzehuels/storeblocks/pkg/sanitize"
)

// GLColumnBannerBlock

type column struct {
	Class      string
	Style      template.CSS
	Image      image
	Overlay    bool
	InnerClass string
	InnerStyle template.CSS
	BodyClass  string
	Title      string
	TitleClass string
	Content    template.HTML
	Link       *anchor
	LinkWrap   string
	LinkClass  string
}

type columnBannerData struct {
	Class     string
	Style     template.CSS
	GridClass string
	Columns   []column
}

// columnGrid picks the grid columns: a single-row layout spreads three or
// four columns across one row, one column fills the row, everything else
// wraps two per row.
func columnGrid(count int, singleRow bool) string {
	switch {
	case singleRow && (count == 3 || count == 4):
		return "grid-cols-" + itoa(count)
	case count == 1:
		return "grid-cols-1"
	default:
		return "grid-cols-2"
	}
}

func columnTitleSize(count int) string {
	switch count {
	case 1:
		return "lg:text-[46px] lg:leading-10"
	case 4:
		return "lg:text-[26px]"
	default:
		return "lg:text-[36px]"
	}
}

func viewColumnBanner(p render.Props) any {
	f := p.Block.Fields
	bg := paintOf("background-color", f.Option("backgroundColor").Value)
	fontColor := decl("color", f.Option("fontColor").Value)
	cols := f.Records("columnBlocks")
	n := len(cols)

	d := columnBannerData{
		Class:     classes(pick(f.Bool("isFullWidth"), "w-full", "max-w-7xl mx-auto"), bg.Class),
		Style:     css(bg.Decl),
		GridClass: classes("grid min-h-full", columnGrid(n, f.Bool("isSingleRowLayout")), pick(f.Bool("gutterBlock"), "gap-x-8 gap-y-4", "gap-0")),
	}
	for _, cf := range cols {
		title := cf.String("blockTitle")
		c := column{
			Style:      css(bg.Decl),
			Image:      imageOf(p, cf.Media("blockImagePointer"), ""),
			Overlay:    cf.Bool("backgroundOverlay"),
			InnerClass: classes("relative flex w-full flex-col items-end justify-end p-7 md:p-10", pick(n == 1, "xl:w-1/2", "")),
			InnerStyle: css(fontColor),
			BodyClass:  classes("w-full", pick(n == 1, "self-start", "")),
			Title:      title,
			TitleClass: classes("mb-4 font-bold sm:text-2xl", columnTitleSize(n)),
			Content:    sanitize.Rich.HTML(cf.String("multiLangEditor")),
		}
		c.Image.Alt = title
		c.Class = classes("relative flex rounded-lg", pick(c.Image.URL != "", "h-[34rem]", ""))
		if l := cf.Link("navigationLink"); l.URL != "" && l.Text != "" {
			c.Link = &anchor{Text: l.Text, URL: safeURL(l.URL)}
			button := cf.Bool("isButton")
			c.LinkWrap = classes("w-full pt-4", pick(button, "flex justify-start", ""))
			c.LinkClass = pick(button,
				"inline-flex items-center rounded-lg bg-blue-600 px-6 py-3 text-sm font-bold text-white transition-colors duration-200 hover:bg-blue-700",
				"inline-block min-h-9 px-4 pl-0 text-base font-bold leading-4 tracking-wide hover:underline")
		}
		d.Columns = append(d.Columns, c)
	}
	return d
}

// GLFeaturedProductsBannerBlock

type featuredProductsData struct {
	Class       string
	Style       template.CSS
	GridClass   string
	TextClass   string
	TextStyle   template.CSS
	Title       string
	Description template.HTML
	Link        *anchor
	LinkClass   string
	Image       image
	ImageClass  string
	Overlay     bool
	BlockTitle  string
	Products    []productCard
}

func viewFeaturedProducts(p render.Props) any {
	f := p.Block.Fields
	bg := paintOf("background-color", f.Option("backgroundColor").Value)
	right := f.Bool("showImageToRight")
	title := f.String("title")
	img := imageOf(p, f.Media("blockImagePointer"), firstNonEmpty(title, "Banner image"))
	hasImage := img.URL != ""

	d := featuredProductsData{
		Class:       classes("gfl-block gfl-w-full", pick(f.Bool("isFullWidth"), "", "gfl-max-w-7xl gfl-mx-auto"), bg.Class),
		Style:       css(bg.Decl),
		GridClass:   classes("gfl-grid gfl-grid-cols-1", pick(hasImage, "md:gfl-grid-cols-2", ""), "gfl-gap-8 gfl-p-8 gfl-items-center"),
		TextStyle:   css(decl("color", f.Option("fontColor").Value)),
		Title:       title,
		Description: sanitize.Rich.HTML(f.String("_description")),
		Image:       img,
		ImageClass:  classes("gfl-relative", pick(right, "gfl-order-2", "gfl-order-1")),
		Overlay:     f.Bool("backgroundOverlay"),
		BlockTitle:  f.String("blockTitle"),
		Products:    productCards(p, productsOf(p, "productsLinkList"), f.Bool("showVariants")),
	}
	switch {
	case right:
		d.TextClass = "gfl-order-1"
	case hasImage:
		d.TextClass = "gfl-order-2"
	}
	if l := f.Link("navigationLink"); l.URL != "" && l.Text != "" {
		d.Link = &anchor{Text: l.Text, URL: safeURL(l.URL)}
		d.LinkClass = pick(f.Bool("isButton"), primaryButton,
			"gfl-inline-flex gfl-items-center gfl-text-blue-600 hover:gfl-text-blue-800 gfl-font-medium gfl-underline")
	}
	return d
}

// GLMonoBannerBlock and GLHeroBannerBlock

type heroData struct {
	Class       string
	Style       template.CSS
	Overlay     bool
	Image       image
	ImageWrap   string
	ImageClass  string
	Heading     string
	Title       string
	TitleClass  string
	Description string
	Link        *anchor
	LinkClass   string
}

func bannerStyle(f block.Fields) (string, template.CSS) {
	bg := paintOf("background-color", f.Option("backgroundColor").Value)
	fg := paintOf("color", f.Option("fontColor").Value)
	return classes(fg.Class, bg.Class), css(fg.Decl, bg.Decl)
}

func monoButton(size, color string, hollow bool) string {
	sizeClass := "text-base"
	switch size {
	case "small":
		sizeClass = "text-sm"
	case "large":
		sizeClass = "text-lg"
	}
	colorClass := "bg-brand-" + firstNonEmpty(color, "primary") + " text-white hover:bg-brand-secondary"
	if hollow {
		colorClass = "border-2 border-brand-primary text-brand-primary bg-transparent hover:bg-brand-primary hover:text-white"
	}
	return classes("z-10 inline-block rounded px-6 py-3 font-semibold transition", colorClass, sizeClass)
}

func viewMonoBanner(p render.Props) any {
	f := p.Block.Fields
	colorClass, style := bannerStyle(f)
	title := f.String("title")
	m := f.Media("blockImagePointer")
	img := imageOf(p, m, firstNonEmpty(title, "Mono Banner"))
	if img.Width == 0 {
		img.Width = 800
	}
	if img.Height == 0 {
		img.Height = 384
	}

	d := heroData{
		Class:       classes("gl-mono-banner", pick(f.Bool("isFullWidth"), "w-full", "max-w-5xl mx-auto"), colorClass),
		Style:       style,
		Overlay:     f.Bool("backgroundOverlay"),
		Image:       img,
		ImageWrap:   "relative z-10 max-h-96 w-full overflow-hidden rounded-lg shadow-lg",
		ImageClass:  classes("mb-6 max-h-96 object-cover rounded-lg shadow-lg z-10", pick(f.Bool("centerImage"), "mx-auto", "")),
		Heading:     "h2",
		Title:       title,
		TitleClass:  "z-10 mb-2 text-3xl font-bold",
		Description: f.String("_description"),
	}
	if l := f.Link("navigationLink"); l.URL != "" {
		d.Link = &anchor{Text: l.Text, URL: safeURL(l.URL)}
		d.LinkClass = "text-brand-primary z-10 underline"
		if f.Bool("isButton") {
			d.LinkClass = monoButton(f.Option("buttonSize").Value, f.Option("buttonColor").Value, f.Bool("hollowButton"))
		}
	}
	return d
}

func viewHeroBanner(p render.Props) any {
	f := p.Block.Fields
	colorClass, style := bannerStyle(f)
	title := f.String("title")
	img := imageOf(p, f.Media("blockImagePointer"), firstNonEmpty(title, f.String("_name"), "Hero Banner"))
	img.Width, img.Height = 800, 384

	d := heroData{
		Class:       classes("gl-hero-banner", pick(f.Bool("isFullWidth"), "w-full", "max-w-5xl mx-auto"), colorClass),
		Style:       style,
		Overlay:     f.Bool("backgroundOverlay"),
		Image:       img,
		ImageWrap:   "z-10 mb-6 relative max-h-96 w-full rounded-lg overflow-hidden shadow-lg",
		ImageClass:  "object-cover",
		Heading:     "h1",
		Title:       title,
		TitleClass:  "z-10 mb-2 text-4xl font-bold",
		Description: f.String("_description"),
	}
	if text := f.String("linkText"); text != "" {
		d.Link = &anchor{Text: text, URL: "#"}
		d.LinkClass = "bg-brand-primary hover:bg-brand-secondary z-10 inline-block rounded px-6 py-3 font-semibold text-white transition"
	}
	return d
}

// GLGridBannerBlock

type gridItem struct {
	Text  string
	Image image
	Link  *anchor
}

type gridBannerData struct {
	Class      string
	Style      template.CSS
	Title      string
	TitleStyle template.CSS
	Items      []gridItem
}

func viewGridBanner(p render.Props) any {
	f := p.Block.Fields
	bg := paintOf("background-color", f.Option("backgroundColor").Value)
	d := gridBannerData{
		Class:      classes("gl-grid-banner", pick(f.Bool("fullWidthBlock"), "w-full", "max-w-7xl mx-auto"), "py-8 px-4", bg.Class),
		Style:      css(bg.Decl),
		Title:      f.String("title"),
		TitleStyle: css(decl("color", f.Option("titleFontColor").Value)),
	}
	for _, v := range f.List("gridBanner") {
		switch v.Kind() {
		case block.KindRecord:
			rf := v.Fields()
			it := gridItem{
				Text:  firstNonEmpty(rf.String("title"), rf.String("text"), rf.String("blockTitle")),
				Image: imageOf(p, rf.Media("blockImagePointer"), rf.String("title")),
			}
			if l := rf.Link("navigationLink"); l.URL != "" {
				it.Link = &anchor{Text: firstNonEmpty(l.Text, it.Text), URL: safeURL(l.URL)}
			}
			d.Items = append(d.Items, it)
		case block.KindNull:
		default:
			if t := v.Text(); t != "" {
				d.Items = append(d.Items, gridItem{Text: t})
			}
		}
	}
	return d
}

// GLFullWidthBannerBlock

type fullWidthData struct {
	Class       string
	Style       template.CSS
	Image       image
	Title       string
	Description template.HTML
	Link        *anchor
}

func viewFullWidthBanner(p render.Props) any {
	f := p.Block.Fields
	bg := paintOf("background-color", firstNonEmpty(f.Option("backgroundColor").Value, "bg-white"))
	fg := paintOf("color", firstNonEmpty(f.Option("fontColor").Value, "text-black"))
	title := f.String("blockTitle")

	d := fullWidthData{
		Class:       classes("relative", pick(f.BoolOr("isFullWidth", true), "w-full", "max-w-5xl mx-auto"), "p-8 rounded-lg shadow-md overflow-hidden", bg.Class, fg.Class),
		Style:       css(bg.Decl, fg.Decl),
		Image:       imageOf(p, f.Media("blockImagePointer"), ""),
		Title:       title,
		Description: sanitize.Rich.HTML(f.String("_description")),
	}
	d.Image.Alt = firstNonEmpty(title, "Banner image")
	if l := f.Link("navigationLink"); l.URL != "" && l.Text != "" {
		target, rel := linkTarget(l.Target, false, false)
		d.Link = &anchor{Text: l.Text, URL: safeURL(l.URL), Target: target, Rel: rel}
	}
	return d
}

// GLCategoryBlockBannerBlock

type categoryBannerData struct {
	Class       string
	Style       template.CSS
	Title       string
	Description string
	Background  template.CSS
}

func viewCategoryBlockBanner(p render.Props) any {
	f := p.Block.Fields
	bg := paintOf("background-color", f.Option("backgroundColor").Value)
	fg := paintOf("color", f.Option("textColor").Value)
	d := categoryBannerData{
		Class:       classes("relative p-8 rounded-lg shadow-md overflow-hidden", bg.Class, fg.Class),
		Style:       css(bg.Decl, fg.Decl),
		Title:       f.String("title"),
		Description: f.String("_description"),
	}
	if u := f.Media("backgroundImage").URL; u != "" {
		if img := backgroundImage(p.ImageURL(u)); img != "" {
			d.Background = css(img, "background-size: cover;", "background-position: center;")
		}
	}
	return d
}

var (
	columnBannerRenderer        = newTemplated("columnBanner", viewColumnBanner)
	featuredProductsRenderer    = newTemplated("featuredProducts", viewFeaturedProducts)
	monoBannerRenderer          = newTemplated("hero", viewMonoBanner)
	heroBannerRenderer          = newTemplated("hero", viewHeroBanner)
	gridBannerRenderer          = newTemplated("gridBanner", viewGridBanner)
	fullWidthBannerRenderer     = newTemplated("fullWidthBanner", viewFullWidthBanner)
	categoryBlockBannerRenderer = newTemplated("categoryBlockBanner", viewCategoryBlockBanner)
)
