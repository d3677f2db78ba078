package blocks

import (
	"html/template"
	"strings"

	"github.com/matzehuels/storeblocks/pkg/carousel"
	"github.com/matzehuels/storeblocks/pkg/render"
	"github.com/matzehuels/storeblocks/pkg/sanitize"
)

// nav is a carousel control. Without a URL it renders as a button the
// client script handles.
type nav struct {
	Slide  int
	URL    template.URL
	Label  string
	Class  string
	Active bool
}

// rotation is the server-side position of a rotator together with its
// controls.
type rotation struct {
	Current    int
	IntervalMS int64
	Prev       nav
	Next       nav
	Dots       []nav
}

// rotate positions a rotator over n items at the requested slide and builds
// the controls. Controls are only produced for more than one item.
func rotate(p render.Props, n int, prevLabel, nextLabel string) rotation {
	r := carousel.NewRotator(n)
	r.GoTo(p.Slide)
	cur := r.Index()
	rot := rotation{Current: cur, IntervalMS: p.Options.Interval().Milliseconds()}
	if n <= 1 {
		return rot
	}

	next := r.Next()
	r.GoTo(cur)
	prev := r.Prev()
	rot.Prev = nav{Slide: prev, URL: safeURL(p.SlideURL(prev)), Label: prevLabel}
	rot.Next = nav{Slide: next, URL: safeURL(p.SlideURL(next)), Label: nextLabel}
	for i := 0; i < n; i++ {
		rot.Dots = append(rot.Dots, nav{
			Slide:  i,
			URL:    safeURL(p.SlideURL(i)),
			Label:  "Go to slide " + itoa(i+1),
			Class:  classes("w-3 h-3 rounded-full transition-all duration-200", pick(i == cur, "bg-white w-8", "bg-white bg-opacity-50 hover:bg-opacity-75")),
			Active: i == cur,
		})
	}
	return rot
}

// GLCarouselBannerBlock

type slide struct {
	Title       string
	Description string
	Image       image
	Button      *anchor
	Hidden      bool
}

type carouselData struct {
	rotation
	ID        string
	Class     string
	Style     template.CSS
	TextStyle template.CSS
	Track     template.CSS
	Slides    []slide
	Empty     string
}

const slideButtonStyle = template.CSS("background-color: #E8FF00; color: #1A2332;")

func viewCarousel(p render.Props) any {
	f := p.Block.Fields
	bg := paintOf("background-color", f.Option("backgroundColor").Value)
	full := f.Bool("isFullWidth")
	items := f.Records("carouselSlides")

	d := carouselData{
		ID:        p.Block.ID(),
		Style:     css(bg.Decl),
		TextStyle: css("color: white;", decl("color", f.Option("fontColor").Value)),
	}
	width := pick(full, "w-full", "w-full max-w-7xl mx-auto")
	if len(items) == 0 {
		d.Class = classes("carousel-banner p-8 text-center", width, bg.Class)
		d.TextStyle = css(decl("color", f.Option("fontColor").Value))
		d.Empty = EmptySlides
		return d
	}

	d.Class = classes("carousel-banner relative", width, bg.Class)
	d.rotation = rotate(p, len(items), "Previous slide", "Next slide")
	d.Track = css("transform: translateX(-" + itoa(d.Current*100) + "%);")
	for i, it := range items {
		title := it.String("title")
		s := slide{
			Title:       title,
			Description: it.String("slideDescription"),
			Image:       imageOf(p, it.Media("slideImage"), firstNonEmpty(title, "Carousel slide")),
			Hidden:      i != d.Current,
		}
		if label, l := it.String("buttonLabel"), it.Link("navigationLink"); label != "" && l.URL != "" {
			external := strings.HasPrefix(l.URL, "http://") || strings.HasPrefix(l.URL, "https://")
			target, rel := linkTarget("", external, true)
			s.Button = &anchor{Text: label, URL: safeURL(l.URL), Target: target, Rel: rel}
		}
		d.Slides = append(d.Slides, s)
	}
	return d
}

// GLTestimonialsBlock

type testimonial struct {
	Review string
	Name   string
	Role   string
	Hidden bool
}

type testimonialsData struct {
	rotation
	ID               string
	Class            string
	Style            template.CSS
	ShowLeft         bool
	Title            string
	TitleStyle       template.CSS
	Description      template.HTML
	DescriptionStyle template.CSS
	PanelStyle       template.CSS
	Testimonials     []testimonial
}

func viewTestimonials(p render.Props) any {
	f := p.Block.Fields
	bg := paintOf("background-color", f.Option("backgroundColor").Value)

	d := testimonialsData{
		ID:               p.Block.ID(),
		Class:            classes("block w-full", pick(f.Bool("isFullWidth"), "", "max-w-7xl mx-auto"), bg.Class),
		Style:            css(bg.Decl),
		ShowLeft:         f.BoolOr("showLeftSection", true),
		Title:            f.String("title"),
		TitleStyle:       css(decl("color", f.Option("titleFontColor").Value)),
		Description:      sanitize.Testimonial.HTML(f.String("_description")),
		DescriptionStyle: css(decl("color", f.Option("descriptionFontColor").Value)),
		PanelStyle:       css(decl("background-color", f.Option("testimonialBackgroundColor").Value)),
	}
	if !f.BoolOr("showRightSection", true) {
		return d
	}
	items := f.Records("testimonials")
	d.rotation = rotate(p, len(items), "Previous testimonial", "Next testimonial")
	for i, it := range items {
		d.Testimonials = append(d.Testimonials, testimonial{
			Review: it.String("testimonialReview"),
			Name:   it.String("testimonialName"),
			Role:   it.String("testimonialRole"),
			Hidden: i != d.Current,
		})
	}
	return d
}

var (
	carouselRenderer     = newTemplated("carousel", viewCarousel)
	testimonialsRenderer = newTemplated("testimonials", viewTestimonials)
)
