package sanitize

var linkAttrs = []string{"href", "target", "rel", "class", "style"}

var inline = []string{"p", "br", "strong", "em", "u", "a", "ul", "ol", "li"}

var headings = []string{"h1", "h2", "h3", "h4", "h5", "h6"}

var blockTags = []string{"span", "div", "blockquote", "code", "pre"}

func tags(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// Preset allow-lists, one per family of rich-text fields.
var (
	// BasicConfig covers short descriptions next to logos.
	BasicConfig = Config{
		AllowedTags:       tags(inline, []string{"span", "div"}),
		AllowedAttributes: linkAttrs,
	}

	// ContactConfig covers the intro text of the contact form.
	ContactConfig = Config{
		AllowedTags:       tags(inline, []string{"div", "span", "h1", "h2", "h3"}),
		AllowedAttributes: linkAttrs,
	}

	// RequestQuoteConfig covers the intro text of the request-a-quote form.
	RequestQuoteConfig = Config{
		AllowedTags:       tags(inline, headings, []string{"div", "span"}),
		AllowedAttributes: linkAttrs,
	}

	// TestimonialConfig covers testimonial section descriptions. Underline is
	// not part of it.
	TestimonialConfig = Config{
		AllowedTags:       tags([]string{"p", "br", "strong", "em", "a", "ul", "ol", "li"}, headings),
		AllowedAttributes: linkAttrs,
	}

	// RichConfig covers text, column and featured-product banners.
	RichConfig = Config{
		AllowedTags:       tags(inline, headings, blockTags),
		AllowedAttributes: linkAttrs,
	}

	// EditorConfig adds images and tables to RichConfig.
	EditorConfig = Config{
		AllowedTags:       tags(inline, headings, blockTags, []string{"img", "table", "thead", "tbody", "tr", "th", "td"}),
		AllowedAttributes: tags(linkAttrs, []string{"src", "alt", "width", "height"}),
	}

	// PermissiveConfig is the broad default used where no narrower list
	// applies, such as customer registration copy.
	PermissiveConfig = Config{
		AllowedTags: tags(inline, headings, blockTags,
			[]string{"img", "table", "thead", "tbody", "tfoot", "tr", "th", "td", "caption",
				"b", "i", "s", "sub", "sup", "small", "hr", "dl", "dt", "dd", "figure", "figcaption"}),
		AllowedAttributes: tags(linkAttrs, []string{"src", "alt", "width", "height", "title", "id", "colspan", "rowspan"}),
	}
)

// Compiled presets.
var (
	Basic        = MustNew(BasicConfig)
	Contact      = MustNew(ContactConfig)
	RequestQuote = MustNew(RequestQuoteConfig)
	Testimonial  = MustNew(TestimonialConfig)
	Rich         = MustNew(RichConfig)
	Editor       = MustNew(EditorConfig)
	Permissive   = MustNew(PermissiveConfig)
)
