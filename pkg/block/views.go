package block

// Option is a CMS select value.
type Option struct {
	Name  string `json:"name,omitempty"`
	Value string `json:"value,omitempty"`
}

// IsZero reports whether neither name nor value is set.
func (o Option) IsZero() bool { return o.Name == "" && o.Value == "" }

func optionOf(v Value) Option {
	switch v.kind {
	case KindString, KindNumber:
		return Option{Value: v.Text()}
	case KindList:
		if len(v.list) == 0 {
			return Option{}
		}
		return optionOf(v.list[0])
	case KindRecord:
		return Option{Name: v.rec.String("name"), Value: v.rec.String("value")}
	}
	return Option{}
}

// Media is an image reference.
type Media struct {
	URL      string `json:"url,omitempty"`
	Alt      string `json:"alt,omitempty"`
	Filename string `json:"filename,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// IsZero reports whether the media has no URL.
func (m Media) IsZero() bool { return m.URL == "" }

// mediaOf accepts both pointer shapes ({item: {...}} or {item: [{...}]})
// and a bare media record.
func mediaOf(v Value) Media {
	rec := v.Fields()
	if rec == nil {
		return Media{}
	}
	if item := rec.Get("item"); !item.IsNull() {
		rec = item.Fields()
		if rec == nil {
			return Media{}
		}
	}
	return Media{
		URL:      rec.String("url"),
		Alt:      rec.String("alt"),
		Filename: rec.String("filename"),
		Width:    rec.Int("dimension.width", 0),
		Height:   rec.Int("dimension.height", 0),
	}
}

// Link is a navigation link.
type Link struct {
	Text   string `json:"text,omitempty"`
	URL    string `json:"url,omitempty"`
	Target string `json:"target,omitempty"`
}

// IsZero reports whether the link has no URL.
func (l Link) IsZero() bool { return l.URL == "" }

// IsExternal reports whether the link leaves the storefront.
func (l Link) IsExternal() bool {
	return len(l.URL) >= 4 && l.URL[:4] == "http"
}

func linkOf(v Value) Link {
	rec := v.Fields()
	if rec == nil {
		if v.kind == KindString {
			return Link{URL: v.str}
		}
		return Link{}
	}
	return Link{
		Text:   rec.StringOr("text", rec.String("name")),
		URL:    rec.String("url"),
		Target: rec.String("target"),
	}
}
