package blocks

import (
	"html/template"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// blockElements end a line of text.
var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "br": true, "li": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "form": true, "label": true, "button": true,
}

// PlainText extracts the visible text of rendered markup, one line per block
// element, for terminal previews. Script and style content is dropped.
func PlainText(markup template.HTML) string {
	z := html.NewTokenizer(strings.NewReader(string(markup)))
	var (
		b    strings.Builder
		line strings.Builder
		skip int
	)
	flush := func() {
		if s := strings.Join(strings.Fields(line.String()), " "); s != "" {
			b.WriteString(s)
			b.WriteByte('\n')
		}
		line.Reset()
	}
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				return b.String()
			}
			flush()
			return b.String()
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" {
				skip++
			}
			if blockElements[tag] {
				flush()
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if (tag == "script" || tag == "style") && skip > 0 {
				skip--
			}
			if blockElements[tag] {
				flush()
			}
		case html.TextToken:
			if skip == 0 {
				line.WriteString(" ")
				line.Write(z.Text())
			}
		}
	}
}
