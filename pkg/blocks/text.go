package blocks

import (
	"html/template"

	"github.com/matzehuels/storeblocks/pkg/block"
	"github.com/matzehuels/storeblocks/pkg/render"
	"github.com/matzehuels/storeblocks/pkg/sanitize"
)

const (
	primaryButton   = "gfl-inline-flex gfl-items-center gfl-px-6 gfl-py-3 gfl-bg-blue-600 gfl-text-white gfl-font-medium gfl-rounded-lg hover:gfl-bg-blue-700 gfl-transition-colors gfl-duration-200"
	underlineLink   = "gfl-inline-flex gfl-items-center gfl-text-blue-600 hover:gfl-text-blue-800 gfl-underline gfl-transition-colors gfl-duration-200"
	constrainedWrap = "gfl-max-w-4xl gfl-mx-auto"
)

// textFields is the field variant shared by GLTextBlock and GLEditorBlock.
type textFields struct {
	Title          string
	Content        string
	Link           block.Link
	FullWidth      bool
	Background     string
	TitleFontColor string
	FontColor      string

	// editor only
	IsButton    bool
	ButtonSize  string
	ButtonColor string
	Hollow      bool
	ExtraMargin bool
}

func decodeText(f block.Fields) textFields {
	return textFields{
		Title:          f.String("blockTitle"),
		Content:        f.String("multiLangEditor"),
		Link:           f.Link("navigationLink"),
		FullWidth:      f.Bool("isFullWidth"),
		Background:     f.Option("backgroundColor").Value,
		TitleFontColor: f.Option("titleFontColor").Value,
		FontColor:      f.Option("fontColor").Value,
		IsButton:       f.Bool("isButton"),
		ButtonSize:     f.Option("buttonSize").Value,
		ButtonColor:    f.Option("buttonColor").Value,
		Hollow:         f.Bool("hollowButton"),
		ExtraMargin:    f.Bool("extraMargin"),
	}
}

type textData struct {
	Class        string
	Style        template.CSS
	Title        string
	TitleStyle   template.CSS
	Content      template.HTML
	ContentStyle template.CSS
	Link         *anchor
	LinkClass    string
}

func (f textFields) data(policy *sanitize.Policy, extraClass string) textData {
	bg := paintOf("background-color", f.Background)
	return textData{
		Class:        classes("gfl-block gfl-w-full", pick(f.FullWidth, "", constrainedWrap), "gfl-p-6 gfl-space-y-4", extraClass, bg.Class),
		Style:        css(bg.Decl),
		Title:        f.Title,
		TitleStyle:   css(decl("color", f.TitleFontColor)),
		Content:      policy.HTML(f.Content),
		ContentStyle: css(decl("color", f.FontColor)),
		LinkClass:    primaryButton,
	}
}

func viewText(p render.Props) any {
	f := decodeText(p.Block.Fields)
	d := f.data(sanitize.Rich, "")
	if f.Link.URL != "" && f.Link.Text != "" {
		d.Link = &anchor{Text: f.Link.Text, URL: safeURL(f.Link.URL)}
	}
	return d
}

func viewEditor(p render.Props) any {
	f := decodeText(p.Block.Fields)
	d := f.data(sanitize.Editor, pick(f.ExtraMargin, "gfl-my-8", ""))
	if f.Link.URL != "" && f.Link.Text != "" {
		target, rel := linkTarget(f.Link.Target, false, false)
		d.Link = &anchor{Text: f.Link.Text, URL: safeURL(f.Link.URL), Target: target, Rel: rel}
		d.LinkClass = underlineLink
		if f.IsButton {
			d.LinkClass = editorButton(f.ButtonSize, f.ButtonColor, f.Hollow)
		}
	}
	return d
}

// editorButton returns the classes of a button from its size, colour and
// hollow options. Unknown sizes are medium and unknown colours primary.
func editorButton(size, color string, hollow bool) string {
	sizeClass := "gfl-px-6 gfl-py-3"
	switch size {
	case "small":
		sizeClass = "gfl-px-4 gfl-py-2 gfl-text-sm"
	case "large":
		sizeClass = "gfl-px-8 gfl-py-4 gfl-text-lg"
	}

	hue, hover := "blue-600", "blue-700"
	switch color {
	case "secondary":
		hue, hover = "gray-600", "gray-700"
	case "accent":
		hue, hover = "green-600", "green-700"
	}
	colorClass := "gfl-bg-" + hue + " gfl-text-white hover:gfl-bg-" + hover
	if hollow {
		colorClass = "gfl-border-2 gfl-border-" + hue + " gfl-text-" + hue + " gfl-bg-transparent hover:gfl-bg-" + hue + " hover:gfl-text-white"
	}
	return classes("gfl-inline-flex gfl-items-center gfl-font-medium gfl-rounded-lg gfl-transition-colors gfl-duration-200", sizeClass, colorClass)
}

var emptySizes = map[string]string{
	"small":  "gfl-h-4",
	"medium": "gfl-h-12",
	"large":  "gfl-h-24",
}

type emptyData struct {
	Class string
	Style template.CSS
}

func viewEmpty(p render.Props) any {
	f := p.Block.Fields
	size, ok := emptySizes[f.Option("emptyBlockSize").Value]
	if !ok {
		size = emptySizes["medium"]
	}
	bg := paintOf("background-color", f.Option("backgroundColor").Value)
	return emptyData{
		Class: classes("gfl-block gfl-w-full", size, bg.Class),
		Style: css(bg.Decl),
	}
}

var (
	textRenderer   = newTemplated("text", viewText)
	editorRenderer = newTemplated("text", viewEditor)
	emptyRenderer  = newTemplated("empty", viewEmpty)
)
