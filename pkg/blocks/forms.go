package blocks

import (
	"html/template"

	"github.com/matzehuels/storeblocks/pkg/block"
	"github.com/matzehuels/storeblocks/pkg/forms"
	"github.com/matzehuels/storeblocks/pkg/render"
	"github.com/matzehuels/storeblocks/pkg/sanitize"
)

// formKind ties a form block to its field catalogue and presentation.
type formKind struct {
	def        *forms.Definition
	titleField string
	fieldsPath string
	policy     *sanitize.Policy
	submit     string
}

var formKinds = map[string]formKind{
	"GLContactFormBlock": {
		def: forms.Contact, titleField: "title", fieldsPath: "formFields",
		policy: sanitize.Contact, submit: "Submit",
	},
	"GLRequestQuoteFormBlock": {
		def: forms.RequestQuote, titleField: "blockTitle", fieldsPath: "formFields",
		policy: sanitize.RequestQuote, submit: "Submit Quote Request",
	},
	"GLCustomerRegistrationBlock": {
		def: forms.CustomerRegistration, titleField: "blockTitle", fieldsPath: "customerRegistrationFields",
		policy: sanitize.Permissive, submit: "Create Account",
	},
}

func init() {
	formKinds["GLRequestQuoteBlock"] = formKinds["GLRequestQuoteFormBlock"]
}

// FormFor builds the form a block describes: the CMS field selection, the
// receiver email and the success message. The second result is false for
// blocks that are not forms.
func FormFor(d block.Descriptor, pageID string, opts ...forms.Option) (*forms.Form, bool) {
	k, ok := formKinds[d.Typename]
	if !ok {
		return nil, false
	}
	return k.form(d, pageID, opts...), true
}

func (k formKind) form(d block.Descriptor, pageID string, opts ...forms.Option) *forms.Form {
	f := d.Fields
	var selected []string
	for _, o := range f.Options(k.fieldsPath) {
		selected = append(selected, o.Value)
	}
	receiver := f.Option("formReceiverEmail").Value
	opts = append([]forms.Option{forms.WithBlock(pageID, d.ID())}, opts...)
	return forms.New(k.def, selected, receiver, f.String("successMessage"), opts...)
}

type formInput struct {
	forms.Field
	Value   string
	Checked bool
}

type formSection struct {
	Title  string
	Inputs []formInput
}

type formData struct {
	Class      string
	Style      template.CSS
	Title      string
	TitleStyle template.CSS
	Intro      template.HTML
	TextStyle  template.CSS
	Action     string
	BlockID    string
	Success    string
	Error      string
	Sections   []formSection
	Terms      *formInput
	TermsURL   template.URL
	PrivacyURL template.URL
	Submit     string
}

func viewForm(k formKind) view {
	return func(p render.Props) any { return k.data(p) }
}

func (k formKind) data(p render.Props) formData {
	f := p.Block.Fields
	form := k.form(p.Block, p.PageID)
	bg := paintOf("background-color", f.Option("backgroundColor").Value)

	d := formData{
		Class:      classes("w-full", pick(f.Bool("isFullWidth"), "", "max-w-4xl mx-auto"), "p-6 space-y-6", bg.Class),
		Style:      css(bg.Decl),
		Title:      f.String(k.titleField),
		TitleStyle: css(decl("color", f.Option("titleFontColor").Value)),
		Intro:      k.policy.HTML(f.String("multiLangEditor")),
		TextStyle:  css(decl("color", f.Option("fontColor").Value)),
		Action:     p.FormURL(),
		BlockID:    p.Block.ID(),
		TermsURL:   safeURL(firstNonEmpty(f.String("termsPageUrl.item.url"), "#")),
		PrivacyURL: safeURL(firstNonEmpty(f.String("privacyPageUrl.item.url"), "#")),
		Submit:     k.submit,
	}
	if st := p.Form; st != nil {
		switch st.Status {
		case forms.StatusSuccess:
			d.Success = firstNonEmpty(st.Message, form.SuccessMessage)
		case forms.StatusError:
			d.Error = firstNonEmpty(st.Message, "An error occurred")
		}
	}

	idx := make(map[string]int)
	for _, fd := range form.Fields {
		in := formInput{Field: fd}
		if d.Error != "" {
			in.Value = p.Form.Value(fd.Name)
			in.Checked = fd.Kind == forms.KindCheckbox && in.Value != ""
		}
		if fd.Name == "terms" {
			d.Terms = &in
			continue
		}
		i, ok := idx[fd.Section]
		if !ok {
			i = len(d.Sections)
			idx[fd.Section] = i
			d.Sections = append(d.Sections, formSection{Title: fd.Section})
		}
		d.Sections[i].Inputs = append(d.Sections[i].Inputs, in)
	}
	return d
}

var (
	contactFormRenderer          = newTemplated("form", viewForm(formKinds["GLContactFormBlock"]))
	requestQuoteRenderer         = newTemplated("form", viewForm(formKinds["GLRequestQuoteFormBlock"]))
	customerRegistrationRenderer = newTemplated("form", viewForm(formKinds["GLCustomerRegistrationBlock"]))
)
