// Package forms validates storefront form submissions and hands them to an
// injected handler.
//
// Three forms exist: contact, request-a-quote and customer registration. Each
// has a fixed catalogue of fields ([Definition]); the CMS selects which of
// them appear. Submissions are validated locally first (required fields,
// email and phone formats, accepted terms) and the handler only runs when
// everything passes. Neither validation failures nor handler errors escape:
// both become a [State] that the form block renders.
package forms

import "regexp"

// Kind is the input type of a field.
type Kind string

const (
	KindText     Kind = "text"
	KindEmail    Kind = "email"
	KindTel      Kind = "tel"
	KindTextarea Kind = "textarea"
	KindCheckbox Kind = "checkbox"
)

// Field describes one form input.
type Field struct {
	Name        string
	Label       string
	Kind        Kind
	Required    bool
	Placeholder string
	// Section groups fields under a heading in the rendered form.
	Section string
}

// Definition is the full field catalogue of one form kind.
type Definition struct {
	Name           string
	Fields         []Field
	Phone          *regexp.Regexp
	SuccessMessage string
	// FixedOrder renders selected fields in catalogue order instead of the
	// order the CMS lists them.
	FixedOrder bool
}

// Field returns the field called name.
func (d *Definition) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Active returns the fields the CMS selected, in selection order or, for
// FixedOrder definitions, in catalogue order. Unknown names are ignored; an
// empty selection means every field.
func (d *Definition) Active(selected []string) []Field {
	if len(selected) == 0 {
		return append([]Field(nil), d.Fields...)
	}
	if d.FixedOrder {
		want := make(map[string]bool, len(selected))
		for _, name := range selected {
			want[name] = true
		}
		var out []Field
		for _, f := range d.Fields {
			if want[f.Name] {
				out = append(out, f)
			}
		}
		return out
	}
	seen := make(map[string]bool, len(selected))
	var out []Field
	for _, name := range selected {
		if seen[name] {
			continue
		}
		if f, ok := d.Field(name); ok {
			seen[name] = true
			out = append(out, f)
		}
	}
	return out
}

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Contact is the contact form. Every selected field is required.
var Contact = &Definition{
	Name: "contact",
	Fields: []Field{
		{Name: "firstName", Label: "First Name", Kind: KindText, Required: true, Placeholder: "John", Section: "Contact Details"},
		{Name: "lastName", Label: "Last Name", Kind: KindText, Required: true, Placeholder: "Doe", Section: "Contact Details"},
		{Name: "email", Label: "Email", Kind: KindEmail, Required: true, Placeholder: "john@example.com", Section: "Contact Details"},
		{Name: "phone", Label: "Phone", Kind: KindTel, Required: true, Placeholder: "+1 (555) 123-4567", Section: "Contact Details"},
		{Name: "organization", Label: "Organization", Kind: KindText, Required: true, Placeholder: "Your Company Name", Section: "Contact Details"},
		{Name: "message", Label: "Message", Kind: KindTextarea, Required: true, Placeholder: "How can we help you?", Section: "Message"},
	},
	Phone:          regexp.MustCompile(`^[+\d]?(?:[\d-. ]{7,15})$`),
	SuccessMessage: "Thank you for contacting us! We'll get back to you soon.",
	FixedOrder:     true,
}

// RequestQuote is the request-a-quote form.
var RequestQuote = &Definition{
	Name: "request-quote",
	Fields: []Field{
		{Name: "firstName", Label: "First Name", Kind: KindText, Required: true, Placeholder: "Enter your first name", Section: "Your Details"},
		{Name: "lastName", Label: "Last Name", Kind: KindText, Required: true, Placeholder: "Enter your last name", Section: "Your Details"},
		{Name: "email", Label: "Email", Kind: KindEmail, Required: true, Placeholder: "you@example.com", Section: "Your Details"},
		{Name: "phone", Label: "Phone", Kind: KindTel, Required: true, Placeholder: "(555) 555-5555", Section: "Your Details"},
		{Name: "message", Label: "Message / Project Details", Kind: KindTextarea, Placeholder: "Provide details about your project or query (scope, requirements, timeline)", Section: "Project Details"},
		{Name: "organization", Label: "Organization", Kind: KindText, Placeholder: "Your Company Name", Section: "Your Details"},
	},
	Phone:          regexp.MustCompile(`^[\d\s+()-]*$`),
	SuccessMessage: "Your request has been successfully submitted!",
}

// CustomerRegistration is the customer registration form.
var CustomerRegistration = &Definition{
	Name: "customer-registration",
	Fields: []Field{
		{Name: "firstName", Label: "First Name", Kind: KindText, Required: true, Placeholder: "Enter your first name"},
		{Name: "lastName", Label: "Last Name", Kind: KindText, Required: true, Placeholder: "Enter your last name"},
		{Name: "email", Label: "Email", Kind: KindEmail, Required: true, Placeholder: "Enter your email"},
		{Name: "phone", Label: "Phone", Kind: KindTel, Required: true, Placeholder: "Enter your phone number"},
		{Name: "companyName", Label: "Company Name", Kind: KindText, Placeholder: "Enter your company name"},
		{Name: "companyRegistrationNumber", Label: "Company Registration Number", Kind: KindText, Placeholder: "Enter your company registration number"},
		{Name: "terms", Label: "I accept the terms and conditions", Kind: KindCheckbox, Required: true},
	},
	Phone:          regexp.MustCompile(`^[0-9+-]+$`),
	SuccessMessage: "Your registration has been submitted successfully!",
}

// Definitions lists every form kind by name.
var Definitions = map[string]*Definition{
	Contact.Name:              Contact,
	RequestQuote.Name:         RequestQuote,
	CustomerRegistration.Name: CustomerRegistration,
}
