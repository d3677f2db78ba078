package forms

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/storeblocks/pkg/errors"
)

// Status is the outcome of the last submission.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// State is what a form block renders after a submission.
type State struct {
	Status  Status
	Message string
	// Values echoes the submitted values after a failure so the form can be
	// refilled. It is empty after a success.
	Values       map[string]string
	SubmissionID string
}

// Value returns the echoed value of a field.
func (s *State) Value(name string) string {
	if s == nil {
		return ""
	}
	return s.Values[name]
}

// Submission is a validated form payload.
type Submission struct {
	ID            uuid.UUID
	Form          string
	PageID        string
	BlockID       string
	Values        map[string]string
	ReceiverEmail string
	Timestamp     time.Time
}

// Payload flattens the submission into the map a handler forwards, with
// receiverEmail and an RFC 3339 timestamp next to the field values.
func (s Submission) Payload() map[string]any {
	out := make(map[string]any, len(s.Values)+3)
	for k, v := range s.Values {
		out[k] = v
	}
	out["receiverEmail"] = s.ReceiverEmail
	out["timestamp"] = s.Timestamp.UTC().Format(time.RFC3339)
	out["submissionId"] = s.ID.String()
	return out
}

// SubmitFunc delivers a submission. A nil SubmitFunc accepts everything.
type SubmitFunc func(ctx context.Context, s Submission) error

// Form is one form block instance: a definition narrowed to the fields the
// CMS selected.
type Form struct {
	Def            *Definition
	Fields         []Field
	ReceiverEmail  string
	SuccessMessage string
	PageID         string
	BlockID        string

	now   func() time.Time
	newID func() uuid.UUID
}

// Option configures a Form.
type Option func(*Form)

// WithClock overrides the submission timestamp source.
func WithClock(now func() time.Time) Option {
	return func(f *Form) { f.now = now }
}

// WithIDs overrides the submission id source.
func WithIDs(newID func() uuid.UUID) Option {
	return func(f *Form) { f.newID = newID }
}

// WithBlock records where the form lives.
func WithBlock(pageID, blockID string) Option {
	return func(f *Form) { f.PageID, f.BlockID = pageID, blockID }
}

// New builds a form from def and the CMS field selection.
func New(def *Definition, selected []string, receiverEmail, successMessage string, opts ...Option) *Form {
	f := &Form{
		Def:            def,
		Fields:         def.Active(selected),
		ReceiverEmail:  receiverEmail,
		SuccessMessage: successMessage,
		now:            time.Now,
		newID:          uuid.New,
	}
	if f.SuccessMessage == "" {
		f.SuccessMessage = def.SuccessMessage
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Has reports whether the form shows the named field.
func (f *Form) Has(name string) bool {
	for _, fd := range f.Fields {
		if fd.Name == name {
			return true
		}
	}
	return false
}

// Validate checks values against the active fields. Every missing required
// field is reported in one message.
func (f *Form) Validate(values map[string]string) error {
	var missing []string
	for _, fd := range f.Fields {
		if fd.Required && !filled(fd, values[fd.Name]) {
			missing = append(missing, fd.Label)
		}
	}
	if len(missing) > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "Please fill in required fields: %s", strings.Join(missing, ", "))
	}

	if email := strings.TrimSpace(values["email"]); email != "" && f.Has("email") && !emailRegex.MatchString(email) {
		return errors.New(errors.ErrCodeInvalidInput, "Please enter a valid email address")
	}
	if phone := strings.TrimSpace(values["phone"]); phone != "" && f.Has("phone") && f.Def.Phone != nil && !f.Def.Phone.MatchString(phone) {
		return errors.New(errors.ErrCodeInvalidInput, "Please enter a valid phone number")
	}
	if terms, ok := f.Def.Field("terms"); ok && f.Has("terms") && !filled(terms, values["terms"]) {
		return errors.New(errors.ErrCodeInvalidInput, "Please accept the terms and conditions")
	}
	return nil
}

func filled(fd Field, v string) bool {
	v = strings.TrimSpace(v)
	if fd.Kind == KindCheckbox {
		switch strings.ToLower(v) {
		case "on", "true", "1", "yes":
			return true
		}
		return false
	}
	return v != ""
}

// Submit validates values and, when they pass, hands the submission to
// handler. The returned state is never an error value: failures of either
// step become a StatusError state carrying a user-facing message.
func (f *Form) Submit(ctx context.Context, values map[string]string, handler SubmitFunc) State {
	clean := f.collect(values)
	if err := f.Validate(clean); err != nil {
		return State{Status: StatusError, Message: errors.UserMessage(err), Values: clean}
	}

	sub := Submission{
		ID:            f.newID(),
		Form:          f.Def.Name,
		PageID:        f.PageID,
		BlockID:       f.BlockID,
		Values:        clean,
		ReceiverEmail: f.ReceiverEmail,
		Timestamp:     f.now(),
	}
	if handler != nil {
		if err := handler(ctx, sub); err != nil {
			msg := errors.UserMessage(err)
			if msg == "" {
				msg = "An error occurred"
			}
			return State{Status: StatusError, Message: msg, Values: clean}
		}
	}
	return State{Status: StatusSuccess, Message: f.SuccessMessage, SubmissionID: sub.ID.String()}
}

// collect keeps the values of active fields only, trimmed.
func (f *Form) collect(values map[string]string) map[string]string {
	out := make(map[string]string, len(f.Fields))
	for _, fd := range f.Fields {
		if v, ok := values[fd.Name]; ok {
			out[fd.Name] = strings.TrimSpace(v)
		}
	}
	return out
}
