package forms

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
var fixedID = uuid.MustParse("6f1c2b1e-8e4a-4d8e-9a57-0c2b8d6f1e11")

func newForm(def *Definition, selected ...string) *Form {
	return New(def, selected, "sales@example.com", "",
		WithClock(func() time.Time { return fixedTime }),
		WithIDs(func() uuid.UUID { return fixedID }),
		WithBlock("home", "blt1"),
	)
}

func TestActiveFields(t *testing.T) {
	tests := []struct {
		name     string
		def      *Definition
		selected []string
		want     []string
	}{
		{"empty selection means all", RequestQuote, nil, []string{"firstName", "lastName", "email", "phone", "message", "organization"}},
		{"selection order kept", RequestQuote, []string{"email", "firstName"}, []string{"email", "firstName"}},
		{"unknown ignored", Contact, []string{"email", "fax"}, []string{"email"}},
		{"duplicates collapsed", Contact, []string{"email", "email"}, []string{"email"}},
		{"contact keeps catalogue order", Contact, []string{"message", "organization", "email", "firstName"}, []string{"firstName", "email", "organization", "message"}},
		{"registration follows selection", CustomerRegistration, []string{"email", "firstName"}, []string{"email", "firstName"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, f := range tt.def.Active(tt.selected) {
				got = append(got, f.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubmitMissingRequiredBlocksHandler(t *testing.T) {
	f := newForm(RequestQuote)
	called := false
	handler := func(context.Context, Submission) error {
		called = true
		return nil
	}

	state := f.Submit(context.Background(), map[string]string{
		"firstName": "Ada",
		"email":     "ada@example.com",
		"lastName":  "   ",
	}, handler)

	assert.False(t, called, "handler must not run when validation fails")
	assert.Equal(t, StatusError, state.Status)
	assert.Equal(t, "Please fill in required fields: Last Name, Phone", state.Message)
	assert.Equal(t, "Ada", state.Values["firstName"])
}

func TestSubmitInvalidEmailAndPhone(t *testing.T) {
	tests := []struct {
		name  string
		def   *Definition
		phone string
		email string
		want  string
	}{
		{"bad email", Contact, "+1 555 123 4567", "not-an-email", "Please enter a valid email address"},
		{"contact phone too short", Contact, "12", "a@b.co", "Please enter a valid phone number"},
		{"quote phone letters", RequestQuote, "call me", "a@b.co", "Please enter a valid phone number"},
		{"registration phone spaces", CustomerRegistration, "555 1234", "a@b.co", "Please enter a valid phone number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newForm(tt.def)
			values := map[string]string{
				"firstName": "Ada", "lastName": "Lovelace", "organization": "Engines Ltd",
				"message": "hi", "email": tt.email, "phone": tt.phone, "terms": "on",
			}
			state := f.Submit(context.Background(), values, func(context.Context, Submission) error {
				t.Fatal("handler called")
				return nil
			})
			assert.Equal(t, StatusError, state.Status)
			assert.Equal(t, tt.want, state.Message)
		})
	}
}

func TestSubmitTermsRequired(t *testing.T) {
	f := newForm(CustomerRegistration)
	state := f.Submit(context.Background(), map[string]string{
		"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com", "phone": "+44-20-7946",
	}, nil)
	assert.Equal(t, StatusError, state.Status)
	assert.Equal(t, "Please fill in required fields: I accept the terms and conditions", state.Message)
}

func TestSubmitSuccess(t *testing.T) {
	f := newForm(Contact, "email", "message")
	var got Submission
	state := f.Submit(context.Background(), map[string]string{
		"email":     " ada@example.com ",
		"message":   "Need 40 units",
		"firstName": "ignored, not selected",
	}, func(_ context.Context, s Submission) error {
		got = s
		return nil
	})

	require.Equal(t, StatusSuccess, state.Status)
	assert.Equal(t, Contact.SuccessMessage, state.Message)
	assert.Equal(t, fixedID.String(), state.SubmissionID)
	assert.Empty(t, state.Values)

	assert.Equal(t, map[string]string{"email": "ada@example.com", "message": "Need 40 units"}, got.Values)
	assert.Equal(t, "home", got.PageID)
	assert.Equal(t, "blt1", got.BlockID)

	payload := got.Payload()
	assert.Equal(t, "sales@example.com", payload["receiverEmail"])
	assert.Equal(t, "2026-03-14T09:26:53Z", payload["timestamp"])
	assert.Equal(t, "ada@example.com", payload["email"])
}

func TestSubmitHandlerErrorIsCaught(t *testing.T) {
	f := newForm(Contact, "email")
	state := f.Submit(context.Background(), map[string]string{"email": "ada@example.com"},
		func(context.Context, Submission) error { return errors.New("mail relay unavailable") })

	assert.Equal(t, StatusError, state.Status)
	assert.Equal(t, "mail relay unavailable", state.Message)
	assert.Equal(t, "ada@example.com", state.Values["email"])
}

func TestSubmitNilHandlerSucceeds(t *testing.T) {
	f := New(CustomerRegistration, []string{"email", "terms"}, "", "Welcome aboard!")
	state := f.Submit(context.Background(), map[string]string{"email": "ada@example.com", "terms": "true"}, nil)
	assert.Equal(t, StatusSuccess, state.Status)
	assert.Equal(t, "Welcome aboard!", state.Message)
}

func TestStateValueNil(t *testing.T) {
	var s *State
	assert.Equal(t, "", s.Value("email"))
}
