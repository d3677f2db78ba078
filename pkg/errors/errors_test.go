package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without cause",
			err:  New(ErrCodeInvalidBlock, "block %q has no typename", "hero"),
			want: `INVALID_BLOCK: block "hero" has no typename`,
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeNetwork, errors.New("connection refused"), "fetch page %s", "home"),
			want: "NETWORK_ERROR: fetch page home: connection refused",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(ErrCodeTimeout, context.DeadlineExceeded, "query CMS")

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("errors.Is should see the wrapped cause")
	}
	if errors.Unwrap(err) != context.DeadlineExceeded {
		t.Errorf("Unwrap() = %v, want the cause", errors.Unwrap(err))
	}
}

func TestCodeThroughWrapping(t *testing.T) {
	inner := New(ErrCodePageNotFound, "page %s not found", "sale")
	outer := fmt.Errorf("render: %w", inner)

	tests := []struct {
		name string
		err  error
		code Code
	}{
		{"direct", inner, ErrCodePageNotFound},
		{"fmt wrapped", outer, ErrCodePageNotFound},
		{"plain error", errors.New("boom"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false, want true", tt.code)
			}
			if Is(tt.err, ErrCodeInternal) {
				t.Error("Is(INTERNAL_ERROR) = true, want false")
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "coded error drops the code",
			err:  New(ErrCodeInvalidInput, "Please fill in required fields: %s", "Email"),
			want: "Please fill in required fields: Email",
		},
		{
			name: "wrapped coded error",
			err:  fmt.Errorf("submit: %w", New(ErrCodeInvalidInput, "Please enter a valid email address")),
			want: "Please enter a valid email address",
		},
		{
			name: "plain error",
			err:  errors.New("disk full"),
			want: "disk full",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeInvalidBlock, http.StatusBadRequest},
		{ErrCodeInvalidPage, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodePageNotFound, http.StatusNotFound},
		{ErrCodeFragmentNotFound, http.StatusNotFound},
		{ErrCodeUnknownTypename, http.StatusNotFound},
		{ErrCodeNetwork, http.StatusBadGateway},
		{ErrCodeTimeout, http.StatusGatewayTimeout},
		{ErrCodeUnsupported, http.StatusNotImplemented},
		{ErrCodeInvalidConfig, http.StatusInternalServerError},
		{ErrCodeRegistrySealed, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := HTTPStatus(New(tt.code, "x")); got != tt.want {
				t.Errorf("HTTPStatus(%s) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}

	if got := HTTPStatus(errors.New("boom")); got != http.StatusInternalServerError {
		t.Errorf("HTTPStatus(plain) = %d, want 500", got)
	}
}
