package errors

import (
	"strings"
	"testing"
)

func TestValidators(t *testing.T) {
	tests := []struct {
		name     string
		validate func(string) error
		input    string
		code     Code // empty when the input is valid
	}{
		{"typename block", ValidateTypename, "GLTextBlock", ""},
		{"typename underscore", ValidateTypename, "GL_Block_2", ""},
		{"typename empty", ValidateTypename, "", ErrCodeInvalidBlock},
		{"typename leading digit", ValidateTypename, "2Block", ErrCodeInvalidBlock},
		{"typename dash", ValidateTypename, "GL-Text", ErrCodeInvalidBlock},

		{"page slug", ValidatePageID, "about-us", ""},
		{"page cms uid", ValidatePageID, "bltc1d2e3f4a5b6c7d8", ""},
		{"page single dot", ValidatePageID, "v1.2", ""},
		{"page empty", ValidatePageID, "", ErrCodeInvalidInput},
		{"page too long", ValidatePageID, strings.Repeat("a", 257), ErrCodeInvalidInput},
		{"page traversal", ValidatePageID, "..", ErrCodeInvalidInput},
		{"page slash", ValidatePageID, "pages/home", ErrCodeInvalidInput},
		{"page backslash", ValidatePageID, `pages\home`, ErrCodeInvalidInput},
		{"page null byte", ValidatePageID, "home\x00", ErrCodeInvalidInput},
		{"page newline", ValidatePageID, "home\n", ErrCodeInvalidInput},

		{"url https", ValidateURL, "https://cms.example.com/graphql", ""},
		{"url localhost", ValidateURL, "http://localhost:4000/graphql", ""},
		{"url empty", ValidateURL, "", ErrCodeInvalidInput},
		{"url ftp", ValidateURL, "ftp://example.com", ErrCodeInvalidInput},
		{"url javascript", ValidateURL, "javascript:alert(1)", ErrCodeInvalidInput},
		{"url relative", ValidateURL, "example.com/graphql", ErrCodeInvalidInput},
		{"url no host", ValidateURL, "https:///graphql", ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validate(tt.input)
			if tt.code == "" {
				if err != nil {
					t.Errorf("%q: unexpected error %v", tt.input, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("%q: expected %s, got nil", tt.input, tt.code)
			}
			if got := GetCode(err); got != tt.code {
				t.Errorf("%q: code = %s, want %s", tt.input, got, tt.code)
			}
		})
	}
}
