package errors

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// typenameRegex matches GraphQL type names as the CMS emits them.
var typenameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// maxPageID bounds page ids from URLs and CLI arguments.
const maxPageID = 256

// ValidateTypename checks that s is a well-formed GraphQL __typename.
func ValidateTypename(s string) error {
	if s == "" {
		return New(ErrCodeInvalidBlock, "typename cannot be empty")
	}
	if !typenameRegex.MatchString(s) {
		return New(ErrCodeInvalidBlock, "invalid typename: %q", s)
	}
	return nil
}

// ValidatePageID rejects page ids that are empty, oversized, or could
// escape the page directory of a file source.
func ValidatePageID(id string) error {
	switch {
	case id == "":
		return New(ErrCodeInvalidInput, "page id cannot be empty")
	case len(id) > maxPageID:
		return New(ErrCodeInvalidInput, "page id longer than %d bytes", maxPageID)
	case strings.Contains(id, ".."):
		return New(ErrCodeInvalidInput, "page id cannot contain %q", "..")
	}
	if i := strings.IndexFunc(id, func(r rune) bool {
		return r == '/' || r == '\\' || unicode.IsControl(r)
	}); i >= 0 {
		return New(ErrCodeInvalidInput, "page id has a forbidden character at offset %d", i)
	}
	return nil
}

// ValidateURL accepts absolute http and https URLs with a host.
func ValidateURL(raw string) error {
	if raw == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL %q has no host", raw)
	}
	return nil
}
