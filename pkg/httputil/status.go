package httputil

import (
	"net/http"
	"strconv"
	"time"

	"github.com/matzehuels/storeblocks/pkg/errors"
)

// DefaultTimeout bounds a single CMS request.
const DefaultTimeout = 10 * time.Second

// NewClient creates an HTTP client with the given timeout, or
// [DefaultTimeout] when timeout is zero.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// CheckStatus maps an HTTP status code to an error. Success codes return
// nil; server errors and rate limiting are wrapped in [RetryableError].
func CheckStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "upstream returned status %d", code)
	case code == http.StatusTooManyRequests || code >= 500:
		return &RetryableError{Err: errors.New(errors.ErrCodeNetwork, "upstream returned status %d", code)}
	default:
		return errors.New(errors.ErrCodeNetwork, "upstream returned status %d", code)
	}
}

// CheckResponse is [CheckStatus] plus the Retry-After header: a retryable
// response carries the wait the upstream asked for.
func CheckResponse(resp *http.Response) error {
	err := CheckStatus(resp.StatusCode)
	if re, ok := err.(*RetryableError); ok {
		re.After = RetryAfter(resp.Header, time.Now())
	}
	return err
}

// RetryAfter parses a Retry-After header given either in seconds or as an
// HTTP date. Missing, malformed or past values yield zero.
func RetryAfter(h http.Header, now time.Time) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil && t.After(now) {
		return t.Sub(now)
	}
	return 0
}

// NetworkError wraps a transport failure as a retryable network error.
func NetworkError(err error) error {
	return &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "request failed")}
}
