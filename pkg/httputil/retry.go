package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a failure as transient. After, when set, is the
// wait the upstream asked for (a Retry-After header) and replaces the
// computed backoff for the next attempt.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Backoff is a retry policy. The wait starts at Delay and doubles after
// every failed attempt, capped at Max when Max is positive.
type Backoff struct {
	Attempts int
	Delay    time.Duration
	Max      time.Duration
}

// DefaultBackoff is used by the GraphQL page source.
var DefaultBackoff = Backoff{Attempts: 3, Delay: 500 * time.Millisecond, Max: 5 * time.Second}

// Do runs fn until it succeeds, fails with an error that is not a
// [RetryableError], or the attempts run out. The last error is returned;
// ctx.Err() is returned when the context ends during a wait.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	wait := b.Delay
	for i := 1; ; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		var re *RetryableError
		if !errors.As(err, &re) || i == attempts {
			return err
		}

		d := wait
		if re.After > 0 {
			d = re.After
		}
		if b.Max > 0 && d > b.Max {
			d = b.Max
		}
		t := time.NewTimer(d)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		wait *= 2
	}
}

// Retryable reports whether err, or anything it wraps, is a [RetryableError].
func Retryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
