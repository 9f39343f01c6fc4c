package cache

import (
	"context"
	"errors"
	"time"
)

// Sentinels for registry fetches routed through the cache layer.
var (
	// ErrNotFound means the requested package does not exist upstream.
	ErrNotFound = errors.New("not found")

	// ErrNetwork covers timeouts, connection failures, and 5xx responses.
	ErrNetwork = errors.New("network error")
)

// RetryableError marks an error as worth retrying.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err so RetryWithBackoff will attempt it again.
// Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err is marked retryable anywhere in its chain.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

const maxAttempts = 3

// retryBaseDelay is the first backoff interval; tests shorten it.
var retryBaseDelay = time.Second

// RetryWithBackoff runs fn up to three times, doubling the wait between
// attempts. Errors not marked Retryable fail immediately, and a done
// context cuts the wait short.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBaseDelay << (attempt - 1)):
			}
		}
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
	}
	return err
}
