package bankfeed

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnauthorized = errors.New("bankfeed: token rejected")
	// ErrTimeout is returned when the statement request exceeds the client
	// timeout. It is safe to retry.
	ErrTimeout = errors.New("bankfeed: request timed out")
)

// RateLimitError is returned once 429 retries are exhausted.
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s (retry after %s)", e.Message, e.RetryAfter)
}

// StatusError is a non-success response that is neither an auth failure nor
// a rate limit.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bankfeed: status %d, body: %s", e.StatusCode, e.Body)
}

func IsRateLimitError(err error) bool {
	var rle *RateLimitError
	return errors.As(err, &rle)
}

// IsRetryable reports whether the fetch may succeed if attempted again.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTimeout) || IsRateLimitError(err)
}
