package pipeline

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/dgallion1/docoutline/internal/store"
)

const MaxRetries = 3

// IsRetryable reports whether a store error may succeed on a second try.
// The store's sentinel errors describe the request itself and never do.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, store.ErrVersionConflict),
		errors.Is(err, store.ErrInvalidKey),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * backoffUnit
	if base > maxBackoff {
		base = maxBackoff
	}
	jitter := time.Duration(rand.Int64N(int64(base)/2 + 1))
	return base + jitter
}

var (
	backoffUnit = time.Second
	maxBackoff  = 30 * time.Second
)
