package worker

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// DownloadAttempts is how many times a CV download is tried.
const DownloadAttempts = 3

// retryDelay is the base of the linear backoff between attempts.
//
//nolint:gochecknoglobals // Shortened in tests
var retryDelay = 500 * time.Millisecond

// retry calls fn up to attempts times, waiting retryDelay*(i+1) after each failure.
func retry[T any](ctx context.Context, attempts int, fn func() (T, error)) (result T, err error) {
	var zero T

	for i := 0; i < attempts; i++ {
		result, err = fn()
		if err == nil {
			return result, err
		}

		if i == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			err = errors.Wrap(ctx.Err(), "retry cancelled")
			return zero, err
		case <-time.After(retryDelay * time.Duration(i+1)):
		}
	}

	err = errors.Wrapf(err, "after %d attempts", attempts)
	return zero, err
}
