package apiclient

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryInitialInterval is the first backoff delay used by Retry.
var RetryInitialInterval = 250 * time.Millisecond

// Retry runs fn once plus up to retries more times while it fails with a
// temporary error (transport or 5xx). Business, auth and not-found failures
// are returned immediately.
func Retry(ctx context.Context, retries int, fn func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = RetryInitialInterval
	b.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)

	return backoff.Retry(func() error {
		err := fn()
		if err == nil {
			return nil
		}
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Temporary() {
			return err
		}
		return backoff.Permanent(err)
	}, policy)
}
