// Package retry wraps the repository's three temp-file-plus-rename
// sequences (objects, refs, index) with a short, bounded retry so a
// transient EINTR/EAGAIN-class filesystem error doesn't surface as a
// durability failure on the first blip. It never retries on errors that
// mean the operation cannot ever succeed (permission denied, not a
// directory, disk full) — only on the narrow set of errors a rename or
// write can return transiently.
package retry

import (
	"context"
	"errors"
	"syscall"
	"time"

	"github.com/sethvargo/go-retry"
)

// maxAttempts bounds the number of tries for an atomic filesystem write.
// Three attempts with a short backoff is enough to ride out a transient
// EINTR without turning a genuine failure into a multi-second stall.
const maxAttempts = 3

// AtomicWrite runs fn, retrying it a bounded number of times if fn returns
// an error wrapping one of the transient syscall errors this package
// considers retryable. fn must be idempotent — it will be called again
// with the same arguments on retry.
func AtomicWrite(fn func() error) error {
	b := retry.NewExponential(2 * time.Millisecond)
	b = retry.WithMaxRetries(maxAttempts-1, b)

	return retry.Do(context.Background(), b, func(_ context.Context) error {
		err := fn()
		if err == nil {
			return nil
		}
		if isTransient(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// isTransient reports whether err is a filesystem error worth retrying:
// the operation itself is fine, the kernel just asked the caller to try
// again.
func isTransient(err error) bool {
	return errors.Is(err, syscall.EINTR) || errors.Is(err, syscall.EAGAIN)
}
