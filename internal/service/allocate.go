package service

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	"linkly-be/internal/repository"
)

// allocate runs the optimistic insert loop shared by link and token
// creation: attempt an insert with a freshly generated identifier, and retry
// only when the store reports a uniqueness violation. The unique constraint
// is the correctness arbiter; the loop only provides liveness. Any other
// error propagates immediately, and exhausting maxTries yields
// ErrAllocationExhausted.
func allocate[T any](ctx context.Context, maxTries int, attempt func(ctx context.Context) (T, error)) (T, error) {
	var result T
	backoff := retry.WithMaxRetries(uint64(maxTries-1), retry.NewConstant(time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		value, err := attempt(ctx)
		if err != nil {
			if repository.IsUniqueViolation(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		result = value
		return nil
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return result, ErrAllocationExhausted
		}
		return result, err
	}
	return result, nil
}

// mapNotFound converts the repository's not-found into a service error.
func mapNotFound(err, serviceErr error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return serviceErr
	}
	return err
}
