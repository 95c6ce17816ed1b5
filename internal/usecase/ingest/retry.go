package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/kailas-cloud/minutesmind/internal/domain"
)

// retryWithBackoff runs op up to attempts times, doubling the delay after each
// failure. Each attempt gets its own timeout. Errors that cannot heal on retry
// are returned immediately.
func retryWithBackoff(
	ctx context.Context, attempts int, baseDelay, timeout time.Duration,
	op func(ctx context.Context) error,
) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	delay := baseDelay
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = callWithTimeout(ctx, timeout, op)
		if lastErr == nil || !retryable(lastErr) || attempt == attempts {
			return lastErr
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
	return lastErr
}

func callWithTimeout(ctx context.Context, timeout time.Duration, op func(ctx context.Context) error) error {
	if timeout <= 0 {
		return op(ctx)
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return op(callCtx)
}

func retryable(err error) bool {
	switch {
	case errors.Is(err, context.Canceled),
		errors.Is(err, domain.ErrChunkCountMismatch),
		errors.Is(err, domain.ErrVectorDimMismatch),
		errors.Is(err, domain.ErrEmbeddingQuotaExceeded),
		errors.Is(err, domain.ErrInvalidRequest):
		return false
	}
	return true
}
