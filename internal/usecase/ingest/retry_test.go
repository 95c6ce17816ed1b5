package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/minutesmind/internal/domain"
)

func TestRetryWithBackoff_EventualSuccess(t *testing.T) {
	attempts := 0
	err := retryWithBackoff(context.Background(), 5, time.Millisecond, 0, func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary")
		}
		return nil
	})
	if err != nil || attempts != 3 {
		t.Fatalf("err=%v attempts=%d", err, attempts)
	}
}

func TestRetryWithBackoff_AllAttemptsFail(t *testing.T) {
	want := errors.New("persistent")
	attempts := 0
	err := retryWithBackoff(context.Background(), 3, time.Millisecond, 0, func(context.Context) error {
		attempts++
		return want
	})
	if !errors.Is(err, want) || attempts != 3 {
		t.Fatalf("err=%v attempts=%d", err, attempts)
	}
}

func TestRetryWithBackoff_NotRetryable(t *testing.T) {
	attempts := 0
	err := retryWithBackoff(context.Background(), 3, time.Millisecond, 0, func(context.Context) error {
		attempts++
		return domain.NewChunkCountMismatch("a.txt", 2, 1)
	})
	if !errors.Is(err, domain.ErrChunkCountMismatch) || attempts != 1 {
		t.Fatalf("err=%v attempts=%d", err, attempts)
	}
}

func TestRetryWithBackoff_PerAttemptTimeout(t *testing.T) {
	attempts := 0
	err := retryWithBackoff(context.Background(), 2, time.Millisecond, 10*time.Millisecond,
		func(ctx context.Context) error {
			attempts++
			<-ctx.Done()
			return ctx.Err()
		})
	if !errors.Is(err, context.DeadlineExceeded) || attempts != 2 {
		t.Fatalf("err=%v attempts=%d", err, attempts)
	}
}

func TestRetryWithBackoff_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := retryWithBackoff(ctx, 5, 50*time.Millisecond, 0, func(context.Context) error {
		attempts++
		cancel()
		return errors.New("temporary")
	})
	if !errors.Is(err, context.Canceled) || attempts != 1 {
		t.Fatalf("err=%v attempts=%d", err, attempts)
	}
}
