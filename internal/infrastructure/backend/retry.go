package backend

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/DanielPopoola/ficmart-confirmer/internal/application"
	"github.com/DanielPopoola/ficmart-confirmer/internal/config"
)

// RetryStatusSource retries status queries on transient failures. Only reads
// go through it; initiate and cancel are never retried.
type RetryStatusSource struct {
	inner      application.StatusSource
	baseDelay  time.Duration
	maxRetries int
}

func NewRetryStatusSource(inner application.StatusSource, cfg config.RetryConfig) *RetryStatusSource {
	return &RetryStatusSource{
		inner:      inner,
		baseDelay:  cfg.BaseDelay,
		maxRetries: max(cfg.MaxRetries, 1),
	}
}

func (r *RetryStatusSource) QueryStatus(ctx context.Context, requestID string) (*application.StatusReport, error) {
	return retry(
		r,
		ctx,
		func(ctx context.Context) (*application.StatusReport, error) {
			return r.inner.QueryStatus(ctx, requestID)
		},
	)
}

func retry[T any](r *RetryStatusSource, ctx context.Context, operation func(ctx context.Context) (*T, error)) (*T, error) {
	var lastErr error

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := operation(ctx)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		if !isRetryable(err) {
			return nil, err
		}

		if attempt < r.maxRetries-1 {
			timer := time.NewTimer(r.backoff(attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return nil, fmt.Errorf("maximum retries exceeded: %w", lastErr)
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var backendErr *application.BackendError
	if errors.As(err, &backendErr) {
		return backendErr.StatusCode >= 500 ||
			backendErr.StatusCode == http.StatusRequestTimeout ||
			backendErr.StatusCode == http.StatusTooManyRequests
	}

	return true
}

func (r *RetryStatusSource) backoff(attempt int) time.Duration {
	if r.baseDelay <= 0 {
		return 0
	}
	delay := r.baseDelay * time.Duration(1<<attempt)
	if half := int64(delay) / 2; half > 0 {
		delay += time.Duration(rand.Int63n(half))
	}
	return delay
}
