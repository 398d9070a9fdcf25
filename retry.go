package gameloc

import (
	"context"
	"errors"
	"time"
)

// BackoffPolicy controls how the delay grows between retries.
type BackoffPolicy string

const (
	// BackoffExponential doubles the delay after each attempt.
	BackoffExponential BackoffPolicy = "exponential"
	// BackoffLinear grows the delay by BaseDelay after each attempt.
	BackoffLinear BackoffPolicy = "linear"
	// BackoffConstant waits BaseDelay between every attempt.
	BackoffConstant BackoffPolicy = "constant"
)

// RetryConfig holds configuration for retry behavior.
type RetryConfig struct {
	MaxRetries int           // Retries after the first attempt
	BaseDelay  time.Duration // Initial delay between retries
	MaxDelay   time.Duration // Maximum delay between retries (0 = uncapped)
	Backoff    BackoffPolicy // Delay growth policy (default: exponential)
}

// DefaultRetryConfig returns sensible defaults for retry behavior.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
		Backoff:    BackoffExponential,
	}
}

// Delay returns how long to wait after the given zero-based attempt failed.
func (c RetryConfig) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 30 {
		attempt = 30
	}

	factor := time.Duration(1) << attempt
	switch c.Backoff {
	case BackoffConstant:
		factor = 1
	case BackoffLinear:
		factor = time.Duration(attempt + 1)
	}

	// Saturate instead of wrapping negative.
	delay := c.BaseDelay * factor
	if c.BaseDelay > 0 && c.BaseDelay > maxDuration/factor {
		delay = maxDuration
	}

	if c.MaxDelay > 0 && delay > c.MaxDelay {
		delay = c.MaxDelay
	}
	return delay
}

const maxDuration = time.Duration(1<<63 - 1)

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// WithRetry executes fn, retrying retryable errors with backoff.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var lastErr error
	var zero T

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !IsRetryable(err) {
			return zero, err
		}

		// Don't sleep after the last attempt
		if attempt < cfg.MaxRetries {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(cfg.Delay(attempt)):
			}
		}
	}

	return zero, lastErr
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Context errors are not retryable
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Retryable
	}

	return false
}
