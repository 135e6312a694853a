package client

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"
)

// retrySleep is swapped out by tests to observe backoff delays.
var retrySleep = sleepContext

// WithRetry runs fn up to cfg.MaxRetries+1 times, sleeping a bounded
// exponential backoff with jitter between attempts. Only retryable failures
// (connection and timeout) are retried; auth and protocol failures return
// immediately. After exhausting attempts the last typed error is returned
// unchanged.
func WithRetry[T any](ctx context.Context, cfg Config, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if !IsRetryable(err) {
			return zero, err
		}
		lastErr = err
		if attempt == cfg.MaxRetries {
			break
		}
		delay := backoffDelay(cfg, attempt)
		slog.Debug("retrying after failure",
			slog.Int("attempt", attempt+1), slog.Duration("delay", delay), slog.Any("error", err))
		if err := retrySleep(ctx, delay); err != nil {
			return zero, lastErr
		}
	}
	return zero, lastErr
}

// backoffDelay computes min(base*2^attempt + uniform(0,1s), max).
func backoffDelay(cfg Config, attempt int) time.Duration {
	delay := cfg.BaseDelay << uint(attempt)
	if delay <= 0 || delay > cfg.MaxDelay {
		return cfg.MaxDelay
	}
	delay += rand.N(time.Second)
	if delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}
	return delay
}

func sleepContext(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
