package llm

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"
)

// retryConfig controls exponential backoff for API calls.
type retryConfig struct {
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	multiplier     float64
	jitterFraction float64
}

func defaultRetryConfig() retryConfig {
	return retryConfig{
		maxAttempts:    3,
		initialBackoff: 500 * time.Millisecond,
		maxBackoff:     30 * time.Second,
		multiplier:     2.0,
		jitterFraction: 0.25,
	}
}

// doWithRetry runs fn with exponential backoff on transient errors.
// Context cancellation stops retries immediately.
func doWithRetry[T any](ctx context.Context, cfg retryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt < cfg.maxAttempts; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, lastErr
		}
		if !isTransient(err) {
			return zero, lastErr
		}
		if attempt >= cfg.maxAttempts-1 {
			break
		}

		delay := backoffDelay(attempt, cfg)
		zap.L().Debug("retrying api call",
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, lastErr
		case <-timer.C:
		}
	}

	return zero, lastErr
}

func backoffDelay(attempt int, cfg retryConfig) time.Duration {
	delay := float64(cfg.initialBackoff) * math.Pow(cfg.multiplier, float64(attempt))
	if delay > float64(cfg.maxBackoff) {
		delay = float64(cfg.maxBackoff)
	}
	if cfg.jitterFraction > 0 {
		jitter := delay * cfg.jitterFraction * (2*rand.Float64() - 1)
		delay += jitter
	}
	return time.Duration(delay)
}

// isTransient reports whether an API error is worth retrying: rate
// limits, overloads, and transport hiccups.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"429", "rate limit", "overloaded", "529",
		"500", "502", "503", "504",
		"timeout", "connection reset", "connection refused", "eof",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
