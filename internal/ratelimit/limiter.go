// Package ratelimit provides a blocking limiter for outbound calls to
// rate-constrained services. It combines a sliding per-minute quota
// with a minimum interval between consecutive calls. The limiter holds
// no domain knowledge; anything that must respect an upstream quota can
// sit behind it.
package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// window is the span the per-minute quota is measured over.
const window = time.Minute

// Limiter serializes callers against a sliding-window quota and a
// minimum inter-call interval. Acquire blocks until the call is
// permitted; the limiter itself never fails, only delays. A single
// mutex spans both checks so two concurrent callers cannot each observe
// "just under quota".
type Limiter struct {
	mu                sync.Mutex
	requestsPerMinute int
	minInterval       time.Duration
	requests          []time.Time
	lastRequest       time.Time
	logger            *slog.Logger

	// Injectable for tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a limiter permitting requestsPerMinute calls in any
// trailing minute and at least minInterval between consecutive calls.
// If logger is nil, a default logger is used.
func New(requestsPerMinute int, minInterval time.Duration, logger *slog.Logger) *Limiter {
	if requestsPerMinute <= 0 {
		// ALLOW-PANIC: Constructor enforcing required configuration
		panic("requestsPerMinute must be positive")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Limiter{
		requestsPerMinute: requestsPerMinute,
		minInterval:       minInterval,
		logger:            logger.With(slog.String("component", "rate_limiter")),
		now:               time.Now,
		sleep:             sleepContext,
	}
}

// Acquire blocks until the labeled call is permitted under both
// constraints, then records it. The only error it can return is the
// context's, when the caller gives up while waiting.
func (l *Limiter) Acquire(ctx context.Context, label string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	// Sliding-window quota. The wait is recomputed from the oldest
	// timestamp still in the window rather than sleeping a fixed
	// duration, so repeated contention does not drift.
	for len(l.requests) >= l.requestsPerMinute {
		wait := l.requests[0].Add(window).Sub(now)
		if wait <= 0 {
			l.prune(now)
			continue
		}

		l.logger.Info("rate limit reached, waiting",
			slog.String("label", label),
			slog.Duration("wait", wait))

		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
		now = l.now()
		l.prune(now)
	}

	// Minimum interval between consecutive permitted calls.
	if !l.lastRequest.IsZero() {
		if since := now.Sub(l.lastRequest); since < l.minInterval {
			wait := l.minInterval - since
			l.logger.Debug("enforcing minimum interval",
				slog.String("label", label),
				slog.Duration("wait", wait))

			if err := l.sleep(ctx, wait); err != nil {
				return err
			}
			now = l.now()
		}
	}

	l.requests = append(l.requests, now)
	l.lastRequest = now

	l.logger.Debug("request permitted",
		slog.String("label", label),
		slog.Int("window_count", len(l.requests)),
		slog.Int("requests_per_minute", l.requestsPerMinute))

	return nil
}

// prune drops timestamps older than the window. Callers hold the mutex.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-window)
	i := 0
	for i < len(l.requests) && !l.requests[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.requests = append(l.requests[:0], l.requests[i:]...)
	}
}

// sleepContext waits for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
