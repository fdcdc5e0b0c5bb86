package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock drives the limiter deterministically: sleeps advance the
// clock instead of blocking.
type fakeClock struct {
	current time.Time
	slept   []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time { return c.current }

func (c *fakeClock) sleep(_ context.Context, d time.Duration) error {
	c.slept = append(c.slept, d)
	c.current = c.current.Add(d)
	return nil
}

func (c *fakeClock) advance(d time.Duration) { c.current = c.current.Add(d) }

func newTestLimiter(t *testing.T, rpm int, minInterval time.Duration) (*Limiter, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	limiter := New(rpm, minInterval, nil)
	limiter.now = clock.now
	limiter.sleep = clock.sleep
	return limiter, clock
}

func TestAcquireUnderQuotaDoesNotWait(t *testing.T) {
	t.Parallel()
	limiter, clock := newTestLimiter(t, 5, 0)

	for i := 0; i < 5; i++ {
		require.NoError(t, limiter.Acquire(context.Background(), "test"))
		clock.advance(time.Second)
	}

	assert.Empty(t, clock.slept)
}

func TestAcquireBlocksUntilWindowFrees(t *testing.T) {
	t.Parallel()
	const rpm = 3
	limiter, clock := newTestLimiter(t, rpm, 0)

	start := clock.now()
	for i := 0; i < rpm; i++ {
		require.NoError(t, limiter.Acquire(context.Background(), "test"))
		clock.advance(100 * time.Millisecond)
	}

	// The (rpm+1)-th call must start at least a full window after the
	// first call's timestamp.
	require.NoError(t, limiter.Acquire(context.Background(), "test"))
	assert.False(t, clock.now().Before(start.Add(time.Minute)),
		"call %d started %v after the first; want >= 1m", rpm+1, clock.now().Sub(start))
	assert.Len(t, clock.slept, 1)
}

func TestAcquireRecomputesWaitFromOldestTimestamp(t *testing.T) {
	t.Parallel()
	limiter, clock := newTestLimiter(t, 2, 0)

	require.NoError(t, limiter.Acquire(context.Background(), "test"))
	clock.advance(40 * time.Second)
	require.NoError(t, limiter.Acquire(context.Background(), "test"))

	// Only 20s remain until the oldest entry leaves the window; the
	// wait must reflect that, not a fixed full minute.
	require.NoError(t, limiter.Acquire(context.Background(), "test"))
	require.Len(t, clock.slept, 1)
	assert.Equal(t, 20*time.Second, clock.slept[0])
}

func TestAcquireEnforcesMinInterval(t *testing.T) {
	t.Parallel()
	limiter, clock := newTestLimiter(t, 100, 2*time.Second)

	require.NoError(t, limiter.Acquire(context.Background(), "test"))
	clock.advance(500 * time.Millisecond)
	require.NoError(t, limiter.Acquire(context.Background(), "test"))

	require.Len(t, clock.slept, 1)
	assert.Equal(t, 1500*time.Millisecond, clock.slept[0])
}

func TestAcquireHonorsContextCancellation(t *testing.T) {
	t.Parallel()
	limiter, clock := newTestLimiter(t, 1, 0)
	limiter.sleep = func(ctx context.Context, _ time.Duration) error {
		return context.Canceled
	}

	require.NoError(t, limiter.Acquire(context.Background(), "test"))
	clock.advance(time.Second)

	err := limiter.Acquire(context.Background(), "test")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAcquireConcurrentCallersNeverExceedQuota(t *testing.T) {
	t.Parallel()
	// Real clock, tiny window pressure: all goroutines funnel through
	// the single mutex, so the recorded window can never exceed rpm at
	// append time.
	limiter := New(50, 0, nil)

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 3; j++ {
				_ = limiter.Acquire(context.Background(), "concurrent")
			}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.LessOrEqual(t, len(limiter.requests), 50)
}
