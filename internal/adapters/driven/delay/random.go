// Package delay implements the DelayPolicy port.
//
// The POS provider throttles accounts that fire requests back-to-back, so
// runs insert randomized pauses between collection calls. The policy is
// injectable: tests swap the sleep function to assert pacing without
// waiting in real time.
package delay

import (
	"context"
	"math/rand"
	"time"

	"github.com/tapsight-labs/possync/internal/core/ports/driven"
)

const (
	// DefaultMin and DefaultMax bound the randomized inter-request delay.
	DefaultMin = 5 * time.Second
	DefaultMax = 30 * time.Second
)

// Ensure Random implements the interface.
var _ driven.DelayPolicy = (*Random)(nil)

// Random waits a uniformly random duration within [Min, Max] on each call.
type Random struct {
	min   time.Duration
	max   time.Duration
	rng   *rand.Rand
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Random policy.
type Option func(*Random)

// WithRand injects a deterministic random source.
func WithRand(rng *rand.Rand) Option {
	return func(r *Random) { r.rng = rng }
}

// WithSleep injects the sleep function. For tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(r *Random) { r.sleep = sleep }
}

// NewRandom creates a randomized delay policy bounded by [min, max].
// Zero bounds fall back to the defaults.
func NewRandom(min, max time.Duration, opts ...Option) *Random {
	if min <= 0 {
		min = DefaultMin
	}
	if max < min {
		max = DefaultMax
	}

	r := &Random{
		min:   min,
		max:   max,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // jitter, not crypto
		sleep: sleepContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Wait blocks for the next randomized delay or until ctx is done.
func (r *Random) Wait(ctx context.Context) error {
	return r.sleep(ctx, r.next())
}

// next picks the upcoming delay duration.
func (r *Random) next() time.Duration {
	if r.max == r.min {
		return r.min
	}
	return r.min + time.Duration(r.rng.Int63n(int64(r.max-r.min)))
}

// sleepContext is a cancellable sleep.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
