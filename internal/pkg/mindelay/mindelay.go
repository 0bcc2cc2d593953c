// Package mindelay enforces a minimum visible duration on operations that may
// finish faster than the UI should appear to.
package mindelay

import (
	"context"
	"time"
)

// Clock is the time source used to measure and wait.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// RealClock returns the wall clock.
func RealClock() Clock {
	return realClock{}
}

// Remaining returns how much longer to wait so that at least floor has passed
// since start. It is never negative.
func Remaining(clock Clock, start time.Time, floor time.Duration) time.Duration {
	remaining := floor - clock.Now().Sub(start)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Hold blocks until floor has elapsed since start. It returns ctx.Err() if ctx
// ends first.
func Hold(ctx context.Context, clock Clock, start time.Time, floor time.Duration) error {
	remaining := Remaining(clock, start, floor)
	if remaining == 0 {
		return nil
	}

	select {
	case <-clock.After(remaining):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes op and, if it succeeds, returns no earlier than floor after Run
// was called. A failing op returns immediately with its error. The result is
// min-bounded by floor and otherwise equal to the real latency of op.
func Run(ctx context.Context, clock Clock, floor time.Duration, op func(ctx context.Context) error) error {
	start := clock.Now()

	if err := op(ctx); err != nil {
		return err
	}

	return Hold(ctx, clock, start, floor)
}
