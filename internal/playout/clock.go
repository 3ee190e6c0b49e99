// Package playout runs the minute-tick scheduling loop: wait for the minute
// boundary, snapshot the schedule, play whatever is due, sleep, repeat.
package playout

import (
	"context"
	"time"
)

// Clock aligns the loop to minute boundaries. SystemClock is the real one;
// tests substitute a scripted fake.
type Clock interface {
	// WaitMinute blocks until the wall clock's seconds field is 0, then
	// returns the current time. It fails only when ctx is done.
	WaitMinute(ctx context.Context) (time.Time, error)
	// SleepUntilNext sleeps until shortly before the next minute boundary,
	// so the next WaitMinute does not poll for a full minute.
	SleepUntilNext(ctx context.Context) error
}

// SystemClock polls the real clock at a bounded interval rather than
// tight-looping; coarse platform clocks stay cheap to wait on.
type SystemClock struct{}

const (
	pollInterval = 250 * time.Millisecond
	wakeMargin   = 2 * time.Second
)

func (SystemClock) WaitMinute(ctx context.Context) (time.Time, error) {
	for {
		now := time.Now()
		if now.Second() == 0 {
			return now, nil
		}
		d := time.Until(nextBoundary(now))
		if d > pollInterval {
			d = pollInterval
		}
		select {
		case <-ctx.Done():
			return time.Time{}, ctx.Err()
		case <-time.After(d):
		}
	}
}

func (SystemClock) SleepUntilNext(ctx context.Context) error {
	d := time.Until(nextBoundary(time.Now())) - wakeMargin
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func nextBoundary(t time.Time) time.Time {
	return t.Truncate(time.Minute).Add(time.Minute)
}
