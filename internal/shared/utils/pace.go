package utils

import (
	"context"
	"time"
)

// Pace sleeps for the given delay as a fixed-rate limiter between remote
// calls. It returns early with the context error if the context is
// cancelled before the delay elapses. A non-positive delay is a no-op.
func Pace(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
