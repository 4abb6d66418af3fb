package clock

import (
	"context"
	"time"
)

// Sleeper suspends the caller for the given duration, it returns early with ctx.Err() on cancellation.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type Real struct{}

func (Real) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Recorder does not sleep at all, it only remembers requested durations.
type Recorder struct {
	Sleeps []time.Duration
}

func (r *Recorder) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.Sleeps = append(r.Sleeps, d)
	return nil
}

func (r *Recorder) Total() time.Duration {
	var total time.Duration
	for _, d := range r.Sleeps {
		total += d
	}
	return total
}
