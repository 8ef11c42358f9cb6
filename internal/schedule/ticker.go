// Package schedule runs a job on a fixed interval against an injectable clock.
package schedule

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultInterval is the polling period used when none is configured.
const DefaultInterval = 30 * time.Second

// Ticker calls a job immediately and then once per interval. The wait starts after
// the job returns, so a slow job delays the next run instead of overlapping it.
type Ticker struct {
	clock    clockwork.Clock
	interval time.Duration
}

// New returns a Ticker. A nil clock means the real clock; a non-positive interval
// means DefaultInterval.
func New(clock clockwork.Clock, interval time.Duration) *Ticker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Ticker{clock: clock, interval: interval}
}

// Interval returns the wait between runs.
func (t *Ticker) Interval() time.Duration { return t.interval }

// Run drives fn until ctx is done (returning nil) or fn returns an error, which is
// returned unchanged. Callers decide which failures are worth stopping for.
func (t *Ticker) Run(ctx context.Context, fn func(context.Context) error) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		if err := fn(ctx); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-t.clock.After(t.interval):
		}
	}
}
