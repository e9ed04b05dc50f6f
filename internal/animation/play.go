package animation

import (
	"context"
	"time"

	"github.com/banshee-data/trajectory.report/internal/monitoring"
	"github.com/banshee-data/trajectory.report/internal/timeutil"
)

// Play is the frame clock: it ticks d once per interval until the session
// finishes or ctx is cancelled. An interval of zero ticks back to back.
// Stopping early needs no cleanup; the driver is simply left Running.
func Play(ctx context.Context, d *Driver, interval time.Duration) error {
	return PlayWithClock(ctx, d, interval, timeutil.RealClock{})
}

// PlayWithClock is Play driven by clock.
func PlayWithClock(ctx context.Context, d *Driver, interval time.Duration, clock timeutil.Clock) error {
	var tick <-chan time.Time
	if interval > 0 {
		ticker := clock.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C()
	}

	started := clock.Now()
	for d.State() == Running {
		if tick != nil {
			select {
			case <-ctx.Done():
				monitoring.Logf("[animation] session %s cancelled at frame %d", d.Session(), d.Index())
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			monitoring.Logf("[animation] session %s cancelled at frame %d", d.Session(), d.Index())
			return err
		}

		d.Tick()
	}

	if d.Session() != "" {
		monitoring.Debugf("[animation] session %s played %d frames in %s", d.Session(), d.Index(), clock.Now().Sub(started))
	}
	return nil
}
