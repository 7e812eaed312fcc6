package race

import (
	"context"
	"time"
)

// Run starts the race and advances it once per interval until every vehicle has finished, the race
// is paused, or ctx is done. Cancelling ctx pauses the race and Run returns ctx.Err(). publish, if
// not nil, receives a snapshot after every tick.
//
// Run returns immediately with a nil error when the race cannot start.
func Run(ctx context.Context, r *Race, interval time.Duration, publish func(Snapshot)) error {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if !r.Start() {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for r.Running() {
		select {
		case <-ctx.Done():
			r.Pause()
			return ctx.Err()
		case <-ticker.C:
			r.Tick()
			if publish != nil {
				publish(r.Snapshot())
			}
		}
	}
	return nil
}
