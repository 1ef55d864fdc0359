// pkg/engine/runner.go
package engine

import (
	"context"
	"time"
)

// RunOptions controls Run.
type RunOptions struct {
	// MaxTicks stops the run after this many ticks; zero means no limit.
	MaxTicks uint64
	// Realtime paces ticks at the configured tick rate instead of running
	// as fast as possible.
	Realtime bool
	// BeforeTick is called before every tick without EntityLock held, so it
	// may steer ships or read the game state.
	BeforeTick func(g *Game)
}

// Run starts a waiting game and advances it until it ends, MaxTicks is
// reached or ctx is done. A cancelled context is reported as its error.
func (g *Game) Run(ctx context.Context, opts RunOptions) error {
	g.Start()

	var ticks <-chan time.Time
	if opts.Realtime && g.tick > 0 {
		ticker := time.NewTicker(g.tick)
		defer ticker.Stop()
		ticks = ticker.C
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if g.CurrentStatus() == GameStatusEnded {
			return nil
		}
		if opts.MaxTicks > 0 && g.Ticks() >= opts.MaxTicks {
			return nil
		}

		if opts.BeforeTick != nil {
			opts.BeforeTick(g)
		}
		g.Update()

		if ticks != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticks:
			}
		}
	}
}
