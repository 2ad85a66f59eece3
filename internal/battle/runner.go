package battle

import (
	"context"
	"time"
)

// TickRate is the nominal number of ticks per second.
const TickRate = 60

// Clock delivers tick signals at a steady cadence.
type Clock interface {
	C() <-chan time.Time
	Stop()
}

type tickerClock struct {
	t *time.Ticker
}

// NewTickerClock returns a Clock backed by a time.Ticker firing hz times per
// second.
func NewTickerClock(hz int) Clock {
	return &tickerClock{t: time.NewTicker(time.Second / time.Duration(hz))}
}

func (c *tickerClock) C() <-chan time.Time { return c.t.C }
func (c *tickerClock) Stop()               { c.t.Stop() }

// FrameFunc is called after every tick, typically to draw the battle.
type FrameFunc func(b *Battle)

// Run ticks the battle on every clock signal until it ends or ctx is
// cancelled. Cancellation stops between ticks and returns ctx.Err() along
// with the outcome so far. The clock is stopped on return.
func (b *Battle) Run(ctx context.Context, clock Clock, input InputSource, frame FrameFunc) (Outcome, error) {
	defer clock.Stop()
	if input == nil {
		input = NoInput
	}

	for {
		select {
		case <-ctx.Done():
			return b.outcome, ctx.Err()
		case <-clock.C():
			outcome := b.Tick(ctx, input.Input())
			if frame != nil {
				frame(b)
			}
			if outcome.Ended() {
				return outcome, nil
			}
		}
	}
}

// RunFor ticks the battle synchronously until it ends or maxTicks ticks have
// run. A maxTicks of zero or less means no cap.
func (b *Battle) RunFor(ctx context.Context, maxTicks int, input InputSource) Outcome {
	if input == nil {
		input = NoInput
	}
	for maxTicks <= 0 || b.ticks < maxTicks {
		if ctx.Err() != nil {
			break
		}
		if outcome := b.Tick(ctx, input.Input()); outcome.Ended() {
			break
		}
	}
	return b.outcome
}
