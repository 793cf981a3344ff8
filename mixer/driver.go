// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTickRate is the driver frequency in Hz.
const DefaultTickRate = 50

// Ticker is anything advanced by elapsed time, normally an *Engine.
type Ticker interface {
	Tick(dt time.Duration) error
}

// Driver calls Tick at a fixed rate with the measured time since the
// previous tick.
type Driver struct {
	target   Ticker
	interval time.Duration
	log      zerolog.Logger
}

// NewDriver ticks target rate times per second. Rates outside 1..1000 Hz
// fall back to DefaultTickRate.
func NewDriver(target Ticker, rate int, log zerolog.Logger) *Driver {
	if rate < 1 || rate > 1000 {
		rate = DefaultTickRate
	}

	return &Driver{
		target:   target,
		interval: time.Second / time.Duration(rate),
		log:      log.With().Str("component", "driver").Logger(),
	}
}

// Interval is the nominal time between ticks.
func (d *Driver) Interval() time.Duration { return d.interval }

// Run blocks until ctx is cancelled. Tick errors are logged and do not
// stop the driver.
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	last := time.Now()
	d.log.Debug().Dur("interval", d.interval).Msg("tick driver started")

	for {
		select {
		case <-ctx.Done():
			d.log.Debug().Msg("tick driver stopped")
			return ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if dt < 0 {
				dt = 0
			}
			if err := d.target.Tick(dt); err != nil {
				d.log.Warn().Err(err).Msg("tick failed")
			}
		}
	}
}
