// SPDX-License-Identifier: EPL-2.0

package fade

import (
	"fmt"
	"time"

	"github.com/ik5/fademix/utils"
)

// Ramp is one linear gain transition of a single target.
type Ramp struct {
	Target   string
	Start    float64
	End      float64
	Duration time.Duration
	Elapsed  time.Duration
	OnDone   Action

	seq uint64
}

// Progress is Elapsed/Duration clamped to [0, 1]. A zero-length ramp is
// always at 1.
func (r Ramp) Progress() float64 {
	if r.Duration <= 0 {
		return 1
	}
	return utils.Clamp01(float64(r.Elapsed) / float64(r.Duration))
}

// Value is the gain the ramp currently prescribes.
func (r Ramp) Value() float64 {
	return utils.Lerp(r.Start, r.End, r.Progress())
}

// Done reports whether the ramp reached its end.
func (r Ramp) Done() bool {
	return r.Elapsed >= r.Duration
}

// Remaining is the time left until the ramp completes.
func (r Ramp) Remaining() time.Duration {
	if r.Done() {
		return 0
	}
	return r.Duration - r.Elapsed
}

func (r Ramp) String() string {
	return fmt.Sprintf("%s: %.3f->%.3f %v/%v", r.Target, r.Start, r.End, r.Elapsed, r.Duration)
}

// RampHandle identifies one installed ramp. It stays valid after the ramp
// ends; Scheduler.Live reports whether the ramp is still running.
type RampHandle struct {
	target string
	seq    uint64
}

// Target returns the target the ramp was scheduled against.
func (h RampHandle) Target() string { return h.target }

// IsZero reports whether h refers to no ramp.
func (h RampHandle) IsZero() bool { return h.seq == 0 }
