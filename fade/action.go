// SPDX-License-Identifier: EPL-2.0

package fade

// Action is deferred work attached to a ramp. It runs once when the ramp
// completes and never when the ramp is superseded or cancelled.
type Action interface {
	Do()
}

// ActionFunc adapts a plain function to Action.
type ActionFunc func()

func (f ActionFunc) Do() { f() }

// Target receives the gain values produced by ramps.
type Target interface {
	SetGain(gain float64) error
	Gain() float64
}
