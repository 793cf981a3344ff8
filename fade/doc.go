// SPDX-License-Identifier: EPL-2.0

// Package fade schedules linear gain ramps.
//
// A Scheduler maps each registered Target to at most one live Ramp. A new
// Schedule call on a target supersedes the ramp already running there, and
// the superseded ramp's Action is dropped. Nothing runs on its own
// goroutine: a single driver calls Tick with the elapsed time and the
// scheduler writes interpolated gains and fires completion Actions.
//
//	s := fade.NewScheduler()
//	_ = s.Register("vocals", channel)
//	_, _ = s.Schedule("vocals", channel.Gain(), 0, 1500*time.Millisecond,
//	    fade.ActionFunc(func() { channel.Pause() }))
//
//	for range ticker.C {
//	    _ = s.Tick(20 * time.Millisecond)
//	}
package fade
