// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"github.com/ik5/fademix/device"
)

// operation is one in-flight high level request. remaining counts the
// ramps that still have to complete; the engine only clears its pending
// operation when the completing ramp belongs to the current one. next is
// the playlist handle a switch fades toward.
type operation struct {
	kind      Pending
	remaining int
	next      device.Handle
}

func (e *Engine) finish(op *operation) {
	op.remaining--
	if op.remaining > 0 || e.op != op {
		return
	}

	e.op = nil
	if op.kind == PendingPausing {
		e.state = StatePaused
	}
	e.log.Debug().Stringer("op", op.kind).Msg("transition complete")
}

// pauseChannel pauses a channel once its fade-out reached silence.
type pauseChannel struct {
	e  *Engine
	ch *Channel
	op *operation
}

func (a *pauseChannel) Do() {
	if err := a.ch.Pause(); err != nil {
		a.e.fail(err)
	}
	a.e.finish(a.op)
}

// settle marks the end of a fade-in.
type settle struct {
	e  *Engine
	op *operation
}

func (a *settle) Do() {
	a.e.finish(a.op)
}

// switchTo replaces the playlist track after its fade-out and fades the
// next one in.
type switchTo struct {
	e    *Engine
	ch   *Channel
	op   *operation
	next device.Handle
}

func (a *switchTo) Do() {
	e := a.e

	err := a.ch.Stop()
	if err == nil {
		err = a.ch.Load(a.next)
	}
	if err == nil {
		err = a.ch.Play(true)
	}
	if err == nil {
		err = e.schedule(a.ch, 0, 1, &settle{e: e, op: a.op})
	}
	if err != nil {
		_ = a.ch.Stop()
		_ = a.ch.SetGain(0)
		if e.op == a.op {
			e.op = nil
		}
		e.state = StateStopped
		e.fail(err)
		return
	}

	e.current = e.nameOf(a.next)
	e.log.Info().Str("track", e.current).Stringer("handle", a.next).Msg("track started")
}
