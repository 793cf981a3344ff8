// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ik5/fademix/device"
)

// Call is one recorded Device invocation.
type Call struct {
	Op     string
	Handle device.Handle
	Gain   float64
	Loop   bool
}

func (c Call) String() string {
	switch c.Op {
	case "gain":
		return fmt.Sprintf("gain(%s, %.3f)", c.Handle, c.Gain)
	case "play":
		return fmt.Sprintf("play(%s, loop=%v)", c.Handle, c.Loop)
	}
	return fmt.Sprintf("%s(%s)", c.Op, c.Handle)
}

type fakeSource struct {
	path      string
	transport device.Transport
	gain      float64
	loop      bool
}

type failKey struct {
	op string
	h  device.Handle
}

// FakeDevice is an in-memory device.Device that records every call.
// Paths listed in FailLoad fail to load; FailOn makes one operation on one
// handle fail.
type FakeDevice struct {
	mu       sync.Mutex
	next     device.Handle
	sources  map[device.Handle]*fakeSource
	calls    []Call
	fail     map[failKey]bool
	FailLoad map[string]bool
}

func NewFakeDevice() *FakeDevice {
	return &FakeDevice{
		sources:  make(map[device.Handle]*fakeSource),
		fail:     make(map[failKey]bool),
		FailLoad: make(map[string]bool),
	}
}

// FailOn makes op ("gain", "play", "pause", "resume" or "stop") fail for h.
func (d *FakeDevice) FailOn(op string, h device.Handle) {
	d.mu.Lock()
	d.fail[failKey{op, h}] = true
	d.mu.Unlock()
}

// ErrInjected is returned by operations armed with FailOn.
var ErrInjected = errors.New("injected device failure")

func (d *FakeDevice) LoadSource(path string) (device.Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.FailLoad[path] {
		return device.NoHandle, fmt.Errorf("%s: %w", path, device.ErrLoad)
	}

	d.next++
	d.sources[d.next] = &fakeSource{path: path}
	d.calls = append(d.calls, Call{Op: "load", Handle: d.next})

	return d.next, nil
}

// lookup must be called with d.mu held.
func (d *FakeDevice) lookup(h device.Handle, op string) (*fakeSource, error) {
	s, ok := d.sources[h]
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", op, h, device.ErrUnknownHandle)
	}
	if d.fail[failKey{op, h}] {
		return nil, fmt.Errorf("%s %s: %w", op, h, ErrInjected)
	}
	return s, nil
}

func (d *FakeDevice) SetGain(h device.Handle, gain float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, err := d.lookup(h, "gain")
	if err != nil {
		return err
	}
	s.gain = gain
	d.calls = append(d.calls, Call{Op: "gain", Handle: h, Gain: gain})

	return nil
}

func (d *FakeDevice) Play(h device.Handle, loop bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, err := d.lookup(h, "play")
	if err != nil {
		return err
	}
	s.transport = device.Playing
	s.loop = loop
	d.calls = append(d.calls, Call{Op: "play", Handle: h, Loop: loop})

	return nil
}

func (d *FakeDevice) transition(op string, h device.Handle, to device.Transport) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, err := d.lookup(h, op)
	if err != nil {
		return err
	}
	s.transport = to
	d.calls = append(d.calls, Call{Op: op, Handle: h})

	return nil
}

func (d *FakeDevice) Pause(h device.Handle) error  { return d.transition("pause", h, device.Paused) }
func (d *FakeDevice) Resume(h device.Handle) error { return d.transition("resume", h, device.Playing) }
func (d *FakeDevice) Stop(h device.Handle) error   { return d.transition("stop", h, device.Stopped) }

// Transport returns the device-side state of h.
func (d *FakeDevice) Transport(h device.Handle) device.Transport {
	d.mu.Lock()
	defer d.mu.Unlock()

	if s, ok := d.sources[h]; ok {
		return s.transport
	}
	return device.Stopped
}

// Gain returns the last gain written for h.
func (d *FakeDevice) Gain(h device.Handle) float64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if s, ok := d.sources[h]; ok {
		return s.gain
	}
	return 0
}

// Calls returns a copy of the recorded calls.
func (d *FakeDevice) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]Call(nil), d.calls...)
}

// Count returns how many times op was called for h.
func (d *FakeDevice) Count(op string, h device.Handle) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := 0
	for _, c := range d.calls {
		if c.Op == op && c.Handle == h {
			n++
		}
	}
	return n
}

// Reset forgets the recorded calls.
func (d *FakeDevice) Reset() {
	d.mu.Lock()
	d.calls = nil
	d.mu.Unlock()
}
