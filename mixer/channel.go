// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"

	"github.com/ik5/fademix/device"
	"github.com/ik5/fademix/utils"
)

// Channel is one playback slot on a device. It mirrors the transport state
// and gain it last sent to the device. A Channel is not safe for concurrent
// use; the Engine serializes access.
type Channel struct {
	name      string
	dev       device.Device
	handle    device.Handle
	gain      float64
	transport device.Transport
	loop      bool
}

func NewChannel(name string, dev device.Device) *Channel {
	return &Channel{name: name, dev: dev}
}

func (c *Channel) Name() string                { return c.name }
func (c *Channel) Handle() device.Handle       { return c.handle }
func (c *Channel) Gain() float64               { return c.gain }
func (c *Channel) Transport() device.Transport { return c.transport }
func (c *Channel) Loop() bool                  { return c.loop }
func (c *Channel) Loaded() bool                { return c.handle != device.NoHandle }

// Load attaches h. A source that was still playing or paused is stopped
// first. The channel starts Stopped at gain 0.
func (c *Channel) Load(h device.Handle) error {
	if h == device.NoHandle {
		return fmt.Errorf("channel %s: %w", c.name, ErrLoad)
	}

	if c.Loaded() && c.transport != device.Stopped {
		if err := c.dev.Stop(c.handle); err != nil {
			return fmt.Errorf("channel %s: stop %s: %w", c.name, c.handle, err)
		}
	}

	c.handle = h
	c.transport = device.Stopped
	c.loop = false

	return c.SetGain(0)
}

// Unload stops and detaches the current source.
func (c *Channel) Unload() error {
	err := c.Stop()
	c.handle = device.NoHandle
	c.gain = 0
	return err
}

func (c *Channel) Play(loop bool) error {
	if !c.Loaded() {
		return fmt.Errorf("channel %s: play: %w", c.name, ErrNotLoaded)
	}
	if err := c.dev.Play(c.handle, loop); err != nil {
		return fmt.Errorf("channel %s: play %s: %w", c.name, c.handle, err)
	}

	c.transport = device.Playing
	c.loop = loop

	return nil
}

func (c *Channel) Pause() error {
	return c.transition("pause", device.Playing, device.Paused, c.dev.Pause)
}

func (c *Channel) Resume() error {
	return c.transition("resume", device.Paused, device.Playing, c.dev.Resume)
}

func (c *Channel) transition(op string, from, to device.Transport, call func(device.Handle) error) error {
	if !c.Loaded() {
		return fmt.Errorf("channel %s: %s: %w", c.name, op, ErrNotLoaded)
	}
	if c.transport != from {
		return fmt.Errorf("channel %s: %s while %s: %w", c.name, op, c.transport, ErrInvalidTransition)
	}
	if err := call(c.handle); err != nil {
		return fmt.Errorf("channel %s: %s %s: %w", c.name, op, c.handle, err)
	}

	c.transport = to
	return nil
}

// Stop is valid in every state and rewinds the source.
func (c *Channel) Stop() error {
	if !c.Loaded() || c.transport == device.Stopped {
		c.transport = device.Stopped
		return nil
	}
	if err := c.dev.Stop(c.handle); err != nil {
		return fmt.Errorf("channel %s: stop %s: %w", c.name, c.handle, err)
	}

	c.transport = device.Stopped
	return nil
}

// SetGain clamps v to [0, 1] and forwards it to the device.
func (c *Channel) SetGain(v float64) error {
	c.gain = utils.Clamp01(v)
	if !c.Loaded() {
		return nil
	}
	if err := c.dev.SetGain(c.handle, c.gain); err != nil {
		return fmt.Errorf("channel %s: gain: %w", c.name, err)
	}
	return nil
}
