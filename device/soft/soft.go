// SPDX-License-Identifier: EPL-2.0

package soft

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ik5/fademix/audio"
	"github.com/ik5/fademix/device"
	"github.com/ik5/fademix/utils"
)

// Opener opens a decoded source by path. *audio.Registry is the usual
// implementation.
type Opener interface {
	Open(path string) (audio.Source, error)
}

type Option func(*Device)

func WithLogger(l zerolog.Logger) Option {
	return func(d *Device) {
		d.log = l.With().Str("component", "soft-device").Logger()
	}
}

type voice struct {
	path      string
	src       audio.Source
	transport device.Transport
	loop      bool
	gain      float64
	applied   float64 // gain reached at the end of the last rendered block
	frames    int64
}

// Device decodes and mixes sources in process. The output format is fixed
// at construction; Render and Read pull mixed blocks from it.
type Device struct {
	mu       sync.Mutex
	open     Opener
	rate     int
	channels int
	log      zerolog.Logger

	next    device.Handle
	voices  map[device.Handle]*voice
	order   []device.Handle
	scratch []float32
	mix     []float32
	closed  bool
}

// New builds a device producing rate Hz audio with the given channel count.
func New(open Opener, rate, channels int, opts ...Option) (*Device, error) {
	if open == nil || rate <= 0 {
		return nil, fmt.Errorf("soft device: opener %v, rate %d: %w", open, rate, device.ErrLoad)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("%w", audio.ErrInvalidChannels)
	}

	d := &Device{
		open:     open,
		rate:     rate,
		channels: channels,
		log:      zerolog.Nop(),
		voices:   make(map[device.Handle]*voice),
	}
	for _, opt := range opts {
		opt(d)
	}

	return d, nil
}

func (d *Device) SampleRate() int { return d.rate }
func (d *Device) Channels() int   { return d.channels }

// openSource opens path and conforms its channel layout to the device.
func (d *Device) openSource(path string) (audio.Source, error) {
	src, err := d.open.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, device.ErrLoad, err)
	}

	if src.SampleRate() != d.rate {
		_ = src.Close()
		return nil, fmt.Errorf("%s at %d Hz, device at %d Hz: %w: %w",
			path, src.SampleRate(), d.rate, device.ErrLoad, ErrSampleRateMismatch)
	}

	if src.Channels() == d.channels {
		return src, nil
	}

	m, err := audio.NewChannelMatcher(src, d.channels)
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("%s: %w: %w", path, device.ErrLoad, err)
	}

	return m, nil
}

// LoadSource opens path once to validate it. The opened stream is kept for
// the first Play.
func (d *Device) LoadSource(path string) (device.Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return device.NoHandle, ErrClosed
	}

	src, err := d.openSource(path)
	if err != nil {
		d.log.Warn().Err(err).Str("path", path).Msg("load failed")
		return device.NoHandle, err
	}

	d.next++
	d.voices[d.next] = &voice{path: path, src: src}
	d.order = append(d.order, d.next)
	d.log.Debug().Str("path", path).Stringer("handle", d.next).Msg("source loaded")

	return d.next, nil
}

// lookup must be called with d.mu held.
func (d *Device) lookup(h device.Handle) (*voice, error) {
	if d.closed {
		return nil, ErrClosed
	}
	v, ok := d.voices[h]
	if !ok {
		return nil, fmt.Errorf("%s: %w", h, ErrUnknownHandle)
	}
	return v, nil
}

func (d *Device) SetGain(h device.Handle, gain float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	v, err := d.lookup(h)
	if err != nil {
		return err
	}

	v.gain = utils.Clamp01(gain)
	if v.transport != device.Playing {
		v.applied = v.gain
	}

	return nil
}

// Play starts h from the beginning, reopening its source unless it is
// still untouched since LoadSource.
func (d *Device) Play(h device.Handle, loop bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	v, err := d.lookup(h)
	if err != nil {
		return err
	}

	if v.src == nil || v.frames > 0 {
		if err := d.rewind(v); err != nil {
			return err
		}
	}

	v.transport = device.Playing
	v.loop = loop
	v.applied = v.gain
	d.log.Debug().Stringer("handle", h).Bool("loop", loop).Msg("play")

	return nil
}

// rewind must be called with d.mu held.
func (d *Device) rewind(v *voice) error {
	if v.src != nil {
		_ = v.src.Close()
		v.src = nil
	}
	v.frames = 0

	src, err := d.openSource(v.path)
	if err != nil {
		return err
	}
	v.src = src

	return nil
}

func (d *Device) Pause(h device.Handle) error {
	return d.setTransport(h, device.Playing, device.Paused)
}

func (d *Device) Resume(h device.Handle) error {
	return d.setTransport(h, device.Paused, device.Playing)
}

// setTransport moves h from one state to another; any other state is left
// alone.
func (d *Device) setTransport(h device.Handle, from, to device.Transport) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	v, err := d.lookup(h)
	if err != nil {
		return err
	}

	if v.transport == from {
		v.transport = to
		v.applied = v.gain
		d.log.Debug().Stringer("handle", h).Stringer("state", to).Msg("transport")
	}

	return nil
}

func (d *Device) Stop(h device.Handle) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	v, err := d.lookup(h)
	if err != nil {
		return err
	}
	d.halt(v)

	return nil
}

// halt must be called with d.mu held.
func (d *Device) halt(v *voice) {
	if v.src != nil {
		_ = v.src.Close()
		v.src = nil
	}
	v.transport = device.Stopped
	v.frames = 0
}

// Release stops h and forgets it.
func (d *Device) Release(h device.Handle) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	v, err := d.lookup(h)
	if err != nil {
		return err
	}
	d.halt(v)
	delete(d.voices, h)
	d.order = slices.DeleteFunc(d.order, func(o device.Handle) bool { return o == h })

	return nil
}

// Status is a snapshot of one handle.
type Status struct {
	Path      string
	Transport device.Transport
	Gain      float64
	Loop      bool
	// Frames rendered since the last Play or loop restart.
	Frames int64
}

func (d *Device) Status(h device.Handle) (Status, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	v, err := d.lookup(h)
	if err != nil {
		return Status{}, err
	}

	return Status{
		Path:      v.path,
		Transport: v.transport,
		Gain:      v.gain,
		Loop:      v.loop,
		Frames:    v.frames,
	}, nil
}

// Render fills dst with the next block: every Playing handle scaled by its
// gain, summed and clipped to [-1, 1]. len(dst) must be a multiple of the
// channel count. Gain changes are spread linearly over the block.
func (d *Device) Render(dst []float32) error {
	if len(dst)%d.channels != 0 {
		return fmt.Errorf("%w", audio.ErrInvalidDstSize)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	clear(dst)
	if d.closed {
		return ErrClosed
	}

	for _, h := range d.order {
		v := d.voices[h]
		if v.transport == device.Playing {
			d.mixVoice(h, v, dst)
		}
	}

	for i, s := range dst {
		dst[i] = utils.Clamp(s, -1, 1)
	}

	return nil
}

// mixVoice must be called with d.mu held.
func (d *Device) mixVoice(h device.Handle, v *voice, dst []float32) {
	if cap(d.scratch) < len(dst) {
		d.scratch = make([]float32, len(dst))
	}
	buf := d.scratch[:len(dst)]

	filled := 0
	mark := 0 // start of the current pass within buf
	restarted := false
fill:
	for filled < len(buf) && v.transport == device.Playing {
		n, err := v.src.ReadSamples(buf[filled:])
		n -= n % d.channels
		filled += n
		if n > 0 {
			restarted = false
		}

		switch {
		case err == nil && n == 0:
			// nothing available right now
			break fill
		case err == nil:
		case !errors.Is(err, io.EOF):
			d.log.Warn().Err(err).Stringer("handle", h).Msg("decode failed, stopping")
			d.halt(v)
		case !v.loop || restarted:
			d.log.Debug().Stringer("handle", h).Msg("end of source")
			d.halt(v)
		default:
			played := v.frames + int64((filled-mark)/d.channels)
			if err := d.rewind(v); err != nil {
				d.log.Warn().Err(err).Stringer("handle", h).Msg("loop reopen failed, stopping")
				d.halt(v)
				continue
			}
			d.log.Debug().Stringer("handle", h).Int64("frames", played).Msg("loop")
			mark = filled
			restarted = true
		}
	}

	frames := len(dst) / d.channels
	for i := 0; i < filled; i++ {
		f := i / d.channels
		g := v.applied + (v.gain-v.applied)*float64(f+1)/float64(frames)
		dst[i] += buf[i] * float32(g)
	}
	v.applied = v.gain
	if v.transport == device.Playing {
		v.frames += int64((filled - mark) / d.channels)
	}
}
