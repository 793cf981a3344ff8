// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds generated PCM sources and a recording device for
// tests. It does not import package audio so that audio's own tests can use
// it; *Source still satisfies audio.Source.
package audiotest

import (
	"io"
	"math"
)

// Waveform returns the sample for frame i on channel ch.
type Waveform func(i, ch int) float32

// Source generates a fixed number of frames from a Waveform.
type Source struct {
	rate     int
	channels int
	frames   int
	pos      int
	wave     Waveform

	failAt  int
	failErr error
	closed  bool
}

// NewMockSource builds a source of frames frames per channel.
func NewMockSource(rate, channels, frames int, wave Waveform) *Source {
	return &Source{rate: rate, channels: channels, frames: frames, wave: wave, failAt: -1}
}

func NewConstantSource(rate, channels, frames int, value float32) *Source {
	return NewMockSource(rate, channels, frames, func(int, int) float32 { return value })
}

func NewSilentSource(rate, channels, frames int) *Source {
	return NewConstantSource(rate, channels, frames, 0)
}

func NewSineSource(rate, channels, frames int, freq float64) *Source {
	return NewMockSource(rate, channels, frames, func(i, _ int) float32 {
		return float32(math.Sin(2 * math.Pi * freq * float64(i) / float64(rate)))
	})
}

// FailAfter makes reads stop with err once frame n is reached, as a broken
// file would.
func (s *Source) FailAfter(n int, err error) *Source {
	s.failAt = n
	s.failErr = err
	return s
}

func (s *Source) SampleRate() int { return s.rate }
func (s *Source) Channels() int   { return s.channels }

func (s *Source) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *Source) Closed() bool { return s.closed }

// Position is the number of frames read so far.
func (s *Source) Position() int { return s.pos }

// Rewind starts the source over.
func (s *Source) Rewind() { s.pos = 0 }

func (s *Source) ReadSamples(dst []float32) (int, error) {
	end := s.frames
	if s.failAt >= 0 {
		end = min(end, s.failAt)
	}
	if s.pos >= end {
		if s.pos == s.failAt {
			return 0, s.failErr
		}
		return 0, io.EOF
	}

	n := min(len(dst)/s.channels, end-s.pos)
	for f := range n {
		for ch := range s.channels {
			dst[f*s.channels+ch] = s.wave(s.pos+f, ch)
		}
	}
	s.pos += n

	if s.pos == s.failAt {
		return n * s.channels, s.failErr
	}
	if s.pos >= s.frames {
		return n * s.channels, io.EOF
	}
	return n * s.channels, nil
}
