// SPDX-License-Identifier: EPL-2.0

// Package pcm adapts go-audio integer decoders to audio.Source.
package pcm

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/fademix/audio"
	"github.com/ik5/fademix/utils"
)

// Reader is the part of the go-audio wav and aiff decoders used here.
type Reader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source converts integer PCM from a Reader into float32 samples.
type Source struct {
	r          Reader
	sampleRate int
	channels   int
	bitDepth   int
	unsigned   bool
	buf        *goaudio.IntBuffer
	done       bool
}

// NewSource wraps r. Set unsigned for 8-bit WAV data, which is stored with
// a 128 offset.
func NewSource(r Reader, sampleRate, channels, bitDepth int, unsigned bool) *Source {
	return &Source{
		r:          r,
		sampleRate: sampleRate,
		channels:   channels,
		bitDepth:   bitDepth,
		unsigned:   unsigned && bitDepth == 8,
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}
}

func (s *Source) SampleRate() int { return s.sampleRate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) Close() error    { return nil }

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.done {
		return 0, io.EOF
	}
	if len(dst) == 0 {
		return 0, nil
	}

	if cap(s.buf.Data) < len(dst) {
		s.buf.Data = make([]int, len(dst))
	}
	s.buf.Data = s.buf.Data[:len(dst)]

	n, err := s.r.PCMBuffer(s.buf)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("%w", err)
	}
	if n <= 0 {
		s.done = true
		return 0, io.EOF
	}

	for i, v := range s.buf.Data[:n] {
		if s.unsigned {
			v -= 128
		}
		dst[i] = utils.IntToFloat32(v, s.bitDepth)
	}

	// A short read means the PCM chunk is exhausted.
	if n < len(dst) || err == io.EOF {
		s.done = true
		return n, io.EOF
	}

	return n, nil
}

// Seekable returns r as an io.ReadSeeker, buffering it in memory when it
// cannot seek.
func Seekable(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffering input: %w", err)
	}

	return bytes.NewReader(data), nil
}

var _ audio.Source = (*Source)(nil)
