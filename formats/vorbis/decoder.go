// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"errors"
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/fademix/audio"
)

var ErrNotVorbisFile = errors.New("not an Ogg Vorbis stream")

// valueReader is the part of oggvorbis.Reader used by source. Read counts
// float32 values, always a whole number of frames.
type valueReader interface {
	SampleRate() int
	Channels() int
	Read(p []float32) (int, error)
}

type source struct {
	r    valueReader
	done bool
}

func (s *source) SampleRate() int { return s.r.SampleRate() }
func (s *source) Channels() int   { return s.r.Channels() }
func (s *source) Close() error    { return nil }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if s.done {
		return 0, io.EOF
	}

	dst = dst[:len(dst)-len(dst)%s.r.Channels()]
	if len(dst) == 0 {
		return 0, nil
	}

	total := 0
	for total < len(dst) {
		n, err := s.r.Read(dst[total:])
		total += n
		if err == io.EOF {
			s.done = true
			return total, io.EOF
		}
		if err != nil {
			return total, fmt.Errorf("%w", err)
		}
		if n == 0 {
			break
		}
	}

	return total, nil
}

type Decoder struct{}

// Decode reads the three Vorbis headers from r.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotVorbisFile, err)
	}
	if dec.Channels() < 1 {
		return nil, fmt.Errorf("%w", audio.ErrInvalidChannels)
	}

	return &source{r: dec}, nil
}
