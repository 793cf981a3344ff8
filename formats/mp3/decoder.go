// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/fademix/audio"
)

// go-mp3 always produces interleaved stereo int16 little endian.
const (
	channels       = 2
	bytesPerSample = 2
)

var ErrNotMP3File = errors.New("not an MP3 stream")

// pcmReader is the part of gomp3.Decoder used by source.
type pcmReader interface {
	io.Reader
	SampleRate() int
}

type source struct {
	r          pcmReader
	sampleRate int
	buf        []byte
	done       bool
}

func newSource(r pcmReader) *source {
	return &source{r: r, sampleRate: r.SampleRate()}
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if s.done {
		return 0, io.EOF
	}
	if len(dst) == 0 {
		return 0, nil
	}

	need := len(dst) * bytesPerSample
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	s.buf = s.buf[:need]

	m, err := io.ReadFull(s.r, s.buf)
	switch {
	case err == io.EOF, err == io.ErrUnexpectedEOF:
		s.done = true
	case err != nil:
		return 0, fmt.Errorf("%w", err)
	}

	n := m / bytesPerSample
	for i := range n {
		v := int16(binary.LittleEndian.Uint16(s.buf[i*bytesPerSample:]))
		dst[i] = float32(v) / 32768
	}

	if s.done {
		return n, io.EOF
	}
	return n, nil
}

type Decoder struct{}

// Decode parses the first MP3 frame header of r.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMP3File, err)
	}

	return newSource(dec), nil
}
