// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/fademix/audio"
	"github.com/ik5/fademix/utils"
)

// Writer encodes interleaved float32 samples as integer PCM WAV. The
// header sizes are patched on Close, so the destination must seek.
type Writer struct {
	enc      *gowav.Encoder
	channels int
	bitDepth int
	buf      *goaudio.IntBuffer
	frames   int
	closed   bool
}

// NewWriter starts a WAV stream on w. bitDepth is 8, 16, 24 or 32.
func NewWriter(w io.WriteSeeker, sampleRate, channels, bitDepth int) (*Writer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate %d: %w", sampleRate, ErrUnsupportedEncoding)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("%w", audio.ErrInvalidChannels)
	}
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%d-bit: %w", bitDepth, ErrUnsupportedEncoding)
	}

	return &Writer{
		enc:      gowav.NewEncoder(w, sampleRate, bitDepth, channels, formatPCM),
		channels: channels,
		bitDepth: bitDepth,
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// WriteSamples appends whole frames. len(samples) must be a multiple of the
// channel count.
func (w *Writer) WriteSamples(samples []float32) error {
	if w.closed {
		return ErrWriterClosed
	}
	if len(samples)%w.channels != 0 {
		return fmt.Errorf("%w", audio.ErrInvalidDstSize)
	}
	if len(samples) == 0 {
		return nil
	}

	if cap(w.buf.Data) < len(samples) {
		w.buf.Data = make([]int, len(samples))
	}
	w.buf.Data = w.buf.Data[:len(samples)]
	for i, s := range samples {
		v := utils.Float32ToInt(s, w.bitDepth)
		if w.bitDepth == 8 {
			v += 128
		}
		w.buf.Data[i] = v
	}

	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("%w", err)
	}
	w.frames += len(samples) / w.channels

	return nil
}

// Frames is the number of frames written so far.
func (w *Writer) Frames() int { return w.frames }

// Close finalizes the header. The underlying writer stays open.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if w.frames == 0 {
		// the encoder only writes its header with the first buffer
		w.buf.Data = w.buf.Data[:0]
		if err := w.enc.Write(w.buf); err != nil {
			return fmt.Errorf("%w", err)
		}
	}
	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// WriteSource drains src into w and returns the number of frames copied.
func WriteSource(w *Writer, src audio.Source) (int, error) {
	if src.Channels() != w.channels {
		return 0, fmt.Errorf("source has %d channels, writer %d: %w", src.Channels(), w.channels, audio.ErrInvalidChannels)
	}

	buf := make([]float32, 4096*w.channels)
	start := w.frames
	for {
		n, err := src.ReadSamples(buf)
		n -= n % w.channels
		if n > 0 {
			if werr := w.WriteSamples(buf[:n]); werr != nil {
				return w.frames - start, werr
			}
		}
		if err == io.EOF {
			return w.frames - start, nil
		}
		if err != nil {
			return w.frames - start, fmt.Errorf("%w", err)
		}
	}
}
