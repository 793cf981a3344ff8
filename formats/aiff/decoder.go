// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"

	goaiff "github.com/go-audio/aiff"

	"github.com/ik5/fademix/audio"
	"github.com/ik5/fademix/formats/internal/pcm"
)

type Decoder struct{}

// Decode parses the FORM header and COMM chunk of r. go-audio needs to
// seek, so other readers are buffered in memory first.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := pcm.Seekable(r)
	if err != nil {
		return nil, err
	}

	dec := goaiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	switch dec.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%d-bit: %w", dec.BitDepth, ErrUnsupportedEncoding)
	}

	format := dec.Format()
	if format == nil || format.NumChannels < 1 || format.SampleRate < 1 {
		return nil, ErrNotAiffFile
	}

	// AIFF samples are signed at every depth.
	return pcm.NewSource(dec, format.SampleRate, format.NumChannels, int(dec.BitDepth), false), nil
}
