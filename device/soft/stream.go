// SPDX-License-Identifier: EPL-2.0

package soft

import (
	"encoding/binary"
	"io"
	"math"
)

const bytesPerSample = 4

// Read renders whole frames as float32 little endian, the layout oto
// expects for FormatFloat32LE. It returns io.EOF once the device is closed.
// Read must not be called from more than one goroutine at a time.
func (d *Device) Read(p []byte) (int, error) {
	frame := bytesPerSample * d.channels
	frames := len(p) / frame
	if frames == 0 {
		return 0, nil
	}

	n := frames * d.channels
	if cap(d.mix) < n {
		d.mix = make([]float32, n)
	}
	buf := d.mix[:n]

	if err := d.Render(buf); err != nil {
		if err == ErrClosed {
			return 0, io.EOF
		}
		return 0, err
	}

	for i, s := range buf {
		binary.LittleEndian.PutUint32(p[i*bytesPerSample:], math.Float32bits(s))
	}

	return n * bytesPerSample, nil
}

// Close stops and forgets every handle. Later calls fail with ErrClosed.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	for _, v := range d.voices {
		d.halt(v)
	}
	clear(d.voices)
	d.order = nil
	d.closed = true
	d.log.Debug().Msg("device closed")

	return nil
}
