// SPDX-License-Identifier: EPL-2.0

package device

import "fmt"

// Handle identifies one loaded source on a Device. The zero value is never
// returned by LoadSource.
type Handle uint64

// NoHandle is the zero Handle.
const NoHandle Handle = 0

func (h Handle) String() string {
	if h == NoHandle {
		return "none"
	}
	return fmt.Sprintf("h%d", uint64(h))
}

// Transport is the playback state of a source.
type Transport int

const (
	Stopped Transport = iota
	Playing
	Paused
)

func (t Transport) String() string {
	switch t {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	}
	return fmt.Sprintf("Transport(%d)", int(t))
}

// Device is the audio output binding the mixer drives. Every method must be
// fast and must not block on audio I/O.
type Device interface {
	// LoadSource opens the file at path. Errors wrap ErrLoad.
	LoadSource(path string) (Handle, error)
	// SetGain sets the output gain of h, already clamped to [0, 1].
	SetGain(h Handle, gain float64) error
	// Play starts h from the beginning.
	Play(h Handle, loop bool) error
	Pause(h Handle) error
	Resume(h Handle) error
	// Stop halts h and rewinds it.
	Stop(h Handle) error
}
