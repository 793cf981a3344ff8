// SPDX-License-Identifier: EPL-2.0

package soft

import (
	"errors"

	"github.com/ik5/fademix/device"
)

var (
	// ErrSampleRateMismatch is joined with device.ErrLoad when a source
	// does not run at the device rate. Sources are never resampled.
	ErrSampleRateMismatch = errors.New("source sample rate differs from device rate")

	// ErrClosed is returned by Render and the handle operations after Close.
	ErrClosed = errors.New("device closed")

	// ErrUnknownHandle is device.ErrUnknownHandle, for handles never loaded
	// or already released.
	ErrUnknownHandle = device.ErrUnknownHandle
)
