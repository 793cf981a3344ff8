// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"errors"

	"github.com/ik5/fademix/device"
	"github.com/ik5/fademix/fade"
)

var (
	// ErrNotLoaded is returned by transport calls on a channel without a
	// source.
	ErrNotLoaded = errors.New("no source loaded")

	// ErrInvalidTransition is returned for transport changes the current
	// state does not allow, such as resuming a stopped channel.
	ErrInvalidTransition = errors.New("invalid transport transition")

	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("engine closed")

	// ErrLoad reports a source that could not be attached.
	ErrLoad = device.ErrLoad

	// ErrInvalidArgument and ErrUnknownTarget are the scheduler errors,
	// returned for bad settings and for slots or entries that do not exist.
	ErrInvalidArgument = fade.ErrInvalidArgument
	ErrUnknownTarget   = fade.ErrUnknownTarget
)
