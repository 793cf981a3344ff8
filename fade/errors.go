// SPDX-License-Identifier: EPL-2.0

package fade

import "errors"

var (
	// ErrInvalidArgument is returned for negative durations or tick deltas
	// and for empty or nil registrations.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnknownTarget is returned when scheduling against a target that was
	// never registered.
	ErrUnknownTarget = errors.New("unknown target")

	// ErrDuplicateTarget is returned when registering a name that already
	// has a target.
	ErrDuplicateTarget = errors.New("target already registered")
)
