// SPDX-License-Identifier: EPL-2.0

package device

import "errors"

var (
	// ErrLoad reports that a source could not be opened.
	ErrLoad = errors.New("load source failed")

	ErrUnknownHandle = errors.New("unknown handle")
)
