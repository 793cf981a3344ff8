// SPDX-License-Identifier: EPL-2.0

package aiff

import "errors"

var (
	ErrNotAiffFile = errors.New("not an AIFF file")

	// ErrUnsupportedEncoding covers bit depths other than 8, 16, 24 and 32.
	ErrUnsupportedEncoding = errors.New("unsupported AIFF encoding")
)
