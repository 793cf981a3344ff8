// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile = errors.New("not a WAV file")

	// ErrUnsupportedEncoding is returned for compressed or floating point
	// WAV data and for bit depths other than 8, 16, 24 and 32.
	ErrUnsupportedEncoding = errors.New("unsupported WAV encoding")

	ErrWriterClosed = errors.New("wav writer closed")
)
