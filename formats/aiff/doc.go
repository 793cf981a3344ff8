// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes uncompressed AIFF files using github.com/go-audio/aiff.
//
// Any channel count and sample rate are accepted at 8, 16, 24 or 32 bits.
// The decoder needs random access, so a reader that cannot seek is read
// fully into memory before parsing.
package aiff
