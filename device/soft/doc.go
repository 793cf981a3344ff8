// SPDX-License-Identifier: EPL-2.0

// Package soft implements device.Device in process.
//
// Sources are opened through an Opener, normally an *audio.Registry, and
// must already run at the device sample rate; a source at any other rate
// fails to load with device.ErrLoad and ErrSampleRateMismatch. Channel
// layouts are conformed with audio.ChannelMatcher.
//
// Nothing is played by the package itself. A consumer pulls mixed blocks
// with Render, or with Read as float32 little endian bytes, which is what
// device/speaker hands to the sound card and what cmd/fademix writes to a
// WAV file when rendering offline. Looping handles reopen their source at
// the end of the stream; other handles stop there.
package soft
