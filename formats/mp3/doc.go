// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III streams using
// github.com/hajimehoshi/go-mp3.
//
// The decoder always yields interleaved stereo, so mono files come out with
// both channels equal. The sample rate is the one of the first frame.
//
//	f, _ := os.Open("song_vocals.mp3")
//	src, err := mp3.Decoder{}.Decode(f)
package mp3
