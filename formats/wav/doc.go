// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and encodes integer PCM WAV files using
// github.com/go-audio/wav.
//
// Decoder accepts 8, 16, 24 and 32-bit PCM with any channel count and
// sample rate. Samples come out as float32 in [-1, 1]; 8-bit data is
// unsigned on disk and is re-centred on zero.
//
//	f, _ := os.Open("stem.wav")
//	src, err := wav.Decoder{}.Decode(f)
//
// Writer goes the other way and backs offline mixdowns. The header is
// rewritten on Close, so the destination must implement io.WriteSeeker:
//
//	w, _ := wav.NewWriter(f, 44100, 2, 16)
//	_, err := wav.WriteSource(w, src)
//	err = w.Close()
package wav
