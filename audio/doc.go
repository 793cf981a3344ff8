// SPDX-License-Identifier: EPL-2.0

// Package audio provides the PCM building blocks shared by the decoders and
// the software output device.
//
//   - Source, a decoded stream of interleaved float32 samples in [-1, 1]
//   - Decoder and Registry, which pick a decoder by file extension
//   - ChannelMatcher, which adapts a Source to the output channel count
//
// # Opening files
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	src, err := registry.Open("drums.wav")
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//
// # Reading
//
// ReadSamples returns io.EOF once the stream is exhausted. A call may return
// both n > 0 and io.EOF:
//
//	for {
//	    n, err := src.ReadSamples(buf)
//	    consume(buf[:n])
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
package audio
