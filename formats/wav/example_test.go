// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ik5/fademix/formats/wav"
	"github.com/ik5/fademix/internal/audiotest"
)

func Example_writeAndDecode() {
	dir, _ := os.MkdirTemp("", "wav-example")
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "tone.wav")

	f, _ := os.Create(path)
	w, _ := wav.NewWriter(f, 16000, 1, 16)
	frames, _ := wav.WriteSource(w, audiotest.NewSineSource(16000, 1, 1600, 440))
	_ = w.Close()
	_ = f.Close()
	fmt.Println("frames written:", frames)

	f, _ = os.Open(path)
	defer f.Close()
	src, err := wav.Decoder{}.Decode(f)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%d Hz, %d channel(s)\n", src.SampleRate(), src.Channels())

	// Output:
	// frames written: 1600
	// 16000 Hz, 1 channel(s)
}
