// SPDX-License-Identifier: EPL-2.0

package fademix

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ik5/fademix/audio"
	"github.com/ik5/fademix/formats/wav"
	"github.com/ik5/fademix/internal/audiotest"
)

func TestDefaultRegistry_Formats(t *testing.T) {
	t.Parallel()

	want := []string{"aif", "aiff", "mp3", "oga", "ogg", "wav", "wave"}
	if got := DefaultRegistry().Formats(); !slices.Equal(got, want) {
		t.Errorf("Formats() = %v, want %v", got, want)
	}
}

func TestDefaultRegistry_Open(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "Stem.WAV")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	w, _ := wav.NewWriter(f, 44100, 2, 16)
	if _, err := wav.WriteSource(w, audiotest.NewSineSource(44100, 2, 441, 220)); err != nil {
		t.Fatalf("WriteSource() error = %v", err)
	}
	_ = w.Close()
	_ = f.Close()

	src, err := DefaultRegistry().Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer src.Close()

	if src.SampleRate() != 44100 || src.Channels() != 2 {
		t.Errorf("format = %d Hz %d ch", src.SampleRate(), src.Channels())
	}

	if _, err := DefaultRegistry().Open(filepath.Join(dir, "x.flac")); !errors.Is(err, audio.ErrUnsupportedFormat) {
		t.Errorf("Open(.flac) error = %v, want ErrUnsupportedFormat", err)
	}
}
