// SPDX-License-Identifier: EPL-2.0

// Package speaker plays a mixed stream on the system audio output through
// github.com/hajimehoshi/oto/v2.
//
// oto allows one context per process, so a program opens one Speaker and
// feeds every channel through a single device/soft mix.
package speaker

import (
	"errors"
	"fmt"
	"io"

	"github.com/hajimehoshi/oto/v2"
	"github.com/rs/zerolog"

	"github.com/ik5/fademix/utils"
)

var ErrInvalidStream = errors.New("invalid output stream")

// Stream is interleaved float32 little endian audio, such as a
// *soft.Device.
type Stream interface {
	io.Reader
	SampleRate() int
	Channels() int
}

type Option func(*Speaker)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Speaker) {
		s.log = l.With().Str("component", "speaker").Logger()
	}
}

// Speaker owns the oto context and the single player pulling from the
// stream.
type Speaker struct {
	ctx    *oto.Context
	player oto.Player
	log    zerolog.Logger
}

// validate checks the stream before any audio hardware is touched.
func validate(src Stream) error {
	if src == nil {
		return fmt.Errorf("nil stream: %w", ErrInvalidStream)
	}
	if src.SampleRate() <= 0 || src.Channels() <= 0 {
		return fmt.Errorf("%d Hz, %d channels: %w", src.SampleRate(), src.Channels(), ErrInvalidStream)
	}
	return nil
}

// Open creates the oto context for the stream format, waits until the
// output is ready and starts playing.
func Open(src Stream, opts ...Option) (*Speaker, error) {
	if err := validate(src); err != nil {
		return nil, err
	}

	s := &Speaker{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}

	ctx, ready, err := oto.NewContext(src.SampleRate(), src.Channels(), oto.FormatFloat32LE)
	if err != nil {
		return nil, fmt.Errorf("audio output: %w", err)
	}
	<-ready

	s.ctx = ctx
	s.player = ctx.NewPlayer(src)
	s.player.Play()
	s.log.Info().Int("rate", src.SampleRate()).Int("channels", src.Channels()).Msg("audio output started")

	return s, nil
}

// SetVolume sets the master volume, clamped to [0, 1].
func (s *Speaker) SetVolume(v float64) {
	s.player.SetVolume(utils.Clamp01(v))
}

// Suspend halts the output without touching the mix.
func (s *Speaker) Suspend() {
	s.player.Pause()
}

func (s *Speaker) Resume() {
	s.player.Play()
}

func (s *Speaker) Playing() bool { return s.player.IsPlaying() }

func (s *Speaker) Close() error {
	if err := s.player.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	s.log.Info().Msg("audio output closed")
	return nil
}
