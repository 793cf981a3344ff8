// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"
	"strings"
	"time"
)

// Mode selects how the engine lays out its channels.
type Mode int

const (
	// DualTrackMix plays an instrumental and a vocal stem together and
	// blends them with the mix balance.
	DualTrackMix Mode = iota
	// Playlist plays one track at a time on a single channel and fades
	// between tracks.
	Playlist
)

func (m Mode) String() string {
	switch m {
	case DualTrackMix:
		return "dual"
	case Playlist:
		return "playlist"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts "dual" and "playlist" in any case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dual", "dualtrackmix", "dual-track":
		return DualTrackMix, nil
	case "playlist":
		return Playlist, nil
	}
	return 0, fmt.Errorf("mode %q: %w", s, ErrInvalidArgument)
}

// DefaultFadeDuration is the length of every pause, resume and switch fade.
const DefaultFadeDuration = 1500 * time.Millisecond

// Config holds the engine settings.
type Config struct {
	FadeDuration time.Duration
	Mode         Mode
}

func DefaultConfig() Config {
	return Config{
		FadeDuration: DefaultFadeDuration,
		Mode:         DualTrackMix,
	}
}

func (c Config) Validate() error {
	if c.FadeDuration < 0 {
		return fmt.Errorf("fade duration %v: %w", c.FadeDuration, ErrInvalidArgument)
	}
	if c.Mode != DualTrackMix && c.Mode != Playlist {
		return fmt.Errorf("mode %v: %w", c.Mode, ErrInvalidArgument)
	}
	return nil
}
