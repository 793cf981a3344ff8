// SPDX-License-Identifier: EPL-2.0

// Package config loads the fademix settings from FADEMIX_* environment
// variables. Unset or unparsable values fall back to the defaults.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ik5/fademix/mixer"
)

var ErrInvalid = errors.New("invalid configuration")

// Tick rate bounds in Hz.
const (
	MinTickRate = 30
	MaxTickRate = 120
)

func envStr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// Config holds all runtime configuration.
type Config struct {
	FadeDuration time.Duration
	Mode         string // dual or playlist
	TickRate     int    // Hz
	SampleRate   int    // output Hz
	Channels     int

	Library   string // JSON track list
	LibraryDB string // SQLite track list, used instead of Library when set

	LogLevel string
}

// Load reads the environment.
func Load() Config {
	fade := envFloat("FADEMIX_FADE_DURATION", mixer.DefaultFadeDuration.Seconds())

	return Config{
		FadeDuration: time.Duration(math.Round(fade * float64(time.Second))),
		Mode:         envStr("FADEMIX_MODE", "dual"),
		TickRate:     envInt("FADEMIX_TICK_RATE", mixer.DefaultTickRate),
		SampleRate:   envInt("FADEMIX_SAMPLE_RATE", 44100),
		Channels:     envInt("FADEMIX_CHANNELS", 2),

		Library:   envStr("FADEMIX_LIBRARY", "mp3_library.json"),
		LibraryDB: envStr("FADEMIX_LIBRARY_DB", ""),

		LogLevel: envStr("FADEMIX_LOG_LEVEL", "info"),
	}
}

func (c Config) Validate() error {
	var errs []error

	if c.FadeDuration < 0 {
		errs = append(errs, fmt.Errorf("fade duration %v is negative", c.FadeDuration))
	}
	if _, err := mixer.ParseMode(c.Mode); err != nil {
		errs = append(errs, err)
	}
	if c.TickRate < MinTickRate || c.TickRate > MaxTickRate {
		errs = append(errs, fmt.Errorf("tick rate %d outside %d..%d Hz", c.TickRate, MinTickRate, MaxTickRate))
	}
	if c.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample rate %d", c.SampleRate))
	}
	if c.Channels < 1 || c.Channels > 2 {
		errs = append(errs, fmt.Errorf("channels %d, want 1 or 2", c.Channels))
	}
	if c.Library == "" && c.LibraryDB == "" {
		errs = append(errs, errors.New("no library path"))
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("log level %q", c.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// Mixer converts the engine part of c.
func (c Config) Mixer() (mixer.Config, error) {
	mode, err := mixer.ParseMode(c.Mode)
	if err != nil {
		return mixer.Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return mixer.Config{FadeDuration: c.FadeDuration, Mode: mode}, nil
}

// Level parses LogLevel, defaulting to info.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
