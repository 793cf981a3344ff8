// SPDX-License-Identifier: EPL-2.0

// Command fademix is an interactive player built on the fade-scheduled
// mixer. Without arguments it opens a shell playing through the sound card;
// "fademix render" runs a scripted mix offline into a WAV file.
//
// Settings come from FADEMIX_* environment variables, see package config.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/ik5/fademix/config"
	"github.com/ik5/fademix/library"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(cfg.Level()).
		With().Timestamp().Logger()

	var err error
	if len(os.Args) > 1 && os.Args[1] == "render" {
		err = runRender(cfg, log, os.Args[2:], os.Stdout)
	} else {
		err = runShell(cfg, log)
	}

	switch {
	case errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	case err != nil:
		log.Error().Err(err).Msg("fademix failed")
		os.Exit(1)
	}
}

// openStore opens the SQLite library when configured, copying the JSON
// library into it on the way, and the JSON library otherwise.
func openStore(cfg config.Config, log zerolog.Logger) (library.Store, error) {
	if cfg.LibraryDB == "" {
		return library.OpenJSON(cfg.Library)
	}

	db, err := library.OpenSQL(cfg.LibraryDB)
	if err != nil {
		return nil, err
	}

	if cfg.Library == "" {
		return db, nil
	}
	if _, err := os.Stat(cfg.Library); errors.Is(err, fs.ErrNotExist) {
		return db, nil
	}

	legacy, err := library.OpenJSON(cfg.Library)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.Library).Msg("skipping JSON library")
		return db, nil
	}
	n, err := library.Copy(db, legacy)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if n > 0 {
		log.Info().Int("tracks", n).Str("from", cfg.Library).Msg("imported JSON library")
	}

	return db, nil
}
