// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"

	"github.com/ik5/fademix"
	"github.com/ik5/fademix/config"
	"github.com/ik5/fademix/device"
	"github.com/ik5/fademix/device/soft"
	"github.com/ik5/fademix/device/speaker"
	"github.com/ik5/fademix/library"
	"github.com/ik5/fademix/mixer"
)

var (
	errQuit     = errors.New("quit")
	errNoOutput = errors.New("no audio output")
)

// releaser is implemented by devices that can drop a loaded source.
type releaser interface {
	Release(h device.Handle) error
}

// output is the sound card side, *speaker.Speaker in the running shell.
type output interface {
	SetVolume(v float64)
	Suspend()
	Resume()
	Playing() bool
}

type shell struct {
	store library.Store
	dev   device.Device
	eng   *mixer.Engine
	out   io.Writer
	log   zerolog.Logger

	// handles maps a dual slot or a playlist entry to its loaded source.
	handles map[string]device.Handle
	output  output
}

func newShell(store library.Store, dev device.Device, eng *mixer.Engine, out io.Writer, log zerolog.Logger) *shell {
	return &shell{
		store:   store,
		dev:     dev,
		eng:     eng,
		out:     out,
		log:     log,
		handles: make(map[string]device.Handle),
	}
}

func runShell(cfg config.Config, log zerolog.Logger) error {
	store, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	dev, err := soft.New(fademix.DefaultRegistry(), cfg.SampleRate, cfg.Channels, soft.WithLogger(log))
	if err != nil {
		return err
	}
	defer dev.Close()

	spk, err := speaker.Open(dev, speaker.WithLogger(log))
	if err != nil {
		return err
	}
	defer spk.Close()

	mc, err := cfg.Mixer()
	if err != nil {
		return err
	}
	eng, err := mixer.New(dev, mc,
		mixer.WithLogger(log),
		mixer.WithErrorHandler(func(err error) {
			fmt.Fprintln(os.Stderr, "transition failed:", err)
		}),
	)
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = mixer.NewDriver(eng, cfg.TickRate, log).Run(ctx) }()

	sh := newShell(store, dev, eng, os.Stdout, log)
	sh.output = spk

	return sh.run()
}

func (s *shell) completer() readline.AutoCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("list"),
		readline.PcItem("import"),
		readline.PcItem("remove"),
		readline.PcItem("load",
			readline.PcItem(mixer.SlotInstrumental),
			readline.PcItem(mixer.SlotVocals),
		),
		readline.PcItem("add"),
		readline.PcItem("play"),
		readline.PcItem("pause"),
		readline.PcItem("toggle"),
		readline.PcItem("balance"),
		readline.PcItem("volume"),
		readline.PcItem("mute"),
		readline.PcItem("unmute"),
		readline.PcItem("stop"),
		readline.PcItem("unload"),
		readline.PcItem("status"),
		readline.PcItem("quit"),
	)
}

func (s *shell) run() error {
	history := ".fademix_history"
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, history)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:       "fademix> ",
		HistoryFile:  history,
		AutoComplete: s.completer(),
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer rl.Close()

	s.out = rl.Stdout()
	fmt.Fprintf(s.out, "fademix %s mode, type help for commands\n", s.eng.Mode())

	for {
		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if line == "" {
				return nil
			}
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("readline: %w", err)
		}

		err = s.exec(line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(s.out, "error:", err)
		}
	}
}

// exec runs one command line.
func (s *shell) exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "help", "?":
		s.help()
		return nil
	case "quit", "exit":
		return errQuit
	case "list", "ls":
		return s.list()
	case "import":
		return s.importFiles(args)
	case "remove", "rm":
		if len(args) != 1 {
			return errors.New("usage: remove <name>")
		}
		return s.store.Remove(args[0])
	case "load":
		if len(args) != 2 {
			return errors.New("usage: load <instrumental|vocals> <track>")
		}
		return s.loadSlot(args[0], args[1])
	case "add":
		if len(args) != 1 {
			return errors.New("usage: add <track>")
		}
		_, err := s.addEntry(args[0])
		return err
	case "play":
		if len(args) > 1 {
			return errors.New("usage: play [track]")
		}
		if len(args) == 1 {
			return s.playTrack(args[0])
		}
		return s.play()
	case "pause":
		return s.pause()
	case "toggle":
		return s.eng.PlayPause()
	case "balance":
		v, err := parseLevel(args)
		if err != nil {
			return err
		}
		return s.eng.SetMixBalance(v)
	case "volume":
		v, err := parseLevel(args)
		if err != nil {
			return err
		}
		if s.output == nil {
			return errNoOutput
		}
		s.output.SetVolume(v)
		return nil
	case "mute", "unmute":
		if s.output == nil {
			return errNoOutput
		}
		if cmd == "mute" {
			s.output.Suspend()
		} else {
			s.output.Resume()
		}
		return nil
	case "stop":
		return s.eng.Stop()
	case "unload":
		if len(args) != 1 {
			return errors.New("usage: unload <slot|entry>")
		}
		return s.unload(args[0])
	case "status":
		s.status()
		return nil
	}

	return fmt.Errorf("unknown command %q, try help", cmd)
}

func parseLevel(args []string) (float64, error) {
	if len(args) != 1 {
		return 0, errors.New("want one value between 0 and 1")
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil || v < 0 || v > 1 {
		return 0, fmt.Errorf("%q: want a value between 0 and 1", args[0])
	}
	return v, nil
}

func (s *shell) help() {
	fmt.Fprint(s.out, `Library:
  list                      show library tracks
  import <file>...          add files under their base name
  remove <name>             drop a track from the library
Dual mode:
  load <slot> <track>       load instrumental or vocals; both start together
  balance <0..1>            0 = instrumental only, 1 = vocals only
Playlist mode:
  add <track>               add a track without playing it
  play <track>              fade over to track
Transport:
  play | pause | toggle     fade in or out
  stop                      stop at once
  unload <slot|entry>       detach a track
  volume <0..1>             output volume
  mute | unmute             suspend or restart the sound card output
  status                    show engine state
  quit
`)
}

func (s *shell) list() error {
	tracks, err := s.store.List()
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		fmt.Fprintln(s.out, "library is empty")
		return nil
	}
	for _, t := range tracks {
		fmt.Fprintf(s.out, "  %-30s %s\n", t.Name, t.Path)
	}
	return nil
}

func (s *shell) importFiles(paths []string) error {
	if len(paths) == 0 {
		return errors.New("usage: import <file>...")
	}

	var errs []error
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			errs = append(errs, err)
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		name, added, err := library.Import(s.store, abs)
		switch {
		case err != nil:
			errs = append(errs, err)
		case added:
			fmt.Fprintf(s.out, "imported %s\n", name)
		default:
			fmt.Fprintf(s.out, "%s already in library\n", name)
		}
	}
	return errors.Join(errs...)
}

// resolve looks track up in the library and falls back to treating it as
// a file path.
func (s *shell) resolve(track string) (name, path string, err error) {
	path, err = s.store.Path(track)
	if err == nil {
		return track, path, nil
	}
	if !errors.Is(err, library.ErrNotFound) {
		return "", "", err
	}
	if _, statErr := os.Stat(track); statErr != nil {
		if errors.Is(statErr, fs.ErrNotExist) {
			return "", "", err
		}
		return "", "", statErr
	}
	return filepath.Base(track), track, nil
}

// forget releases h when no slot or entry uses it anymore.
func (s *shell) forget(h device.Handle) {
	for _, other := range s.handles {
		if other == h {
			return
		}
	}
	if r, ok := s.dev.(releaser); ok {
		if err := r.Release(h); err != nil {
			s.log.Debug().Err(err).Stringer("handle", h).Msg("release failed")
		}
	}
}

func (s *shell) loadSlot(slot, track string) error {
	if s.eng.Mode() != mixer.DualTrackMix {
		return errors.New("load needs dual mode, use add or play")
	}

	_, path, err := s.resolve(track)
	if err != nil {
		return err
	}
	h, err := s.dev.LoadSource(path)
	if err != nil {
		return err
	}
	if err := s.eng.LoadTrack(slot, h); err != nil {
		s.forget(h)
		return err
	}

	prev, had := s.handles[slot]
	s.handles[slot] = h
	if had {
		s.forget(prev)
	}
	fmt.Fprintf(s.out, "%s: %s\n", slot, path)

	return nil
}

func (s *shell) addEntry(track string) (string, error) {
	if s.eng.Mode() != mixer.Playlist {
		return "", errors.New("add needs playlist mode, use load")
	}

	name, path, err := s.resolve(track)
	if err != nil {
		return "", err
	}
	if _, ok := s.handles[name]; ok {
		return name, nil
	}

	h, err := s.dev.LoadSource(path)
	if err != nil {
		return "", err
	}
	if err := s.eng.LoadTrack(name, h); err != nil {
		s.forget(h)
		return "", err
	}
	s.handles[name] = h

	return name, nil
}

func (s *shell) playTrack(track string) error {
	if s.eng.Mode() != mixer.Playlist {
		return errors.New("play <track> needs playlist mode")
	}

	name, err := s.addEntry(track)
	if err != nil {
		return err
	}
	return s.eng.Select(name)
}

// play resumes unless the engine is already playing or fading in.
func (s *shell) play() error {
	snap := s.eng.Snapshot()
	if snap.State == mixer.StatePlaying && snap.Pending != mixer.PendingPausing {
		return nil
	}
	return s.eng.PlayPause()
}

func (s *shell) pause() error {
	snap := s.eng.Snapshot()
	if snap.State != mixer.StatePlaying || snap.Pending == mixer.PendingPausing {
		return nil
	}
	return s.eng.PlayPause()
}

func (s *shell) unload(name string) error {
	if err := s.eng.Unload(name); err != nil {
		return err
	}
	if h, ok := s.handles[name]; ok {
		delete(s.handles, name)
		s.forget(h)
	}
	return nil
}

func (s *shell) status() {
	snap := s.eng.Snapshot()

	fmt.Fprintf(s.out, "mode %s, %s", snap.Mode, snap.State)
	if snap.Pending != mixer.PendingNone {
		fmt.Fprintf(s.out, " (%s)", snap.Pending)
	}
	switch snap.Mode {
	case mixer.DualTrackMix:
		fmt.Fprintf(s.out, ", balance %.2f\n", snap.Balance)
	default:
		current := snap.Current
		if current == "" {
			current = "-"
		}
		fmt.Fprintf(s.out, ", track %s\n", current)
	}

	if s.output != nil && !s.output.Playing() {
		fmt.Fprintln(s.out, "  output muted")
	}
	for _, ch := range snap.Channels {
		fading := ""
		if ch.Fading {
			fading = ", fading"
		}
		fmt.Fprintf(s.out, "  %-12s %-5s gain %.2f, %s%s\n", ch.Name, ch.Handle, ch.Gain, ch.Transport, fading)
	}
}
