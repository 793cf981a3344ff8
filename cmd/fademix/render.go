// SPDX-License-Identifier: EPL-2.0

package main

import (
	"cmp"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/ik5/fademix"
	"github.com/ik5/fademix/config"
	"github.com/ik5/fademix/device/soft"
	"github.com/ik5/fademix/formats/wav"
	"github.com/ik5/fademix/mixer"
)

// cue is one scripted engine call at a point of the rendered timeline.
type cue struct {
	at    time.Duration
	label string
	do    func(*mixer.Engine) error
}

// dualScript starts both stems at balance 0.3, pauses, resumes and then
// moves the balance to 0.8.
func dualScript(dev *soft.Device, tracks []string, step time.Duration) ([]cue, time.Duration, error) {
	if len(tracks) != 2 {
		return nil, 0, errors.New("dual mode renders exactly two tracks: instrumental and vocals")
	}

	load := func(slot, path string) func(*mixer.Engine) error {
		return func(e *mixer.Engine) error {
			h, err := dev.LoadSource(path)
			if err != nil {
				return err
			}
			return e.LoadTrack(slot, h)
		}
	}

	return []cue{
		{0, "balance 0.30", func(e *mixer.Engine) error { return e.SetMixBalance(0.3) }},
		{0, "load instrumental", load(mixer.SlotInstrumental, tracks[0])},
		{0, "load vocals", load(mixer.SlotVocals, tracks[1])},
		{step, "pause", (*mixer.Engine).PlayPause},
		{2 * step, "resume", (*mixer.Engine).PlayPause},
		{3 * step, "balance 0.80", func(e *mixer.Engine) error { return e.SetMixBalance(0.8) }},
	}, 4 * step, nil
}

// playlistScript fades through every track in order and fades out at the
// end.
func playlistScript(dev *soft.Device, tracks []string, step time.Duration) ([]cue, time.Duration, error) {
	if len(tracks) == 0 {
		return nil, 0, errors.New("playlist mode needs at least one track")
	}

	var cues []cue
	for i, path := range tracks {
		name := fmt.Sprintf("%d:%s", i+1, path)
		h, err := dev.LoadSource(path)
		if err != nil {
			return nil, 0, err
		}
		cues = append(cues,
			cue{0, "add " + name, func(e *mixer.Engine) error { return e.LoadTrack(name, h) }},
			cue{time.Duration(i) * step, "select " + name, func(e *mixer.Engine) error { return e.Select(name) }},
		)
	}
	end := time.Duration(len(tracks)) * step
	cues = append(cues, cue{end, "pause", (*mixer.Engine).PlayPause})

	return cues, end + step, nil
}

type renderJob struct {
	cfg    mixer.Config
	rate   int
	chans  int
	tick   int
	step   time.Duration
	out    string
	tracks []string
}

func parseRender(cfg config.Config, args []string, stderr io.Writer) (renderJob, error) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: fademix render [flags] <track>...")
		fs.PrintDefaults()
	}

	mode := fs.String("mode", cfg.Mode, "dual or playlist")
	fade := fs.Duration("fade", cfg.FadeDuration, "fade duration")
	step := fs.Duration("step", 3*time.Second, "time between scripted actions")
	out := fs.String("o", "mix.wav", "output WAV file")

	if err := fs.Parse(args); err != nil {
		return renderJob{}, err
	}

	c := cfg
	c.Mode = *mode
	c.FadeDuration = *fade
	mc, err := c.Mixer()
	if err != nil {
		return renderJob{}, err
	}
	if err := mc.Validate(); err != nil {
		return renderJob{}, err
	}
	if *step <= 0 {
		return renderJob{}, fmt.Errorf("step %v must be positive", *step)
	}

	return renderJob{
		cfg:    mc,
		rate:   cfg.SampleRate,
		chans:  cfg.Channels,
		tick:   cfg.TickRate,
		step:   *step,
		out:    *out,
		tracks: fs.Args(),
	}, nil
}

func runRender(cfg config.Config, log zerolog.Logger, args []string, stdout io.Writer) error {
	job, err := parseRender(cfg, args, os.Stderr)
	if err != nil {
		return err
	}
	frames, err := job.render(log, stdout)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s: %d frames, %.2fs\n", job.out, frames, float64(frames)/float64(job.rate))
	return nil
}

// render ticks the engine once per block, so fades line up with the audio
// exactly instead of with wall-clock time.
func (j renderJob) render(log zerolog.Logger, stdout io.Writer) (int, error) {
	dev, err := soft.New(fademix.DefaultRegistry(), j.rate, j.chans, soft.WithLogger(log))
	if err != nil {
		return 0, err
	}
	defer dev.Close()

	var failed error
	eng, err := mixer.New(dev, j.cfg,
		mixer.WithLogger(log),
		mixer.WithErrorHandler(func(err error) { failed = err }),
	)
	if err != nil {
		return 0, err
	}
	defer eng.Close()

	script := dualScript
	if j.cfg.Mode == mixer.Playlist {
		script = playlistScript
	}
	cues, total, err := script(dev, j.tracks, j.step)
	if err != nil {
		return 0, err
	}
	slices.SortStableFunc(cues, func(a, b cue) int { return cmp.Compare(a.at, b.at) })

	f, err := os.Create(j.out)
	if err != nil {
		return 0, fmt.Errorf("%w", err)
	}
	defer f.Close()

	w, err := wav.NewWriter(f, j.rate, j.chans, 16)
	if err != nil {
		return 0, err
	}

	block := max(j.rate/j.tick, 1)
	dt := time.Duration(block) * time.Second / time.Duration(j.rate)
	buf := make([]float32, block*j.chans)

	var elapsed time.Duration
	for elapsed < total {
		for len(cues) > 0 && cues[0].at <= elapsed {
			c := cues[0]
			cues = cues[1:]
			if err := c.do(eng); err != nil {
				return w.Frames(), fmt.Errorf("%s at %v: %w", c.label, c.at, err)
			}
			fmt.Fprintf(stdout, "%8s  %s\n", elapsed.Truncate(time.Millisecond), c.label)
		}

		if err := dev.Render(buf); err != nil {
			return w.Frames(), err
		}
		if err := w.WriteSamples(buf); err != nil {
			return w.Frames(), err
		}
		if err := eng.Tick(dt); err != nil {
			return w.Frames(), err
		}
		if failed != nil {
			return w.Frames(), failed
		}
		elapsed += dt
	}

	if err := w.Close(); err != nil {
		return w.Frames(), err
	}
	return w.Frames(), nil
}
