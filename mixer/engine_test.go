// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/ik5/fademix/device"
	"github.com/ik5/fademix/internal/audiotest"
)

const half = 750 * time.Millisecond

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func checkGains(t *testing.T, e *Engine, want map[string]float64) {
	t.Helper()

	for slot, g := range want {
		if got := e.Gain(slot); !near(got, g) {
			t.Errorf("Gain(%s) = %.4f, want %.4f", slot, got, g)
		}
	}
}

func mustTick(t *testing.T, e *Engine, dt time.Duration) {
	t.Helper()

	if err := e.Tick(dt); err != nil {
		t.Fatalf("Tick(%v) error = %v", dt, err)
	}
}

type dualFixture struct {
	e      *Engine
	dev    *audiotest.FakeDevice
	instr  device.Handle
	vocals device.Handle
}

// newDual returns a dual engine with both stems loaded and playing.
func newDual(t *testing.T) dualFixture {
	t.Helper()

	dev := audiotest.NewFakeDevice()
	e, err := New(dev, DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	f := dualFixture{e: e, dev: dev}
	f.instr, _ = dev.LoadSource("song_instrumental.mp3")
	f.vocals, _ = dev.LoadSource("song_vocals.mp3")

	if err := e.LoadTrack(SlotInstrumental, f.instr); err != nil {
		t.Fatalf("LoadTrack(instrumental) error = %v", err)
	}
	if e.State() != StateReady {
		t.Fatalf("State() after first stem = %s, want ready", e.State())
	}
	if err := e.LoadTrack(SlotVocals, f.vocals); err != nil {
		t.Fatalf("LoadTrack(vocals) error = %v", err)
	}

	return f
}

type playlistFixture struct {
	e   *Engine
	dev *audiotest.FakeDevice
	one device.Handle
	two device.Handle
}

func newPlaylist(t *testing.T, opts ...Option) playlistFixture {
	t.Helper()

	dev := audiotest.NewFakeDevice()
	cfg := DefaultConfig()
	cfg.Mode = Playlist
	e, err := New(dev, cfg, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	f := playlistFixture{e: e, dev: dev}
	f.one, _ = dev.LoadSource("one.mp3")
	f.two, _ = dev.LoadSource("two.mp3")

	for name, h := range map[string]device.Handle{"one": f.one, "two": f.two} {
		if err := e.LoadTrack(name, h); err != nil {
			t.Fatalf("LoadTrack(%s) error = %v", name, err)
		}
	}

	return f
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, DefaultConfig()); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("New(nil) error = %v, want ErrInvalidArgument", err)
	}

	cfg := DefaultConfig()
	cfg.FadeDuration = -time.Second
	if _, err := New(audiotest.NewFakeDevice(), cfg); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("New(negative fade) error = %v, want ErrInvalidArgument", err)
	}
}

func TestEngine_DualAutoPlay(t *testing.T) {
	t.Parallel()

	f := newDual(t)

	if f.e.State() != StatePlaying {
		t.Fatalf("State() = %s, want playing", f.e.State())
	}
	for _, h := range []device.Handle{f.instr, f.vocals} {
		if f.dev.Transport(h) != device.Playing {
			t.Errorf("device %s = %s, want playing", h, f.dev.Transport(h))
		}
		if f.dev.Count("play", h) != 1 {
			t.Errorf("play(%s) called %d times", h, f.dev.Count("play", h))
		}
	}
	// balance starts at 0: instrumental only
	checkGains(t, f.e, map[string]float64{SlotInstrumental: 1, SlotVocals: 0})
}

func TestEngine_DualPauseResumeScenario(t *testing.T) {
	t.Parallel()

	f := newDual(t)
	e := f.e

	if err := e.SetMixBalance(0.3); err != nil {
		t.Fatalf("SetMixBalance() error = %v", err)
	}
	checkGains(t, e, map[string]float64{SlotInstrumental: 0.7, SlotVocals: 0.3})

	if err := e.PlayPause(); err != nil {
		t.Fatalf("PlayPause() error = %v", err)
	}
	if e.Pending() != PendingPausing {
		t.Fatalf("Pending() = %s, want pausing", e.Pending())
	}

	mustTick(t, e, half)
	checkGains(t, e, map[string]float64{SlotInstrumental: 0.35, SlotVocals: 0.15})
	if f.dev.Transport(f.instr) != device.Playing {
		t.Error("instrumental paused before the fade-out ended")
	}

	mustTick(t, e, half)
	checkGains(t, e, map[string]float64{SlotInstrumental: 0, SlotVocals: 0})
	if e.State() != StatePaused || e.Pending() != PendingNone {
		t.Fatalf("after fade-out: state %s pending %s, want paused none", e.State(), e.Pending())
	}
	for _, h := range []device.Handle{f.instr, f.vocals} {
		if f.dev.Transport(h) != device.Paused {
			t.Errorf("device %s = %s, want paused", h, f.dev.Transport(h))
		}
	}

	if err := e.PlayPause(); err != nil {
		t.Fatalf("PlayPause() error = %v", err)
	}
	// resumed at once, silent
	for _, h := range []device.Handle{f.instr, f.vocals} {
		if f.dev.Transport(h) != device.Playing {
			t.Errorf("device %s = %s, want playing", h, f.dev.Transport(h))
		}
	}
	checkGains(t, e, map[string]float64{SlotInstrumental: 0, SlotVocals: 0})
	if e.State() != StatePlaying || e.Pending() != PendingResuming {
		t.Fatalf("state %s pending %s, want playing resuming", e.State(), e.Pending())
	}

	mustTick(t, e, half)
	checkGains(t, e, map[string]float64{SlotInstrumental: 0.35, SlotVocals: 0.15})

	mustTick(t, e, half)
	checkGains(t, e, map[string]float64{SlotInstrumental: 0.7, SlotVocals: 0.3})
	if e.Pending() != PendingNone || e.Fading(SlotInstrumental) || e.Fading(SlotVocals) {
		t.Errorf("fade-in did not settle: %+v", e.Snapshot())
	}
}

func TestEngine_BalanceExtremes(t *testing.T) {
	t.Parallel()

	f := newDual(t)

	tests := []struct {
		balance      float64
		instr, vocal float64
	}{
		{0, 1, 0},
		{1, 0, 1},
		{-3, 1, 0},
		{2, 0, 1},
		{0.5, 0.5, 0.5},
	}
	for _, tt := range tests {
		if err := f.e.SetMixBalance(tt.balance); err != nil {
			t.Fatalf("SetMixBalance(%v) error = %v", tt.balance, err)
		}
		checkGains(t, f.e, map[string]float64{SlotInstrumental: tt.instr, SlotVocals: tt.vocal})
		if f.e.Fading(SlotInstrumental) || f.e.Fading(SlotVocals) {
			t.Errorf("SetMixBalance(%v) scheduled a fade", tt.balance)
		}
		if !near(f.dev.Gain(f.instr), tt.instr) || !near(f.dev.Gain(f.vocals), tt.vocal) {
			t.Errorf("SetMixBalance(%v) device gains = %v, %v", tt.balance, f.dev.Gain(f.instr), f.dev.Gain(f.vocals))
		}
	}
}

func TestEngine_RapidToggleReverses(t *testing.T) {
	t.Parallel()

	f := newDual(t)
	e := f.e

	if err := e.PlayPause(); err != nil {
		t.Fatalf("PlayPause() error = %v", err)
	}
	mustTick(t, e, 300*time.Millisecond)
	checkGains(t, e, map[string]float64{SlotInstrumental: 0.8})

	if err := e.PlayPause(); err != nil {
		t.Fatalf("second PlayPause() error = %v", err)
	}
	if e.State() != StatePlaying || e.Pending() != PendingResuming {
		t.Fatalf("state %s pending %s, want playing resuming", e.State(), e.Pending())
	}

	mustTick(t, e, 150*time.Millisecond)
	if g := e.Gain(SlotInstrumental); g <= 0.8 {
		t.Errorf("gain %.3f did not reverse upwards", g)
	}

	mustTick(t, e, 2*time.Second)
	checkGains(t, e, map[string]float64{SlotInstrumental: 1, SlotVocals: 0})
	if n := f.dev.Count("pause", f.instr); n != 0 {
		t.Errorf("device paused %d times, want 0", n)
	}
	if e.Pending() != PendingNone || e.State() != StatePlaying {
		t.Errorf("state %s pending %s, want playing none", e.State(), e.Pending())
	}
}

func TestEngine_PauseDuringResume(t *testing.T) {
	t.Parallel()

	f := newDual(t)
	e := f.e

	_ = e.PlayPause()
	mustTick(t, e, 2*time.Second)
	_ = e.PlayPause()
	mustTick(t, e, half)

	if err := e.PlayPause(); err != nil {
		t.Fatalf("PlayPause() error = %v", err)
	}
	if e.Pending() != PendingPausing {
		t.Fatalf("Pending() = %s, want pausing", e.Pending())
	}

	mustTick(t, e, 2*time.Second)
	if e.State() != StatePaused {
		t.Errorf("State() = %s, want paused", e.State())
	}
	checkGains(t, e, map[string]float64{SlotInstrumental: 0, SlotVocals: 0})
}

func TestEngine_BalanceRetargetsFade(t *testing.T) {
	t.Parallel()

	f := newDual(t)
	e := f.e

	_ = e.SetMixBalance(0.3)
	_ = e.PlayPause()
	mustTick(t, e, 2*time.Second)
	_ = e.PlayPause()
	mustTick(t, e, half)
	checkGains(t, e, map[string]float64{SlotInstrumental: 0.35, SlotVocals: 0.15})

	if err := e.SetMixBalance(0.5); err != nil {
		t.Fatalf("SetMixBalance() error = %v", err)
	}
	// gains hold until the next tick
	checkGains(t, e, map[string]float64{SlotInstrumental: 0.35, SlotVocals: 0.15})

	mustTick(t, e, 375*time.Millisecond)
	checkGains(t, e, map[string]float64{SlotInstrumental: 0.425, SlotVocals: 0.325})

	mustTick(t, e, 375*time.Millisecond)
	checkGains(t, e, map[string]float64{SlotInstrumental: 0.5, SlotVocals: 0.5})
	if e.Pending() != PendingNone {
		t.Errorf("Pending() = %s, want none", e.Pending())
	}
}

func TestEngine_BalanceWhilePausedAppliesOnResume(t *testing.T) {
	t.Parallel()

	f := newDual(t)
	e := f.e

	_ = e.PlayPause()
	mustTick(t, e, 2*time.Second)

	if err := e.SetMixBalance(1); err != nil {
		t.Fatalf("SetMixBalance() error = %v", err)
	}
	checkGains(t, e, map[string]float64{SlotInstrumental: 0, SlotVocals: 0})

	_ = e.PlayPause()
	mustTick(t, e, 2*time.Second)
	checkGains(t, e, map[string]float64{SlotInstrumental: 0, SlotVocals: 1})
}

func TestEngine_PlayPauseWithoutTracks(t *testing.T) {
	t.Parallel()

	dev := audiotest.NewFakeDevice()
	e, err := New(dev, DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := e.PlayPause(); err != nil {
		t.Errorf("PlayPause() error = %v", err)
	}
	if e.State() != StateEmpty {
		t.Errorf("State() = %s, want empty", e.State())
	}
	if len(dev.Calls()) != 0 {
		t.Errorf("device calls = %v, want none", dev.Calls())
	}
}

func TestEngine_StopAndRestart(t *testing.T) {
	t.Parallel()

	f := newDual(t)
	e := f.e

	_ = e.PlayPause()
	mustTick(t, e, half)

	if err := e.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if e.State() != StateStopped || e.Pending() != PendingNone {
		t.Fatalf("state %s pending %s, want stopped none", e.State(), e.Pending())
	}
	if f.e.Fading(SlotInstrumental) {
		t.Error("fade survived Stop")
	}
	mustTick(t, e, 2*time.Second)
	if f.dev.Count("pause", f.instr) != 0 {
		t.Error("cancelled fade-out still paused the device")
	}

	if err := e.PlayPause(); err != nil {
		t.Fatalf("PlayPause() from stopped error = %v", err)
	}
	if e.State() != StatePlaying {
		t.Fatalf("State() = %s, want playing", e.State())
	}
	mustTick(t, e, 2*time.Second)
	checkGains(t, e, map[string]float64{SlotInstrumental: 1, SlotVocals: 0})
}

func TestEngine_ResumeRollback(t *testing.T) {
	t.Parallel()

	f := newDual(t)
	e := f.e

	_ = e.PlayPause()
	mustTick(t, e, 2*time.Second)
	f.dev.FailOn("resume", f.vocals)

	err := e.PlayPause()
	if !errors.Is(err, audiotest.ErrInjected) {
		t.Fatalf("PlayPause() error = %v, want ErrInjected", err)
	}

	if e.Fading(SlotInstrumental) || e.Fading(SlotVocals) {
		t.Error("ramps left behind after rollback")
	}
	if e.State() != StatePaused || e.Pending() != PendingNone {
		t.Errorf("state %s pending %s, want paused none", e.State(), e.Pending())
	}
	if f.dev.Transport(f.instr) != device.Paused {
		t.Errorf("instrumental = %s, want paused again", f.dev.Transport(f.instr))
	}
}

func TestEngine_DualErrors(t *testing.T) {
	t.Parallel()

	f := newDual(t)

	if err := f.e.LoadTrack("drums", f.instr); !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("LoadTrack(drums) error = %v, want ErrUnknownTarget", err)
	}
	if err := f.e.LoadTrack(SlotVocals, device.NoHandle); !errors.Is(err, ErrLoad) {
		t.Errorf("LoadTrack(NoHandle) error = %v, want ErrLoad", err)
	}
	if err := f.e.SwitchTrack(f.instr); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("SwitchTrack() in dual mode error = %v, want ErrInvalidTransition", err)
	}
}

func TestEngine_DualUnload(t *testing.T) {
	t.Parallel()

	f := newDual(t)

	if err := f.e.Unload(SlotVocals); err != nil {
		t.Fatalf("Unload() error = %v", err)
	}
	if f.e.State() != StateReady {
		t.Errorf("State() = %s, want ready", f.e.State())
	}
	if f.dev.Transport(f.instr) != device.Stopped {
		t.Errorf("instrumental = %s, want stopped", f.dev.Transport(f.instr))
	}

	if err := f.e.Unload(SlotInstrumental); err != nil {
		t.Fatalf("Unload() error = %v", err)
	}
	if f.e.State() != StateEmpty {
		t.Errorf("State() = %s, want empty", f.e.State())
	}
}

func TestEngine_PlaylistRoundTrip(t *testing.T) {
	t.Parallel()

	f := newPlaylist(t)
	e := f.e

	if e.State() != StateReady || len(f.dev.Calls()) != 2 {
		t.Fatalf("loading entries started playback: %v", f.dev.Calls())
	}

	if err := e.Select("one"); err != nil {
		t.Fatalf("Select(one) error = %v", err)
	}
	if f.dev.Transport(f.one) != device.Playing || e.Current() != "one" {
		t.Fatalf("one not started: %+v", e.Snapshot())
	}
	checkGains(t, e, map[string]float64{SlotMain: 0})
	mustTick(t, e, 1500*time.Millisecond)
	checkGains(t, e, map[string]float64{SlotMain: 1})

	if err := e.Select("two"); err != nil {
		t.Fatalf("Select(two) error = %v", err)
	}
	if e.Pending() != PendingSwitching {
		t.Fatalf("Pending() = %s, want switching", e.Pending())
	}
	mustTick(t, e, half)
	checkGains(t, e, map[string]float64{SlotMain: 0.5})
	if f.dev.Transport(f.one) != device.Playing || f.dev.Transport(f.two) != device.Stopped {
		t.Fatal("switched before the fade-out ended")
	}

	mustTick(t, e, half)
	if f.dev.Transport(f.one) != device.Stopped || f.dev.Transport(f.two) != device.Playing {
		t.Fatalf("switch did not happen: one=%s two=%s", f.dev.Transport(f.one), f.dev.Transport(f.two))
	}
	if e.Current() != "two" || e.Pending() != PendingSwitching {
		t.Errorf("current %q pending %s, want two switching", e.Current(), e.Pending())
	}
	checkGains(t, e, map[string]float64{SlotMain: 0})

	mustTick(t, e, 1500*time.Millisecond)
	checkGains(t, e, map[string]float64{SlotMain: 1})
	if e.Pending() != PendingNone || f.dev.Gain(f.two) != 1 {
		t.Errorf("fade-in did not settle: %+v", e.Snapshot())
	}
}

func TestEngine_PlaylistSelectCurrentIsNoop(t *testing.T) {
	t.Parallel()

	f := newPlaylist(t)
	_ = f.e.Select("one")
	mustTick(t, f.e, 2*time.Second)
	f.dev.Reset()

	if err := f.e.SwitchTrack(f.one); err != nil {
		t.Fatalf("SwitchTrack() error = %v", err)
	}
	if calls := f.dev.Calls(); len(calls) != 0 {
		t.Errorf("device calls = %v, want none", calls)
	}
	if f.e.Fading(SlotMain) {
		t.Error("switching to the playing track scheduled a fade")
	}
}

func TestEngine_PlaylistSwitchBack(t *testing.T) {
	t.Parallel()

	f := newPlaylist(t)
	_ = f.e.Select("one")
	mustTick(t, f.e, 2*time.Second)

	_ = f.e.Select("two")
	mustTick(t, f.e, half)
	if err := f.e.Select("one"); err != nil {
		t.Fatalf("Select(one) error = %v", err)
	}

	mustTick(t, f.e, 2*time.Second)
	if f.dev.Transport(f.two) != device.Stopped || f.dev.Count("play", f.two) != 0 {
		t.Error("superseded switch still started two")
	}
	checkGains(t, f.e, map[string]float64{SlotMain: 1})
	if f.e.Current() != "one" || f.e.Pending() != PendingNone {
		t.Errorf("current %q pending %s, want one none", f.e.Current(), f.e.Pending())
	}
}

func TestEngine_PlaylistPauseResume(t *testing.T) {
	t.Parallel()

	f := newPlaylist(t)
	_ = f.e.Select("one")
	mustTick(t, f.e, 2*time.Second)

	_ = f.e.PlayPause()
	mustTick(t, f.e, 2*time.Second)
	if f.e.State() != StatePaused || f.dev.Transport(f.one) != device.Paused {
		t.Fatalf("not paused: %+v", f.e.Snapshot())
	}

	_ = f.e.PlayPause()
	mustTick(t, f.e, 2*time.Second)
	if f.e.State() != StatePlaying || f.dev.Gain(f.one) != 1 {
		t.Errorf("not resumed: %+v", f.e.Snapshot())
	}
}

func TestEngine_PlaylistSwitchFailure(t *testing.T) {
	t.Parallel()

	var failures []error
	f := newPlaylist(t, WithErrorHandler(func(err error) { failures = append(failures, err) }))
	_ = f.e.Select("one")
	mustTick(t, f.e, 2*time.Second)
	f.dev.FailOn("play", f.two)

	if err := f.e.Select("two"); err != nil {
		t.Fatalf("Select(two) error = %v", err)
	}
	mustTick(t, f.e, 2*time.Second)

	if len(failures) != 1 || !errors.Is(failures[0], audiotest.ErrInjected) {
		t.Fatalf("error handler got %v, want one ErrInjected", failures)
	}
	if f.e.State() != StateStopped || f.e.Pending() != PendingNone {
		t.Errorf("state %s pending %s, want stopped none", f.e.State(), f.e.Pending())
	}
	checkGains(t, f.e, map[string]float64{SlotMain: 0})
}

func TestEngine_PlaylistErrors(t *testing.T) {
	t.Parallel()

	f := newPlaylist(t)

	if err := f.e.Select("three"); !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("Select(three) error = %v, want ErrUnknownTarget", err)
	}
	if err := f.e.SwitchTrack(device.NoHandle); !errors.Is(err, ErrLoad) {
		t.Errorf("SwitchTrack(NoHandle) error = %v, want ErrLoad", err)
	}
	if err := f.e.LoadTrack("", f.one); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("LoadTrack(\"\") error = %v, want ErrInvalidArgument", err)
	}
	if got := f.e.Entries(); len(got) != 2 {
		t.Errorf("Entries() = %v, want 2 entries", got)
	}
}

func TestEngine_PlaylistUnloadCurrent(t *testing.T) {
	t.Parallel()

	f := newPlaylist(t)
	_ = f.e.Select("one")

	if err := f.e.Unload("one"); err != nil {
		t.Fatalf("Unload() error = %v", err)
	}
	if f.dev.Transport(f.one) != device.Stopped || f.e.Current() != "" {
		t.Errorf("current entry kept playing: %+v", f.e.Snapshot())
	}
	if f.e.State() != StateStopped {
		t.Errorf("State() = %s, want stopped", f.e.State())
	}

	_ = f.e.Unload("two")
	if f.e.State() != StateEmpty {
		t.Errorf("State() = %s, want empty", f.e.State())
	}
}

func TestEngine_PlaylistUnloadSwitchTarget(t *testing.T) {
	t.Parallel()

	f := newPlaylist(t)
	_ = f.e.Select("one")
	mustTick(t, f.e, 2*time.Second)

	_ = f.e.Select("two")
	mustTick(t, f.e, 100*time.Millisecond)
	if err := f.e.Unload("two"); err != nil {
		t.Fatalf("Unload(two) error = %v", err)
	}

	mustTick(t, f.e, 4*time.Second)
	if f.dev.Count("play", f.two) != 0 || f.dev.Transport(f.two) != device.Stopped {
		t.Error("removed entry was started")
	}
	if f.dev.Transport(f.one) != device.Playing {
		t.Errorf("one = %s, want playing", f.dev.Transport(f.one))
	}
	checkGains(t, f.e, map[string]float64{SlotMain: 1})
	if f.e.Current() != "one" || f.e.State() != StatePlaying || f.e.Pending() != PendingNone {
		t.Errorf("current %q state %s pending %s, want one playing none", f.e.Current(), f.e.State(), f.e.Pending())
	}
	if got := f.e.Entries(); len(got) != 1 || got[0] != "one" {
		t.Errorf("Entries() = %v, want [one]", got)
	}
}

func TestEngine_PauseRollbackClearsPending(t *testing.T) {
	t.Parallel()

	f := newDual(t)
	e := f.e

	_ = e.PlayPause()
	mustTick(t, e, half)
	_ = e.PlayPause()
	if e.Pending() != PendingResuming {
		t.Fatalf("Pending() = %s, want resuming", e.Pending())
	}

	// the vocals ramp cannot be installed, so the pause fails half way
	e.sched.Unregister(SlotVocals)
	if err := e.PlayPause(); !errors.Is(err, ErrUnknownTarget) {
		t.Fatalf("PlayPause() error = %v, want ErrUnknownTarget", err)
	}

	if e.Fading(SlotInstrumental) {
		t.Error("instrumental ramp left behind after rollback")
	}
	if e.Pending() != PendingNone {
		t.Errorf("Pending() = %s, want none", e.Pending())
	}
}

func TestEngine_Close(t *testing.T) {
	t.Parallel()

	f := newDual(t)

	if err := f.e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := f.e.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if f.dev.Transport(f.instr) != device.Stopped {
		t.Error("Close did not stop the channels")
	}

	for name, op := range map[string]func() error{
		"PlayPause":     f.e.PlayPause,
		"Stop":          f.e.Stop,
		"SetMixBalance": func() error { return f.e.SetMixBalance(0.5) },
		"LoadTrack":     func() error { return f.e.LoadTrack(SlotVocals, f.vocals) },
	} {
		if err := op(); !errors.Is(err, ErrClosed) {
			t.Errorf("%s() error = %v, want ErrClosed", name, err)
		}
	}
	if err := f.e.Tick(time.Second); err != nil {
		t.Errorf("Tick() after Close error = %v", err)
	}
}

func TestEngine_ZeroFadeDuration(t *testing.T) {
	t.Parallel()

	dev := audiotest.NewFakeDevice()
	e, _ := New(dev, Config{Mode: DualTrackMix})
	a, _ := dev.LoadSource("a")
	b, _ := dev.LoadSource("b")
	_ = e.LoadTrack(SlotInstrumental, a)
	_ = e.LoadTrack(SlotVocals, b)

	_ = e.PlayPause()
	mustTick(t, e, 0)
	if e.State() != StatePaused {
		t.Errorf("State() = %s, want paused after one tick", e.State())
	}
}

func TestEngine_ConcurrentUse(t *testing.T) {
	t.Parallel()

	f := newDual(t)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for range 200 {
			_ = f.e.Tick(5 * time.Millisecond)
		}
	}()
	for i := range 50 {
		_ = f.e.SetMixBalance(float64(i%10) / 10)
		if i%7 == 0 {
			_ = f.e.PlayPause()
		}
		_ = f.e.Snapshot()
	}
	<-done
}
