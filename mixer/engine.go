// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ik5/fademix/device"
	"github.com/ik5/fademix/fade"
	"github.com/ik5/fademix/utils"
)

// Channel slot names.
const (
	SlotInstrumental = "instrumental"
	SlotVocals       = "vocals"
	SlotMain         = "main"
)

// State is the engine's overall playback state.
type State int

const (
	StateEmpty State = iota
	StateReady
	StatePlaying
	StatePaused
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Pending names the transition currently carried by live ramps.
type Pending int

const (
	PendingNone Pending = iota
	PendingPausing
	PendingResuming
	PendingSwitching
)

func (p Pending) String() string {
	switch p {
	case PendingNone:
		return "none"
	case PendingPausing:
		return "pausing"
	case PendingResuming:
		return "resuming"
	case PendingSwitching:
		return "switching"
	}
	return fmt.Sprintf("Pending(%d)", int(p))
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = l.With().Str("component", "mixer").Logger()
	}
}

// WithErrorHandler receives failures of deferred transitions, such as a
// device refusing to start the next track after a fade-out. The handler
// runs with the engine locked and must not call back into it.
func WithErrorHandler(fn func(error)) Option {
	return func(e *Engine) {
		e.onError = fn
	}
}

// Engine coordinates transport calls and gain fades over a fixed set of
// channels. All methods are safe for concurrent use.
type Engine struct {
	mu      sync.Mutex
	cfg     Config
	sched   *fade.Scheduler
	log     zerolog.Logger
	onError func(error)

	slots   []*Channel
	balance float64
	state   State
	op      *operation
	levels  map[string]float64
	closed  bool

	entries map[string]device.Handle
	order   []string
	current string
}

// New builds an engine for dev. Dual mode gets the instrumental and vocals
// slots, playlist mode a single main slot.
func New(dev device.Device, cfg Config, opts ...Option) (*Engine, error) {
	if dev == nil {
		return nil, fmt.Errorf("nil device: %w", ErrInvalidArgument)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:     cfg,
		sched:   fade.NewScheduler(),
		log:     zerolog.Nop(),
		levels:  make(map[string]float64),
		entries: make(map[string]device.Handle),
	}
	for _, opt := range opts {
		opt(e)
	}

	names := []string{SlotInstrumental, SlotVocals}
	if cfg.Mode == Playlist {
		names = []string{SlotMain}
	}
	for _, n := range names {
		ch := NewChannel(n, dev)
		if err := e.sched.Register(n, ch); err != nil {
			return nil, err
		}
		e.slots = append(e.slots, ch)
	}

	return e, nil
}

func (e *Engine) channel(name string) *Channel {
	for _, ch := range e.slots {
		if ch.Name() == name {
			return ch
		}
	}
	return nil
}

// slotGain is the gain a slot has at full level for the current balance.
func (e *Engine) slotGain(name string) float64 {
	switch name {
	case SlotInstrumental:
		return 1 - e.balance
	case SlotVocals:
		return e.balance
	}
	return 1
}

func (e *Engine) fail(err error) {
	e.log.Error().Err(err).Msg("deferred transition failed")
	if e.onError != nil {
		e.onError(err)
	}
}

// schedule installs an engine ramp on ch and remembers the level (0 or 1)
// it heads for, so balance changes can retarget it.
func (e *Engine) schedule(ch *Channel, start, level float64, a fade.Action) error {
	end := level * e.slotGain(ch.Name())
	if _, err := e.sched.Schedule(ch.Name(), start, end, e.cfg.FadeDuration, a); err != nil {
		return err
	}
	e.levels[ch.Name()] = level
	return nil
}

// rollback cancels the ramps an operation issued before failing.
func (e *Engine) rollback(issued []string, err error) error {
	if len(issued) > 0 {
		e.sched.CancelAll(issued...)
		// the cancelled ramps replaced those of the pending operation
		e.op = nil
	}
	e.log.Warn().Err(err).Strs("targets", issued).Msg("operation rolled back")
	return err
}

func (e *Engine) loadedCount() int {
	n := 0
	for _, ch := range e.slots {
		if ch.Loaded() {
			n++
		}
	}
	return n
}

func (e *Engine) hasTracks() bool {
	if e.cfg.Mode == Playlist {
		return len(e.entries) > 0
	}
	return e.loadedCount() > 0
}

// LoadTrack attaches h. In dual mode slot is SlotInstrumental or SlotVocals
// and playback starts once both are loaded. In playlist mode slot names a
// new selectable entry and nothing starts.
func (e *Engine) LoadTrack(slot string, h device.Handle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	if h == device.NoHandle {
		return fmt.Errorf("load %q: %w", slot, ErrLoad)
	}

	if e.cfg.Mode == Playlist {
		if slot == "" {
			return fmt.Errorf("empty entry name: %w", ErrInvalidArgument)
		}
		if _, ok := e.entries[slot]; !ok {
			e.order = append(e.order, slot)
		}
		e.entries[slot] = h
		if e.state == StateEmpty {
			e.state = StateReady
		}
		e.log.Debug().Str("entry", slot).Stringer("handle", h).Msg("playlist entry added")
		return nil
	}

	ch := e.channel(slot)
	if ch == nil {
		return fmt.Errorf("load %q: %w", slot, ErrUnknownTarget)
	}

	e.sched.CancelAll(ch.Name())
	if err := ch.Load(h); err != nil {
		return err
	}
	e.log.Debug().Str("slot", slot).Stringer("handle", h).Msg("track loaded")

	if e.loadedCount() < len(e.slots) {
		if e.state == StateEmpty {
			e.state = StateReady
		}
		return nil
	}

	return e.startDual()
}

// startDual starts both stems at the balance gains, like pressing play the
// moment the second stem arrives.
func (e *Engine) startDual() error {
	e.sched.CancelAll()
	e.op = nil

	var started []*Channel
	for _, ch := range e.slots {
		if err := ch.Play(true); err != nil {
			for _, s := range started {
				_ = s.Stop()
				_ = s.SetGain(0)
			}
			e.state = StateReady
			return err
		}
		started = append(started, ch)
	}

	var errs []error
	for _, ch := range e.slots {
		if err := ch.SetGain(e.slotGain(ch.Name())); err != nil {
			errs = append(errs, err)
		}
	}
	e.state = StatePlaying
	e.log.Info().Float64("balance", e.balance).Msg("dual playback started")

	return errors.Join(errs...)
}

// SetMixBalance moves the blend between the instrumental (0) and the vocals
// (1). Gains change at once; a channel that is mid-fade has its ramp
// retargeted instead, keeping the remaining fade time.
func (e *Engine) SetMixBalance(v float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}

	e.balance = utils.Clamp01(v)
	if e.cfg.Mode == Playlist {
		return nil
	}

	var errs []error
	for _, ch := range e.slots {
		target := e.slotGain(ch.Name())
		if e.sched.Active(ch.Name()) {
			e.sched.Retarget(ch.Name(), e.levels[ch.Name()]*target)
			continue
		}
		if ch.Transport() == device.Playing {
			if err := ch.SetGain(target); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}

// PlayPause fades the audible channels out and pauses them, or resumes the
// paused channels and fades them back in. Calling it again before a fade
// ends reverses direction from the current gain. It does nothing when no
// track is loaded.
func (e *Engine) PlayPause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	if !e.hasTracks() {
		return nil
	}

	switch {
	case e.state == StatePlaying && e.pending() != PendingPausing:
		return e.pause()
	case e.state == StatePaused, e.pending() == PendingPausing:
		return e.resume()
	case e.state == StateReady, e.state == StateStopped:
		return e.start()
	}

	return nil
}

func (e *Engine) pending() Pending {
	if e.op == nil {
		return PendingNone
	}
	return e.op.kind
}

func (e *Engine) pause() error {
	op := &operation{kind: PendingPausing}

	var issued []string
	for _, ch := range e.slots {
		if ch.Transport() != device.Playing {
			continue
		}
		if err := e.schedule(ch, ch.Gain(), 0, &pauseChannel{e: e, ch: ch, op: op}); err != nil {
			return e.rollback(issued, err)
		}
		issued = append(issued, ch.Name())
		op.remaining++
	}

	if op.remaining == 0 {
		return nil
	}

	e.op = op
	e.log.Debug().Strs("channels", issued).Dur("fade", e.cfg.FadeDuration).Msg("pausing")
	return nil
}

func (e *Engine) resume() error {
	op := &operation{kind: PendingResuming}

	var (
		issued  []string
		resumed []*Channel
	)
	undo := func(err error) error {
		for _, ch := range resumed {
			_ = ch.Pause()
			_ = ch.SetGain(0)
		}
		return e.rollback(issued, err)
	}

	for _, ch := range e.slots {
		if !ch.Loaded() || ch.Transport() == device.Stopped {
			continue
		}

		start := ch.Gain()
		if ch.Transport() == device.Paused {
			if err := ch.Resume(); err != nil {
				return undo(err)
			}
			resumed = append(resumed, ch)
			start = 0
			if err := ch.SetGain(0); err != nil {
				return undo(err)
			}
		}

		if err := e.schedule(ch, start, 1, &settle{e: e, op: op}); err != nil {
			return undo(err)
		}
		issued = append(issued, ch.Name())
		op.remaining++
	}

	if op.remaining == 0 {
		return nil
	}

	e.op = op
	e.state = StatePlaying
	e.log.Debug().Strs("channels", issued).Dur("fade", e.cfg.FadeDuration).Msg("resuming")
	return nil
}

// start begins playback from Ready or Stopped with a fade-in.
func (e *Engine) start() error {
	if e.cfg.Mode == Playlist {
		h, ok := e.entries[e.current]
		if !ok {
			return nil
		}
		return e.startOn(h)
	}

	if e.loadedCount() < len(e.slots) {
		return nil
	}

	op := &operation{kind: PendingResuming}
	var (
		issued  []string
		started []*Channel
	)
	for _, ch := range e.slots {
		err := ch.Play(true)
		if err == nil {
			started = append(started, ch)
			err = ch.SetGain(0)
		}
		if err == nil {
			err = e.schedule(ch, 0, 1, &settle{e: e, op: op})
		}
		if err != nil {
			for _, s := range started {
				_ = s.Stop()
			}
			return e.rollback(issued, err)
		}
		issued = append(issued, ch.Name())
		op.remaining++
	}

	e.op = op
	e.state = StatePlaying
	return nil
}

// SwitchTrack moves the playlist channel to h. When something is playing
// it fades out first and the new track fades in once the fade-out has
// completed; otherwise the new track starts right away with a fade-in.
// Switching to the track that is already playing does nothing.
func (e *Engine) SwitchTrack(h device.Handle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.switchTrack(h)
}

// Select switches to the playlist entry called name.
func (e *Engine) Select(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	h, ok := e.entries[name]
	if !ok {
		return fmt.Errorf("select %q: %w", name, ErrUnknownTarget)
	}
	return e.switchTrack(h)
}

func (e *Engine) switchTrack(h device.Handle) error {
	if e.closed {
		return ErrClosed
	}
	if e.cfg.Mode != Playlist {
		return fmt.Errorf("switch track in %s mode: %w", e.cfg.Mode, ErrInvalidTransition)
	}
	if h == device.NoHandle {
		return fmt.Errorf("switch track: %w", ErrLoad)
	}

	ch := e.slots[0]
	if ch.Handle() == h && ch.Transport() == device.Playing {
		fadingOut := e.sched.Active(ch.Name()) && e.levels[ch.Name()] == 0
		if !fadingOut {
			return nil
		}
		return e.fadeBackIn(ch)
	}

	if ch.Transport() != device.Playing {
		return e.startOn(h)
	}

	op := &operation{kind: PendingSwitching, remaining: 1, next: h}
	if err := e.schedule(ch, ch.Gain(), 0, &switchTo{e: e, ch: ch, op: op, next: h}); err != nil {
		return e.rollback(nil, err)
	}
	e.op = op
	e.log.Debug().Stringer("from", ch.Handle()).Stringer("to", h).Msg("crossfading")
	return nil
}

// fadeBackIn cancels a switch away from the playlist track and fades that
// track back in from its current gain.
func (e *Engine) fadeBackIn(ch *Channel) error {
	op := &operation{kind: PendingSwitching, remaining: 1}
	if err := e.schedule(ch, ch.Gain(), 1, &settle{e: e, op: op}); err != nil {
		e.op = nil
		return e.rollback(nil, err)
	}
	e.op = op
	e.state = StatePlaying
	return nil
}

// startOn loads h on the playlist channel and fades it in.
func (e *Engine) startOn(h device.Handle) error {
	ch := e.slots[0]
	e.sched.CancelAll(ch.Name())

	if err := ch.Load(h); err != nil {
		return err
	}
	if err := ch.Play(true); err != nil {
		e.state = StateStopped
		return err
	}

	op := &operation{kind: PendingSwitching, remaining: 1}
	if err := e.schedule(ch, 0, 1, &settle{e: e, op: op}); err != nil {
		_ = ch.Stop()
		return e.rollback(nil, err)
	}

	e.op = op
	e.state = StatePlaying
	e.current = e.nameOf(h)
	e.log.Info().Str("track", e.current).Stringer("handle", h).Msg("track started")
	return nil
}

func (e *Engine) nameOf(h device.Handle) string {
	for _, n := range e.order {
		if e.entries[n] == h {
			return n
		}
	}
	return ""
}

// Unload detaches a dual-mode slot or removes a playlist entry. Removing
// the entry that is playing stops playback.
func (e *Engine) Unload(slot string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}

	if e.cfg.Mode == Playlist {
		h, ok := e.entries[slot]
		if !ok {
			return fmt.Errorf("unload %q: %w", slot, ErrUnknownTarget)
		}
		delete(e.entries, slot)
		e.order = slices.DeleteFunc(e.order, func(n string) bool { return n == slot })

		var err error
		ch := e.slots[0]
		switch {
		case ch.Handle() == h:
			e.sched.CancelAll()
			e.op = nil
			err = ch.Unload()
			e.current = ""
			e.state = StateStopped
		case e.op != nil && e.op.kind == PendingSwitching && e.op.next == h:
			// The switch would start the removed entry: stay on the
			// current track instead.
			err = e.fadeBackIn(ch)
		}
		if len(e.entries) == 0 {
			e.state = StateEmpty
		}
		return err
	}

	ch := e.channel(slot)
	if ch == nil {
		return fmt.Errorf("unload %q: %w", slot, ErrUnknownTarget)
	}

	// A lone stem never plays, so the other one stops too.
	e.sched.CancelAll()
	e.op = nil
	var errs []error
	for _, other := range e.slots {
		if err := other.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, ch.Unload())

	e.state = StateReady
	if e.loadedCount() == 0 {
		e.state = StateEmpty
	}
	return errors.Join(errs...)
}

// Stop cancels every fade and stops every channel at once.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	return e.stop()
}

func (e *Engine) stop() error {
	e.sched.CancelAll()
	e.op = nil

	var errs []error
	for _, ch := range e.slots {
		if err := ch.Stop(); err != nil {
			errs = append(errs, err)
		}
		if err := ch.SetGain(0); err != nil {
			errs = append(errs, err)
		}
	}

	if e.hasTracks() {
		e.state = StateStopped
	} else {
		e.state = StateEmpty
	}

	return errors.Join(errs...)
}

// Close stops playback and releases the channels. Later calls fail with
// ErrClosed.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	err := e.stop()
	for _, ch := range e.slots {
		e.sched.Unregister(ch.Name())
	}
	e.closed = true

	return err
}

// Tick advances every fade by dt. Completion actions run before Tick
// returns.
func (e *Engine) Tick(dt time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	return e.sched.Tick(dt)
}

// State returns the overall playback state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Pending returns the transition in flight, if any.
func (e *Engine) Pending() Pending {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending()
}

func (e *Engine) MixBalance() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.balance
}

func (e *Engine) Mode() Mode { return e.cfg.Mode }

// Gain returns the current gain of a slot, or 0 for unknown slots.
func (e *Engine) Gain(slot string) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ch := e.channel(slot); ch != nil {
		return ch.Gain()
	}
	return 0
}

// Transport returns the transport state of a slot.
func (e *Engine) Transport(slot string) device.Transport {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ch := e.channel(slot); ch != nil {
		return ch.Transport()
	}
	return device.Stopped
}

// Fading reports whether slot has a live ramp.
func (e *Engine) Fading(slot string) bool {
	return e.sched.Active(slot)
}

// Current returns the selected playlist entry.
func (e *Engine) Current() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Entries lists the playlist entries in the order they were added.
func (e *Engine) Entries() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.order)
}

// ChannelStatus is a point-in-time view of one channel.
type ChannelStatus struct {
	Name      string
	Handle    device.Handle
	Gain      float64
	Transport device.Transport
	Loop      bool
	Fading    bool
}

// Snapshot is a point-in-time view of the whole engine.
type Snapshot struct {
	Mode     Mode
	State    State
	Pending  Pending
	Balance  float64
	Current  string
	Channels []ChannelStatus
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Snapshot{
		Mode:    e.cfg.Mode,
		State:   e.state,
		Pending: e.pending(),
		Balance: e.balance,
		Current: e.current,
	}
	for _, ch := range e.slots {
		s.Channels = append(s.Channels, ChannelStatus{
			Name:      ch.Name(),
			Handle:    ch.Handle(),
			Gain:      ch.Gain(),
			Transport: ch.Transport(),
			Loop:      ch.Loop(),
			Fading:    e.sched.Active(ch.Name()),
		})
	}
	return s
}
