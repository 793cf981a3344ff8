// SPDX-License-Identifier: EPL-2.0

package fade

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/ik5/fademix/utils"
)

// Scheduler owns the live ramps. Every target has at most one live ramp;
// scheduling on a busy target replaces the running ramp and drops its
// Action.
//
// All methods are safe for concurrent use. Actions run after the internal
// lock is released, so they may call back into the Scheduler.
type Scheduler struct {
	mu      sync.Mutex
	targets map[string]Target
	order   []string
	live    map[string]*Ramp
	seq     uint64
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		targets: make(map[string]Target),
		live:    make(map[string]*Ramp),
	}
}

// Register makes target known under name.
func (s *Scheduler) Register(name string, target Target) error {
	if name == "" || target == nil {
		return fmt.Errorf("register %q: %w", name, ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.targets[name]; ok {
		return fmt.Errorf("register %q: %w", name, ErrDuplicateTarget)
	}
	s.targets[name] = target
	s.order = append(s.order, name)

	return nil
}

// Unregister forgets name and drops its live ramp without running its
// Action.
func (s *Scheduler) Unregister(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.live, name)
	delete(s.targets, name)
	s.order = slices.DeleteFunc(s.order, func(n string) bool { return n == name })
}

// Schedule installs a ramp on target from start to end over d. Gains are
// clamped to [0, 1]. A zero d completes on the next Tick.
func (s *Scheduler) Schedule(target string, start, end float64, d time.Duration, onDone Action) (RampHandle, error) {
	if d < 0 {
		return RampHandle{}, fmt.Errorf("schedule %q over %v: %w", target, d, ErrInvalidArgument)
	}
	if math.IsInf(start, 0) || math.IsInf(end, 0) {
		return RampHandle{}, fmt.Errorf("schedule %q: infinite gain: %w", target, ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.targets[target]; !ok {
		return RampHandle{}, fmt.Errorf("schedule %q: %w", target, ErrUnknownTarget)
	}

	return s.install(&Ramp{
		Target:   target,
		Start:    utils.Clamp01(start),
		End:      utils.Clamp01(end),
		Duration: d,
		OnDone:   onDone,
	}), nil
}

// install must be called with s.mu held.
func (s *Scheduler) install(r *Ramp) RampHandle {
	s.seq++
	r.seq = s.seq
	s.live[r.Target] = r

	return RampHandle{target: r.Target, seq: r.seq}
}

// Retarget replaces the live ramp on target with one that starts at the
// current interpolated gain, ends at end and lasts for the remaining time
// of the old ramp. The Action carries over. It reports false when target
// has no live ramp.
func (s *Scheduler) Retarget(target string, end float64) (RampHandle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.live[target]
	if !ok {
		return RampHandle{}, false
	}

	return s.install(&Ramp{
		Target:   target,
		Start:    old.Value(),
		End:      utils.Clamp01(end),
		Duration: old.Remaining(),
		OnDone:   old.OnDone,
	}), true
}

// CancelAll drops the live ramps of the given targets, or of every target
// when none are given, without running their Actions. It returns how many
// ramps were dropped.
func (s *Scheduler) CancelAll(targets ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(targets) == 0 {
		n := len(s.live)
		clear(s.live)
		return n
	}

	n := 0
	for _, t := range targets {
		if _, ok := s.live[t]; ok {
			delete(s.live, t)
			n++
		}
	}

	return n
}

// Tick advances every live ramp by dt and writes the resulting gains.
// Finished ramps write their end gain, leave the live set and then have
// their Actions run, in registration order of their targets. Gain write
// failures are joined into the returned error; they do not stop the tick.
func (s *Scheduler) Tick(dt time.Duration) error {
	if dt < 0 {
		return fmt.Errorf("tick %v: %w", dt, ErrInvalidArgument)
	}

	var (
		done []Action
		errs []error
	)

	s.mu.Lock()
	for _, name := range s.order {
		r, ok := s.live[name]
		if !ok {
			continue
		}

		r.Elapsed += dt
		gain := r.Value()
		if r.Done() {
			r.Elapsed = r.Duration
			gain = r.End
			delete(s.live, name)
			if r.OnDone != nil {
				done = append(done, r.OnDone)
			}
		}

		if err := s.targets[name].SetGain(gain); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	s.mu.Unlock()

	for _, a := range done {
		a.Do()
	}

	return errors.Join(errs...)
}

// Lookup returns a copy of the live ramp on target.
func (s *Scheduler) Lookup(target string) (Ramp, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.live[target]
	if !ok {
		return Ramp{}, false
	}
	return *r, true
}

// Active reports whether target has a live ramp.
func (s *Scheduler) Active(target string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.live[target]
	return ok
}

// Live reports whether the ramp identified by h is still running.
func (s *Scheduler) Live(h RampHandle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.live[h.target]
	return ok && r.seq == h.seq
}

// Len is the number of live ramps.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.live)
}

// Targets lists the registered targets in registration order.
func (s *Scheduler) Targets() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.order)
}
