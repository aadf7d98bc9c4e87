// Package emphasis implements the short "attention" window opened on every
// selection change. The window is a two-state machine driven by a single
// one-shot deadline; opening it again replaces the deadline rather than
// stacking a second one.
package emphasis

import "time"

// DefaultDuration is how long a selection change keeps the indicator emphasized.
const DefaultDuration = 600 * time.Millisecond

// State is the emphasis state.
type State int

const (
	Idle State = iota
	Emphasizing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Emphasizing:
		return "emphasizing"
	default:
		return "unknown"
	}
}

// Outcome describes how an emphasis window ended.
type Outcome string

const (
	OutcomeElapsed    Outcome = "elapsed"
	OutcomeSuperseded Outcome = "superseded"
	OutcomeCancelled  Outcome = "cancelled"
)

// Window tracks the emphasis state of one tab bar.
// It is not safe for concurrent use; all calls, including scheduled
// deadline callbacks, must happen on the owner's event loop.
type Window struct {
	duration time.Duration
	sched    Scheduler
	now      func() time.Time

	state    State
	deadline time.Time
	pending  Stopper
	seq      uint64
	closed   bool

	onEnd func(Outcome)
}

// Option configures a Window.
type Option func(*Window)

// WithClock overrides the time source used to stamp deadlines.
func WithClock(now func() time.Time) Option {
	return func(w *Window) { w.now = now }
}

// OnEnd registers a callback invoked whenever an open window ends.
func OnEnd(fn func(Outcome)) Option {
	return func(w *Window) { w.onEnd = fn }
}

// New returns an idle window. A non-positive duration falls back to
// DefaultDuration.
func New(sched Scheduler, duration time.Duration, opts ...Option) *Window {
	if duration <= 0 {
		duration = DefaultDuration
	}
	w := &Window{
		duration: duration,
		sched:    sched,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Open enters Emphasizing and (re)starts the deadline. A window that has
// been closed ignores Open.
func (w *Window) Open() {
	if w.closed {
		return
	}
	if w.state == Emphasizing {
		w.stopPending()
		w.ended(OutcomeSuperseded)
	}
	w.seq++
	seq := w.seq
	w.state = Emphasizing
	w.deadline = w.now().Add(w.duration)
	w.pending = w.sched.AfterFunc(w.duration, func() { w.expire(seq) })
}

// Close cancels any outstanding deadline and makes the window inert.
// It is safe to call more than once.
func (w *Window) Close() {
	if w.closed {
		return
	}
	w.closed = true
	w.stopPending()
	if w.state == Emphasizing {
		w.state = Idle
		w.ended(OutcomeCancelled)
	}
	w.deadline = time.Time{}
}

// Active reports whether the window is currently open.
func (w *Window) Active() bool {
	return w.state == Emphasizing
}

// State returns the current state.
func (w *Window) State() State {
	return w.state
}

// Deadline returns when the open window closes; zero when idle.
func (w *Window) Deadline() time.Time {
	if w.state != Emphasizing {
		return time.Time{}
	}
	return w.deadline
}

// Duration returns the configured window length.
func (w *Window) Duration() time.Duration {
	return w.duration
}

// Closed reports whether Close has been called.
func (w *Window) Closed() bool {
	return w.closed
}

func (w *Window) expire(seq uint64) {
	// A stale callback can still arrive if it was already in flight when
	// the deadline was replaced or the window was closed.
	if w.closed || seq != w.seq || w.state != Emphasizing {
		return
	}
	w.pending = nil
	w.state = Idle
	w.deadline = time.Time{}
	w.ended(OutcomeElapsed)
}

func (w *Window) stopPending() {
	if w.pending != nil {
		w.pending.Stop()
		w.pending = nil
	}
}

func (w *Window) ended(o Outcome) {
	if w.onEnd != nil {
		w.onEnd(o)
	}
}
