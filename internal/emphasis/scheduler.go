package emphasis

import (
	"sort"
	"sync"
	"time"
)

// Stopper cancels a scheduled callback. Stop reports whether the call
// prevented the callback from running. *time.Timer satisfies it.
type Stopper interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Stopper
}

// SystemScheduler runs callbacks on the runtime timer goroutine. Use it only
// where the owner serializes access itself.
type SystemScheduler struct{}

// AfterFunc implements Scheduler.
func (SystemScheduler) AfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// LoopScheduler hands due callbacks to an event loop instead of running
// them on the timer goroutine. The loop drains Fired and runs each
// callback itself, which keeps Window single-threaded.
type LoopScheduler struct {
	fired chan func()
	done  chan struct{}
	once  sync.Once
}

// NewLoopScheduler returns a scheduler ready for use.
func NewLoopScheduler() *LoopScheduler {
	return &LoopScheduler{
		fired: make(chan func()),
		done:  make(chan struct{}),
	}
}

// AfterFunc implements Scheduler.
func (s *LoopScheduler) AfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, func() {
		select {
		case <-s.done:
			return
		default:
		}
		select {
		case s.fired <- f:
		case <-s.done:
		}
	})
}

// Fired delivers callbacks whose deadline has passed.
func (s *LoopScheduler) Fired() <-chan func() {
	return s.fired
}

// Done is closed by Close.
func (s *LoopScheduler) Done() <-chan struct{} {
	return s.done
}

// Close stops delivery. Timers that fire afterwards are dropped.
func (s *LoopScheduler) Close() {
	s.once.Do(func() { close(s.done) })
}

// ManualScheduler is a Scheduler driven by an explicit clock, for tests and
// deterministic replays. Callbacks run synchronously inside Advance.
type ManualScheduler struct {
	now    time.Time
	timers []*manualTimer
}

type manualTimer struct {
	at      time.Time
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// NewManualScheduler returns a scheduler whose clock starts at start.
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

// Now returns the scheduler's clock; pass it to WithClock.
func (s *ManualScheduler) Now() time.Time {
	return s.now
}

// AfterFunc implements Scheduler.
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Stopper {
	t := &manualTimer{at: s.now.Add(d), seq: len(s.timers), fn: f}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward and runs every callback that became due,
// in deadline order.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.now = s.now.Add(d)
	due := make([]*manualTimer, 0, len(s.timers))
	for _, t := range s.timers {
		if !t.stopped && !t.fired && !t.at.After(s.now) {
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at.Equal(due[j].at) {
			return due[i].seq < due[j].seq
		}
		return due[i].at.Before(due[j].at)
	})
	for _, t := range due {
		if t.stopped {
			continue
		}
		t.fired = true
		t.fn()
	}
}

// Pending returns how many callbacks are scheduled and not yet run or stopped.
func (s *ManualScheduler) Pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}
