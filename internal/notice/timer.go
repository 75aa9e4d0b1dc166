// Package notice implements the transient "saved" acknowledgment shown after a
// memo change.
package notice

import (
	"slices"
	"sync"
	"time"
)

// DefaultDelay is how long the notice stays visible after the last change.
const DefaultDelay = 2000 * time.Millisecond

// State is the visibility of the notice.
type State int

const (
	Hidden State = iota
	Visible
)

// String returns "hidden" or "visible".
func (s State) String() string {
	if s == Visible {
		return "visible"
	}
	return "hidden"
}

// Clock schedules delayed callbacks. stop cancels the callback and reports
// whether it was still pending.
type Clock interface {
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// SystemClock is the wall-clock implementation of Clock.
var SystemClock Clock = systemClock{}

// Timer is the Hidden/Visible state machine driven by observed memo text.
//
// Listeners receive every transition in order. They run outside the state lock
// and may call State, but must not call Observe or Close.
type Timer struct {
	clock Clock
	delay time.Duration

	emitMu sync.Mutex // serializes listener delivery in transition order

	mu        sync.Mutex
	state     State
	stop      func() bool
	gen       uint64
	closed    bool
	listeners []func(State)
}

// New returns a Hidden timer. A nil clock means SystemClock; delay <= 0 means DefaultDelay.
func New(clock Clock, delay time.Duration) *Timer {
	if clock == nil {
		clock = SystemClock
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Timer{clock: clock, delay: delay}
}

// Delay returns the configured visibility duration.
func (t *Timer) Delay() time.Duration {
	return t.delay
}

// State returns the current visibility.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Subscribe registers fn for state transitions.
func (t *Timer) Subscribe(fn func(State)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

// Observe evaluates a changed memo text. Non-empty text shows the notice and
// (re)arms the hide timer; empty text hides it at once.
func (t *Timer) Observe(text string) {
	t.emitMu.Lock()
	defer t.emitMu.Unlock()

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.cancelLocked()
	next := Hidden
	if text != "" {
		next = Visible
		gen := t.gen
		t.stop = t.clock.AfterFunc(t.delay, func() { t.expire(gen) })
	}
	changed, listeners := t.setLocked(next)
	t.mu.Unlock()

	if changed {
		emit(listeners, next)
	}
}

// Close tears the timer down: the pending hide is cancelled, the state forced
// to Hidden and later Observe calls are ignored.
func (t *Timer) Close() {
	t.emitMu.Lock()
	defer t.emitMu.Unlock()

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	t.cancelLocked()
	changed, listeners := t.setLocked(Hidden)
	t.mu.Unlock()

	if changed {
		emit(listeners, Hidden)
	}
}

func (t *Timer) expire(gen uint64) {
	t.emitMu.Lock()
	defer t.emitMu.Unlock()

	t.mu.Lock()
	if t.closed || gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.stop = nil
	changed, listeners := t.setLocked(Hidden)
	t.mu.Unlock()

	if changed {
		emit(listeners, Hidden)
	}
}

// cancelLocked stops the pending hide and invalidates its callback.
func (t *Timer) cancelLocked() {
	if t.stop != nil {
		t.stop()
		t.stop = nil
	}
	t.gen++
}

func (t *Timer) setLocked(s State) (bool, []func(State)) {
	if t.state == s {
		return false, nil
	}
	t.state = s
	return true, slices.Clone(t.listeners)
}

func emit(listeners []func(State), s State) {
	for _, fn := range listeners {
		fn(s)
	}
}
