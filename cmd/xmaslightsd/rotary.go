package main

import (
	"sync"
	"sync/atomic"
	"time"
)

// Quadrature transition codes. The previous 2-bit (A,B) line state shifted
// left by two, ORed with the current state, gives a 4-bit code; exactly one
// code per direction corresponds to a full detent on this encoder. Every
// other code is contact bounce or a half-step and is discarded.
const (
	quadCodeCW  = 0b1001
	quadCodeCCW = 0b0011
)

// Encoder turns raw quadrature line states into a position that the daemon
// loop consumes.
//
// position and changed are the only state shared between the input goroutine
// and the daemon loop. Each is a single machine word: the input goroutine
// writes (position.Add, changed.Store), the daemon loop reads and clears
// (Poll). Torn reads are impossible and no lock is ever held.
//
// The accumulated position is truncated to 8 bits signed on read, so it
// wraps at -128/127 instead of saturating.
type Encoder struct {
	position atomic.Int32
	changed  atomic.Bool

	prev uint8 // last 2-bit line state, input goroutine only

	rate *stepRate
}

// NewEncoder creates an encoder with an idle line state (both lines high,
// the detent rest position).
func NewEncoder() *Encoder {
	return &Encoder{
		prev: 0b11,
		rate: newStepRate(),
	}
}

// Transition feeds one sampled (A, B) line state into the decoder and
// returns the accepted step direction: +1 clockwise, -1 counter-clockwise,
// 0 when the transition is bounce or an intermediate state.
//
// Called from the input goroutine only. Must not block.
func (e *Encoder) Transition(a, b bool, now time.Time) int {
	curr := uint8(0)
	if a {
		curr |= 0b10
	}
	if b {
		curr |= 0b01
	}
	code := e.prev<<2 | curr
	e.prev = curr

	switch code {
	case quadCodeCW:
		e.Nudge(+1, now)
		return +1
	case quadCodeCCW:
		e.Nudge(-1, now)
		return -1
	}
	return 0
}

// Nudge applies already-decoded steps, bypassing the quadrature table. Input
// backends that deliver whole detents (evdev relative axes, injected events)
// use this directly.
func (e *Encoder) Nudge(steps int, now time.Time) {
	if steps == 0 {
		return
	}
	e.position.Add(int32(steps))
	e.changed.Store(true)
	e.rate.mark(now)
}

// Poll returns the scaled position and whether it changed since the last
// call, clearing the change flag. Daemon loop only.
func (e *Encoder) Poll() (int, bool) {
	chg := e.changed.Swap(false)
	return scalePosition(int8(e.position.Load())), chg
}

// ResetPosition recenters the encoder. Called by the daemon loop when the
// menu enters a new level; the change flag is left alone because the state
// machine redraws on its own during those transitions.
func (e *Encoder) ResetPosition() {
	e.position.Store(0)
}

// RateHz reports recent detents per second for the state mirror and metrics.
func (e *Encoder) RateHz(now time.Time) float64 {
	return e.rate.perSecond(now)
}

// scalePosition maps the 8-bit wrapped position onto the menu range
// -43..42. Three detents move the scaled value by one.
func scalePosition(p int8) int {
	return (int(p)+128)*86/256 - 43
}

// ============================================================================
// Step rate window
// ============================================================================

// rateWindow is how far back steps count toward the spin rate.
const rateWindow = 1500 * time.Millisecond

// stepRate tracks recent encoder step timestamps for spin-rate reporting.
//
// Thread-safe: the input goroutine marks steps while the daemon loop reads
// the rate.
type stepRate struct {
	mu    sync.Mutex
	marks []time.Time
}

func newStepRate() *stepRate {
	return &stepRate{
		marks: make([]time.Time, 0, 16), // pre-allocate small capacity
	}
}

// mark records one step and drops marks that fell out of the window.
func (r *stepRate) mark(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := now.Add(-rateWindow)
	filtered := r.marks[:0] // reuse underlying array
	for _, t := range r.marks {
		if t.After(cutoff) {
			filtered = append(filtered, t)
		}
	}
	r.marks = append(filtered, now)
}

// perSecond returns the step rate over the window ending at now.
func (r *stepRate) perSecond(now time.Time) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := now.Add(-rateWindow)
	n := 0
	for _, t := range r.marks {
		if t.After(cutoff) {
			n++
		}
	}
	return float64(n) / rateWindow.Seconds()
}
