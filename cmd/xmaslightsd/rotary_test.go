package main

import (
	"sync"
	"testing"
	"time"
)

// TestEncoder_Transition_AllCodes drives every 4-bit transition code through
// the decoder and checks that exactly one code steps each way and the other
// fourteen are rejected as bounce.
func TestEncoder_Transition_AllCodes(t *testing.T) {
	now := time.Unix(1000, 0)

	for prev := 0; prev < 4; prev++ {
		for curr := 0; curr < 4; curr++ {
			e := NewEncoder()
			e.prev = uint8(prev)

			dir := e.Transition(curr&0b10 != 0, curr&0b01 != 0, now)

			code := prev<<2 | curr
			want := 0
			switch code {
			case quadCodeCW:
				want = +1
			case quadCodeCCW:
				want = -1
			}
			if dir != want {
				t.Errorf("code %04b: expected direction %d, got %d", code, want, dir)
			}
			if e.prev != uint8(curr) {
				t.Errorf("code %04b: expected prev=%02b after transition, got %02b", code, curr, e.prev)
			}
		}
	}
}

// TestEncoder_Transition_FullDetent walks the line states of one physical
// detent in each direction from the rest position.
func TestEncoder_Transition_FullDetent(t *testing.T) {
	now := time.Unix(1000, 0)

	// Clockwise: 11 -> 10 -> 01. Only the final edge is accepted.
	e := NewEncoder()
	if dir := e.Transition(true, false, now); dir != 0 {
		t.Errorf("expected intermediate CW state to be rejected, got %d", dir)
	}
	if dir := e.Transition(false, true, now); dir != +1 {
		t.Errorf("expected CW detent to step +1, got %d", dir)
	}

	// Counter-clockwise: 11 -> 00 -> 11.
	e = NewEncoder()
	if dir := e.Transition(false, false, now); dir != 0 {
		t.Errorf("expected intermediate CCW state to be rejected, got %d", dir)
	}
	if dir := e.Transition(true, true, now); dir != -1 {
		t.Errorf("expected CCW detent to step -1, got %d", dir)
	}
}

// TestEncoder_Poll_ChangeFlag tests that Poll reports a change exactly once
// per burst of nudges.
func TestEncoder_Poll_ChangeFlag(t *testing.T) {
	e := NewEncoder()
	now := time.Unix(1000, 0)

	if _, changed := e.Poll(); changed {
		t.Error("expected no change on a fresh encoder")
	}

	e.Nudge(1, now)
	e.Nudge(1, now)

	mapped, changed := e.Poll()
	if !changed {
		t.Fatal("expected change after nudges")
	}
	if mapped != scalePosition(2) {
		t.Errorf("expected mapped position %d, got %d", scalePosition(2), mapped)
	}

	// Flag is cleared by the read; position sticks.
	mapped, changed = e.Poll()
	if changed {
		t.Error("expected change flag cleared after Poll")
	}
	if mapped != scalePosition(2) {
		t.Errorf("expected position to persist, got %d", mapped)
	}
}

// TestEncoder_Poll_ZeroStepNudgeIgnored tests that a zero nudge neither moves
// the position nor raises the change flag.
func TestEncoder_Poll_ZeroStepNudgeIgnored(t *testing.T) {
	e := NewEncoder()
	e.Nudge(0, time.Unix(1000, 0))
	if _, changed := e.Poll(); changed {
		t.Error("expected zero-step nudge to be ignored")
	}
}

// TestEncoder_PositionWraps8Bit tests that the accumulated position wraps at
// the int8 boundary instead of saturating.
func TestEncoder_PositionWraps8Bit(t *testing.T) {
	e := NewEncoder()
	now := time.Unix(1000, 0)

	// 130 steps clockwise runs past 127 and wraps deep negative.
	for i := 0; i < 130; i++ {
		e.Nudge(1, now)
	}
	mapped, _ := e.Poll()
	if want := scalePosition(-126); mapped != want {
		t.Errorf("expected wrapped position %d, got %d", want, mapped)
	}

	// Far counter-clockwise wraps the other way.
	e = NewEncoder()
	for i := 0; i < 130; i++ {
		e.Nudge(-1, now)
	}
	mapped, _ = e.Poll()
	if want := scalePosition(126); mapped != want {
		t.Errorf("expected wrapped position %d, got %d", want, mapped)
	}
}

// TestScalePosition_Range tests the mapped range and its fixed points over
// every 8-bit position.
func TestScalePosition_Range(t *testing.T) {
	prev := scalePosition(-128)
	for p := -128; p <= 127; p++ {
		m := scalePosition(int8(p))
		if m < -43 || m > 42 {
			t.Fatalf("position %d mapped to %d, outside [-43, 42]", p, m)
		}
		if m < prev {
			t.Fatalf("mapping not monotonic at %d: %d after %d", p, m, prev)
		}
		prev = m
	}

	if got := scalePosition(-128); got != -43 {
		t.Errorf("expected -128 to map to -43, got %d", got)
	}
	if got := scalePosition(0); got != 0 {
		t.Errorf("expected 0 to map to 0, got %d", got)
	}
	if got := scalePosition(127); got != 42 {
		t.Errorf("expected 127 to map to 42, got %d", got)
	}
}

// TestEncoder_ResetPosition tests recentering.
func TestEncoder_ResetPosition(t *testing.T) {
	e := NewEncoder()
	now := time.Unix(1000, 0)

	e.Nudge(7, now)
	e.ResetPosition()

	mapped, _ := e.Poll()
	if mapped != 0 {
		t.Errorf("expected mapped position 0 after reset, got %d", mapped)
	}
}

// TestEncoder_Concurrent nudges from several goroutines while the consumer
// polls; the final position must equal the step sum.
func TestEncoder_Concurrent(t *testing.T) {
	e := NewEncoder()
	now := time.Unix(1000, 0)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	// Consumer polls concurrently, as the daemon loop does.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				e.Poll()
			}
		}
	}()

	var writers sync.WaitGroup
	for i := 0; i < 4; i++ {
		writers.Add(1)
		go func() {
			defer writers.Done()
			for j := 0; j < 50; j++ {
				e.Nudge(1, now)
			}
		}()
	}
	writers.Wait()
	close(stop)
	wg.Wait()

	if got := e.position.Load(); got != 200 {
		t.Errorf("expected 200 accumulated steps, got %d", got)
	}
}

// TestStepRate_PerSecond tests the spin-rate window arithmetic with fixed
// timestamps.
func TestStepRate_PerSecond(t *testing.T) {
	r := newStepRate()
	t0 := time.Unix(1000, 0)

	r.mark(t0)
	r.mark(t0.Add(100 * time.Millisecond))
	r.mark(t0.Add(200 * time.Millisecond))

	// All three marks inside the window: 3 / 1.5s = 2 Hz.
	if got := r.perSecond(t0.Add(200 * time.Millisecond)); got != 2.0 {
		t.Errorf("expected 2.0 Hz, got %f", got)
	}

	// Well past the window everything has expired.
	if got := r.perSecond(t0.Add(5 * time.Second)); got != 0.0 {
		t.Errorf("expected 0 Hz after expiry, got %f", got)
	}
}

// TestStepRate_MarkPrunesExpired tests that marking drops entries that fell
// out of the window.
func TestStepRate_MarkPrunesExpired(t *testing.T) {
	r := newStepRate()
	t0 := time.Unix(1000, 0)

	r.mark(t0)
	r.mark(t0.Add(3 * time.Second))

	if got := len(r.marks); got != 1 {
		t.Errorf("expected 1 retained mark, got %d", got)
	}
}
