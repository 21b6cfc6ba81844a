package main

import "time"

// PressKind distinguishes the two encoder button gestures.
type PressKind uint8

const (
	PressShort PressKind = iota
	PressLong
)

func (k PressKind) String() string {
	if k == PressLong {
		return "long"
	}
	return "short"
}

// buttonClassifier turns press/release line edges into ShortPress/LongPress
// gestures. Classification happens on release: a hold of longPress or more
// is long, anything shorter is short.
//
// Owned by a single input goroutine, no locking.
type buttonClassifier struct {
	longPress time.Duration
	pressedAt time.Time
	down      bool
}

func newButtonClassifier(longPress time.Duration) *buttonClassifier {
	return &buttonClassifier{longPress: longPress}
}

// Edge consumes one debounced edge. pressed=true is the button going down.
// Returns (kind, true) on the release edge that completes a gesture.
// Spurious edges (release without press, repeated press) are discarded.
func (b *buttonClassifier) Edge(pressed bool, now time.Time) (PressKind, bool) {
	if pressed {
		if !b.down {
			b.down = true
			b.pressedAt = now
		}
		return 0, false
	}
	if !b.down {
		return 0, false
	}
	b.down = false
	if now.Sub(b.pressedAt) >= b.longPress {
		return PressLong, true
	}
	return PressShort, true
}
