package main

import (
	"testing"
	"time"
)

// TestButtonClassifier_ShortPress tests that a brief hold classifies short
// on the release edge.
func TestButtonClassifier_ShortPress(t *testing.T) {
	b := newButtonClassifier(time.Second)
	t0 := time.Unix(1000, 0)

	if _, ok := b.Edge(true, t0); ok {
		t.Fatal("expected no gesture on the press edge")
	}
	kind, ok := b.Edge(false, t0.Add(200*time.Millisecond))
	if !ok {
		t.Fatal("expected a gesture on the release edge")
	}
	if kind != PressShort {
		t.Errorf("expected short press, got %s", kind)
	}
}

// TestButtonClassifier_LongPress tests the hold threshold, boundary included.
func TestButtonClassifier_LongPress(t *testing.T) {
	b := newButtonClassifier(time.Second)
	t0 := time.Unix(1000, 0)

	b.Edge(true, t0)
	kind, ok := b.Edge(false, t0.Add(time.Second))
	if !ok {
		t.Fatal("expected a gesture on the release edge")
	}
	if kind != PressLong {
		t.Errorf("expected long press at exactly the threshold, got %s", kind)
	}

	// Just under the threshold stays short.
	b.Edge(true, t0)
	kind, _ = b.Edge(false, t0.Add(999*time.Millisecond))
	if kind != PressShort {
		t.Errorf("expected short press under the threshold, got %s", kind)
	}
}

// TestButtonClassifier_SpuriousEdges tests that a release without a press and
// repeated press edges are discarded.
func TestButtonClassifier_SpuriousEdges(t *testing.T) {
	b := newButtonClassifier(time.Second)
	t0 := time.Unix(1000, 0)

	if _, ok := b.Edge(false, t0); ok {
		t.Error("expected release without press to be discarded")
	}

	// A repeated press edge must not restart the hold timer.
	b.Edge(true, t0)
	b.Edge(true, t0.Add(800*time.Millisecond))
	kind, ok := b.Edge(false, t0.Add(1100*time.Millisecond))
	if !ok {
		t.Fatal("expected a gesture on release")
	}
	if kind != PressLong {
		t.Errorf("expected hold measured from the first press edge, got %s", kind)
	}
}

// TestPressKind_String tests the gesture names used in logs and metrics.
func TestPressKind_String(t *testing.T) {
	if got := PressShort.String(); got != "short" {
		t.Errorf("expected \"short\", got %q", got)
	}
	if got := PressLong.String(); got != "long" {
		t.Errorf("expected \"long\", got %q", got)
	}
}
