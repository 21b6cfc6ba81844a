package main

import (
	"testing"
	"time"
)

// TestUnmarshalEvent_Rotate tests decoding an injected rotation.
func TestUnmarshalEvent_Rotate(t *testing.T) {
	ev, err := UnmarshalEvent([]byte(`{"type":"rotate","data":{"steps":-2}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nudge, ok := ev.(RotaryNudge)
	if !ok {
		t.Fatalf("expected RotaryNudge, got %T", ev)
	}
	if nudge.Steps != -2 {
		t.Errorf("expected -2 steps, got %d", nudge.Steps)
	}
}

// TestUnmarshalEvent_Button tests decoding both button gestures.
func TestUnmarshalEvent_Button(t *testing.T) {
	ev, err := UnmarshalEvent([]byte(`{"type":"button","data":{"kind":"short"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b := ev.(ButtonPressed); b.Kind != PressShort {
		t.Errorf("expected short, got %s", b.Kind)
	}

	ev, err = UnmarshalEvent([]byte(`{"type":"button","data":{"kind":"long"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b := ev.(ButtonPressed); b.Kind != PressLong {
		t.Errorf("expected long, got %s", b.Kind)
	}
}

// TestUnmarshalEvent_ResetAlias tests that "reset" decodes as a long press.
func TestUnmarshalEvent_ResetAlias(t *testing.T) {
	ev, err := UnmarshalEvent([]byte(`{"type":"reset"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, ok := ev.(ButtonPressed)
	if !ok || b.Kind != PressLong {
		t.Errorf("expected a long press, got %#v", ev)
	}
}

// TestUnmarshalEvent_Rejects tests the error paths: unknown types, bad
// payloads, garbage framing.
func TestUnmarshalEvent_Rejects(t *testing.T) {
	cases := []string{
		`{"type":"teleport"}`,
		`{"type":"button","data":{"kind":"medium"}}`,
		`{"type":"rotate","data":"nope"}`,
		`not json at all`,
	}
	for _, c := range cases {
		if _, err := UnmarshalEvent([]byte(c)); err == nil {
			t.Errorf("expected an error for %s", c)
		}
	}
}

// TestMarshalEvent_RoundTrip tests that injectable events survive the wire.
func TestMarshalEvent_RoundTrip(t *testing.T) {
	for _, ev := range []Event{
		RotaryNudge{Steps: 5},
		ButtonPressed{Kind: PressShort},
		ButtonPressed{Kind: PressLong},
	} {
		data, err := MarshalEvent(ev)
		if err != nil {
			t.Fatalf("marshal %T: %v", ev, err)
		}
		back, err := UnmarshalEvent(data)
		if err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back != ev {
			t.Errorf("round trip changed %#v into %#v", ev, back)
		}
	}
}

// TestMarshalEvent_InternalEventsHaveNoWireForm tests that loop-internal
// events refuse to marshal.
func TestMarshalEvent_InternalEventsHaveNoWireForm(t *testing.T) {
	for _, ev := range []Event{
		Tick{Now: time.Unix(0, 0)},
		EncoderMoved{Mapped: 3},
		PotSampled{Raw: 512},
	} {
		if _, err := MarshalEvent(ev); err == nil {
			t.Errorf("expected %T to have no wire encoding", ev)
		}
	}
}

// TestEnvelopeType tests the metrics label names.
func TestEnvelopeType(t *testing.T) {
	if got := envelopeType(RotaryNudge{}); got != "rotate" {
		t.Errorf("expected rotate, got %s", got)
	}
	if got := envelopeType(ButtonPressed{}); got != "button" {
		t.Errorf("expected button, got %s", got)
	}
	if got := envelopeType(Tick{}); got != "unknown" {
		t.Errorf("expected unknown, got %s", got)
	}
}
