package main

import (
	"encoding/json"
	"fmt"
	"time"
)

// ============================================================================
// Events
// ============================================================================
// Events are everything the daemon loop reduces: hardware input, injected
// control (IPC socket, HTTP), observations fed back by command execution,
// and the tick that drives all scheduling.
// ============================================================================

// Event is the marker interface for everything the reducer consumes.
type Event interface {
	eventMarker()
}

// Tick drives deadline-based scheduling. Dt is the seconds since the
// previous tick, clamped by the daemon loop.
type Tick struct {
	Now time.Time
	Dt  float64
}

func (Tick) eventMarker() {}

// EncoderMoved reports that the polled encoder position changed since the
// last tick. Mapped is the scaled position (-43..42).
type EncoderMoved struct {
	Mapped int
}

func (EncoderMoved) eventMarker() {}

// RotaryNudge is an injected encoder movement (IPC, HTTP). The reducer
// turns it into a CmdNudgeEncoder so injected steps land in the same
// position stream the hardware writes.
type RotaryNudge struct {
	Steps int `json:"steps"`
}

func (RotaryNudge) eventMarker() {}

// ButtonPressed is a classified encoder button gesture.
type ButtonPressed struct {
	Kind PressKind `json:"kind"`
}

func (ButtonPressed) eventMarker() {}

// PotSampled is the observation fed back by CmdSamplePot.
type PotSampled struct {
	Raw int
	At  time.Time
}

func (PotSampled) eventMarker() {}

// ConfigReloaded carries a validated config from the file watcher.
type ConfigReloaded struct {
	Config Config
}

func (ConfigReloaded) eventMarker() {}

// RequestStateSnapshot asks the loop for a state snapshot; used by WS
// connects so reads of controller state stay inside the daemon goroutine.
// The reply is delivered non-blockingly: the requester owns a buffered
// channel.
type RequestStateSnapshot struct {
	Reply chan StateSnapshot
}

func (RequestStateSnapshot) eventMarker() {}

// ============================================================================
// Wire encoding
// ============================================================================
// The IPC socket and POST /event accept events as one JSON envelope per
// line: {"type": "...", "data": {...}}. Only injectable event types have
// wire names.
// ============================================================================

// EventEnvelope is the wire framing for injected events.
type EventEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

func (k PressKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *PressKind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "short":
		*k = PressShort
	case "long":
		*k = PressLong
	default:
		return fmt.Errorf("unknown press kind %q", s)
	}
	return nil
}

// UnmarshalEvent decodes one wire envelope into an event. "reset" is an
// alias for a long press, the global reset gesture.
func UnmarshalEvent(data []byte) (Event, error) {
	var env EventEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}

	switch env.Type {
	case "rotate":
		var e RotaryNudge
		if err := json.Unmarshal(env.Data, &e); err != nil {
			return nil, fmt.Errorf("unmarshal RotaryNudge: %w", err)
		}
		return e, nil

	case "button":
		var e ButtonPressed
		if err := json.Unmarshal(env.Data, &e); err != nil {
			return nil, fmt.Errorf("unmarshal ButtonPressed: %w", err)
		}
		return e, nil

	case "reset":
		return ButtonPressed{Kind: PressLong}, nil

	default:
		return nil, fmt.Errorf("unknown event type %q", env.Type)
	}
}

// envelopeType names an injectable event for logs and metrics labels.
func envelopeType(e Event) string {
	switch e.(type) {
	case RotaryNudge:
		return "rotate"
	case ButtonPressed:
		return "button"
	default:
		return "unknown"
	}
}

// MarshalEvent encodes an injectable event into its wire envelope.
func MarshalEvent(e Event) ([]byte, error) {
	var env EventEnvelope
	var payload any

	switch e := e.(type) {
	case RotaryNudge:
		env.Type = "rotate"
		payload = e
	case ButtonPressed:
		env.Type = "button"
		payload = e
	default:
		return nil, fmt.Errorf("event %T has no wire encoding", e)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", env.Type, err)
	}
	env.Data = data
	return json.Marshal(env)
}
