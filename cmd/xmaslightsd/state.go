package main

import "time"

// PlayPhase is the melody scheduler phase.
type PlayPhase uint8

const (
	playIdle PlayPhase = iota
	playNote
	playRest
)

// PlayerState is the melody sequencer position. Phase transitions happen
// when a tick crosses Until; nothing in the player ever sleeps.
type PlayerState struct {
	Phase PlayPhase
	Note  int       // index into the song table
	Until time.Time // current phase deadline
}

// ControllerState is the complete controller state. The daemon loop owns
// the single live copy; the reducer receives it by value and returns the
// successor, so no other goroutine ever observes a partial update.
type ControllerState struct {
	Depth    MenuDepth
	Mode     Mode
	Pattern  Pattern
	Song     Song
	Selected int

	Brightness uint8
	SolidColor Color
	Pot        potFilter

	Player PlayerState

	// Deadlines, all compared against tick time.
	NextFrameAt time.Time // next effects frame
	NextPotAt   time.Time // next ADC sample
	LastPotAt   time.Time // previous ADC sample, for the filter dt
}

// initialState is the power-on state: welcome page, everything off.
func initialState(cfg Config) ControllerState {
	return ControllerState{
		Brightness: uint8(cfg.Strip.Brightness),
	}
}

// StateSnapshot is the externally visible state, the payload of the WS
// "state_init" message and of snapshot replies.
type StateSnapshot struct {
	Depth      string  `json:"depth"`
	Mode       string  `json:"mode"`
	Pattern    string  `json:"pattern"`
	Song       string  `json:"song"`
	Selected   int     `json:"selected"`
	Label      string  `json:"label"`
	Brightness uint8   `json:"brightness"`
	EncoderHz  float64 `json:"encoder_hz"`
}

// snapshotOf flattens controller state for external consumers.
func snapshotOf(s ControllerState, encoderHz float64) StateSnapshot {
	label := ""
	if items := optionItems(s.Depth, s.Mode); s.Selected >= 0 && s.Selected < len(items) {
		label = items[s.Selected]
	}
	return StateSnapshot{
		Depth:      s.Depth.String(),
		Mode:       s.Mode.String(),
		Pattern:    s.Pattern.String(),
		Song:       s.Song.String(),
		Selected:   s.Selected,
		Label:      label,
		Brightness: s.Brightness,
		EncoderHz:  encoderHz,
	}
}
