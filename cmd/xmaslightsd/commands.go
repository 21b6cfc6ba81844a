package main

import (
	"fmt"
	"time"
)

// ============================================================================
// Commands
// ============================================================================
// Commands are the side effects the reducer requests. The daemon loop
// executes them synchronously against the peripherals right after each
// reduction; observations flow back in as events.
// ============================================================================

// Command is the marker interface for reducer-requested side effects.
type Command interface {
	commandMarker()
	String() string
}

// CmdDrawMenu redraws the display with one menu page.
type CmdDrawMenu struct {
	Screen Screen
}

func (CmdDrawMenu) commandMarker() {}
func (c CmdDrawMenu) String() string {
	return fmt.Sprintf("CmdDrawMenu(header=%q selected=%d)", c.Screen.Header, c.Screen.Selected)
}

// CmdFillSolid fills the whole strip with one color and shows it.
type CmdFillSolid struct {
	Color Color
}

func (CmdFillSolid) commandMarker() {}
func (c CmdFillSolid) String() string {
	return fmt.Sprintf("CmdFillSolid(color=%s)", c.Color.Hex())
}

// CmdSetBrightness applies a new strip brightness and re-shows the frame.
type CmdSetBrightness struct {
	Level uint8
}

func (CmdSetBrightness) commandMarker() {}
func (c CmdSetBrightness) String() string {
	return fmt.Sprintf("CmdSetBrightness(level=%d)", c.Level)
}

// CmdClearStrip blanks the strip and shows it.
type CmdClearStrip struct{}

func (CmdClearStrip) commandMarker() {}
func (CmdClearStrip) String() string { return "CmdClearStrip()" }

// CmdRenderFrame renders one pattern frame for the given wall-clock time.
type CmdRenderFrame struct {
	Pattern Pattern
	Now     time.Time
}

func (CmdRenderFrame) commandMarker() {}
func (c CmdRenderFrame) String() string {
	return fmt.Sprintf("CmdRenderFrame(pattern=%s)", c.Pattern)
}

// CmdPlayNote starts a buzzer note and draws its sparkle overlay.
type CmdPlayNote struct {
	Song   Song
	Freq   int
	Accent Color
}

func (CmdPlayNote) commandMarker() {}
func (c CmdPlayNote) String() string {
	return fmt.Sprintf("CmdPlayNote(song=%s freq=%d)", c.Song, c.Freq)
}

// CmdStopTone silences the buzzer.
type CmdStopTone struct{}

func (CmdStopTone) commandMarker() {}
func (CmdStopTone) String() string { return "CmdStopTone()" }

// CmdSamplePot reads the ADC once; the reading comes back as PotSampled.
type CmdSamplePot struct{}

func (CmdSamplePot) commandMarker() {}
func (CmdSamplePot) String() string { return "CmdSamplePot()" }

// CmdResetEncoder recenters the encoder position on menu level changes.
type CmdResetEncoder struct{}

func (CmdResetEncoder) commandMarker() {}
func (CmdResetEncoder) String() string { return "CmdResetEncoder()" }

// CmdNudgeEncoder applies injected encoder steps to the position stream.
type CmdNudgeEncoder struct {
	Steps int
}

func (CmdNudgeEncoder) commandMarker() {}
func (c CmdNudgeEncoder) String() string {
	return fmt.Sprintf("CmdNudgeEncoder(steps=%d)", c.Steps)
}

// CmdPublishSnapshot delivers a state snapshot to a requester without
// blocking the loop.
type CmdPublishSnapshot struct {
	Snapshot StateSnapshot
	Reply    chan StateSnapshot
}

func (CmdPublishSnapshot) commandMarker() {}
func (CmdPublishSnapshot) String() string { return "CmdPublishSnapshot()" }
