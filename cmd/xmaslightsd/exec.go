package main

import (
	"log/slog"
	"time"
)

// peripherals bundles the device collaborators the command executor drives.
// All of them are owned by the daemon loop; input backends only ever touch
// the encoder through its atomics.
type peripherals struct {
	strip   Strip
	display Display
	tone    Tone
	pot     PotReader
	enc     *Encoder
	engine  *Engine
}

// runEffect executes a single reducer-emitted command against the
// peripherals and feeds observations back through onEvent.
//
// Peripheral failures are logged and swallowed: a flaky I2C write or a
// missing ADC must never take the controller down. It must never call
// Reduce; the daemon loop owns sequencing.
func runEffect(p *peripherals, cmd Command, logger *slog.Logger, onEvent func(Event)) {
	switch c := cmd.(type) {
	case CmdDrawMenu:
		if err := drawScreen(p.display, c.Screen); err != nil {
			logger.Error("menu draw failed", "error", err, "header", c.Screen.Header)
		}

	case CmdFillSolid:
		p.strip.Fill(c.Color)
		if err := p.strip.Show(); err != nil {
			logger.Error("strip show failed", "error", err, "command", c.String())
		}

	case CmdSetBrightness:
		p.strip.SetBrightness(c.Level)
		if err := p.strip.Show(); err != nil {
			logger.Error("strip show failed", "error", err, "command", c.String())
		}
		observeBrightness(c.Level)

	case CmdClearStrip:
		p.strip.Clear()
		if err := p.strip.Show(); err != nil {
			logger.Error("strip show failed", "error", err, "command", c.String())
		}

	case CmdRenderFrame:
		if err := p.engine.Render(c.Pattern, c.Now); err != nil {
			logger.Error("frame render failed", "error", err, "pattern", c.Pattern.String())
			return
		}
		observeFrame(c.Pattern)

	case CmdPlayNote:
		if err := p.tone.Play(c.Freq); err != nil {
			logger.Error("tone start failed", "error", err, "freq", c.Freq)
		}
		if err := p.engine.Sparkle(c.Accent); err != nil {
			logger.Error("sparkle draw failed", "error", err)
		}
		observeNote(c.Song)

	case CmdStopTone:
		if err := p.tone.Stop(); err != nil {
			logger.Error("tone stop failed", "error", err)
		}

	case CmdSamplePot:
		raw, err := p.pot.Read()
		if err != nil {
			logger.Warn("pot read failed", "error", err)
			return
		}
		if onEvent != nil {
			onEvent(PotSampled{Raw: raw, At: time.Now()})
		}

	case CmdResetEncoder:
		p.enc.ResetPosition()

	case CmdNudgeEncoder:
		p.enc.Nudge(c.Steps, time.Now())

	case CmdPublishSnapshot:
		snap := c.Snapshot
		snap.EncoderHz = p.enc.RateHz(time.Now())
		// Non-blocking: the requester owns a buffered reply channel and may
		// already be gone.
		select {
		case c.Reply <- snap:
		default:
		}

	default:
		logger.Warn("unknown command", "command", cmd.String())
	}
}
