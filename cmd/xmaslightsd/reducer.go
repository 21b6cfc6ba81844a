package main

import "time"

// ============================================================================
// Broadcasts
// ============================================================================
// Broadcasts are state-change notifications for external observers (WS
// state mirror, metrics, simulator view). They ride the in-process bus;
// Type() is the bus topic discriminator.
// ============================================================================

const (
	typeMenuChanged uint32 = iota + 1
	typeModeChanged
	typePatternChanged
	typeSongChanged
	typeColorApplied
	typeBrightnessChanged
	typeEncoderRate
)

// Broadcast is the marker interface for reducer-emitted notifications.
type Broadcast interface {
	broadcastMarker()
	Type() uint32
}

// BroadcastMenuChanged reports a navigation or selection change.
type BroadcastMenuChanged struct {
	Depth    string `json:"depth"`
	Selected int    `json:"selected"`
	Label    string `json:"label"`
}

func (BroadcastMenuChanged) broadcastMarker() {}
func (BroadcastMenuChanged) Type() uint32     { return typeMenuChanged }

// BroadcastModeChanged reports a new output mode.
type BroadcastModeChanged struct {
	Mode string `json:"mode"`
}

func (BroadcastModeChanged) broadcastMarker() {}
func (BroadcastModeChanged) Type() uint32     { return typeModeChanged }

// BroadcastPatternChanged reports a new active pattern.
type BroadcastPatternChanged struct {
	Pattern string `json:"pattern"`
}

func (BroadcastPatternChanged) broadcastMarker() {}
func (BroadcastPatternChanged) Type() uint32     { return typePatternChanged }

// BroadcastSongChanged reports melody start and stop.
type BroadcastSongChanged struct {
	Song string `json:"song"`
}

func (BroadcastSongChanged) broadcastMarker() {}
func (BroadcastSongChanged) Type() uint32     { return typeSongChanged }

// BroadcastColorApplied reports a solid color taking effect.
type BroadcastColorApplied struct {
	Color string `json:"color"`
}

func (BroadcastColorApplied) broadcastMarker() {}
func (BroadcastColorApplied) Type() uint32     { return typeColorApplied }

// BroadcastBrightnessChanged reports a pot-driven brightness change.
type BroadcastBrightnessChanged struct {
	Level uint8 `json:"level"`
}

func (BroadcastBrightnessChanged) broadcastMarker() {}
func (BroadcastBrightnessChanged) Type() uint32     { return typeBrightnessChanged }

// BroadcastEncoderRate reports the recent encoder spin rate. Published by
// the daemon loop, not the reducer, since the rate window lives with the
// encoder.
type BroadcastEncoderRate struct {
	Hz float64 `json:"hz"`
}

func (BroadcastEncoderRate) broadcastMarker() {}
func (BroadcastEncoderRate) Type() uint32     { return typeEncoderRate }

// ============================================================================
// Reducer
// ============================================================================

// ReduceResult is the full outcome of one reduction.
type ReduceResult struct {
	State      ControllerState
	Commands   []Command
	Broadcasts []Broadcast
}

// Reduce is the pure state transition of the controller. It never touches
// a peripheral and never blocks; side effects come back as Commands for
// the daemon loop to execute. Unknown events reduce to the same state.
func Reduce(state ControllerState, ev Event, cfg Config) ReduceResult {
	rr := ReduceResult{State: state}

	switch ev := ev.(type) {
	case ButtonPressed:
		reduceButton(&rr, ev)

	case EncoderMoved:
		reduceEncoder(&rr, ev)

	case RotaryNudge:
		if ev.Steps != 0 {
			rr.Commands = append(rr.Commands, CmdNudgeEncoder{Steps: ev.Steps})
		}

	case PotSampled:
		reducePot(&rr, ev, cfg)

	case Tick:
		reduceTick(&rr, ev, cfg)

	case ConfigReloaded:
		reduceConfig(&rr, ev.Config)

	case RequestStateSnapshot:
		rr.Commands = append(rr.Commands, CmdPublishSnapshot{
			Snapshot: snapshotOf(rr.State, 0),
			Reply:    ev.Reply,
		})

	default:
		// no-op
	}

	return rr
}

// reduceButton handles both gestures. A long press is the global reset and
// is checked before any menu logic, from any depth.
func reduceButton(rr *ReduceResult, ev ButtonPressed) {
	s := &rr.State

	if ev.Kind == PressLong {
		*s = ControllerState{
			Brightness: s.Brightness,
			Pot:        s.Pot,
			LastPotAt:  s.LastPotAt,
		}
		rr.Commands = append(rr.Commands,
			CmdStopTone{},
			CmdClearStrip{},
			CmdResetEncoder{},
			CmdDrawMenu{Screen: welcomeScreen},
		)
		rr.Broadcasts = append(rr.Broadcasts,
			BroadcastModeChanged{Mode: ModeOff.String()},
			BroadcastPatternChanged{Pattern: PatternNone.String()},
			BroadcastSongChanged{Song: SongNone.String()},
			menuBroadcast(*s),
		)
		return
	}

	switch s.Depth {
	case depthWelcome:
		s.Depth = depthCategory
		s.Selected = 0
		rr.Commands = append(rr.Commands,
			CmdResetEncoder{},
			CmdDrawMenu{Screen: buildScreen(s.Depth, s.Mode, s.Selected)},
		)
		rr.Broadcasts = append(rr.Broadcasts, menuBroadcast(*s))

	case depthCategory:
		s.Mode = categoryModes[wrapIndex(s.Selected, len(categoryModes))]
		s.Depth = depthItem
		s.Selected = 0
		rr.Commands = append(rr.Commands,
			CmdResetEncoder{},
			CmdDrawMenu{Screen: buildScreen(s.Depth, s.Mode, s.Selected)},
		)
		rr.Broadcasts = append(rr.Broadcasts,
			BroadcastModeChanged{Mode: s.Mode.String()},
			menuBroadcast(*s),
		)

	case depthItem:
		reduceItemPress(rr)
	}
}

// reduceItemPress applies the selected entry of an item list. The trailing
// Back entry returns to the welcome page; everything else takes effect
// without leaving the list.
func reduceItemPress(rr *ReduceResult) {
	s := &rr.State

	if isBack(s.Depth, s.Mode, s.Selected) {
		s.Depth = depthWelcome
		s.Selected = 0
		rr.Commands = append(rr.Commands,
			CmdResetEncoder{},
			CmdDrawMenu{Screen: welcomeScreen},
		)
		rr.Broadcasts = append(rr.Broadcasts, menuBroadcast(*s))
		return
	}

	switch s.Mode {
	case ModeSolid:
		s.SolidColor = solidColors[s.Selected]
		rr.Commands = append(rr.Commands, CmdFillSolid{Color: s.SolidColor})
		rr.Broadcasts = append(rr.Broadcasts, BroadcastColorApplied{Color: s.SolidColor.Hex()})

	case ModePattern:
		s.Pattern = patternByIndex[s.Selected]
		s.NextFrameAt = time.Time{} // due on the next tick
		rr.Broadcasts = append(rr.Broadcasts, BroadcastPatternChanged{Pattern: s.Pattern.String()})

	case ModeMusic:
		s.Song = songByIndex[s.Selected]
		s.Player = PlayerState{} // start from the top on the next tick
		rr.Broadcasts = append(rr.Broadcasts, BroadcastSongChanged{Song: s.Song.String()})
	}
}

// reduceEncoder applies a polled position change: abort an active song,
// then move the selection. The welcome page ignores rotation.
func reduceEncoder(rr *ReduceResult, ev EncoderMoved) {
	s := &rr.State

	if s.Mode == ModeMusic && s.Song != SongNone {
		s.Song = SongNone
		s.Player = PlayerState{}
		rr.Commands = append(rr.Commands, CmdStopTone{}, CmdClearStrip{})
		rr.Broadcasts = append(rr.Broadcasts, BroadcastSongChanged{Song: SongNone.String()})
	}

	if s.Depth == depthWelcome {
		return
	}

	sel := wrapIndex(ev.Mapped, optionCount(s.Depth, s.Mode))
	if sel == s.Selected {
		return
	}
	s.Selected = sel
	rr.Commands = append(rr.Commands, CmdDrawMenu{Screen: buildScreen(s.Depth, s.Mode, sel)})
	rr.Broadcasts = append(rr.Broadcasts, menuBroadcast(*s))
}

// reducePot folds an ADC observation into the brightness filter. Samples
// arriving after the solid item list was left are stale and dropped.
func reducePot(rr *ReduceResult, ev PotSampled, cfg Config) {
	s := &rr.State
	if s.Depth != depthItem || s.Mode != ModeSolid {
		return
	}

	dt := ev.At.Sub(s.LastPotAt).Seconds()
	if s.LastPotAt.IsZero() || dt <= 0 || dt > 1 {
		dt = float64(cfg.Pot.IntervalMs) / 1000.0
	}
	s.LastPotAt = ev.At

	pot, level, apply := s.Pot.sample(ev.Raw, dt, cfg.Pot)
	s.Pot = pot
	if !apply || level == s.Brightness {
		return
	}
	s.Brightness = level
	rr.Commands = append(rr.Commands, CmdSetBrightness{Level: level})
	rr.Broadcasts = append(rr.Broadcasts, BroadcastBrightnessChanged{Level: level})
}

// reduceTick runs every deadline: pattern frames, melody phases, pot
// sampling. Each component declares when it is next due; a tick that
// crosses the deadline emits the command and advances it.
func reduceTick(rr *ReduceResult, ev Tick, cfg Config) {
	s := &rr.State

	if s.Mode == ModePattern && s.Pattern != PatternNone && !ev.Now.Before(s.NextFrameAt) {
		rr.Commands = append(rr.Commands, CmdRenderFrame{Pattern: s.Pattern, Now: ev.Now})
		interval := frameInterval(s.Pattern, cfg.Engine)
		next := s.NextFrameAt.Add(interval)
		if next.Before(ev.Now) {
			next = ev.Now.Add(interval) // drop lost frames after a stall
		}
		s.NextFrameAt = next
	}

	if s.Mode == ModeMusic && s.Song != SongNone {
		reducePlayerTick(rr, ev.Now)
	}

	if s.Depth == depthItem && s.Mode == ModeSolid && !ev.Now.Before(s.NextPotAt) {
		rr.Commands = append(rr.Commands, CmdSamplePot{})
		s.NextPotAt = ev.Now.Add(time.Duration(cfg.Pot.IntervalMs) * time.Millisecond)
	}
}

// reducePlayerTick advances the melody state machine: note until its
// deadline, a 30% rest, then the next note, wrapping at the table end.
func reducePlayerTick(rr *ReduceResult, now time.Time) {
	s := &rr.State
	table := songTable(s.Song)
	if len(table) == 0 {
		s.Song = SongNone
		return
	}
	p := &s.Player

	switch p.Phase {
	case playIdle:
		p.Note = 0
		startNote(rr, p, table, now)

	case playNote:
		if now.Before(p.Until) {
			return
		}
		rr.Commands = append(rr.Commands, CmdStopTone{})
		p.Phase = playRest
		p.Until = now.Add(notePause(table[p.Note].duration()))

	case playRest:
		if now.Before(p.Until) {
			return
		}
		p.Note = (p.Note + 1) % len(table)
		startNote(rr, p, table, now)
	}
}

// startNote emits the note-on command and arms its deadline.
func startNote(rr *ReduceResult, p *PlayerState, table []note, now time.Time) {
	n := table[p.Note]
	rr.Commands = append(rr.Commands, CmdPlayNote{
		Song:   rr.State.Song,
		Freq:   n.freq,
		Accent: songAccents[rr.State.Song],
	})
	p.Phase = playNote
	p.Until = now.Add(n.duration())
}

// reduceConfig reapplies live-tunable settings after a hot reload. The
// startup brightness follows the file until the pot has published a level.
func reduceConfig(rr *ReduceResult, cfg Config) {
	s := &rr.State
	if !s.Pot.published {
		s.Brightness = uint8(cfg.Strip.Brightness)
	}
	rr.Commands = append(rr.Commands, CmdSetBrightness{Level: s.Brightness})
}

// menuBroadcast snapshots the navigation state for observers.
func menuBroadcast(s ControllerState) BroadcastMenuChanged {
	label := ""
	if items := optionItems(s.Depth, s.Mode); s.Selected >= 0 && s.Selected < len(items) {
		label = items[s.Selected]
	}
	return BroadcastMenuChanged{Depth: s.Depth.String(), Selected: s.Selected, Label: label}
}
