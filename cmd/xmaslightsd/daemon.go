package main

import (
	"context"
	"log/slog"
	"time"
)

// ============================================================================
// Central daemon loop
// ============================================================================
//
// Design rules enforced here:
//   - The reducer performs no I/O and computes: next state + commands +
//     broadcasts.
//   - This loop is the only place that executes side effects.
//   - Peripheral observations are turned into events and fed back into the
//     reducer.
//   - The encoder atomics are read exactly once per tick, before the tick
//     itself is reduced.
//
// Explicit queues keep execution non-reentrant: events are reduced in
// order, commands run in order, observations are reduced before the next
// command runs.
// ============================================================================

// rateInterval is the cadence of encoder spin-rate publications.
const rateInterval = time.Second

// runDaemon drives the controller until ctx is canceled or the events
// channel closes.
func runDaemon(
	ctx context.Context,
	events <-chan Event,
	p *peripherals,
	bus *Bus,
	cfg Config,
	state ControllerState,
	logger *slog.Logger,
) {
	updateInterval := time.Second / time.Duration(cfg.UpdateHz)
	ticker := time.NewTicker(updateInterval)
	defer ticker.Stop()

	// Up to two ticks worth of time may be integrated in one step.
	maxDt := 2.0 / float64(cfg.UpdateHz)

	lastTick := time.Now()
	lastRate := time.Now()

	var eventQueue []Event
	var cmdQueue []Command

	enqueueEvent := func(ev Event) {
		eventQueue = append(eventQueue, ev)
	}
	enqueueCommands := func(cmds []Command) {
		if len(cmds) == 0 {
			return
		}
		cmdQueue = append(cmdQueue, cmds...)
	}

	// Reduce all queued events, enqueuing resulting commands and fanning
	// broadcasts out on the bus.
	flushEvents := func() {
		for len(eventQueue) > 0 {
			ev := eventQueue[0]
			eventQueue = eventQueue[1:]

			if ce, ok := ev.(ConfigReloaded); ok {
				cfg = ce.Config
				logger.Info("config reloaded", "update_hz", cfg.UpdateHz, "brightness", cfg.Strip.Brightness)
			}

			rr := Reduce(state, ev, cfg)
			state = rr.State
			enqueueCommands(rr.Commands)
			for _, b := range rr.Broadcasts {
				bus.Publish(b)
			}
		}
	}

	// Execute all queued commands; observations are reduced immediately so
	// state stays coherent before the next command runs.
	flushCommands := func() {
		for len(cmdQueue) > 0 {
			cmd := cmdQueue[0]
			cmdQueue = cmdQueue[1:]

			runEffect(p, cmd, logger, func(obs Event) {
				enqueueEvent(obs)
			})

			flushEvents()
		}
	}

	// First paint: the configured brightness and the current menu page.
	enqueueCommands([]Command{
		CmdSetBrightness{Level: state.Brightness},
		CmdDrawMenu{Screen: buildScreen(state.Depth, state.Mode, state.Selected)},
	})
	flushCommands()

	for {
		select {
		case <-ctx.Done():
			logger.Info("daemon stopping (context canceled)")
			return

		case ev, ok := <-events:
			if !ok {
				logger.Info("daemon stopping (events channel closed)")
				return
			}
			enqueueEvent(ev)
			flushEvents()
			flushCommands()

		case now := <-ticker.C:
			dt := now.Sub(lastTick).Seconds()
			lastTick = now
			if dt > maxDt {
				dt = maxDt
			}

			// Poll the encoder pair exactly once per tick so a rotation
			// is applied before the tick's deadlines run.
			if mapped, changed := p.enc.Poll(); changed {
				enqueueEvent(EncoderMoved{Mapped: mapped})
			}
			enqueueEvent(Tick{Now: now, Dt: dt})

			if now.Sub(lastRate) >= rateInterval {
				lastRate = now
				hz := p.enc.RateHz(now)
				bus.Publish(BroadcastEncoderRate{Hz: hz})
				observeEncoderRate(hz)
			}

			flushEvents()
			flushCommands()
		}
	}
}
