package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// ============================================================================
// GPIO input backend
// ============================================================================
// Character-device GPIO lines for the rotary encoder and its push button.
// Edge handlers run on the request's event goroutine; they decode and
// classify right there and never block, so input timing stays independent
// of the daemon loop. Both encoder lines share one line request, which
// serializes their events and keeps the decoder history single-writer.
// ============================================================================

const gpioConsumer = "xmaslightsd"

type gpioInput struct {
	enc    *Encoder
	events chan<- Event
	logger *slog.Logger

	pinA, pinB int

	// Shadow line levels, event goroutine only. Pull-ups make the idle
	// level high; a stale seed corrects itself after one detent.
	a, b bool

	classifier *buttonClassifier
}

// runGPIOInput requests the encoder and button lines and services them until
// ctx is canceled.
func runGPIOInput(ctx context.Context, cfg InputConfig, enc *Encoder, events chan<- Event, logger *slog.Logger) error {
	g := &gpioInput{
		enc:        enc,
		events:     events,
		logger:     logger,
		pinA:       cfg.PinA,
		pinB:       cfg.PinB,
		classifier: newButtonClassifier(time.Duration(cfg.LongPressMs) * time.Millisecond),
	}

	quad, err := gpiocdev.RequestLines(cfg.Chip, []int{cfg.PinA, cfg.PinB},
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithBothEdges,
		gpiocdev.WithConsumer(gpioConsumer),
		gpiocdev.WithEventHandler(g.handleQuadEdge),
	)
	if err != nil {
		return fmt.Errorf("request encoder lines %d,%d on %s: %w", cfg.PinA, cfg.PinB, cfg.Chip, err)
	}
	defer quad.Close()

	vals := []int{0, 0}
	if err := quad.Values(vals); err != nil {
		return fmt.Errorf("read encoder lines: %w", err)
	}
	g.a = vals[0] != 0
	g.b = vals[1] != 0

	btnOpts := []gpiocdev.LineReqOption{
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithBothEdges,
		gpiocdev.WithConsumer(gpioConsumer),
		gpiocdev.WithEventHandler(g.handleButtonEdge),
	}
	if cfg.DebouncePeriodMs > 0 {
		btnOpts = append(btnOpts, gpiocdev.WithDebounce(time.Duration(cfg.DebouncePeriodMs)*time.Millisecond))
	}
	button, err := gpiocdev.RequestLine(cfg.Chip, cfg.PinButton, btnOpts...)
	if err != nil {
		return fmt.Errorf("request button line %d on %s: %w", cfg.PinButton, cfg.Chip, err)
	}
	defer button.Close()

	logger.Info("gpio input ready",
		"chip", cfg.Chip, "pin_a", cfg.PinA, "pin_b", cfg.PinB, "pin_button", cfg.PinButton)

	<-ctx.Done()
	logger.Debug("gpio input stopping (context canceled)")
	return nil
}

// handleQuadEdge updates the shadow level of the line that moved and feeds
// the (A, B) pair into the decoder. Accepted detents land in the encoder
// position directly; the daemon loop picks them up on its next poll.
func (g *gpioInput) handleQuadEdge(evt gpiocdev.LineEvent) {
	level := evt.Type == gpiocdev.LineEventRisingEdge
	switch evt.Offset {
	case g.pinA:
		g.a = level
	case g.pinB:
		g.b = level
	default:
		return
	}
	if step := g.enc.Transition(g.a, g.b, time.Now()); step != 0 {
		observeInput("gpio", "rotate")
	}
}

// handleButtonEdge classifies press/release pairs; only the release edge
// that completes a gesture emits an event. Pull-up wiring: falling edge
// means pressed.
func (g *gpioInput) handleButtonEdge(evt gpiocdev.LineEvent) {
	pressed := evt.Type == gpiocdev.LineEventFallingEdge
	kind, ok := g.classifier.Edge(pressed, time.Now())
	if !ok {
		return
	}
	select {
	case g.events <- ButtonPressed{Kind: kind}:
		observeInput("gpio", kind.String())
	default:
		g.logger.Warn("event queue full, dropping button press", "kind", kind.String())
	}
}
