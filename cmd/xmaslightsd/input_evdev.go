package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// ============================================================================
// evdev input backend
// ============================================================================
// Kernel input devices as the control surface: an encoder already claimed
// by a kernel driver (gpio-rotary-encoder plus gpio-keys), or a remote
// keymapped onto the same gestures. Relative axes deliver whole detents,
// so they feed the encoder position directly; key events go through the
// press classifier.
// ============================================================================

// runEvdevInput opens the configured devices and translates their events
// until ctx is canceled or a device fails.
func runEvdevInput(ctx context.Context, cfg InputConfig, enc *Encoder, events chan<- Event, logger *slog.Logger) error {
	files := make([]*os.File, 0, len(cfg.Devices))
	defer func() {
		for _, f := range files {
			_ = f.Close()
		}
	}()

	for _, dev := range cfg.Devices {
		f, err := os.Open(dev)
		if err != nil {
			return fmt.Errorf("open input device %s: %w", dev, err)
		}
		files = append(files, f)
		logger.Info("evdev device opened", "device", dev)
	}

	raw := make(chan inputEvent, 64)
	readErr := make(chan error, 1)
	go readInputEventsEpoll(files, raw, readErr)

	classifier := newButtonClassifier(time.Duration(cfg.LongPressMs) * time.Millisecond)

	for {
		select {
		case <-ctx.Done():
			// The deferred closes unblock the epoll reader.
			logger.Debug("evdev input stopping (context canceled)")
			return nil

		case err := <-readErr:
			return fmt.Errorf("input reader stopped: %w", err)

		case ev := <-raw:
			translateInputEvent(ev, enc, classifier, events, logger)
		}
	}
}

// translateInputEvent maps one raw kernel event onto the daemon's input
// model. Unknown types and codes are ignored.
func translateInputEvent(ev inputEvent, enc *Encoder, classifier *buttonClassifier, events chan<- Event, logger *slog.Logger) {
	switch ev.Type {
	case EV_REL:
		switch ev.Code {
		case REL_DIAL, REL_WHEEL, REL_MISC:
			if ev.Value != 0 {
				enc.Nudge(int(ev.Value), time.Now())
				observeInput("evdev", "rotate")
			}
		}

	case EV_KEY:
		switch ev.Code {
		case KEY_ENTER:
			// Autorepeat (evValueRepeat) is ignored; hold duration does the
			// short/long classification.
			switch ev.Value {
			case evValuePress:
				classifier.Edge(true, time.Now())
			case evValueRelease:
				if kind, ok := classifier.Edge(false, time.Now()); ok {
					select {
					case events <- ButtonPressed{Kind: kind}:
						observeInput("evdev", kind.String())
					default:
						logger.Warn("event queue full, dropping button press", "kind", kind.String())
					}
				}
			}

		case KEY_MUTE:
			// A dedicated remote key maps straight onto the reset gesture.
			if ev.Value == evValuePress {
				select {
				case events <- ButtonPressed{Kind: PressLong}:
					observeInput("evdev", "long")
				default:
					logger.Warn("event queue full, dropping reset key")
				}
			}
		}
	}
}
