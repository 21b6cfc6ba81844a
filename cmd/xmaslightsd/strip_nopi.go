//go:build !pi

package main

import "log/slog"

// mockStripEngine stands in for the ws281x driver on non-Pi builds so the
// daemon runs end to end on a workstation.
type mockStripEngine struct {
	colors     []uint32
	brightness int
}

func newStripEngine(cfg StripConfig) (stripEngine, error) {
	return &mockStripEngine{
		colors:     make([]uint32, cfg.Count),
		brightness: cfg.Brightness,
	}, nil
}

func (e *mockStripEngine) Init() error {
	return nil
}

func (e *mockStripEngine) Render() error {
	slog.Debug("strip render", "leds", len(e.colors), "brightness", e.brightness)
	return nil
}

func (e *mockStripEngine) Fini() {}

func (e *mockStripEngine) Leds(_ int) []uint32 {
	return e.colors
}

func (e *mockStripEngine) SetBrightness(_ int, brightness int) {
	e.brightness = brightness
}
