package main

import (
	"fmt"
	"log/slog"
)

// Strip is the addressable LED chain as the effects engine and the command
// executor consume it. Implementations own the pixel buffer; nothing
// reaches the LEDs until Show.
type Strip interface {
	Len() int
	SetPixel(i int, c Color)
	Fill(c Color)
	FadeAll(amount uint8)
	Clear()
	SetBrightness(level uint8)
	Show() error
	Close() error
}

// stripEngine is the slice of the ws281x driver surface the strip wrapper
// consumes. Pi builds bind the real driver, every other build a logging
// stand-in (see strip_pi.go / strip_nopi.go).
type stripEngine interface {
	Init() error
	Render() error
	Fini()
	Leds(channel int) []uint32
	SetBrightness(channel int, brightness int)
}

// ledStrip drives a WS281x chain through a stripEngine. The []Color buffer
// is canonical; Show packs it into the driver's word buffer and renders.
type ledStrip struct {
	engine stripEngine
	pixels []Color
	logger *slog.Logger
}

// newStrip opens the LED strip for the current build target.
func newStrip(cfg StripConfig, logger *slog.Logger) (*ledStrip, error) {
	engine, err := newStripEngine(cfg)
	if err != nil {
		return nil, fmt.Errorf("create strip engine: %w", err)
	}
	if err := engine.Init(); err != nil {
		return nil, fmt.Errorf("init strip engine: %w", err)
	}
	s := &ledStrip{
		engine: engine,
		pixels: make([]Color, cfg.Count),
		logger: logger,
	}
	engine.SetBrightness(0, cfg.Brightness)
	return s, nil
}

func (s *ledStrip) Len() int {
	return len(s.pixels)
}

func (s *ledStrip) SetPixel(i int, c Color) {
	if i < 0 || i >= len(s.pixels) {
		return
	}
	s.pixels[i] = c
}

func (s *ledStrip) Fill(c Color) {
	for i := range s.pixels {
		s.pixels[i] = c
	}
}

func (s *ledStrip) FadeAll(amount uint8) {
	for i := range s.pixels {
		s.pixels[i] = fadeColor(s.pixels[i], amount)
	}
}

func (s *ledStrip) Clear() {
	s.Fill(Color{})
}

func (s *ledStrip) SetBrightness(level uint8) {
	s.engine.SetBrightness(0, int(level))
}

func (s *ledStrip) Show() error {
	leds := s.engine.Leds(0)
	for i := range s.pixels {
		if i >= len(leds) {
			break
		}
		leds[i] = s.pixels[i].Packed()
	}
	if err := s.engine.Render(); err != nil {
		return fmt.Errorf("render strip: %w", err)
	}
	return nil
}

func (s *ledStrip) Close() error {
	s.Clear()
	if err := s.Show(); err != nil {
		s.logger.Warn("clear strip on close", "error", err)
	}
	s.engine.Fini()
	return nil
}
