package main

import (
	"math"
	"math/rand"
	"time"
)

const (
	// rainbowTick is the wall-clock period of one hue wheel step.
	rainbowTick = 15 * time.Millisecond

	// rainbowStride is the extra hue per pixel in the wave variant.
	rainbowStride = 6

	// cometLen is the bright segment length in pixels.
	cometLen = 5

	// cometFade is the per-frame fade that forms the comet trail.
	cometFade = 64

	// sparkleFade is the per-note fade under the melody sparkle overlay.
	sparkleFade = 96

	// breatheSpeed is radians per second through the breathing sine.
	breatheSpeed = 1.6

	// breatheFloor keeps the trough visibly lit.
	breatheFloor = 0.05

	breatheTroughHue = 0.0  // deep red
	breatheCrestHue  = 45.0 // gold
)

// invE is the minimum of exp(sin(x)), used to normalize the breathe pulse.
const invE = 1.0 / math.E

// Engine renders pattern frames into the strip. Owned by the daemon loop.
//
// Per-pattern runtime state (counters, phases, segment positions) lives for
// the whole process and survives pattern and mode switches: a re-entered
// pattern resumes where it left off instead of restarting.
type Engine struct {
	strip Strip
	rng   *rand.Rand
	epoch time.Time // zero point for wall-clock derived phases

	twinkleFrames int // frames since the last full clear
	cometPos      int
	cometDir      int
	cometHue      uint8
}

// NewEngine wires an engine to a strip. The epoch anchors all elapsed-time
// phases; the rng drives pixel and palette picks.
func NewEngine(strip Strip, rng *rand.Rand, epoch time.Time) *Engine {
	return &Engine{
		strip:    strip,
		rng:      rng,
		epoch:    epoch,
		cometDir: 1,
	}
}

// Render draws one frame of the pattern for the given wall-clock time and
// flushes it to the strip. Unknown patterns render nothing.
func (e *Engine) Render(p Pattern, now time.Time) error {
	switch p {
	case PatternTwinkle:
		e.twinkle()
	case PatternBreathe:
		e.breathe(now)
	case PatternComet:
		e.comet()
	case PatternRainbow:
		e.rainbow(now, 0)
	case PatternRainbowWave:
		e.rainbow(now, rainbowStride)
	default:
		return nil
	}
	return e.strip.Show()
}

// twinkle lights one random palette pixel per frame. After a strip length
// of frames the buffer is cleared once and the cycle restarts, so the strip
// gradually fills with sparks and then blinks empty.
func (e *Engine) twinkle() {
	n := e.strip.Len()
	if n == 0 {
		return
	}
	if e.twinkleFrames >= n {
		e.strip.Clear()
		e.twinkleFrames = 0
		return
	}
	e.strip.SetPixel(e.rng.Intn(n), twinklePalette[e.rng.Intn(len(twinklePalette))])
	e.twinkleFrames++
}

// breathe pulses the whole strip with exp(sin(t)), sweeping from a deep red
// trough to a golden crest. The phase is derived from elapsed time, so the
// pulse speed is independent of the frame cadence.
func (e *Engine) breathe(now time.Time) {
	t := now.Sub(e.epoch).Seconds()
	pulse := (math.Exp(math.Sin(t*breatheSpeed)) - invE) / (math.E - invE)
	hue := breatheTroughHue + (breatheCrestHue-breatheTroughHue)*pulse
	sat := 1.0 - 0.25*pulse
	level := breatheFloor + (1.0-breatheFloor)*pulse
	e.strip.Fill(gammaDim(hsvColor(hue, sat, 1.0), level))
}

// comet bounces a short bright segment end to end, advancing its hue one
// wheel step per frame. The per-frame fade leaves the trail behind it.
func (e *Engine) comet() {
	n := e.strip.Len()
	if n == 0 {
		return
	}
	e.strip.FadeAll(cometFade)
	for i := 0; i < cometLen; i++ {
		e.strip.SetPixel(e.cometPos+i, hueColor(e.cometHue))
	}
	e.cometHue++
	e.cometPos += e.cometDir
	if e.cometPos < 0 {
		e.cometPos = 0
		e.cometDir = 1
	} else if e.cometPos > n-cometLen {
		e.cometPos = n - cometLen
		e.cometDir = -1
	}
}

// rainbow paints the strip from the shared hue counter. The counter is the
// elapsed time in rainbowTicks truncated to a byte, so a given instant
// always produces the same frame no matter how often rendering runs.
// Stride 0 is a uniform fill; a non-zero stride spreads the wheel across
// the strip.
func (e *Engine) rainbow(now time.Time, stride uint8) {
	hue := uint8(now.Sub(e.epoch) / rainbowTick)
	if stride == 0 {
		e.strip.Fill(hueColor(hue))
		return
	}
	n := e.strip.Len()
	for i := 0; i < n; i++ {
		e.strip.SetPixel(i, hueColor(hue))
		hue += stride
	}
}

// Sparkle fades the strip one step and drops a single bright accent pixel,
// the per-note visual of the melody player.
func (e *Engine) Sparkle(accent Color) error {
	n := e.strip.Len()
	if n == 0 {
		return nil
	}
	e.strip.FadeAll(sparkleFade)
	e.strip.SetPixel(e.rng.Intn(n), accent)
	return e.strip.Show()
}

// frameInterval is the render cadence per pattern.
func frameInterval(p Pattern, cfg EngineConfig) time.Duration {
	switch p {
	case PatternTwinkle:
		return time.Duration(cfg.TwinkleFrameMs) * time.Millisecond
	case PatternComet:
		return time.Duration(cfg.CometFrameMs) * time.Millisecond
	case PatternBreathe, PatternRainbow, PatternRainbowWave:
		return time.Duration(cfg.SmoothFrameMs) * time.Millisecond
	}
	return 0
}
