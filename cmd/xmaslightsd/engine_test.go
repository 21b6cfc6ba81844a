package main

import (
	"math/rand"
	"testing"
	"time"
)

func newTestEngine(t *testing.T, stripLen int) (*Engine, *simStrip) {
	t.Helper()
	strip := newSimStrip(stripLen, 128, newSimUpdates())
	return NewEngine(strip, rand.New(rand.NewSource(1)), time.Unix(0, 0)), strip
}

// TestEngine_Twinkle_FillsThenClears tests the spark accumulation cycle: one
// pixel per frame, a full clear after a strip length of frames.
func TestEngine_Twinkle_FillsThenClears(t *testing.T) {
	const n = 6
	e, strip := newTestEngine(t, n)
	now := time.Unix(0, 0)

	// One spark per frame for a strip length of frames.
	for i := 0; i < n; i++ {
		if err := e.Render(PatternTwinkle, now); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
	if e.twinkleFrames != n {
		t.Fatalf("expected %d counted frames, got %d", n, e.twinkleFrames)
	}
	px, _ := strip.Snapshot()
	lit := 0
	for _, c := range px {
		if c != (Color{}) {
			lit++
		}
	}
	if lit == 0 {
		t.Fatal("expected sparks on the strip")
	}

	// The next frame blinks the strip empty and restarts the cycle.
	if err := e.Render(PatternTwinkle, now); err != nil {
		t.Fatal(err)
	}
	px, _ = strip.Snapshot()
	for i, c := range px {
		if c != (Color{}) {
			t.Fatalf("pixel %d still lit after the clear frame: %+v", i, c)
		}
	}
	if e.twinkleFrames != 0 {
		t.Errorf("expected the frame counter reset, got %d", e.twinkleFrames)
	}

	// The frame after the clear lights exactly one palette pixel.
	if err := e.Render(PatternTwinkle, now); err != nil {
		t.Fatal(err)
	}
	px, _ = strip.Snapshot()
	lit = 0
	var spark Color
	for _, c := range px {
		if c != (Color{}) {
			lit++
			spark = c
		}
	}
	if lit != 1 {
		t.Fatalf("expected exactly one spark, got %d", lit)
	}
	inPalette := false
	for _, c := range twinklePalette {
		if c == spark {
			inPalette = true
		}
	}
	if !inPalette {
		t.Errorf("spark %+v not from the palette", spark)
	}
}

// TestEngine_Rainbow_FrozenClockIsIdempotent tests that the hue derives from
// elapsed time alone: re-rendering the same instant reproduces the frame.
func TestEngine_Rainbow_FrozenClockIsIdempotent(t *testing.T) {
	const n = 4
	e, strip := newTestEngine(t, n)
	now := time.Unix(0, 0).Add(37 * rainbowTick)

	if err := e.Render(PatternRainbow, now); err != nil {
		t.Fatal(err)
	}
	first, _ := strip.Snapshot()

	for i := 0; i < 5; i++ {
		if err := e.Render(PatternRainbow, now); err != nil {
			t.Fatal(err)
		}
	}
	again, _ := strip.Snapshot()

	for i := range first {
		if first[i] != again[i] {
			t.Fatalf("pixel %d drifted with a frozen clock: %+v vs %+v", i, first[i], again[i])
		}
		if want := hueColor(37); first[i] != want {
			t.Errorf("pixel %d = %+v, want %+v", i, first[i], want)
		}
	}

	// One wheel tick later the fill follows the clock.
	if err := e.Render(PatternRainbow, now.Add(rainbowTick)); err != nil {
		t.Fatal(err)
	}
	px, _ := strip.Snapshot()
	if want := hueColor(38); px[0] != want {
		t.Errorf("expected hue 38 after one tick, got %+v want %+v", px[0], want)
	}
}

// TestEngine_RainbowWave_SpreadsTheWheel tests the per-pixel stride,
// including the byte wraparound of the hue counter.
func TestEngine_RainbowWave_SpreadsTheWheel(t *testing.T) {
	const n = 10
	e, strip := newTestEngine(t, n)
	now := time.Unix(0, 0).Add(250 * rainbowTick)

	if err := e.Render(PatternRainbowWave, now); err != nil {
		t.Fatal(err)
	}
	px, _ := strip.Snapshot()

	h := uint8(250)
	for i := 0; i < n; i++ {
		if want := hueColor(h); px[i] != want {
			t.Errorf("pixel %d = %+v, want hue %d = %+v", i, px[i], h, want)
		}
		h += rainbowStride
	}
}

// TestEngine_Comet_BouncesBetweenEnds tests segment movement, the clamp at
// either end and the head color advancing one wheel step per frame.
func TestEngine_Comet_BouncesBetweenEnds(t *testing.T) {
	const n = 8
	e, strip := newTestEngine(t, n)
	now := time.Unix(0, 0)

	seen := make(map[int]bool)
	for frame := 0; frame < 32; frame++ {
		prevPos, prevHue := e.cometPos, e.cometHue
		if err := e.Render(PatternComet, now); err != nil {
			t.Fatalf("frame %d: %v", frame, err)
		}
		if e.cometPos < 0 || e.cometPos > n-cometLen {
			t.Fatalf("frame %d: position %d out of range", frame, e.cometPos)
		}

		px, _ := strip.Snapshot()
		want := hueColor(prevHue)
		for i := 0; i < cometLen; i++ {
			if px[prevPos+i] != want {
				t.Fatalf("frame %d: segment pixel %d = %+v, want %+v",
					frame, prevPos+i, px[prevPos+i], want)
			}
		}
		seen[prevPos] = true
	}

	if !seen[0] || !seen[n-cometLen] {
		t.Error("expected the segment to visit both ends")
	}
}

// TestEngine_StateSurvivesPatternSwitch tests that leaving a pattern and
// coming back resumes it instead of restarting it.
func TestEngine_StateSurvivesPatternSwitch(t *testing.T) {
	e, _ := newTestEngine(t, 20)
	now := time.Unix(0, 0)

	// Advance the comet, then render other patterns for a while.
	e.Render(PatternComet, now)
	e.Render(PatternComet, now)
	pos := e.cometPos
	if pos != 2 {
		t.Fatalf("expected comet at 2, got %d", pos)
	}
	e.Render(PatternBreathe, now)
	e.Render(PatternRainbow, now)
	if e.cometPos != pos {
		t.Errorf("comet moved while inactive: %d", e.cometPos)
	}
	e.Render(PatternComet, now)
	if e.cometPos != pos+1 {
		t.Errorf("expected comet resumed at %d, got %d", pos+1, e.cometPos)
	}

	// Same for the twinkle cycle counter.
	e.Render(PatternTwinkle, now)
	e.Render(PatternTwinkle, now)
	e.Render(PatternComet, now)
	e.Render(PatternTwinkle, now)
	if e.twinkleFrames != 3 {
		t.Errorf("expected 3 twinkle frames counted, got %d", e.twinkleFrames)
	}
}

// TestEngine_Breathe_FillsUniformly tests that the pulse paints every pixel
// the same color and is visibly lit near the crest.
func TestEngine_Breathe_FillsUniformly(t *testing.T) {
	const n = 12
	e, strip := newTestEngine(t, n)

	// 982ms after the epoch the sine sits at its crest.
	now := time.Unix(0, 0).Add(982 * time.Millisecond)
	if err := e.Render(PatternBreathe, now); err != nil {
		t.Fatal(err)
	}
	px, _ := strip.Snapshot()
	if px[0] == (Color{}) {
		t.Fatal("expected a lit strip at the crest")
	}
	for i := 1; i < n; i++ {
		if px[i] != px[0] {
			t.Fatalf("pixel %d = %+v, want uniform %+v", i, px[i], px[0])
		}
	}
}

// TestEngine_Sparkle_AccentOverFade tests the melody overlay: one fade step
// for the whole strip plus a single accent pixel.
func TestEngine_Sparkle_AccentOverFade(t *testing.T) {
	const n = 10
	e, strip := newTestEngine(t, n)

	strip.Fill(Color{R: 255, G: 255, B: 255})
	accent := Color{R: 255}
	if err := e.Sparkle(accent); err != nil {
		t.Fatal(err)
	}

	px, _ := strip.Snapshot()
	faded := fadeColor(Color{R: 255, G: 255, B: 255}, sparkleFade)
	accents := 0
	for i, c := range px {
		switch c {
		case accent:
			accents++
		case faded:
		default:
			t.Errorf("pixel %d = %+v, want accent or %+v", i, c, faded)
		}
	}
	if accents != 1 {
		t.Errorf("expected exactly one accent pixel, got %d", accents)
	}
}

// TestFrameInterval tests the per-pattern render cadence.
func TestFrameInterval(t *testing.T) {
	cfg := DefaultConfig().Engine
	cases := []struct {
		p    Pattern
		want time.Duration
	}{
		{PatternTwinkle, 100 * time.Millisecond},
		{PatternComet, 20 * time.Millisecond},
		{PatternBreathe, 15 * time.Millisecond},
		{PatternRainbow, 15 * time.Millisecond},
		{PatternRainbowWave, 15 * time.Millisecond},
		{PatternNone, 0},
	}
	for _, c := range cases {
		if got := frameInterval(c.p, cfg); got != c.want {
			t.Errorf("frameInterval(%s) = %v, want %v", c.p, got, c.want)
		}
	}
}
