package main

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is one strip pixel in 8-bit RGB.
type Color struct {
	R, G, B uint8
}

// Packed returns the color as 0x00RRGGBB, the word format the WS281x
// driver consumes.
func (c Color) Packed() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Hex returns "#rrggbb" for logs and the state mirror.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// hueColor converts a position on the 8-bit hue wheel to a fully saturated
// color. Hue arithmetic stays in a single byte so counters wrap naturally.
func hueColor(hue uint8) Color {
	return hsvColor(float64(hue)*360.0/256.0, 1.0, 1.0)
}

// hsvColor converts HSV (hue in degrees, saturation and value in 0..1).
func hsvColor(h, s, v float64) Color {
	r, g, b := colorful.Hsv(h, s, v).RGB255()
	return Color{R: r, G: g, B: b}
}

// ledGamma compensates the non-linear brightness response of the LEDs when
// dimming computed colors.
const ledGamma = 2.2

// gammaDim scales a color to level (0..1) with per-channel gamma correction.
func gammaDim(c Color, level float64) Color {
	if level < 0 {
		level = 0
	} else if level > 1 {
		level = 1
	}
	dim := func(ch uint8) uint8 {
		v := float64(ch) / 255.0 * level
		return uint8(math.Round(255.0 * math.Pow(v, ledGamma)))
	}
	return Color{R: dim(c.R), G: dim(c.G), B: dim(c.B)}
}

// fadeColor scales a color toward black, keeping (256-amount)/256 of each
// channel. Amount 0 is a no-op, 255 is almost black in one step.
func fadeColor(c Color, amount uint8) Color {
	keep := 256 - uint32(amount)
	return Color{
		R: uint8(uint32(c.R) * keep >> 8),
		G: uint8(uint32(c.G) * keep >> 8),
		B: uint8(uint32(c.B) * keep >> 8),
	}
}

// twinklePalette is the fixed candy palette the twinkle pattern draws from.
var twinklePalette = [5]Color{
	{R: 255},
	{G: 255},
	{B: 255},
	{R: 255, G: 170},
	{R: 255, G: 255, B: 255},
}
