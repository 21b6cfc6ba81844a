package main

// Linux input event types and codes (from <linux/input.h>)
const (
	EV_KEY = 0x01
	EV_REL = 0x02

	KEY_ENTER = 28
	KEY_MUTE  = 113

	// Rotary encoder relative axis codes
	REL_DIAL  = 0x07
	REL_WHEEL = 0x08
	REL_MISC  = 0x09
)

// Input event value constants
const (
	evValueRelease = 0
	evValuePress   = 1
	evValueRepeat  = 2
)

// Daemon loop defaults
const (
	defaultUpdateHz = 125 // Tick loop frequency (Hz); one tick bounds input latency

	defaultLongPressMs = 1000 // Button hold threshold for the global reset (ms)
	defaultDebounceMs  = 10   // Kernel debounce period for the button line (ms)

	// Strip defaults match a 50-pixel WS2811 string on the Pi's PWM pin.
	defaultStripPin        = 18
	defaultStripCount      = 50
	defaultStripBrightness = 128

	// Potentiometer sampling defaults (raw ADC counts, 0..1023 scale)
	defaultPotIntervalMs  = 50
	defaultPotSmoothingMs = 200
	defaultPotThreshold   = 4.0

	// Pattern frame cadences (ms per frame)
	defaultTwinkleFrameMs = 100
	defaultCometFrameMs   = 20
	defaultSmoothFrameMs  = 15
)
