//go:build pi

package main

import (
	ws2811 "github.com/rpi-ws281x/rpi-ws281x-go"
)

// newStripEngine binds the hardware PWM/DMA ws281x driver. Needs root and
// an idle PWM channel on the configured pin.
func newStripEngine(cfg StripConfig) (stripEngine, error) {
	opt := ws2811.DefaultOptions
	opt.Channels[0].GpioPin = cfg.GpioPin
	opt.Channels[0].LedCount = cfg.Count
	opt.Channels[0].Brightness = cfg.Brightness
	return ws2811.MakeWS2811(&opt)
}
