package main

import "math"

// PotReader samples the brightness potentiometer. Read returns the raw
// 10-bit ADC count, 0..1023.
type PotReader interface {
	Read() (int, error)
	Close() error
}

// potFilter is the brightness smoothing state carried in ControllerState.
// A bare potentiometer on an ADC jitters by a few counts; the low-pass
// plus threshold keeps that noise from re-rendering the strip every
// sample.
//
// sample is pure: it returns the updated filter value so the reducer stays
// side-effect free.
type potFilter struct {
	level     float64
	applied   float64
	primed    bool
	published bool
}

// sample folds one raw reading into the filter. dt is seconds since the
// previous sample. The returned brightness is valid only when apply is
// true: on the first sample ever, then whenever the smoothed level moved
// at least cfg.Threshold counts since the last applied one.
func (f potFilter) sample(raw int, dt float64, cfg PotConfig) (next potFilter, brightness uint8, apply bool) {
	v := float64(raw)
	if !f.primed {
		f.level = v
		f.primed = true
	} else {
		tau := float64(cfg.SmoothingMs) / 1000.0
		alpha := dt / (tau + dt)
		f.level += (v - f.level) * alpha
	}
	if f.published && math.Abs(f.level-f.applied) < cfg.Threshold {
		return f, 0, false
	}
	f.applied = f.level
	f.published = true
	return f, potToBrightness(f.level), true
}

// potToBrightness maps the 10-bit ADC range onto strip brightness.
func potToBrightness(level float64) uint8 {
	if level < 0 {
		level = 0
	} else if level > 1023 {
		level = 1023
	}
	return uint8(level * 255.0 / 1023.0)
}

// fixedPot stands in when no ADC is wired; the level never moves.
type fixedPot struct {
	value int
}

func (p fixedPot) Read() (int, error) {
	return p.value, nil
}

func (p fixedPot) Close() error {
	return nil
}
