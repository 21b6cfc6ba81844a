package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level YAML configuration for the xmaslightsd daemon.
//
// This is intentionally user-facing and stable-ish. Keep defaults and validation
// centralized so the rest of the code can assume a well-formed config.
//
// Design goals:
// - Make config file the primary configuration surface.
// - Keep flags for small overrides and for environments where a file is awkward.
// - Keep peripherals optional where the hardware can genuinely be absent.
type Config struct {
	// Daemon tick loop frequency (Hz)
	UpdateHz int `yaml:"update_hz"`

	// Rotary encoder and button input configuration
	Input InputConfig `yaml:"input"`

	// LED strip configuration
	Strip StripConfig `yaml:"strip"`

	// OLED display configuration
	Display DisplayConfig `yaml:"display"`

	// Potentiometer (brightness knob) configuration
	Pot PotConfig `yaml:"pot"`

	// Buzzer PWM configuration
	Tone ToneConfig `yaml:"tone"`

	// Pattern engine cadences
	Engine EngineConfig `yaml:"engine"`

	// IPC configuration (event injection over a Unix socket)
	IPC IPCConfig `yaml:"ipc"`

	// HTTP server configuration (state mirror, metrics)
	HTTP HTTPConfig `yaml:"http"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

type InputConfig struct {
	// Backend selects where rotation and presses come from:
	// "gpio" (character device lines), "evdev" (input devices), or "none"
	// (IPC/HTTP injection only).
	Backend string `yaml:"backend"`

	// gpio backend
	Chip             string `yaml:"chip,omitempty"`
	PinA             int    `yaml:"pin_a,omitempty"`
	PinB             int    `yaml:"pin_b,omitempty"`
	PinButton        int    `yaml:"pin_button,omitempty"`
	DebouncePeriodMs int    `yaml:"debounce_period_ms,omitempty"` // button line only; quadrature decode rejects its own noise

	// evdev backend
	Devices []string `yaml:"devices,omitempty"` // list of input devices to monitor

	// Hold threshold separating a short press from the long-press reset.
	LongPressMs int `yaml:"long_press_ms"`
}

type StripConfig struct {
	GpioPin    int `yaml:"gpio_pin"`
	Count      int `yaml:"count"`
	Brightness int `yaml:"brightness"` // 0..255 startup scale; the pot overrides it live
}

type DisplayConfig struct {
	Enabled bool   `yaml:"enabled"`
	Bus     string `yaml:"bus,omitempty"` // empty selects the first available I2C bus
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Rotated bool   `yaml:"rotated,omitempty"`
}

type PotConfig struct {
	// Path of the raw ADC channel, e.g.
	// /sys/bus/iio/devices/iio:device0/in_voltage0_raw. Empty means no
	// potentiometer is fitted; brightness stays at the configured value.
	Path        string  `yaml:"path,omitempty"`
	IntervalMs  int     `yaml:"interval_ms"`
	SmoothingMs int     `yaml:"smoothing_ms"`
	Threshold   float64 `yaml:"threshold"` // raw counts of change required to re-apply
}

type ToneConfig struct {
	Enabled bool `yaml:"enabled"`
	Chip    int  `yaml:"chip"`
	Channel int  `yaml:"channel"`
}

type EngineConfig struct {
	TwinkleFrameMs int `yaml:"twinkle_frame_ms"`
	CometFrameMs   int `yaml:"comet_frame_ms"`
	SmoothFrameMs  int `yaml:"smooth_frame_ms"` // breathe and both rainbows
}

type IPCConfig struct {
	SocketPath string `yaml:"socket_path"`
}

type HTTPConfig struct {
	// Port 0 disables the HTTP server entirely.
	Port int `yaml:"port"`
}

type LoggingConfig struct {
	Level   string `yaml:"level"`
	Journal bool   `yaml:"journal,omitempty"` // route records to the systemd journal
}

// DefaultConfig returns a fully-populated Config with defaults.
// Keep this aligned with constants.go defaults and current CLI defaults.
func DefaultConfig() Config {
	return Config{
		UpdateHz: defaultUpdateHz,
		Input: InputConfig{
			Backend:          "gpio",
			Chip:             "gpiochip0",
			PinA:             17,
			PinB:             27,
			PinButton:        22,
			DebouncePeriodMs: defaultDebounceMs,
			LongPressMs:      defaultLongPressMs,
		},
		Strip: StripConfig{
			GpioPin:    defaultStripPin,
			Count:      defaultStripCount,
			Brightness: defaultStripBrightness,
		},
		Display: DisplayConfig{
			Enabled: true,
			Width:   128,
			Height:  64,
		},
		Pot: PotConfig{
			IntervalMs:  defaultPotIntervalMs,
			SmoothingMs: defaultPotSmoothingMs,
			Threshold:   defaultPotThreshold,
		},
		Tone: ToneConfig{
			Enabled: true,
			Chip:    0,
			Channel: 1,
		},
		Engine: EngineConfig{
			TwinkleFrameMs: defaultTwinkleFrameMs,
			CometFrameMs:   defaultCometFrameMs,
			SmoothFrameMs:  defaultSmoothFrameMs,
		},
		IPC: IPCConfig{
			SocketPath: "/tmp/xmaslightsd.sock",
		},
		HTTP: HTTPConfig{
			Port: 8080,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfigFile reads and parses a YAML config file.
//
// Notes:
//   - The file must be valid YAML.
//   - Unknown fields are rejected (helps catch typos) via KnownFields(true).
//   - Relative paths inside the config (like pot.path) are not rewritten here;
//     handle that in validation or in the call site as needed.
func LoadConfigFile(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}
	b, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}

	// Ensure there's no trailing garbage (only whitespace/comments are allowed after the document).
	if err := dec.Decode(&struct{}{}); err == nil {
		return Config{}, fmt.Errorf("decode config yaml: unexpected trailing document")
	}

	return cfg, nil
}

// FlagOverrides applies overrides from flags on top of a loaded config.
//
// This is designed so you can keep a config file as the primary configuration
// source, but still do ad-hoc overrides for debugging/systemd overrides.
//
// Flags should pass pointers; each override is only applied if the flag was
// actually set. main.go decides which flags exist.
type FlagOverrides struct {
	UpdateHz *int

	InputBackend *string
	InputDevice  *string

	StripGpioPin    *int
	StripCount      *int
	StripBrightness *int

	DisplayEnabled *bool
	DisplayBus     *string

	PotPath *string

	ToneEnabled *bool

	IPCSocketPath *string
	HTTPPort      *int

	LogLevel   *string
	LogJournal *bool
}

// Apply merges the overrides into cfg. If an override pointer is nil, it is
// ignored. If the pointer is non-nil, the value is applied (even if it is a
// zero value).
func (o FlagOverrides) Apply(cfg *Config) {
	if cfg == nil {
		return
	}
	if o.UpdateHz != nil {
		cfg.UpdateHz = *o.UpdateHz
	}

	if o.InputBackend != nil {
		cfg.Input.Backend = *o.InputBackend
	}
	if o.InputDevice != nil {
		cfg.Input.Devices = []string{*o.InputDevice}
	}

	if o.StripGpioPin != nil {
		cfg.Strip.GpioPin = *o.StripGpioPin
	}
	if o.StripCount != nil {
		cfg.Strip.Count = *o.StripCount
	}
	if o.StripBrightness != nil {
		cfg.Strip.Brightness = *o.StripBrightness
	}

	if o.DisplayEnabled != nil {
		cfg.Display.Enabled = *o.DisplayEnabled
	}
	if o.DisplayBus != nil {
		cfg.Display.Bus = *o.DisplayBus
	}

	if o.PotPath != nil {
		cfg.Pot.Path = *o.PotPath
	}

	if o.ToneEnabled != nil {
		cfg.Tone.Enabled = *o.ToneEnabled
	}

	if o.IPCSocketPath != nil {
		cfg.IPC.SocketPath = *o.IPCSocketPath
	}
	if o.HTTPPort != nil {
		cfg.HTTP.Port = *o.HTTPPort
	}

	if o.LogLevel != nil {
		cfg.Logging.Level = *o.LogLevel
	}
	if o.LogJournal != nil {
		cfg.Logging.Journal = *o.LogJournal
	}
}

// Validate checks config invariants and returns a user-friendly error.
// This is intended to be called after defaults + file + overrides are applied.
func (c *Config) Validate() error {
	if c.UpdateHz <= 0 || c.UpdateHz > 1000 {
		return errors.New("update_hz must be between 1 and 1000")
	}

	// Input
	switch c.Input.Backend {
	case "gpio":
		if c.Input.Chip == "" {
			return errors.New("input.chip must not be empty for the gpio backend")
		}
		if c.Input.PinA < 0 || c.Input.PinB < 0 || c.Input.PinButton < 0 {
			return errors.New("input pins must be >= 0")
		}
		if c.Input.PinA == c.Input.PinB || c.Input.PinA == c.Input.PinButton || c.Input.PinB == c.Input.PinButton {
			return errors.New("input pins must be distinct")
		}
		if c.Input.DebouncePeriodMs < 0 {
			return errors.New("input.debounce_period_ms must be >= 0")
		}
	case "evdev":
		if len(c.Input.Devices) == 0 {
			return errors.New("input.devices must not be empty for the evdev backend")
		}
		for i, dev := range c.Input.Devices {
			if dev == "" {
				return fmt.Errorf("input.devices[%d] is empty", i)
			}
		}
	case "none":
	default:
		return fmt.Errorf("input.backend must be %q, %q or %q", "gpio", "evdev", "none")
	}
	if c.Input.LongPressMs <= 0 {
		return errors.New("input.long_press_ms must be > 0")
	}

	// Strip
	if c.Strip.GpioPin <= 0 {
		return errors.New("strip.gpio_pin must be > 0")
	}
	if c.Strip.Count <= 0 {
		return errors.New("strip.count must be > 0")
	}
	if c.Strip.Brightness < 0 || c.Strip.Brightness > 255 {
		return errors.New("strip.brightness must be between 0 and 255")
	}

	// Display
	if c.Display.Enabled {
		if c.Display.Width <= 0 || c.Display.Height <= 0 {
			return errors.New("display.width and display.height must be > 0")
		}
	}

	// Pot
	if c.Pot.IntervalMs <= 0 {
		return errors.New("pot.interval_ms must be > 0")
	}
	if c.Pot.SmoothingMs < 0 {
		return errors.New("pot.smoothing_ms must be >= 0")
	}
	if c.Pot.Threshold < 0 {
		return errors.New("pot.threshold must be >= 0")
	}

	// Tone
	if c.Tone.Enabled {
		if c.Tone.Chip < 0 || c.Tone.Channel < 0 {
			return errors.New("tone.chip and tone.channel must be >= 0")
		}
	}

	// Engine
	if c.Engine.TwinkleFrameMs <= 0 || c.Engine.CometFrameMs <= 0 || c.Engine.SmoothFrameMs <= 0 {
		return errors.New("engine frame cadences must be > 0")
	}

	// IPC
	if c.IPC.SocketPath == "" {
		return errors.New("ipc.socket_path must not be empty")
	}

	// HTTP
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return errors.New("http.port must be between 0 and 65535")
	}

	// Logging
	if c.Logging.Level == "" {
		return errors.New("logging.level must not be empty")
	}

	return nil
}

// ExpandPath expands a leading "~" in a path using $HOME.
// This is handy for config values like pot.path or ipc.socket_path.
func ExpandPath(p string) string {
	if p == "" {
		return p
	}
	if p[0] != '~' {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	if len(p) >= 2 && (p[1] == '/' || p[1] == '\\') {
		return filepath.Join(home, p[2:])
	}
	return p
}
