package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// TestDefaultConfig_IsValid tests that the shipped defaults pass validation.
func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

// TestLoadConfigFile_PartialFileKeepsDefaults tests the defaults-first merge:
// a file mentioning two sections leaves everything else at defaults.
func TestLoadConfigFile_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfigFile(t, `
strip:
  count: 100
logging:
  level: debug
`)

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Strip.Count != 100 {
		t.Errorf("expected strip.count 100, got %d", cfg.Strip.Count)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected logging.level debug, got %q", cfg.Logging.Level)
	}

	// Untouched sections stay at defaults.
	if cfg.Strip.GpioPin != defaultStripPin {
		t.Errorf("expected default strip.gpio_pin, got %d", cfg.Strip.GpioPin)
	}
	if cfg.UpdateHz != defaultUpdateHz {
		t.Errorf("expected default update_hz, got %d", cfg.UpdateHz)
	}
	if cfg.Pot.IntervalMs != defaultPotIntervalMs {
		t.Errorf("expected default pot.interval_ms, got %d", cfg.Pot.IntervalMs)
	}
}

// TestLoadConfigFile_RejectsUnknownFields tests the typo guard.
func TestLoadConfigFile_RejectsUnknownFields(t *testing.T) {
	path := writeConfigFile(t, `
strip:
  cuont: 100
`)
	if _, err := LoadConfigFile(path); err == nil {
		t.Fatal("expected an unknown-field error")
	}
}

// TestLoadConfigFile_RejectsTrailingDocument tests that a second YAML
// document is refused.
func TestLoadConfigFile_RejectsTrailingDocument(t *testing.T) {
	path := writeConfigFile(t, "update_hz: 60\n---\n{}\n")
	if _, err := LoadConfigFile(path); err == nil {
		t.Fatal("expected a trailing-document error")
	}
}

// TestLoadConfigFile_MissingFile tests the read error path.
func TestLoadConfigFile_MissingFile(t *testing.T) {
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if _, err := LoadConfigFile(""); err == nil {
		t.Fatal("expected an error for an empty path")
	}
}

// TestFlagOverrides_Apply tests that only set flags override and that the
// single-device shorthand lands in the device list.
func TestFlagOverrides_Apply(t *testing.T) {
	cfg := DefaultConfig()

	hz := 250
	device := "/dev/input/event3"
	ov := FlagOverrides{
		UpdateHz:    &hz,
		InputDevice: &device,
	}
	ov.Apply(&cfg)

	if cfg.UpdateHz != 250 {
		t.Errorf("expected update_hz 250, got %d", cfg.UpdateHz)
	}
	if len(cfg.Input.Devices) != 1 || cfg.Input.Devices[0] != device {
		t.Errorf("expected devices [%s], got %v", device, cfg.Input.Devices)
	}

	// Nil overrides leave the config alone.
	if cfg.Strip.Count != defaultStripCount {
		t.Errorf("expected strip.count untouched, got %d", cfg.Strip.Count)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected logging.level untouched, got %q", cfg.Logging.Level)
	}
}

// TestValidate_Rejections tests the invariant checks one violation at a time.
func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero update_hz", func(c *Config) { c.UpdateHz = 0 }},
		{"excessive update_hz", func(c *Config) { c.UpdateHz = 2000 }},
		{"unknown backend", func(c *Config) { c.Input.Backend = "midi" }},
		{"gpio without chip", func(c *Config) { c.Input.Chip = "" }},
		{"colliding pins", func(c *Config) { c.Input.PinB = c.Input.PinA }},
		{"negative debounce", func(c *Config) { c.Input.DebouncePeriodMs = -1 }},
		{"evdev without devices", func(c *Config) { c.Input.Backend = "evdev"; c.Input.Devices = nil }},
		{"empty device entry", func(c *Config) { c.Input.Backend = "evdev"; c.Input.Devices = []string{""} }},
		{"zero long press", func(c *Config) { c.Input.LongPressMs = 0 }},
		{"zero strip pin", func(c *Config) { c.Strip.GpioPin = 0 }},
		{"zero strip count", func(c *Config) { c.Strip.Count = 0 }},
		{"brightness out of range", func(c *Config) { c.Strip.Brightness = 300 }},
		{"zero display size", func(c *Config) { c.Display.Width = 0 }},
		{"zero pot interval", func(c *Config) { c.Pot.IntervalMs = 0 }},
		{"negative pot smoothing", func(c *Config) { c.Pot.SmoothingMs = -1 }},
		{"negative tone chip", func(c *Config) { c.Tone.Chip = -1 }},
		{"zero frame cadence", func(c *Config) { c.Engine.TwinkleFrameMs = 0 }},
		{"empty socket path", func(c *Config) { c.IPC.SocketPath = "" }},
		{"port out of range", func(c *Config) { c.HTTP.Port = 70000 }},
		{"empty log level", func(c *Config) { c.Logging.Level = "" }},
	}

	for _, c := range cases {
		cfg := DefaultConfig()
		c.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected a validation error", c.name)
		}
	}
}

// TestValidate_NoneBackendNeedsNoPins tests that the injection-only backend
// skips the hardware checks.
func TestValidate_NoneBackendNeedsNoPins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Input.Backend = "none"
	cfg.Input.Chip = ""
	cfg.Input.PinA = 0
	cfg.Input.PinB = 0
	cfg.Input.PinButton = 0

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected the none backend to validate, got %v", err)
	}
}

// TestExpandPath tests tilde expansion against $HOME.
func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/elf")

	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/etc/xmaslightsd.yml", "/etc/xmaslightsd.yml"},
		{"~", "/home/elf"},
		{"~/config.yml", "/home/elf/config.yml"},
		{"~elf/config.yml", "~elf/config.yml"},
	}
	for _, c := range cases {
		if got := ExpandPath(c.in); got != c.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
