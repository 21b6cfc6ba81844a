package main

import "testing"

// TestRuntimeMerge tests the hot-reload split: tunables follow the fresh
// file, hardware topology and endpoints stay with the running config.
func TestRuntimeMerge(t *testing.T) {
	running := DefaultConfig()

	fresh := DefaultConfig()
	fresh.Strip.Brightness = 40
	fresh.Engine.TwinkleFrameMs = 250
	fresh.Pot.IntervalMs = 100
	fresh.Pot.SmoothingMs = 500
	fresh.Pot.Threshold = 8
	fresh.Logging.Level = "debug"
	// Topology edits that must not take effect live.
	fresh.UpdateHz = 30
	fresh.Input.PinA = 5
	fresh.Strip.GpioPin = 12
	fresh.Strip.Count = 300
	fresh.Pot.Path = "/sys/bus/iio/devices/iio:device1/in_voltage3_raw"
	fresh.IPC.SocketPath = "/tmp/other.sock"
	fresh.HTTP.Port = 9999

	merged := runtimeMerge(running, fresh)

	// Tunables taken from the fresh config.
	if merged.Strip.Brightness != 40 {
		t.Errorf("expected fresh brightness, got %d", merged.Strip.Brightness)
	}
	if merged.Engine.TwinkleFrameMs != 250 {
		t.Errorf("expected fresh twinkle cadence, got %d", merged.Engine.TwinkleFrameMs)
	}
	if merged.Pot.IntervalMs != 100 || merged.Pot.SmoothingMs != 500 || merged.Pot.Threshold != 8 {
		t.Errorf("expected fresh pot tuning, got %+v", merged.Pot)
	}
	if merged.Logging.Level != "debug" {
		t.Errorf("expected fresh log level, got %q", merged.Logging.Level)
	}

	// Topology kept from the running config.
	if merged.UpdateHz != running.UpdateHz {
		t.Errorf("expected running update_hz, got %d", merged.UpdateHz)
	}
	if merged.Input.PinA != running.Input.PinA {
		t.Errorf("expected running pin_a, got %d", merged.Input.PinA)
	}
	if merged.Strip.GpioPin != running.Strip.GpioPin || merged.Strip.Count != running.Strip.Count {
		t.Errorf("expected running strip topology, got %+v", merged.Strip)
	}
	if merged.Pot.Path != running.Pot.Path {
		t.Errorf("expected running pot path, got %q", merged.Pot.Path)
	}
	if merged.IPC.SocketPath != running.IPC.SocketPath {
		t.Errorf("expected running socket path, got %q", merged.IPC.SocketPath)
	}
	if merged.HTTP.Port != running.HTTP.Port {
		t.Errorf("expected running http port, got %d", merged.HTTP.Port)
	}
}
