package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// pwmTone drives a piezo buzzer through one Linux sysfs PWM channel with a
// 50% duty square wave.
type pwmTone struct {
	dir string // /sys/class/pwm/pwmchipN/pwmM
}

// newPWMTone exports the channel if needed and leaves it disabled.
func newPWMTone(cfg ToneConfig) (*pwmTone, error) {
	chip := fmt.Sprintf("/sys/class/pwm/pwmchip%d", cfg.Chip)
	dir := filepath.Join(chip, fmt.Sprintf("pwm%d", cfg.Channel))
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.WriteFile(filepath.Join(chip, "export"), []byte(strconv.Itoa(cfg.Channel)), 0644); err != nil {
			return nil, fmt.Errorf("export pwm channel %d: %w", cfg.Channel, err)
		}
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("pwm channel not available: %w", err)
	}
	t := &pwmTone{dir: dir}
	if err := t.Stop(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *pwmTone) write(name, value string) error {
	if err := os.WriteFile(filepath.Join(t.dir, name), []byte(value), 0644); err != nil {
		return fmt.Errorf("write pwm %s: %w", name, err)
	}
	return nil
}

func (t *pwmTone) Play(freqHz int) error {
	if freqHz <= 0 {
		return t.Stop()
	}
	period := 1_000_000_000 / freqHz // ns
	// duty_cycle may never exceed period, so shrink it before switching
	if err := t.write("duty_cycle", "0"); err != nil {
		return err
	}
	if err := t.write("period", strconv.Itoa(period)); err != nil {
		return err
	}
	if err := t.write("duty_cycle", strconv.Itoa(period/2)); err != nil {
		return err
	}
	return t.write("enable", "1")
}

func (t *pwmTone) Stop() error {
	return t.write("enable", "0")
}

func (t *pwmTone) Close() error {
	return t.Stop()
}
