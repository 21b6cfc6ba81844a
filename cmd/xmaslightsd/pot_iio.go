package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// iioPot reads a raw ADC channel from the industrial I/O sysfs tree, e.g.
// /sys/bus/iio/devices/iio:device0/in_voltage0_raw. Each Read is one sysfs
// read; the kernel driver does the conversion.
type iioPot struct {
	path string
}

// newIIOPot probes the channel once so a missing ADC fails at startup, not
// mid-session.
func newIIOPot(path string) (*iioPot, error) {
	p := &iioPot{path: path}
	if _, err := p.Read(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *iioPot) Read() (int, error) {
	b, err := os.ReadFile(p.path)
	if err != nil {
		return 0, fmt.Errorf("read adc channel: %w", err)
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0, fmt.Errorf("parse adc value %q: %w", strings.TrimSpace(string(b)), err)
	}
	return v, nil
}

func (p *iioPot) Close() error {
	return nil
}
