// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1331

import (
	"fmt"
	"strconv"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// Config describes how the panel is wired.
type Config struct {
	// Bus is the SPI port name as known to spireg, e.g. "SPI0.0" or
	// "/dev/spidev0.0". Empty selects the first registered port.
	Bus string
	// MOSI, CLK and CS are the GPIO numbers of the SPI lines. They are
	// fixed by the port; Open only checks them when the port reports its
	// pins.
	MOSI int
	CLK  int
	CS   int
	// DC is the GPIO number of the data/command select line.
	DC int
	// RST is the GPIO number of the reset line.
	RST int
	// Frequency is the SPI clock, typically 10MHz.
	Frequency physic.Frequency
}

func (c *Config) validate() error {
	for _, p := range []struct {
		name string
		n    int
	}{{"mosi", c.MOSI}, {"clk", c.CLK}, {"cs", c.CS}, {"dc", c.DC}, {"rst", c.RST}} {
		if p.n < 0 {
			return &ConfigError{Field: p.name, Reason: fmt.Sprintf("invalid GPIO number %d", p.n)}
		}
	}
	if c.DC == c.RST {
		return &ConfigError{Field: "rst", Reason: fmt.Sprintf("GPIO %d is already used as dc", c.RST)}
	}
	if c.Frequency <= 0 {
		return &ConfigError{Field: "frequency", Reason: fmt.Sprintf("must be positive, got %s", c.Frequency)}
	}
	return nil
}

// Open returns a Dev for the panel described by cfg.
//
// The host drivers must have been initialized, e.g. with host.Init(). Open
// resolves the DC and RST lines, pulses RST, opens and connects to the SPI
// port, then sends the bring-up sequence. On any failure the port is closed
// before returning. Close on the returned Dev closes the port.
//
// A nil or invalid cfg returns a *ConfigError without touching any GPIO.
func Open(cfg *Config) (*Dev, error) {
	if cfg == nil {
		return nil, &ConfigError{Reason: "missing configuration"}
	}
	c := *cfg
	if err := c.validate(); err != nil {
		return nil, err
	}
	dc, err := lookupPin("dc", c.DC)
	if err != nil {
		return nil, err
	}
	rst, err := lookupPin("rst", c.RST)
	if err != nil {
		return nil, err
	}

	d := newDev(dc, rst, c.Frequency)
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.reset(); err != nil {
		return nil, err
	}
	p, err := spireg.Open(c.Bus)
	if err != nil {
		d.state = Uninitialized
		return nil, &BusError{Op: "open", Err: err}
	}
	if err := checkPins(p, &c); err != nil {
		d.state = Uninitialized
		_ = p.Close()
		return nil, err
	}
	if err := d.attach(p); err != nil {
		_ = p.Close()
		return nil, err
	}
	if err := d.configure(); err != nil {
		d.t.c = nil
		_ = p.Close()
		return nil, err
	}
	d.port = p
	return d, nil
}

// PinByNumber returns the registered GPIO numbered n, or nil.
//
// Host drivers register their lines as "GPIO<n>", which is tried first.
// Otherwise the registry is scanned for a line reporting number n, and the
// bare number is tried last as a name or alias.
func PinByNumber(n int) gpio.PinIO {
	s := strconv.Itoa(n)
	if p := gpioreg.ByName("GPIO" + s); p != nil {
		return p
	}
	for _, p := range gpioreg.All() {
		if p.Number() == n {
			return p
		}
	}
	return gpioreg.ByName(s)
}

func lookupPin(field string, n int) (gpio.PinOut, error) {
	p := PinByNumber(n)
	if p == nil {
		return nil, &ConfigError{Field: field, Reason: fmt.Sprintf("unknown GPIO %d", n)}
	}
	return p, nil
}

// checkPins verifies the SPI lines of p against cfg when p reports them.
func checkPins(p spi.Port, cfg *Config) error {
	pins, ok := p.(spi.Pins)
	if !ok {
		return nil
	}
	for _, l := range []struct {
		name string
		pin  gpio.PinOut
		want int
	}{{"mosi", pins.MOSI(), cfg.MOSI}, {"clk", pins.CLK(), cfg.CLK}, {"cs", pins.CS(), cfg.CS}} {
		if l.pin == nil || l.pin.Number() < 0 {
			continue
		}
		if got := l.pin.Number(); got != l.want {
			return &ConfigError{Field: l.name, Reason: fmt.Sprintf("port %s uses GPIO %d, not %d", p, got, l.want)}
		}
	}
	return nil
}
