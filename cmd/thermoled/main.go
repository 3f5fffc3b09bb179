// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// thermoled shows the temperature and humidity read from a DHT11 sensor on a
// SSD1331 96x64 OLED display.
//
// With -sim, the display is emulated in the terminal and the sensor is
// replaced by a fixed reading, so no hardware is needed.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/thermoled/dht11"
	"github.com/GermanBionicSystems/thermoled/panelsim"
	"github.com/GermanBionicSystems/thermoled/ssd1331"
	"github.com/GermanBionicSystems/thermoled/ssd1331/rgb565"
)

type sensor interface {
	Sense(e *physic.Env) error
}

// display is the subset of *ssd1331.Dev used by the loop.
type display interface {
	ClearWindow() error
	DrawString(x, y int, s string, c rgb565.Color) error
	Close() error
}

// fixedSensor always returns the same reading.
type fixedSensor physic.Env

func (f fixedSensor) Sense(e *physic.Env) error {
	*e = physic.Env(f)
	return nil
}

func (f fixedSensor) String() string {
	return "fixed"
}

// show draws one reading.
func show(d display, e *physic.Env) error {
	if err := d.ClearWindow(); err != nil {
		return err
	}
	if err := d.DrawString(0, 0, formatTemperature(e.Temperature), rgb565.Yellow); err != nil {
		return err
	}
	return d.DrawString(0, 10, formatHumidity(e.Humidity), rgb565.Cyan)
}

type config struct {
	bus       string
	mosi, clk int
	cs, dc    int
	rst, dht  int
	hz        int64
	interval  time.Duration
	sim, once bool
	verbose   bool
}

func openDisplay(c *config) (display, *panelsim.Panel, error) {
	freq := physic.Frequency(c.hz) * physic.Hertz
	if c.sim {
		// Refreshed once per reading by the loop, not once per pixel.
		p := panelsim.New(nil)
		d, err := ssd1331.New(p, p.DC(), p.RST(), &ssd1331.Opts{Frequency: freq})
		return d, p, err
	}
	d, err := ssd1331.Open(&ssd1331.Config{
		Bus:       c.bus,
		MOSI:      c.mosi,
		CLK:       c.clk,
		CS:        c.cs,
		DC:        c.dc,
		RST:       c.rst,
		Frequency: freq,
	})
	return d, nil, err
}

func openSensor(c *config) (sensor, error) {
	if c.sim {
		return fixedSensor{
			Temperature: physic.ZeroCelsius + 24400*physic.MilliCelsius,
			Humidity:    625 * physic.PercentRH / 10,
		}, nil
	}
	p := ssd1331.PinByNumber(c.dht)
	if p == nil {
		return nil, fmt.Errorf("no GPIO %d for the sensor", c.dht)
	}
	return dht11.New(p), nil
}

func mainImpl() error {
	c := config{}
	flag.StringVar(&c.bus, "spi", "", "SPI port to use")
	flag.IntVar(&c.mosi, "mosi", 23, "GPIO number of SPI MOSI")
	flag.IntVar(&c.clk, "clk", 18, "GPIO number of SPI clock")
	flag.IntVar(&c.cs, "cs", 5, "GPIO number of SPI chip select")
	flag.IntVar(&c.dc, "dc", 4, "GPIO number of the data/command line")
	flag.IntVar(&c.rst, "rst", 2, "GPIO number of the reset line")
	flag.Int64Var(&c.hz, "hz", 10000000, "SPI clock in Hz")
	flag.IntVar(&c.dht, "dht", 15, "GPIO number of the DHT11 data line")
	flag.DurationVar(&c.interval, "interval", 5*time.Second, "time between readings")
	flag.BoolVar(&c.sim, "sim", false, "emulate the display in the terminal")
	flag.BoolVar(&c.once, "once", false, "show one reading and exit")
	flag.BoolVar(&c.verbose, "v", false, "verbose mode")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}
	if c.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if c.interval < dht11.MinInterval {
		return fmt.Errorf("-interval must be at least %s", dht11.MinInterval)
	}
	if _, err := host.Init(); err != nil {
		if !c.sim {
			return err
		}
		logrus.WithError(err).Warn("periph host initialization failed")
	}

	d, panel, err := openDisplay(&c)
	if err != nil {
		return err
	}
	defer func() {
		if err := d.Close(); err != nil {
			logrus.WithError(err).Error("closing display")
		}
	}()
	logrus.WithField("display", d).Info("display ready")

	s, err := openSensor(&c)
	if err != nil {
		return err
	}
	logrus.WithField("sensor", s).Info("sensor ready")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	t := time.NewTicker(c.interval)
	defer t.Stop()
	for {
		e := physic.Env{}
		if err := s.Sense(&e); err != nil {
			// Keep the last reading on screen.
			logrus.WithError(err).Warn("sensor reading failed")
		} else {
			logrus.WithFields(logrus.Fields{
				"temperature": e.Temperature,
				"humidity":    e.Humidity,
			}).Debug("reading")
			if err := show(d, &e); err != nil {
				return err
			}
			if panel != nil {
				if err := panel.Refresh(); err != nil {
					return err
				}
			}
		}
		if c.once {
			return nil
		}
		select {
		case <-sig:
			return nil
		case <-t.C:
		}
	}
}

func main() {
	if err := mainImpl(); err != nil {
		logrus.Fatal(err)
	}
}
