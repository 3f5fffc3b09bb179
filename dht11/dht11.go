// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dht11 provides a driver for the AOSONG DHT11 temperature/humidity
// sensor, a single wire device bit-banged over one GPIO.
//
// The protocol is timing based: the host pulls the line low for at least
// 18ms, releases it, then the sensor answers with 40 bits where the width of
// each high pulse encodes the bit value. Edge detection must be supported by
// the GPIO driver.
//
// Edges are timestamped when WaitForEdge returns, so scheduling latency adds
// to the measured pulse widths. A 0 lasts 26-28µs and a 1 lasts 70µs; a
// reading disturbed by more than about 20µs of latency is usually caught by
// the checksum and returned as a *ChecksumError. Retry on error.
//
// # Datasheet
//
// https://www.mouser.com/datasheet/2/758/DHT11-Technical-Data-Sheet-Translated-Version-1143054.pdf
package dht11

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

const (
	// startDelay is how long the line is held low to wake up the sensor.
	startDelay = 20 * time.Millisecond
	// edgeTimeout bounds the wait for a single edge. The longest pulse in a
	// transmission is 80µs.
	edgeTimeout = time.Millisecond
	// oneThreshold separates a 0 (26-28µs high) from a 1 (70µs high).
	oneThreshold = 50 * time.Microsecond
	// edgeCount is the number of edges from the release of the line to the
	// end of the last bit: 2 for the response, 2 per bit, 1 to end the last
	// bit.
	edgeCount = 2 + 2*40 + 1
	// MinInterval is the shortest interval between two readings.
	MinInterval = 2 * time.Second
)

// Replaced in tests.
var (
	now   = time.Now
	sleep = time.Sleep
)

// TimeoutError is returned when the sensor stopped answering in the middle
// of a transmission, or never did.
type TimeoutError struct {
	Edges int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("dht11: timed out after %d of %d edges", e.Edges, edgeCount)
}

// ChecksumError is returned when the received bytes do not add up to the
// checksum byte.
type ChecksumError struct {
	Data [5]byte
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("dht11: checksum mismatch in % x", e.Data[:])
}

// Dev represents a DHT11 sensor.
type Dev struct {
	p        gpio.PinIO
	mu       sync.Mutex
	shutdown chan struct{}
}

// New returns a Dev reading the sensor connected to p. The line needs a
// pull-up, either the one of the module or the internal one.
func New(p gpio.PinIO) *Dev {
	return &Dev{p: p}
}

func (d *Dev) String() string {
	return fmt.Sprintf("dht11{%s}", d.p)
}

// Sense reads the current temperature and humidity. It blocks for about
// 25ms. Pressure is not measured and set to 0.
//
// The line is pulled low for the start signal, driven high, then released
// as an input with a pull-up.
func (d *Dev) Sense(e *physic.Env) error {
	e.Temperature = 0
	e.Pressure = 0
	e.Humidity = 0

	d.mu.Lock()
	defer d.mu.Unlock()

	b, err := d.read()
	if err != nil {
		return err
	}
	return convert(b, e)
}

func (d *Dev) read() ([5]byte, error) {
	if err := d.p.Out(gpio.Low); err != nil {
		return [5]byte{}, fmt.Errorf("dht11: start signal: %w", err)
	}
	sleep(startDelay)
	// Drive the line back high before arming edge detection so the host's
	// own rising edge is not captured as the sensor response.
	if err := d.p.Out(gpio.High); err != nil {
		return [5]byte{}, fmt.Errorf("dht11: start signal: %w", err)
	}
	if err := d.p.In(gpio.PullUp, gpio.BothEdges); err != nil {
		return [5]byte{}, fmt.Errorf("dht11: release line: %w", err)
	}
	edges := make([]time.Time, 0, edgeCount)
	for len(edges) < edgeCount {
		if !d.p.WaitForEdge(edgeTimeout) {
			return [5]byte{}, &TimeoutError{Edges: len(edges)}
		}
		edges = append(edges, now())
	}
	return decode(highPulses(edges))
}

// highPulses returns the width of the 40 data bit high pulses.
//
// The line idles high, so edges alternate starting with a falling one: edge
// 0 and 1 are the sensor response, then each bit is a falling edge followed
// by a rising one.
func highPulses(edges []time.Time) []time.Duration {
	out := make([]time.Duration, 0, 40)
	for i := 3; i+1 < len(edges); i += 2 {
		out = append(out, edges[i+1].Sub(edges[i]))
	}
	return out
}

func decode(pulses []time.Duration) ([5]byte, error) {
	var b [5]byte
	if len(pulses) != 40 {
		return b, &TimeoutError{Edges: 3 + 2*len(pulses)}
	}
	for i, p := range pulses {
		if p > oneThreshold {
			b[i/8] |= 0x80 >> uint(i%8)
		}
	}
	if b[0]+b[1]+b[2]+b[3] != b[4] {
		return b, &ChecksumError{Data: b}
	}
	return b, nil
}

// convert fills e from a transmission: integral and decimal humidity,
// integral and decimal temperature, checksum. Bit 7 of the temperature
// decimal byte is the sign.
func convert(b [5]byte, e *physic.Env) error {
	if b[1] > 9 || b[3]&0x7F > 9 {
		return fmt.Errorf("dht11: invalid decimal in % x", b[:])
	}
	h := int64(b[0])*10 + int64(b[1])
	t := int64(b[2])*10 + int64(b[3]&0x7F)
	if b[3]&0x80 != 0 {
		t = -t
	}
	e.Humidity = physic.RelativeHumidity(h) * (physic.PercentRH / 10)
	e.Temperature = physic.ZeroCelsius + (physic.Celsius/10)*physic.Temperature(t)
	return nil
}

// SenseContinuous returns a channel that receives a reading every interval.
// Failed readings are skipped. The minimum interval is MinInterval. To end
// the readings, call Halt().
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval < MinInterval {
		return nil, fmt.Errorf("dht11: invalid interval %s; minimum %s", interval, MinInterval)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shutdown != nil {
		return nil, errors.New("dht11: sense continuous already running")
	}

	shutdown := make(chan struct{})
	d.shutdown = shutdown
	ch := make(chan physic.Env, 16)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-shutdown:
				return
			case <-ticker.C:
				e := physic.Env{}
				if err := d.Sense(&e); err != nil {
					continue
				}
				select {
				case ch <- e:
				case <-shutdown:
					return
				}
			}
		}
	}()
	return ch, nil
}

// Halt stops a running SenseContinuous().
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shutdown != nil {
		close(d.shutdown)
		d.shutdown = nil
	}
	return nil
}

// Precision returns the resolution of the device for its measured
// parameters.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = physic.Celsius / 10
	e.Pressure = 0
	e.Humidity = physic.PercentRH / 10
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
