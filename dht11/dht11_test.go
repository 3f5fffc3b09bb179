// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
)

// edgesFor returns the edge timestamps of a transmission of b, starting with
// the falling edge of the sensor response.
func edgesFor(b [5]byte) []time.Time {
	t := time.Unix(0, 0)
	out := []time.Time{t}
	add := func(d time.Duration) {
		t = t.Add(d)
		out = append(out, t)
	}
	add(80 * time.Microsecond) // response low
	add(80 * time.Microsecond) // response high
	for i := 0; i < 40; i++ {
		add(50 * time.Microsecond)
		if b[i/8]&(0x80>>uint(i%8)) != 0 {
			add(70 * time.Microsecond)
		} else {
			add(27 * time.Microsecond)
		}
	}
	return out
}

// sensorPin replays a scripted transmission.
type sensorPin struct {
	gpiotest.Pin
	edges  []time.Time
	outs   []gpio.Level
	inErr  error
	sent   int
	pulled gpio.Pull
	// levelAtArm is the line level when edge detection was armed.
	levelAtArm gpio.Level
}

func (p *sensorPin) Out(l gpio.Level) error {
	p.outs = append(p.outs, l)
	return p.Pin.Out(l)
}

func (p *sensorPin) In(pull gpio.Pull, edge gpio.Edge) error {
	if p.inErr != nil {
		return p.inErr
	}
	p.pulled = pull
	p.levelAtArm = p.Pin.Read()
	return nil
}

func (p *sensorPin) WaitForEdge(timeout time.Duration) bool {
	if p.sent >= len(p.edges) {
		return false
	}
	p.sent++
	return true
}

func setup(t *testing.T, p *sensorPin) {
	t.Helper()
	oldNow, oldSleep := now, sleep
	t.Cleanup(func() {
		now, sleep = oldNow, oldSleep
	})
	sleep = func(time.Duration) {}
	now = func() time.Time {
		return p.edges[p.sent-1]
	}
}

func TestEdgesFor(t *testing.T) {
	if got := len(edgesFor([5]byte{})); got != edgeCount {
		t.Fatalf("got %d edges, want %d", got, edgeCount)
	}
}

func TestSense(t *testing.T) {
	data := [5]byte{62, 5, 24, 4, 62 + 5 + 24 + 4}
	p := &sensorPin{Pin: gpiotest.Pin{N: "GPIO15", Num: 15}, edges: edgesFor(data)}
	setup(t, p)
	d := New(p)
	e := physic.Env{}
	if err := d.Sense(&e); err != nil {
		t.Fatal(err)
	}
	want := physic.Env{
		Temperature: physic.ZeroCelsius + 24400*physic.MilliCelsius,
		Humidity:    625 * physic.PercentRH / 10,
	}
	if diff := cmp.Diff(want, e); diff != "" {
		t.Errorf("Sense() mismatch (-want +got):\n%s", diff)
	}
	// The line is back high before edge detection is armed, so no host
	// edge is mistaken for the response.
	if diff := cmp.Diff([]gpio.Level{gpio.Low, gpio.High}, p.outs); diff != "" {
		t.Errorf("start signal mismatch (-want +got):\n%s", diff)
	}
	if p.pulled != gpio.PullUp {
		t.Errorf("line released with %s, want PullUp", p.pulled)
	}
	if p.levelAtArm != gpio.High {
		t.Error("edge detection armed while the line was low")
	}
}

func TestSenseTimeout(t *testing.T) {
	edges := edgesFor([5]byte{})
	p := &sensorPin{edges: edges[:20]}
	setup(t, p)
	e := physic.Env{Temperature: 1, Humidity: 1}
	err := New(p).Sense(&e)
	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("got %v, want a TimeoutError", err)
	}
	if te.Edges != 20 {
		t.Errorf("got %d edges, want 20", te.Edges)
	}
	if e.Temperature != 0 || e.Humidity != 0 {
		t.Errorf("failed reading must zero the result: %+v", e)
	}
}

func TestSenseChecksum(t *testing.T) {
	data := [5]byte{62, 0, 24, 0, 0}
	p := &sensorPin{edges: edgesFor(data)}
	setup(t, p)
	err := New(p).Sense(&physic.Env{})
	var ce *ChecksumError
	if !errors.As(err, &ce) {
		t.Fatalf("got %v, want a ChecksumError", err)
	}
	if ce.Data != data {
		t.Errorf("got % x, want % x", ce.Data, data)
	}
}

func TestSenseInError(t *testing.T) {
	errIn := errors.New("no edge detection")
	p := &sensorPin{inErr: errIn}
	setup(t, p)
	if err := New(p).Sense(&physic.Env{}); !errors.Is(err, errIn) {
		t.Fatalf("got %v, want %v", err, errIn)
	}
}

func TestDecode(t *testing.T) {
	zero, one := 27*time.Microsecond, 70*time.Microsecond
	pulses := make([]time.Duration, 40)
	for i := range pulses {
		pulses[i] = zero
	}
	// 0x01 in the first byte and the checksum.
	pulses[7] = one
	pulses[39] = one
	got, err := decode(pulses)
	if err != nil {
		t.Fatal(err)
	}
	if want := [5]byte{1, 0, 0, 0, 1}; got != want {
		t.Errorf("got % x, want % x", got, want)
	}
	if _, err := decode(pulses[:39]); err == nil {
		t.Error("a short transmission must fail")
	}
}

func TestConvert(t *testing.T) {
	for _, tc := range []struct {
		name string
		b    [5]byte
		want physic.Env
	}{
		{"integral", [5]byte{40, 0, 20, 0}, physic.Env{
			Temperature: physic.ZeroCelsius + 20*physic.Celsius,
			Humidity:    40 * physic.PercentRH,
		}},
		{"decimal", [5]byte{62, 5, 24, 4}, physic.Env{
			Temperature: physic.ZeroCelsius + 24400*physic.MilliCelsius,
			Humidity:    625 * physic.PercentRH / 10,
		}},
		{"negative", [5]byte{80, 0, 1, 0x85}, physic.Env{
			Temperature: physic.ZeroCelsius - 1500*physic.MilliCelsius,
			Humidity:    80 * physic.PercentRH,
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			e := physic.Env{}
			if err := convert(tc.b, &e); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, e); diff != "" {
				t.Errorf("convert() mismatch (-want +got):\n%s", diff)
			}
		})
	}
	if err := convert([5]byte{40, 10}, &physic.Env{}); err == nil {
		t.Error("decimal byte above 9 must be rejected")
	}
}

func TestSenseContinuous(t *testing.T) {
	d := New(&sensorPin{})
	if _, err := d.SenseContinuous(time.Second); err == nil {
		t.Error("interval below the minimum must be rejected")
	}
	ch, err := d.SenseContinuous(MinInterval)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.SenseContinuous(MinInterval); err == nil {
		t.Error("second SenseContinuous must fail")
	}
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	for range ch {
	}
	if err := d.Halt(); err != nil {
		t.Errorf("Halt() when halted: %v", err)
	}
}

func TestPrecision(t *testing.T) {
	e := physic.Env{}
	New(&sensorPin{}).Precision(&e)
	if e.Temperature != 100*physic.MilliCelsius || e.Humidity != physic.PercentRH/10 {
		t.Errorf("got %+v", e)
	}
}

func TestString(t *testing.T) {
	d := New(&sensorPin{Pin: gpiotest.Pin{N: "GPIO15", Num: 15}})
	if s := d.String(); !strings.HasPrefix(s, "dht11{GPIO15") {
		t.Errorf("String() = %q", s)
	}
}
