// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1331

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/GermanBionicSystems/thermoled/ssd1331/font5x7"
	"github.com/GermanBionicSystems/thermoled/ssd1331/rgb565"
)

// Panel size in pixels.
const (
	Width  = 96
	Height = 64
)

// State is the bring-up state of a Dev.
type State int

// Possible states. A Dev goes through them in order; a failure during
// Resetting or Configuring sends it back to Uninitialized.
const (
	Uninitialized State = iota
	Resetting
	Configuring
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Resetting:
		return "Resetting"
	case Configuring:
		return "Configuring"
	case Ready:
		return "Ready"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	Frequency: 10 * physic.MegaHertz,
}

// Opts defines the options for the device.
type Opts struct {
	// Frequency is the SPI clock. The SSD1331 serial interface is rated for
	// a 150ns clock cycle, about 6.6MHz, but most modules accept 10MHz.
	Frequency physic.Frequency
}

// New returns a Dev driving a SSD1331 on an SPI port owned by the caller.
//
// # Wiring
//
// Connect SDA to SPI_MOSI, SCL to SPI_CLK, CS to SPI_CS, DC and RES to two
// GPIOs.
//
// New pulses RES, connects to p in SPI mode 0 and sends the bring-up
// sequence. The display is on and empty when New returns. Close does not
// close p.
func New(p spi.Port, dc, rst gpio.PinOut, opts *Opts) (*Dev, error) {
	if err := validateOpts(p, dc, rst, opts); err != nil {
		return nil, err
	}
	d := newDev(dc, rst, opts.Frequency)
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.reset(); err != nil {
		return nil, err
	}
	if err := d.attach(p); err != nil {
		return nil, err
	}
	if err := d.configure(); err != nil {
		return nil, err
	}
	return d, nil
}

func validateOpts(p spi.Port, dc, rst gpio.PinOut, opts *Opts) error {
	switch {
	case opts == nil:
		return &ConfigError{Reason: "missing options"}
	case p == nil:
		return &ConfigError{Field: "port", Reason: "missing"}
	case dc == nil || dc == gpio.INVALID:
		return &ConfigError{Field: "dc", Reason: "missing; 3-wire SPI is not supported"}
	case rst == nil || rst == gpio.INVALID:
		return &ConfigError{Field: "rst", Reason: "missing"}
	case opts.Frequency <= 0:
		return &ConfigError{Field: "frequency", Reason: fmt.Sprintf("must be positive, got %s", opts.Frequency)}
	}
	return nil
}

// Dev is an open handle to the display controller.
//
// All methods are safe for concurrent use; calls are serialized as the
// controller has no notion of overlapping transactions.
type Dev struct {
	mu sync.Mutex

	t    transport
	freq physic.Frequency
	// port is set when the driver opened the port itself and must close it.
	port spi.PortCloser
	rect image.Rectangle

	state  State
	on     bool
	closed bool
}

func newDev(dc, rst gpio.PinOut, f physic.Frequency) *Dev {
	return &Dev{
		t:    transport{dc: dc, rst: rst},
		freq: f,
		rect: image.Rect(0, 0, Width, Height),
	}
}

func (d *Dev) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fmt.Sprintf("ssd1331.Dev{%s, %s, %s, %s}", d.t.c, d.t.dc, d.t.rst, d.rect.Max)
}

// State returns the current bring-up state.
func (d *Dev) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// IsOn reports whether the panel was last turned on.
func (d *Dev) IsOn() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.on
}

// reset performs the hardware reset pulse.
func (d *Dev) reset() error {
	d.state = Resetting
	eh := errorHandler{t: &d.t}
	eh.reset()
	if eh.err != nil {
		d.state = Uninitialized
		return &BusError{Op: "reset", Err: eh.err}
	}
	return nil
}

// attach connects to the controller on p.
func (d *Dev) attach(p spi.Port) error {
	c, err := p.Connect(d.freq, spi.Mode0, 8)
	if err != nil {
		d.state = Uninitialized
		return &BusError{Op: "connect", Err: err}
	}
	d.t.c = c
	return nil
}

// configure sends the bring-up sequence.
func (d *Dev) configure() error {
	d.state = Configuring
	eh := errorHandler{t: &d.t}
	initDisplay(&eh)
	if eh.err != nil {
		d.state = Uninitialized
		d.on = false
		return &BusError{Op: "init", Err: eh.err}
	}
	d.state = Ready
	d.on = true
	return nil
}

// Init resets the controller and sends the bring-up sequence again.
//
// Use it to recover after a transmission failure left the panel in an
// unknown state.
func (d *Dev) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	if err := d.reset(); err != nil {
		return err
	}
	return d.configure()
}

// ready must be called with mu held.
func (d *Dev) ready() error {
	if d.closed {
		return ErrClosed
	}
	if d.state != Ready {
		return ErrNotReady
	}
	return nil
}

// send runs f against the controller and wraps its failure.
//
// Must be called with mu held.
func (d *Dev) send(op string, f func(ctrl controller)) error {
	if err := d.ready(); err != nil {
		return err
	}
	eh := errorHandler{t: &d.t}
	f(&eh)
	if eh.err != nil {
		return &BusError{Op: op, Err: eh.err}
	}
	return nil
}

// TurnOn turns the panel on. The content of the display RAM is kept while
// the panel is off.
func (d *Dev) TurnOn() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	err := d.send("turnOn", func(ctrl controller) { setDisplay(ctrl, true) })
	if err == nil {
		d.on = true
	}
	return err
}

// TurnOff turns the panel off (sleep mode).
func (d *Dev) TurnOff() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.turnOff()
}

func (d *Dev) turnOff() error {
	err := d.send("turnOff", func(ctrl controller) { setDisplay(ctrl, false) })
	if err == nil {
		d.on = false
	}
	return err
}

// Halt implements conn.Resource.
//
// It turns the panel off.
func (d *Dev) Halt() error {
	return d.TurnOff()
}

// Close turns the panel off, then releases the SPI port if it was opened by
// Open. The Dev cannot be used afterward.
func (d *Dev) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	var err error
	if d.state == Ready {
		err = d.turnOff()
	}
	if d.port != nil {
		if cerr := d.port.Close(); cerr != nil && err == nil {
			err = &BusError{Op: "close", Err: cerr}
		}
		d.port = nil
	}
	d.closed = true
	d.state = Uninitialized
	return err
}

// ClearWindow erases the whole panel. The controller does the work: this is
// a single command whatever was drawn before.
func (d *Dev) ClearWindow() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.send("clearWindow", func(ctrl controller) { clearWindow(ctrl, d.rect) })
}

// SetPixel draws a single pixel. Coordinates are not clamped; the controller
// ignores pixels outside of its 96x64 RAM.
func (d *Dev) SetPixel(x, y int, c rgb565.Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ready(); err != nil {
		return err
	}
	return d.setPixel(x, y, c)
}

// setPixel implements pixelSetter. Must be called with mu held.
func (d *Dev) setPixel(x, y int, c rgb565.Color) error {
	if x < 0 || x > 0xFF {
		return &ArgumentError{Name: "x", Value: x}
	}
	if y < 0 || y > 0xFF {
		return &ArgumentError{Name: "y", Value: y}
	}
	return d.send("setPixel", func(ctrl controller) { writePixel(ctrl, byte(x), byte(y), c) })
}

// DrawChar draws the glyph id with its top left corner at (x, y).
//
// A cursor past the right or bottom edge is moved onto the last column or
// row. An id outside of the font returns an *ArgumentError and draws
// nothing.
func (d *Dev) DrawChar(x, y int, id font5x7.ID, c rgb565.Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ready(); err != nil {
		return err
	}
	return drawChar(d, x, y, id, c)
}

// DrawString draws text starting at (x, y), advancing the cursor by 7 pixels
// per drawn character.
//
// Only the characters of package font5x7 are drawn. Others are skipped
// without leaving a gap.
func (d *Dev) DrawString(x, y int, text string, c rgb565.Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ready(); err != nil {
		return err
	}
	return drawString(d, x, y, text, c)
}

// DrawLine draws a line between p0 and p1, both included, with the
// controller's line drawing engine.
func (d *Dev) DrawLine(p0, p1 image.Point, c rgb565.Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range []image.Point{p0, p1} {
		if p.X < 0 || p.X >= Width {
			return &ArgumentError{Name: "x", Value: p.X}
		}
		if p.Y < 0 || p.Y >= Height {
			return &ArgumentError{Name: "y", Value: p.Y}
		}
	}
	return d.send("drawLine", func(ctrl controller) { line(ctrl, p0, p1, c) })
}

// FillRect draws r clipped to the panel, its border in outline and its
// inside in fill. An empty rectangle draws nothing.
func (d *Dev) FillRect(r image.Rectangle, outline, fill rgb565.Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	r = r.Intersect(d.rect)
	if r.Empty() {
		return d.ready()
	}
	return d.send("fillRect", func(ctrl controller) { rect(ctrl, r, outline, fill) })
}

// SetContrast changes the contrast of the three color channels.
func (d *Dev) SetContrast(a, b, c byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.send("setContrast", func(ctrl controller) { setContrast(ctrl, a, b, c) })
}

// Invert the display colors.
func (d *Dev) Invert(inverted bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.send("invert", func(ctrl controller) { invert(ctrl, inverted) })
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return rgb565.Model
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Draw implements display.Drawer.
//
// There is no frame buffer: every pixel of r is sent with its own
// addressing window, so a full frame costs 96*64 pixel writes. Prefer
// DrawString and FillRect for small updates.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ready(); err != nil {
		return err
	}
	delta := sp.Sub(r.Min)
	r = r.Intersect(d.rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := rgb565.Model.Convert(src.At(x+delta.X, y+delta.Y)).(rgb565.Color)
			if err := d.setPixel(x, y, c); err != nil {
				return err
			}
		}
	}
	return nil
}

var _ conn.Resource = &Dev{}
var _ display.Drawer = &Dev{}
