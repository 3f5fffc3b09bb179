// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package panelsim emulates a SSD1331 OLED panel behind a SPI port and
// renders it to the terminal (stdout) using ANSI color codes.
//
// Useful while you are waiting for your display to come by mail: the
// ssd1331 driver runs unmodified against a Panel.
package panelsim

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/GermanBionicSystems/thermoled/ssd1331/rgb565"
)

// Panel size in pixels.
const (
	Width  = 96
	Height = 64
)

// operands is the number of operand bytes following each opcode. Opcodes
// not listed take none.
var operands = map[byte]int{
	0x15: 2,  // column address
	0x75: 2,  // row address
	0x21: 7,  // draw line
	0x22: 10, // draw rectangle
	0x23: 6,  // copy
	0x24: 4,  // dim window
	0x25: 4,  // clear window
	0x26: 1,  // fill mode
	0x27: 5,  // scrolling setup
	0x81: 1,
	0x82: 1,
	0x83: 1,
	0x87: 1,
	0x8A: 1,
	0x8B: 1,
	0x8C: 1,
	0xA0: 1,
	0xA1: 1,
	0xA2: 1,
	0xA8: 1,
	0xAD: 1,
	0xB0: 1,
	0xB1: 1,
	0xB3: 1,
	0xB8: 32, // gray scale table
	0xBB: 1,
	0xBE: 1,
}

// Opts represents the options available for this display.
type Opts struct {
	// W is where frames are rendered. Defaults to a colorable stdout.
	W       io.Writer
	Palette *ansi256.Palette
	// AutoRefresh renders a frame after every transaction that changed the
	// display RAM.
	AutoRefresh bool

	_ struct{}
}

// Panel is a SSD1331 emulator. It implements spi.PortCloser and spi.Conn.
type Panel struct {
	w           io.Writer
	palette     ansi256.Palette
	autoRefresh bool

	dc  *gpiotest.Pin
	rst *resetPin

	mu       sync.Mutex
	ram      *rgb565.Image
	on   bool
	fill bool
	// mode is the display mode command in effect: 0xA4 normal, 0xA5 all
	// pixels lit, 0xA6 all pixels off, 0xA7 inverse.
	mode byte
	// Addressing window and write pointer.
	col0, col1, row0, row1 int
	col, row               int
	// Command being decoded and its operands.
	op      byte
	args    []byte
	pending int
	// hi holds the high byte of a pixel when waiting for the low one.
	hi    byte
	hasHi bool
	dirty bool

	buf bytes.Buffer
}

// New returns a powered down Panel.
func New(opts *Opts) *Panel {
	if opts == nil {
		opts = &Opts{}
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	s := &Panel{
		w:           w,
		palette:     *p,
		autoRefresh: opts.AutoRefresh,
		dc:          &gpiotest.Pin{N: "panelsim.DC", Num: -1},
		ram:         rgb565.NewImage(image.Rect(0, 0, Width, Height)),
	}
	s.rst = &resetPin{Pin: gpiotest.Pin{N: "panelsim.RST", Num: -1, L: gpio.High}, p: s}
	s.powerOnReset()
	return s
}

// DC returns the data/command select line of the panel.
func (s *Panel) DC() gpio.PinIO {
	return s.dc
}

// RST returns the reset line of the panel. Driving it low resets the
// controller registers; the display RAM is kept.
func (s *Panel) RST() gpio.PinIO {
	return s.rst
}

func (s *Panel) String() string {
	return "panelsim"
}

// Close implements spi.PortCloser.
func (s *Panel) Close() error {
	return nil
}

// LimitSpeed implements spi.PortCloser.
func (s *Panel) LimitSpeed(f physic.Frequency) error {
	return nil
}

// Connect implements spi.Port.
func (s *Panel) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	if mode != spi.Mode0 && mode != spi.Mode3 {
		return nil, fmt.Errorf("panelsim: unsupported mode %s", mode)
	}
	if bits != 8 {
		return nil, fmt.Errorf("panelsim: unsupported word size %d", bits)
	}
	return s, nil
}

// Duplex implements conn.Conn.
func (s *Panel) Duplex() conn.Duplex {
	return conn.Half
}

// TxPackets implements spi.Conn.
func (s *Panel) TxPackets(p []spi.Packet) error {
	for i := range p {
		if err := s.Tx(p[i].W, p[i].R); err != nil {
			return err
		}
	}
	return nil
}

// Tx implements conn.Conn. The bytes are commands or display data depending
// on the level of the DC line.
func (s *Panel) Tx(w, r []byte) error {
	if len(r) != 0 {
		return errors.New("panelsim: the SSD1331 serial interface is write only")
	}
	isData := s.dc.Read() == gpio.High
	s.mu.Lock()
	for _, b := range w {
		if isData {
			s.writeData(b)
		} else {
			s.writeCommand(b)
		}
	}
	refresh := s.autoRefresh && s.dirty
	s.dirty = false
	s.mu.Unlock()
	if refresh {
		return s.Refresh()
	}
	return nil
}

// Image returns a copy of the display RAM.
func (s *Panel) Image() *rgb565.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	img := rgb565.NewImage(s.ram.Rect)
	copy(img.Pix, s.ram.Pix)
	return img
}

// On reports whether the panel is lit.
func (s *Panel) On() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.on
}

func (s *Panel) powerOnReset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.on = false
	s.mode = 0xA4
	s.fill = false
	s.col0, s.col1, s.row0, s.row1 = 0, Width-1, 0, Height-1
	s.col, s.row = 0, 0
	s.pending = 0
	s.args = s.args[:0]
	s.hasHi = false
}

func (s *Panel) writeCommand(b byte) {
	if s.pending > 0 {
		s.args = append(s.args, b)
		s.pending--
		if s.pending == 0 {
			s.execute(s.op, s.args)
		}
		return
	}
	s.op = b
	s.args = s.args[:0]
	s.pending = operands[b]
	if s.pending == 0 {
		s.execute(b, nil)
	}
}

func (s *Panel) execute(op byte, args []byte) {
	switch op {
	case 0x15:
		s.col0, s.col1 = int(args[0]), int(args[1])
		s.col = s.col0
		s.hasHi = false
	case 0x75:
		s.row0, s.row1 = int(args[0]), int(args[1])
		s.row = s.row0
		s.hasHi = false
	case 0x21:
		s.line(image.Pt(int(args[0]), int(args[1])), image.Pt(int(args[2]), int(args[3])), fromChannels(args[4:7]))
	case 0x22:
		s.rect(image.Rect(int(args[0]), int(args[1]), int(args[2])+1, int(args[3])+1), fromChannels(args[4:7]), fromChannels(args[7:10]))
	case 0x25:
		s.ram.Fill(image.Rect(int(args[0]), int(args[1]), int(args[2])+1, int(args[3])+1), rgb565.Black)
		s.dirty = true
	case 0x26:
		s.fill = args[0]&0x01 != 0
	case 0xA4, 0xA5, 0xA6, 0xA7:
		s.mode = op
		s.dirty = true
	case 0xAE:
		s.on = false
		s.dirty = true
	case 0xAF:
		s.on = true
		s.dirty = true
	}
}

func (s *Panel) writeData(b byte) {
	if !s.hasHi {
		s.hi, s.hasHi = b, true
		return
	}
	s.hasHi = false
	s.ram.SetRGB565(s.col, s.row, rgb565.Color(uint16(s.hi)<<8|uint16(b)))
	s.dirty = true
	// Horizontal address increment, wrapping inside the window.
	if s.col++; s.col > s.col1 {
		s.col = s.col0
		if s.row++; s.row > s.row1 {
			s.row = s.row0
		}
	}
}

// fromChannels decodes the C, B, A 6 bits channels of the graphic
// acceleration commands.
func fromChannels(c []byte) rgb565.Color {
	r5, g6, b5 := uint16(c[0]>>1)&0x1F, uint16(c[1])&0x3F, uint16(c[2]>>1)&0x1F
	return rgb565.Color(r5<<11 | g6<<5 | b5)
}

func (s *Panel) line(p0, p1 image.Point, c rgb565.Color) {
	dx, dy := abs(p1.X-p0.X), -abs(p1.Y-p0.Y)
	sx, sy := 1, 1
	if p0.X > p1.X {
		sx = -1
	}
	if p0.Y > p1.Y {
		sy = -1
	}
	e := dx + dy
	for {
		s.ram.SetRGB565(p0.X, p0.Y, c)
		if p0 == p1 {
			break
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			p0.X += sx
		}
		if e2 <= dx {
			e += dx
			p0.Y += sy
		}
	}
	s.dirty = true
}

func (s *Panel) rect(r image.Rectangle, outline, fill rgb565.Color) {
	if s.fill {
		s.ram.Fill(r, fill)
	}
	top, bottom := r.Min.Y, r.Max.Y-1
	left, right := r.Min.X, r.Max.X-1
	for x := left; x <= right; x++ {
		s.ram.SetRGB565(x, top, outline)
		s.ram.SetRGB565(x, bottom, outline)
	}
	for y := top; y <= bottom; y++ {
		s.ram.SetRGB565(left, y, outline)
		s.ram.SetRGB565(right, y, outline)
	}
	s.dirty = true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Refresh renders the panel as it is currently seen.
func (s *Panel) Refresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// This code is designed to minimize the amount of memory allocated per call.
	s.buf.Reset()
	_, _ = s.buf.WriteString("\033[H\033[0m")
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			_, _ = io.WriteString(&s.buf, s.palette.Block(s.visible(x, y)))
		}
		_, _ = s.buf.WriteString("\033[0m\n")
	}
	_, err := s.buf.WriteTo(s.w)
	return err
}

// visible returns the color emitted by the pixel at (x, y). Must be called
// with mu held.
func (s *Panel) visible(x, y int) color.NRGBA {
	if !s.on {
		return color.NRGBA{A: 255}
	}
	c := s.ram.RGB565At(x, y)
	switch s.mode {
	case 0xA5:
		c = rgb565.White
	case 0xA6:
		c = rgb565.Black
	case 0xA7:
		c = ^c
	}
	r, g, b, _ := c.RGBA()
	return color.NRGBA{byte(r >> 8), byte(g >> 8), byte(b >> 8), 255}
}

// resetPin resets the controller registers when driven low.
type resetPin struct {
	gpiotest.Pin
	p *Panel
}

func (r *resetPin) Out(l gpio.Level) error {
	if err := r.Pin.Out(l); err != nil {
		return err
	}
	if l == gpio.Low {
		r.p.powerOnReset()
	}
	return nil
}

var _ spi.PortCloser = &Panel{}
var _ spi.Conn = &Panel{}
var _ fmt.Stringer = &Panel{}
