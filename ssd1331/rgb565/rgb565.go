// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package rgb565 implements the 16 bits per pixel color format used by the
// SSD1331 and most small color TFT/OLED controllers.
//
// A pixel is 5 bits of red, 6 bits of green and 5 bits of blue packed in a
// uint16, red in the most significant bits. On the wire the high byte is sent
// first.
package rgb565

import (
	"image"
	"image/color"
)

// Color is a 16 bits RGB565 color.
type Color uint16

// Common colors.
const (
	Black   Color = 0x0000
	White   Color = 0xFFFF
	Red     Color = 0xF800
	Green   Color = 0x07E0
	Blue    Color = 0x001F
	Yellow  Color = 0xFFE0
	Cyan    Color = 0x07FF
	Magenta Color = 0xF81F
)

// New packs 8 bits per channel values into a Color, dropping the low bits.
func New(r, g, b uint8) Color {
	return Color(uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3))
}

// Components returns the raw 5, 6 and 5 bits channels.
func (c Color) Components() (r5, g6, b5 uint8) {
	return uint8(c >> 11), uint8(c>>5) & 0x3F, uint8(c) & 0x1F
}

// Bytes returns the color as transmitted to the controller, high byte first.
func (c Color) Bytes() (hi, lo byte) {
	return byte(c >> 8), byte(c)
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r5, g6, b5 := c.Components()
	// Replicate the high bits into the low bits so White maps to 0xFFFF.
	r8 := uint32(r5<<3 | r5>>2)
	g8 := uint32(g6<<2 | g6>>4)
	b8 := uint32(b5<<3 | b5>>2)
	return r8 | r8<<8, g8 | g8<<8, b8 | b8<<8, 0xFFFF
}

func convert(c color.Color) color.Color {
	if v, ok := c.(Color); ok {
		return v
	}
	r, g, b, a := c.RGBA()
	if a == 0 {
		return Black
	}
	return New(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// Model converts any color.Color to Color. Transparent colors become Black.
var Model = color.ModelFunc(convert)

// Image is an in-memory image of RGB565 pixels.
//
// Pix holds 2 bytes per pixel, high byte first, which is exactly the byte
// order the controller expects on its data stream.
type Image struct {
	Pix    []byte
	Stride int
	Rect   image.Rectangle
}

// NewImage returns an Image of the given bounds, all pixels Black.
func NewImage(r image.Rectangle) *Image {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return &Image{Rect: r}
	}
	return &Image{Pix: make([]byte, 2*w*h), Stride: 2 * w, Rect: r}
}

// ColorModel implements image.Image.
func (i *Image) ColorModel() color.Model {
	return Model
}

// Bounds implements image.Image.
func (i *Image) Bounds() image.Rectangle {
	return i.Rect
}

// At implements image.Image.
func (i *Image) At(x, y int) color.Color {
	return i.RGB565At(x, y)
}

// RGB565At returns the pixel at (x, y) or Black when out of bounds.
func (i *Image) RGB565At(x, y int) Color {
	if !(image.Point{X: x, Y: y}.In(i.Rect)) {
		return Black
	}
	o := i.PixOffset(x, y)
	return Color(uint16(i.Pix[o])<<8 | uint16(i.Pix[o+1]))
}

// Set implements draw.Image.
func (i *Image) Set(x, y int, c color.Color) {
	i.SetRGB565(x, y, Model.Convert(c).(Color))
}

// SetRGB565 sets the pixel at (x, y). Out of bounds writes are ignored.
func (i *Image) SetRGB565(x, y int, c Color) {
	if !(image.Point{X: x, Y: y}.In(i.Rect)) {
		return
	}
	o := i.PixOffset(x, y)
	i.Pix[o], i.Pix[o+1] = c.Bytes()
}

// Fill sets every pixel of r that lies in the image to c.
func (i *Image) Fill(r image.Rectangle, c Color) {
	r = r.Intersect(i.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			i.SetRGB565(x, y, c)
		}
	}
}

// PixOffset returns the index of the high byte of the pixel at (x, y).
func (i *Image) PixOffset(x, y int) int {
	return (y-i.Rect.Min.Y)*i.Stride + (x-i.Rect.Min.X)*2
}
