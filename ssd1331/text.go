// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1331

import (
	"github.com/GermanBionicSystems/thermoled/ssd1331/font5x7"
	"github.com/GermanBionicSystems/thermoled/ssd1331/rgb565"
)

type pixelSetter interface {
	setPixel(x, y int, c rgb565.Color) error
}

// clampCursor moves a cursor outside of the panel onto its last column or
// row.
func clampCursor(x, y int) (int, int) {
	switch {
	case x < 0:
		x = 0
	case x > Width-1:
		x = Width - 1
	}
	switch {
	case y < 0:
		y = 0
	case y > Height-1:
		y = Height - 1
	}
	return x, y
}

func drawChar(p pixelSetter, x, y int, id font5x7.ID, c rgb565.Color) error {
	if !id.Valid() {
		return &ArgumentError{Name: "glyph id", Value: int(id)}
	}
	x, y = clampCursor(x, y)
	g := id.Glyph()
	for col := 0; col < font5x7.Width; col++ {
		for row := 1; row < font5x7.Height; row++ {
			if !g.Lit(col, row) {
				continue
			}
			if err := p.setPixel(x+col, y+row, c); err != nil {
				return err
			}
		}
	}
	return nil
}

// drawString draws the supported runes of text. Unsupported runes are
// skipped and do not move the cursor.
func drawString(p pixelSetter, x, y int, text string, c rgb565.Color) error {
	for _, r := range text {
		id, ok := font5x7.Lookup(r)
		if !ok {
			continue
		}
		if err := drawChar(p, x, y, id, c); err != nil {
			return err
		}
		x += font5x7.Advance
	}
	return nil
}
