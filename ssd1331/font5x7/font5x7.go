// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package font5x7 is a tiny fixed bitmap font covering what a thermometer
// readout needs: digits, 'C', ':', '°', '.' and '%'.
//
// Each glyph is 5 columns wide. In a column byte, bit n lights the pixel on
// row n+1 of the 8 rows high cell; row 0 is always blank and bit 7 is unused.
package font5x7

// ID identifies a glyph in Glyphs.
type ID uint8

// Glyph identifiers.
const (
	Digit0 ID = iota
	Digit1
	Digit2
	Digit3
	Digit4
	Digit5
	Digit6
	Digit7
	Digit8
	Digit9
	C
	Degree
	Colon
	Period
	Percent

	// NumGlyphs is the number of defined glyphs. Valid IDs are below it.
	NumGlyphs int = iota
)

const (
	// Width is the number of columns of a glyph.
	Width = 5
	// Height is the number of rows of a glyph cell, including blank row 0.
	Height = 8
	// Advance is the horizontal distance between two consecutive glyphs.
	Advance = Width + 2
)

// Glyph is the column-major bitmap of a character.
type Glyph [Width]byte

// Lit reports whether the pixel at column col and row row is set. Row 0 is
// never set.
func (g Glyph) Lit(col, row int) bool {
	if col < 0 || col >= Width || row < 1 || row >= Height {
		return false
	}
	return g[col]&(1<<uint(row-1)) != 0
}

// Glyphs is the font table, indexed by ID.
var Glyphs = [NumGlyphs]Glyph{
	Digit0:  {0x3E, 0x51, 0x49, 0x45, 0x3E},
	Digit1:  {0x00, 0x42, 0x7F, 0x40, 0x00},
	Digit2:  {0x62, 0x51, 0x49, 0x49, 0x46},
	Digit3:  {0x22, 0x41, 0x49, 0x49, 0x36},
	Digit4:  {0x18, 0x14, 0x12, 0x7F, 0x10},
	Digit5:  {0x27, 0x45, 0x45, 0x45, 0x39},
	Digit6:  {0x3E, 0x49, 0x49, 0x49, 0x30},
	Digit7:  {0x01, 0x71, 0x09, 0x05, 0x03},
	Digit8:  {0x36, 0x49, 0x49, 0x49, 0x36},
	Digit9:  {0x06, 0x49, 0x49, 0x29, 0x1E},
	C:       {0x3E, 0x41, 0x41, 0x41, 0x22},
	Degree:  {0x00, 0x06, 0x09, 0x09, 0x06},
	Colon:   {0x00, 0x36, 0x36, 0x00, 0x00},
	Period:  {0x00, 0x60, 0x60, 0x00, 0x00},
	Percent: {0x23, 0x13, 0x08, 0x64, 0x62},
}

// Valid reports whether id names a glyph of the table.
func (id ID) Valid() bool {
	return int(id) < NumGlyphs
}

// Glyph returns the bitmap of id. It panics if id is not Valid.
func (id ID) Glyph() Glyph {
	return Glyphs[id]
}

// runes is keyed by code point. 0x00B0 is the degree sign.
var runes = map[rune]ID{
	'0':    Digit0,
	'1':    Digit1,
	'2':    Digit2,
	'3':    Digit3,
	'4':    Digit4,
	'5':    Digit5,
	'6':    Digit6,
	'7':    Digit7,
	'8':    Digit8,
	'9':    Digit9,
	'C':    C,
	0x00B0: Degree,
	':':    Colon,
	'.':    Period,
	'%':    Percent,
}

// Lookup returns the glyph ID of r. The mapping is case sensitive: 'c' is
// not supported.
func Lookup(r rune) (ID, bool) {
	id, ok := runes[r]
	return id, ok
}
