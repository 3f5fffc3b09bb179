// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package font5x7

import "testing"

func TestGlyphsRowZeroBlank(t *testing.T) {
	for id := ID(0); id.Valid(); id++ {
		for col, b := range id.Glyph() {
			if b&0x80 != 0 {
				t.Errorf("glyph %d column %d uses bit 7: %#02x", id, col, b)
			}
			if id.Glyph().Lit(col, 0) {
				t.Errorf("glyph %d column %d lights row 0", id, col)
			}
		}
	}
}

func TestLit(t *testing.T) {
	g := Glyphs[Digit1]
	// Column 2 of '1' is the vertical bar: 0x7F lights rows 1..7.
	for row := 1; row < Height; row++ {
		if !g.Lit(2, row) {
			t.Errorf("Lit(2, %d) = false", row)
		}
	}
	if g.Lit(0, 3) {
		t.Error("Lit(0, 3) = true")
	}
	if g.Lit(-1, 1) || g.Lit(Width, 1) || g.Lit(2, Height) {
		t.Error("out of cell pixels must not be lit")
	}
	// 0x42 on column 1: bits 1 and 6 -> rows 2 and 7.
	if !g.Lit(1, 2) || !g.Lit(1, 7) || g.Lit(1, 1) {
		t.Error("column 1 of '1' decoded incorrectly")
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		r    rune
		want ID
		ok   bool
	}{
		{'0', Digit0, true},
		{'9', Digit9, true},
		{'C', C, true},
		{'c', 0, false},
		{':', Colon, true},
		{'°', Degree, true},
		{0x00B0, Degree, true},
		{'.', Period, true},
		{'%', Percent, true},
		{'A', 0, false},
		{' ', 0, false},
		{'-', 0, false},
	}
	for _, tt := range tests {
		id, ok := Lookup(tt.r)
		if ok != tt.ok || (ok && id != tt.want) {
			t.Errorf("Lookup(%q) = %d, %t, want %d, %t", tt.r, id, ok, tt.want, tt.ok)
		}
	}
}

func TestValid(t *testing.T) {
	if NumGlyphs != 15 {
		t.Errorf("NumGlyphs = %d", NumGlyphs)
	}
	if !Percent.Valid() {
		t.Error("Percent is not valid")
	}
	if ID(NumGlyphs).Valid() || ID(255).Valid() {
		t.Error("IDs past the table must be invalid")
	}
}
