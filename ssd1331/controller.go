// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1331

import (
	"image"

	"github.com/GermanBionicSystems/thermoled/ssd1331/rgb565"
)

// Commands. Datasheet section 8 and table 9-1.
const (
	drawLine         byte = 0x21
	drawRect         byte = 0x22
	clearWin         byte = 0x25
	fillMode         byte = 0x26
	setColumn        byte = 0x15
	setRow           byte = 0x75
	contrastA        byte = 0x81
	contrastB        byte = 0x82
	contrastC        byte = 0x83
	masterCurrent    byte = 0x87
	prechargeA       byte = 0x8A
	prechargeB       byte = 0x8B
	prechargeC       byte = 0x8C
	setRemap         byte = 0xA0
	startLine        byte = 0xA1
	displayOffset    byte = 0xA2
	normalDisplay    byte = 0xA4
	invertDisplay    byte = 0xA7
	setMultiplex     byte = 0xA8
	setMaster        byte = 0xAD
	displayOff       byte = 0xAE
	displayOn        byte = 0xAF
	powerMode        byte = 0xB0
	precharge        byte = 0xB1
	clockDiv         byte = 0xB3
	prechargeLevel   byte = 0xBB
	vcomh            byte = 0xBE
	fillEnable       byte = 0x01
	remapRGB65k      byte = 0x72
	multiplexDuty164 byte = 0x3F
)

type controller interface {
	sendCommand(cmd ...byte)
	sendData(data ...byte)
}

// initDisplay sends the bring-up register sequence. The values are the
// panel vendor recipe and must not be altered.
func initDisplay(ctrl controller) {
	ctrl.sendCommand(displayOff)
	ctrl.sendCommand(setRemap, remapRGB65k)
	ctrl.sendCommand(startLine, 0x00)
	ctrl.sendCommand(displayOffset, 0x00)
	ctrl.sendCommand(normalDisplay)
	ctrl.sendCommand(setMultiplex, multiplexDuty164)
	// External VCC supply.
	ctrl.sendCommand(setMaster, 0x8E)
	ctrl.sendCommand(powerMode, 0x0B)
	// Phase 1 and 2 periods.
	ctrl.sendCommand(precharge, 0x31)
	// 7:4 oscillator frequency, 3:0 divide ratio - 1.
	ctrl.sendCommand(clockDiv, 0xF0)
	ctrl.sendCommand(prechargeA, 0x64)
	ctrl.sendCommand(prechargeB, 0x78)
	ctrl.sendCommand(prechargeC, 0x64)
	ctrl.sendCommand(prechargeLevel, 0x3A)
	ctrl.sendCommand(vcomh, 0x3E)
	ctrl.sendCommand(masterCurrent, 0x06)
	ctrl.sendCommand(contrastA, 0x91)
	ctrl.sendCommand(contrastB, 0x50)
	ctrl.sendCommand(contrastC, 0x7D)
	ctrl.sendCommand(displayOn)
	ctrl.sendCommand(fillMode, fillEnable)
}

func setDisplay(ctrl controller, on bool) {
	if on {
		ctrl.sendCommand(displayOn)
	} else {
		ctrl.sendCommand(displayOff)
	}
}

// writePixel sets a 1x1 addressing window on (x, y) and writes one pixel.
func writePixel(ctrl controller, x, y byte, c rgb565.Color) {
	ctrl.sendCommand(setColumn, x, x)
	ctrl.sendCommand(setRow, y, y)
	hi, lo := c.Bytes()
	ctrl.sendData(hi, lo)
}

// clearWindow erases r in the controller. r must not be empty.
func clearWindow(ctrl controller, r image.Rectangle) {
	ctrl.sendCommand(clearWin, byte(r.Min.X), byte(r.Min.Y), byte(r.Max.X-1), byte(r.Max.Y-1))
}

// channels returns c in the order the graphic acceleration commands take
// it: C, B, A, each 6 bits.
func channels(c rgb565.Color) (byte, byte, byte) {
	r5, g6, b5 := c.Components()
	return r5 << 1, g6, b5 << 1
}

func line(ctrl controller, p0, p1 image.Point, c rgb565.Color) {
	cc, cb, ca := channels(c)
	ctrl.sendCommand(drawLine, byte(p0.X), byte(p0.Y), byte(p1.X), byte(p1.Y), cc, cb, ca)
}

// rect draws r with the outline color and, as fill mode is enabled at
// bring-up, fills its inside. r must not be empty.
func rect(ctrl controller, r image.Rectangle, outline, fill rgb565.Color) {
	oc, ob, oa := channels(outline)
	fc, fb, fa := channels(fill)
	ctrl.sendCommand(drawRect,
		byte(r.Min.X), byte(r.Min.Y), byte(r.Max.X-1), byte(r.Max.Y-1),
		oc, ob, oa,
		fc, fb, fa)
}

func setContrast(ctrl controller, a, b, c byte) {
	ctrl.sendCommand(contrastA, a)
	ctrl.sendCommand(contrastB, b)
	ctrl.sendCommand(contrastC, c)
}

func invert(ctrl controller, inverted bool) {
	if inverted {
		ctrl.sendCommand(invertDisplay)
	} else {
		ctrl.sendCommand(normalDisplay)
	}
}
