// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1331

import (
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// resetDelay is the minimum time RST is held in each level during the
// hardware reset pulse.
const resetDelay = 100 * time.Millisecond

// sleep is replaced in tests.
var sleep = time.Sleep

// transport is the 4-wire link to the controller: the SPI connection plus
// the DC (data/command) and RST lines.
type transport struct {
	c   conn.Conn
	dc  gpio.PinOut
	rst gpio.PinOut
}

// errorHandler is a wrapper for error management. Once an operation failed,
// every following one is skipped and err keeps the first failure.
type errorHandler struct {
	t   *transport
	err error
}

func (eh *errorHandler) dcOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.t.dc.Out(l)
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.t.rst.Out(l)
}

func (eh *errorHandler) cTx(b byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.t.c.Tx([]byte{b}, nil)
}

// reset drives both control lines as outputs and pulses RST low.
func (eh *errorHandler) reset() {
	eh.dcOut(gpio.Low)
	eh.rstOut(gpio.Low)
	if eh.err != nil {
		return
	}
	sleep(resetDelay)
	eh.rstOut(gpio.High)
	if eh.err != nil {
		return
	}
	sleep(resetDelay)
}

// sendCommand sends each byte in its own transaction with DC low. The
// SSD1331 expects command operands in command mode too.
func (eh *errorHandler) sendCommand(cmd ...byte) {
	for _, b := range cmd {
		eh.dcOut(gpio.Low)
		eh.cTx(b)
	}
}

// sendData sends each byte in its own transaction with DC high.
func (eh *errorHandler) sendData(data ...byte) {
	for _, b := range data {
		eh.dcOut(gpio.High)
		eh.cTx(b)
	}
}
