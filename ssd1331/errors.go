// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1331

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady is returned by operations issued before the bring-up
	// sequence completed, or after it failed.
	ErrNotReady = errors.New("ssd1331: device is not ready")
	// ErrClosed is returned by operations issued after Close.
	ErrClosed = errors.New("ssd1331: device is closed")
)

// ConfigError reports a missing or invalid configuration. No GPIO or bus
// operation was performed when it is returned.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "ssd1331: invalid configuration: " + e.Reason
	}
	return fmt.Sprintf("ssd1331: invalid configuration: %s: %s", e.Field, e.Reason)
}

// BusError wraps a failure of the SPI bus or of one of the control lines.
type BusError struct {
	// Op is the operation that failed, e.g. "open", "connect", "init",
	// "setPixel".
	Op  string
	Err error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("ssd1331: %s: %v", e.Op, e.Err)
}

func (e *BusError) Unwrap() error {
	return e.Err
}

// ArgumentError reports an argument outside of what the controller can
// address. Nothing was sent to the display.
type ArgumentError struct {
	Name  string
	Value int
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("ssd1331: invalid %s %d", e.Name, e.Value)
}
