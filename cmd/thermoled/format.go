// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
)

// formatTemperature returns t in degrees Celsius with one decimal, e.g.
// "24.4°C". The font has no minus sign, so negative values lose it on
// screen.
func formatTemperature(t physic.Temperature) string {
	return fixed1(int64(t-physic.ZeroCelsius), int64(physic.Celsius/10)) + "°C"
}

// formatHumidity returns h in percent with one decimal, e.g. "62.5%".
func formatHumidity(h physic.RelativeHumidity) string {
	return fixed1(int64(h), int64(physic.PercentRH/10)) + "%"
}

// fixed1 formats v/(10*tenth) with one decimal, rounding half away from
// zero.
func fixed1(v, tenth int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	n := (v + tenth/2) / tenth
	if n == 0 {
		sign = ""
	}
	return fmt.Sprintf("%s%d.%d", sign, n/10, n%10)
}
