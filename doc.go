// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package thermoled is a container for the drivers of the thermoled
// appliance: a DHT11 sensor whose readings are shown on a SSD1331 OLED.
//
// See ssd1331 for the display driver, dht11 for the sensor, panelsim to run
// without the hardware and cmd/thermoled for the application.
package thermoled
