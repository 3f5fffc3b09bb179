// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ssd1331 controls a 96x64 16 bits color OLED display via a SSD1331
// controller over 4-wire SPI.
//
// The driver has no frame buffer. Every pixel is written by setting a 1x1
// addressing window (column then row) followed by the two bytes of its
// RGB565 color, high byte first. Erasing the screen, lines and filled
// rectangles use the controller's graphic acceleration commands instead.
//
// Text is drawn with the tiny font of package font5x7, which only covers
// digits, 'C', ':', '°', '.' and '%'. Other characters are skipped without
// moving the cursor.
//
// # Wiring
//
// The module exposes SCL (SPI clock), SDA (MOSI), CS, DC (data/command
// select) and RES (reset). There is no MISO line: the controller is write
// only. DC low means the byte is a command or a command operand, DC high
// means display RAM data.
//
// # Datasheet
//
// https://cdn-shop.adafruit.com/datasheets/SSD1331_1.2.pdf
//
// # Product page
//
// https://www.adafruit.com/product/684
package ssd1331
