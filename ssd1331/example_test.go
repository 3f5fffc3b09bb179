// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1331_test

import (
	"fmt"
	"image"
	"log"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/thermoled/ssd1331"
	"github.com/GermanBionicSystems/thermoled/ssd1331/rgb565"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	dev, err := ssd1331.Open(&ssd1331.Config{
		Bus:       "SPI0.0",
		MOSI:      10,
		CLK:       11,
		CS:        8,
		DC:        25,
		RST:       24,
		Frequency: 10 * physic.MegaHertz,
	})
	if err != nil {
		log.Fatalf("failed to initialize display: %v", err)
	}
	defer dev.Close()

	if err := dev.ClearWindow(); err != nil {
		log.Fatal(err)
	}
	if err := dev.DrawString(0, 0, "21.5°C", rgb565.Yellow); err != nil {
		log.Fatal(err)
	}
	if err := dev.DrawString(0, 10, "48%", rgb565.Cyan); err != nil {
		log.Fatal(err)
	}
}

func ExampleNew() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	// Use spireg SPI port registry to find the first available SPI bus.
	p, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()
	dc := gpioreg.ByName("GPIO25")
	rst := gpioreg.ByName("GPIO24")
	dev, err := ssd1331.New(p, dc, rst, &ssd1331.DefaultOpts)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("device=%s\n", dev)

	// Draw a frame with the controller, then a diagonal.
	if err := dev.FillRect(dev.Bounds(), rgb565.White, rgb565.Black); err != nil {
		log.Fatal(err)
	}
	if err := dev.DrawLine(image.Pt(0, 0), image.Pt(95, 63), rgb565.Red); err != nil {
		log.Fatal(err)
	}
}

func ExampleDev_Draw() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	dev, err := ssd1331.Open(&ssd1331.Config{MOSI: 10, CLK: 11, CS: 8, DC: 25, RST: 24, Frequency: 10 * physic.MegaHertz})
	if err != nil {
		log.Fatal(err)
	}
	defer dev.Close()

	// Any font works through Draw, at the cost of one addressing window
	// per pixel.
	img := rgb565.NewImage(dev.Bounds())
	f := basicfont.Face7x13
	drawer := font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{C: rgb565.Green},
		Face: f,
		Dot:  fixed.P(0, img.Bounds().Dy()-1-f.Descent),
	}
	drawer.DrawString("periph")
	if err := dev.Draw(dev.Bounds(), img, image.Point{}); err != nil {
		log.Fatal(err)
	}
}

func ExampleDev_Draw_gg() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	dev, err := ssd1331.Open(&ssd1331.Config{MOSI: 10, CLK: 11, CS: 8, DC: 25, RST: 24, Frequency: 10 * physic.MegaHertz})
	if err != nil {
		log.Fatal(err)
	}
	defer dev.Close()

	tt, err := truetype.Parse(goregular.TTF)
	if err != nil {
		log.Fatal(err)
	}
	b := dev.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	dc.SetRGB(1, 0.5, 0)
	dc.DrawCircle(48, 32, 30)
	dc.Stroke()
	dc.SetFontFace(truetype.NewFace(tt, &truetype.Options{Size: 16}))
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored("21°", 48, 32, 0.5, 0.5)
	if err := dev.Draw(b, dc.Image(), image.Point{}); err != nil {
		log.Fatal(err)
	}
}
