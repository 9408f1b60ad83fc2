// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package envbar draws environmental readings as colored bars on a terminal
// using ANSI color codes.
//
// Useful to watch a sensor from a shell without any plotting tool.
package envbar

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/physic"
)

// Opts represents the options available for this display.
type Opts struct {
	// Width is the number of cells of each bar. Default is 20.
	Width int
	// Palette defaults to ansi256.Default.
	Palette *ansi256.Palette
	// W defaults to a colorable stdout.
	W io.Writer

	_ struct{}
}

// Ranges of the bars, matching the operating range of the MS8607.
const (
	minTemperature = -40.0
	maxTemperature = 85.0
	minPressure    = 10.0
	maxPressure    = 2000.0
	minHumidity    = 0.0
	maxHumidity    = 100.0
)

var (
	temperatureColor = color.NRGBA{255, 0, 0, 255}
	pressureColor    = color.NRGBA{0, 255, 0, 255}
	humidityColor    = color.NRGBA{0, 0, 255, 255}
	emptyColor       = color.NRGBA{48, 48, 48, 255}
)

// Dev renders a physic.Env on a single console line.
type Dev struct {
	w       io.Writer
	width   int
	palette ansi256.Palette

	buf bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	if opts == nil {
		opts = &Opts{}
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	width := opts.Width
	if width <= 0 {
		width = 20
	}
	return &Dev{w: w, width: width, palette: *p}
}

func (d *Dev) String() string {
	return "EnvBar"
}

// Halt implements conn.Resource.
//
// It resets the colors and moves to the next line.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Draw overwrites the current console line with the temperature, pressure
// and humidity bars of e.
func (d *Dev) Draw(e physic.Env) error {
	t := float64(e.Temperature-physic.ZeroCelsius) / float64(physic.Celsius)
	p := float64(e.Pressure) / float64(100*physic.Pascal)
	h := float64(e.Humidity) / float64(physic.PercentRH)

	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m")
	d.bar(fill(t, minTemperature, maxTemperature, d.width), temperatureColor)
	_, _ = fmt.Fprintf(&d.buf, " %7.2f°C ", t)
	d.bar(fill(p, minPressure, maxPressure, d.width), pressureColor)
	_, _ = fmt.Fprintf(&d.buf, " %7.2fmbar ", p)
	d.bar(fill(h, minHumidity, maxHumidity, d.width), humidityColor)
	_, _ = fmt.Fprintf(&d.buf, " %6.2f%%RH", h)
	_, err := d.buf.WriteTo(d.w)
	return err
}

func (d *Dev) bar(n int, c color.NRGBA) {
	for i := 0; i < d.width; i++ {
		if i < n {
			_, _ = io.WriteString(&d.buf, d.palette.Block(c))
		} else {
			_, _ = io.WriteString(&d.buf, d.palette.Block(emptyColor))
		}
	}
	_, _ = d.buf.WriteString("\033[0m")
}

// fill returns the number of cells out of width lit for v in [lo, hi].
func fill(v, lo, hi float64, width int) int {
	if math.IsNaN(v) || v <= lo {
		return 0
	}
	if v >= hi {
		return width
	}
	return int(math.Round((v - lo) / (hi - lo) * float64(width)))
}

var _ fmt.Stringer = &Dev{}
