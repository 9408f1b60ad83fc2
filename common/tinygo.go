// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package common

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"tinygo.org/x/drivers"
)

// TinyGoBus lets a driver written against periph's i2c.Bus run on a
// microcontroller I²C peripheral exposed through tinygo.org/x/drivers.
type TinyGoBus struct {
	// Name is returned by String(). Optional.
	Name string
	b    drivers.I2C
}

// NewTinyGoBus wraps b.
func NewTinyGoBus(b drivers.I2C) *TinyGoBus {
	return &TinyGoBus{b: b}
}

// Tx implements i2c.Bus.
func (t *TinyGoBus) Tx(addr uint16, w, r []byte) error {
	if t.b == nil {
		return errors.New("common: nil tinygo bus")
	}
	return t.b.Tx(addr, w, r)
}

// SetSpeed implements i2c.Bus. The TinyGo I²C interface configures the clock
// when the peripheral is configured, so changing it afterwards is not
// supported.
func (t *TinyGoBus) SetSpeed(f physic.Frequency) error {
	return fmt.Errorf("common: SetSpeed(%s) not supported on tinygo bus", f)
}

func (t *TinyGoBus) String() string {
	if t.Name != "" {
		return t.Name
	}
	return "tinygo-i2c"
}

var _ i2c.Bus = &TinyGoBus{}
