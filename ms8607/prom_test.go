// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ms8607

import (
	"testing"
)

func TestValidatePROM(t *testing.T) {
	if !datasheetCal.Valid() {
		t.Fatalf("%s: expected valid CRC", &datasheetCal)
	}
	if c := datasheetCal.CRC(); c != 0xa {
		t.Errorf("CRC()=0x%x expected 0xa", c)
	}
	if validatePROM(datasheetCal[:6], datasheetCal.CRC()) {
		t.Error("validatePROM accepted a short word list")
	}
	if validatePROM(datasheetCal[:], 0x3) {
		t.Error("validatePROM accepted a wrong nibble")
	}
}

// Every single bit flip in any PROM word, including the CRC nibble itself,
// must be detected.
func TestValidatePROMBitFlips(t *testing.T) {
	for word := range promWords {
		for bit := range 16 {
			cal := datasheetCal
			cal[word] ^= 1 << bit
			if cal.Valid() {
				t.Errorf("flip of word %d bit %d not detected: %s", word, bit, &cal)
			}
		}
	}
}

func TestCalibrationC(t *testing.T) {
	expected := []uint16{46372, 43981, 29059, 27842, 31553, 28165}
	for i, v := range expected {
		if c := datasheetCal.C(i + 1); c != v {
			t.Errorf("C(%d)=%d expected %d", i+1, c, v)
		}
	}
	if datasheetCal.C(0) != 0 || datasheetCal.C(7) != 0 {
		t.Error("out of range coefficient index returned data")
	}
}
