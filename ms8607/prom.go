// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ms8607

import (
	"fmt"

	"github.com/GermanBionicSystems/pht/common"
)

const (
	// PROM word count, including word 0 which holds the CRC nibble.
	promWords = 7

	cmdReadPROM byte = 0xa0
)

// Calibration holds the factory calibration words of the pressure die.
//
// Index 0 carries the CRC nibble in its top 4 bits, indexes 1..6 are the
// coefficients C1..C6:
//
//	C1 pressure sensitivity (SENS_T1)
//	C2 pressure offset (OFF_T1)
//	C3 temperature coefficient of pressure sensitivity (TCS)
//	C4 temperature coefficient of pressure offset (TCO)
//	C5 reference temperature (T_REF)
//	C6 temperature coefficient of the temperature (TEMPSENS)
type Calibration [promWords]uint16

// C returns coefficient Ci, i in 1..6.
func (c *Calibration) C(i int) uint16 {
	if i < 1 || i >= promWords {
		return 0
	}
	return c[i]
}

// CRC returns the checksum nibble programmed in the PROM.
func (c *Calibration) CRC() byte {
	return byte(c[0] >> 12)
}

// Valid reports whether the stored CRC matches the coefficients.
func (c *Calibration) Valid() bool {
	return validatePROM(c[:], c.CRC())
}

func (c *Calibration) String() string {
	return fmt.Sprintf("{CRC: 0x%x, C1: %d, C2: %d, C3: %d, C4: %d, C5: %d, C6: %d}",
		c.CRC(), c[1], c[2], c[3], c[4], c[5], c[6])
}

// validatePROM checks words against the claimed CRC nibble. The device keeps
// the nibble in the top 4 bits of word 0, not in the last word.
func validatePROM(words []uint16, crc byte) bool {
	if len(words) != promWords {
		return false
	}
	return common.CRC4(words) == crc&0x0f
}

// readPROM reads and validates the 7 PROM words.
//
// It must be called with d.mu lock held.
func (d *Dev) readPROM() (Calibration, error) {
	var cal Calibration
	r := make([]byte, 2)
	for i := range promWords {
		cmd := cmdReadPROM + byte(2*i)
		if err := d.p.Tx([]byte{cmd}, r); err != nil {
			return Calibration{}, fmt.Errorf("ms8607: reading PROM word %d: %w: %w", i, ErrNoAcknowledge, err)
		}
		cal[i] = uint16(r[0])<<8 | uint16(r[1])
	}
	if !cal.Valid() {
		lg.Debugf("PROM crc mismatch: stored 0x%x computed 0x%x", cal.CRC(), common.CRC4(cal[:]))
		return Calibration{}, fmt.Errorf("ms8607: PROM: %w", ErrCRC)
	}
	lg.Debugf("PROM verified: %s", &cal)
	return cal, nil
}
