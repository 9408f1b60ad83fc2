// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains functions used across multiple packages. For
// example, the CRC calculations used by TE Connectivity and Sensirion sensors.
package common

// CRC8 calculates the 8-bit CRC of the byte slice parameter using the
// polynomial x^8+x^5+x^4+1 (0x31) and returns the calculated value.
//
// Sensirion and TI parts start with init=0xff, the TE Connectivity humidity
// dies (HTU21D, MS8607) start with init=0x00.
func CRC8(bytes []byte, init byte) byte {
	crc := init
	for _, val := range bytes {
		crc ^= val
		for range 8 {
			if (crc & 0x80) == 0 {
				crc <<= 1
			} else {
				crc = (byte)((crc << 1) ^ 0x31)
			}
		}
	}
	return crc
}

// CRC4 calculates the 4-bit CRC stored in the top nibble of the first PROM
// word of TE Connectivity pressure sensors (MS5637, MS8607).
//
// The nibble itself is excluded from the computation and an all-zero word is
// appended, as described in the datasheet application note AN520.
func CRC4(words []uint16) byte {
	var rem uint16
	n := len(words) + 1
	for cnt := 0; cnt < 2*n; cnt++ {
		var w uint16
		if i := cnt >> 1; i < len(words) {
			w = words[i]
			if i == 0 {
				w &= 0x0fff
			}
		}
		if cnt%2 == 1 {
			rem ^= w & 0x00ff
		} else {
			rem ^= w >> 8
		}
		for range 8 {
			if rem&0x8000 != 0 {
				rem = (rem << 1) ^ 0x3000
			} else {
				rem <<= 1
			}
		}
	}
	return byte((rem >> 12) & 0x0f)
}
