// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package common

import "testing"

func TestCRC8(t *testing.T) {
	var tests = []struct {
		bytes  []byte
		init   byte
		result byte
	}{
		{bytes: []byte{0xbe, 0xef}, init: 0xff, result: 0x92},
		{bytes: []byte{0x01, 0xa4}, init: 0xff, result: 0x4d},
		{bytes: []byte{0xab, 0xcd}, init: 0xff, result: 0x6f},
		// HTU21D/MS8607 humidity datasheet examples.
		{bytes: []byte{0xdc}, init: 0x00, result: 0x79},
		{bytes: []byte{0x68, 0x3a}, init: 0x00, result: 0x7c},
		{bytes: []byte{0x4e, 0x85}, init: 0x00, result: 0x6b},
	}
	for _, test := range tests {
		res := CRC8(test.bytes, test.init)
		if res != test.result {
			t.Errorf("CRC8(%#v, 0x%x)!=0x%x received 0x%x", test.bytes, test.init, test.result, res)
		}
	}
}

func TestCRC4(t *testing.T) {
	var tests = []struct {
		words  []uint16
		result byte
	}{
		{words: []uint16{0x0000, 46372, 43981, 29059, 27842, 31553, 28165}, result: 0x8},
		{words: []uint16{0x00b4, 46372, 43981, 29059, 27842, 31553, 28165}, result: 0x7},
		{words: []uint16{0x0920, 46372, 43981, 29059, 27842, 31553, 28165}, result: 0xa},
		// The stored nibble does not take part in the computation.
		{words: []uint16{0xa920, 46372, 43981, 29059, 27842, 31553, 28165}, result: 0xa},
	}
	for _, test := range tests {
		res := CRC4(test.words)
		if res != test.result {
			t.Errorf("CRC4(%#v)!=0x%x received 0x%x", test.words, test.result, res)
		}
	}
}

func TestCRC4DoesNotModifyInput(t *testing.T) {
	words := []uint16{0xa920, 0xb524, 0xabcd, 0x7183, 0x6cc2, 0x7b41, 0x6e05}
	_ = CRC4(words)
	if words[0] != 0xa920 {
		t.Errorf("CRC4 modified words[0]: 0x%x", words[0])
	}
}
