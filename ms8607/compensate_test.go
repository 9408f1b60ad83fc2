// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ms8607

import (
	"errors"
	"math"
	"testing"
)

// Calibration from the datasheet worked example, with a valid CRC nibble.
var datasheetCal = Calibration{0xa920, 46372, 43981, 29059, 27842, 31553, 28165}

const (
	datasheetD1 = 6465444
	datasheetD2 = 8077636
)

func TestCompensateDatasheet(t *testing.T) {
	temp, p := compensate(datasheetD1, datasheetD2, &datasheetCal)
	if temp != 2000 {
		t.Errorf("temperature %d, expected 2000", temp)
	}
	if p != 110002 {
		t.Errorf("pressure %d, expected 110002", p)
	}
}

func TestCompensateDeterministic(t *testing.T) {
	temp0, p0 := compensate(datasheetD1, datasheetD2, &datasheetCal)
	for range 100 {
		temp, p := compensate(datasheetD1, datasheetD2, &datasheetCal)
		if temp != temp0 || p != p0 {
			t.Fatalf("compensate not deterministic: (%d, %d) != (%d, %d)", temp, p, temp0, p0)
		}
	}
}

func TestCompensateBranches(t *testing.T) {
	var tests = []struct {
		name string
		d2   uint32
		temp int64
		p    int64
	}{
		// dT=0, first order TEMP exactly 20.00°C, no correction.
		{name: "20.00", d2: 8077568, temp: 2000, p: 110002},
		// dT=-1, first order TEMP 19.99°C, OFF2=3 SENS2=1.
		{name: "19.99", d2: 8077567, temp: 1999, p: 110002},
		// First order TEMP -15.00°C, only the low temperature branch.
		{name: "-15.00", d2: 7035135, temp: -2006, p: 100912},
		// First order TEMP -15.01°C, both branches.
		{name: "-15.01", d2: 7034838, temp: -2007, p: 100909},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			temp, p := compensate(datasheetD1, test.d2, &datasheetCal)
			if temp != test.temp || p != test.p {
				t.Errorf("compensate(D2=%d)=(%d, %d) expected (%d, %d)", test.d2, temp, p, test.temp, test.p)
			}
		})
	}
}

func TestSecondOrder(t *testing.T) {
	var tests = []struct {
		dT, temp        int64
		t2, off2, sens2 int64
	}{
		{dT: 0, temp: 2000},
		{dT: 1000, temp: 2500},
		{dT: -1, temp: 1999, t2: 0, off2: 3, sens2: 1},
		{dT: -1042433, temp: -1500, t2: 506, off2: 46703125, sens2: 22203125},
		// 61*3501²/16 + 17 and 29*3501²/16 + 9.
		{dT: -1042730, temp: -1501, t2: 506, off2: 46729833, sens2: 22215823},
	}
	for _, test := range tests {
		t2, off2, sens2 := secondOrder(test.dT, test.temp)
		if t2 != test.t2 || off2 != test.off2 || sens2 != test.sens2 {
			t.Errorf("secondOrder(%d, %d)=(%d, %d, %d) expected (%d, %d, %d)",
				test.dT, test.temp, t2, off2, sens2, test.t2, test.off2, test.sens2)
		}
	}
}

func TestHumidityFromADC(t *testing.T) {
	var tests = []struct {
		adc uint16
		res HumidityResolution
		rh  float64
	}{
		{adc: 0x683a, res: Humidity12Bit, rh: 44.872802734375},
		{adc: 0x683a, res: Humidity11Bit, rh: 44.84228515625},
		{adc: 0x683a, res: Humidity10Bit, rh: 44.78125},
		{adc: 0x683a, res: Humidity8Bit, rh: 44.78125},
		{adc: 0x8000, res: Humidity12Bit, rh: 56.5},
		{adc: 0x0000, res: Humidity12Bit, rh: -6},
	}
	for _, test := range tests {
		if rh := humidityFromADC(test.adc, test.res); rh != test.rh {
			t.Errorf("humidityFromADC(0x%x, %s)=%v expected %v", test.adc, test.res, rh, test.rh)
		}
	}
}

func TestCompensatedHumidity(t *testing.T) {
	var tests = []struct {
		t, rh, expected float64
	}{
		{t: 20, rh: 50, expected: 50},
		{t: 25, rh: 50, expected: 50.9},
		{t: 10, rh: 50, expected: 48.2},
		// Not clamped.
		{t: 80, rh: 99.5, expected: 110.3},
	}
	for _, test := range tests {
		if v := compensatedHumidity(test.t, test.rh); math.Abs(v-test.expected) > 1e-9 {
			t.Errorf("compensatedHumidity(%v, %v)=%v expected %v", test.t, test.rh, v, test.expected)
		}
	}
}

func TestDewPoint(t *testing.T) {
	var tests = []struct {
		t, rh, expected float64
	}{
		{t: 25, rh: 50, expected: 13.889371568584835},
		{t: 20, rh: 100, expected: 20},
		{t: 0, rh: 80, expected: -3.0147184170049},
		{t: -10, rh: 30, expected: -24.160020493210965},
	}
	for _, test := range tests {
		v, err := dewPoint(test.t, test.rh)
		if err != nil {
			t.Errorf("dewPoint(%v, %v) returned %v", test.t, test.rh, err)
			continue
		}
		if math.Abs(v-test.expected) > 1e-6 {
			t.Errorf("dewPoint(%v, %v)=%v expected %v", test.t, test.rh, v, test.expected)
		}
	}
}

func TestDewPointDomain(t *testing.T) {
	for _, in := range [][2]float64{{25, 0}, {25, -3}, {-magnusC, 50}, {25, math.NaN()}} {
		if _, err := dewPoint(in[0], in[1]); !errors.Is(err, ErrComputation) {
			t.Errorf("dewPoint(%v, %v) error %v, expected ErrComputation", in[0], in[1], err)
		}
	}
}

func TestAltitude(t *testing.T) {
	if v := AdjustToSeaLevel(1013.25, 0); v != 1013.25 {
		t.Errorf("AdjustToSeaLevel at 0m=%v", v)
	}
	if v := AdjustToSeaLevel(1013.25, 100); math.Abs(v-1025.3465488764598) > 1e-6 {
		t.Errorf("AdjustToSeaLevel at 100m=%v", v)
	}
	if v := AltitudeChange(1000, 1013.25); math.Abs(v-110.90104538806403) > 1e-6 {
		t.Errorf("AltitudeChange=%v", v)
	}
	if v := AltitudeChange(1000, 1000); v != 0 {
		t.Errorf("AltitudeChange same pressure=%v", v)
	}
}
