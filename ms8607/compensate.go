// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ms8607

import (
	"fmt"
	"math"
)

// compensate returns the temperature in 0.01°C and the pressure in 0.01mbar
// (Pa) from the raw D1 (pressure) and D2 (temperature) codes.
//
// Integer arithmetic with arithmetic right shifts, as in the datasheet. Output
// value of 2007 equals 20.07°C.
func compensate(d1, d2 uint32, c *Calibration) (int64, int64) {
	dT := int64(d2) - int64(c[5])<<8
	temp := 2000 + (dT*int64(c[6]))>>23
	off := int64(c[2])<<17 + (int64(c[4])*dT)>>6
	sens := int64(c[1])<<16 + (int64(c[3])*dT)>>7

	t2, off2, sens2 := secondOrder(dT, temp)
	temp -= t2
	off -= off2
	sens -= sens2

	p := ((int64(d1)*sens)>>21 - off) >> 15
	return temp, p
}

// secondOrder returns the low temperature corrections T2, OFF2 and SENS2 for
// the first order temperature temp (0.01°C). Above 20°C no correction is
// applied.
func secondOrder(dT, temp int64) (int64, int64, int64) {
	if temp >= 2000 {
		return 0, 0, 0
	}
	t2 := (dT * dT) >> 31
	low := (temp - 2000) * (temp - 2000)
	off2 := (61 * low) >> 4
	sens2 := (29 * low) >> 4
	if temp < -1500 {
		veryLow := (temp + 1500) * (temp + 1500)
		off2 += 17 * veryLow
		sens2 += 9 * veryLow
	}
	return t2, off2, sens2
}

const (
	humidityCoeffMul = 125.0
	humidityCoeffAdd = -6.0

	// Humidity compensation coefficient, in %RH/°C.
	humidityTempCoeff = -0.18

	// Magnus constants for the partial pressure of water vapour.
	magnusA = 8.1332
	magnusB = 1762.39
	magnusC = 235.66
)

// humidityFromADC converts the raw 16 bit humidity code to %RH. Bits below
// the configured resolution carry no information and are cleared first.
func humidityFromADC(adc uint16, res HumidityResolution) float64 {
	bits := res.Bits()
	if bits == 0 || bits > 16 {
		bits = 16
	}
	adc &^= uint16(1)<<(16-bits) - 1
	return float64(adc)*humidityCoeffMul/(1<<16) + humidityCoeffAdd
}

// compensatedHumidity corrects rh (%RH) measured at t (°C) to its 20°C
// equivalent. The result is not clamped to 0..100%RH.
func compensatedHumidity(t, rh float64) float64 {
	return rh + (20-t)*humidityTempCoeff
}

// dewPoint returns the dew point in °C using the Magnus formula.
func dewPoint(t, rh float64) (float64, error) {
	if t+magnusC == 0 {
		return 0, fmt.Errorf("ms8607: dew point at %g°C: %w", t, ErrComputation)
	}
	partialPressure := math.Pow(10, magnusA-magnusB/(t+magnusC))
	x := rh * partialPressure / 100
	if x <= 0 || math.IsNaN(x) {
		return 0, fmt.Errorf("ms8607: dew point at %g%%RH: %w", rh, ErrComputation)
	}
	den := math.Log10(x) - magnusA
	if den == 0 {
		return 0, fmt.Errorf("ms8607: dew point at %g°C %g%%RH: %w", t, rh, ErrComputation)
	}
	dp := -(magnusB/den + magnusC)
	if math.IsNaN(dp) || math.IsInf(dp, 0) {
		return 0, fmt.Errorf("ms8607: dew point at %g°C %g%%RH: %w", t, rh, ErrComputation)
	}
	return dp, nil
}

// AdjustToSeaLevel returns the pressure at sea level, in the unit of
// absolute, for a reading taken at altitude meters.
func AdjustToSeaLevel(absolute, altitude float64) float64 {
	return absolute / math.Pow(1-altitude/44330.0, 5.255)
}

// AltitudeChange returns the altitude difference in meters between the
// points where current and baseline were measured. Both pressures must use
// the same unit.
func AltitudeChange(current, baseline float64) float64 {
	return 44330.0 * (1 - math.Pow(current/baseline, 1/5.255))
}
