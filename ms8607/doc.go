// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ms8607 controls a TE Connectivity MS8607 pressure, humidity and
// temperature sensor over I²C.
//
// The MS8607 packs two dies behind two fixed addresses: a pressure and
// temperature sensor at 0x76 (MS5637 command set, 24 bit ADC, factory
// calibration in PROM) and a relative humidity sensor at 0x40 (HTU21D
// command set, 8 to 12 bit ADC, on-chip heater). Dev drives both and
// implements physic.SenseEnv.
//
// # Datasheet
//
// https://www.te.com/commerce/DocumentDelivery/DDEController?Action=showdoc&DocId=Data+Sheet%7FMS8607-02BA01%7FB3%7Fpdf%7FEnglish%7FENG_DS_MS8607-02BA01_B3.pdf
//
// # Ranges
//
//	Pressure: 10 to 2000 mbar, resolution 0.016 mbar at OSR 8192
//	Temperature: -40 to 85 °C, accuracy ±1 °C
//	Relative humidity: 0 to 100 %RH, accuracy ±3 %RH
//
// # Compensation
//
// Temperature and pressure are compensated with the integer first order
// formula of the datasheet, followed by a second order correction below
// 20 °C and an additional one below -15 °C. Compensated humidity and dew
// point are only meaningful with the heater off and return ErrHeaterOn
// otherwise.
package ms8607
