// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ms8607

import (
	"fmt"
	"time"

	"github.com/GermanBionicSystems/pht/common"
)

// PressureResolution is the oversampling ratio of the pressure die.
type PressureResolution uint8

const (
	OSR256 PressureResolution = iota
	OSR512
	OSR1024
	OSR2048
	OSR4096
	OSR8192
)

// Maximum conversion time per OSR, from the datasheet.
var pressureConversionTimes = [...]time.Duration{
	OSR256:  560 * time.Microsecond,
	OSR512:  1100 * time.Microsecond,
	OSR1024: 2170 * time.Microsecond,
	OSR2048: 4320 * time.Microsecond,
	OSR4096: 8610 * time.Microsecond,
	OSR8192: 17200 * time.Microsecond,
}

func (r PressureResolution) valid() bool {
	return int(r) < len(pressureConversionTimes)
}

// ConversionTime returns the settling delay used for r.
func (r PressureResolution) ConversionTime() time.Duration {
	if !r.valid() {
		return 0
	}
	return pressureConversionTimes[r]
}

func (r PressureResolution) String() string {
	if !r.valid() {
		return fmt.Sprintf("PressureResolution(%d)", uint8(r))
	}
	return fmt.Sprintf("OSR%d", 256<<r)
}

// HumidityResolution is the ADC resolution of the humidity die.
type HumidityResolution uint8

const (
	Humidity12Bit HumidityResolution = iota
	Humidity8Bit
	Humidity10Bit
	Humidity11Bit
)

type humiditySetting struct {
	bits     uint
	regValue byte
	delay    time.Duration
}

var humiditySettings = [...]humiditySetting{
	Humidity12Bit: {bits: 12, regValue: 0x00, delay: 16 * time.Millisecond},
	Humidity8Bit:  {bits: 8, regValue: 0x01, delay: 3 * time.Millisecond},
	Humidity10Bit: {bits: 10, regValue: 0x80, delay: 5 * time.Millisecond},
	Humidity11Bit: {bits: 11, regValue: 0x81, delay: 9 * time.Millisecond},
}

func (r HumidityResolution) valid() bool {
	return int(r) < len(humiditySettings)
}

// Bits returns the number of significant bits of a humidity reading.
func (r HumidityResolution) Bits() uint {
	if !r.valid() {
		return 0
	}
	return humiditySettings[r].bits
}

// ConversionTime returns the settling delay used for r.
func (r HumidityResolution) ConversionTime() time.Duration {
	if !r.valid() {
		return 0
	}
	return humiditySettings[r].delay
}

func (r HumidityResolution) String() string {
	if !r.valid() {
		return fmt.Sprintf("HumidityResolution(%d)", uint8(r))
	}
	return fmt.Sprintf("%d bit", humiditySettings[r].bits)
}

// MasterMode selects how the humidity conversion is read back.
type MasterMode uint8

const (
	// NoHold releases the bus during the conversion, the result is polled.
	NoHold MasterMode = iota
	// Hold keeps SCL low (clock stretching) until the result is ready.
	Hold
)

func (m MasterMode) String() string {
	if m == Hold {
		return "hold"
	}
	return "no-hold"
}

const (
	// Pressure die commands.
	cmdPReset    byte = 0x1e
	cmdConvertD1 byte = 0x40
	cmdConvertD2 byte = 0x50
	cmdReadADC   byte = 0x00

	// Humidity die commands.
	cmdHReset            byte = 0xfe
	cmdMeasureRHHold     byte = 0xe5
	cmdMeasureRHNoHold   byte = 0xf5
	cmdReadUserRegister  byte = 0xe7
	cmdWriteUserRegister byte = 0xe6
)

const (
	pressureResetDuration = 3 * time.Millisecond
	humidityResetDuration = 15 * time.Millisecond
)

// channel selects the pressure die conversion.
type channel byte

const (
	channelPressure    = channel(cmdConvertD1)
	channelTemperature = channel(cmdConvertD2)
)

func (c channel) String() string {
	if c == channelTemperature {
		return "D2"
	}
	return "D1"
}

// convertAndReadADC starts a D1 or D2 conversion at res, waits for it to
// settle and reads back the 24 bit result.
//
// It must be called with d.mu lock held.
func (d *Dev) convertAndReadADC(c channel, res PressureResolution) (uint32, error) {
	cmd := byte(c) + 2*byte(res)
	if err := d.p.Tx([]byte{cmd}, nil); err != nil {
		return 0, fmt.Errorf("ms8607: starting %s conversion: %w: %w", c, ErrNoAcknowledge, err)
	}
	time.Sleep(res.ConversionTime())
	r := make([]byte, 3)
	if err := d.p.Tx([]byte{cmdReadADC}, r); err != nil {
		return 0, fmt.Errorf("ms8607: reading %s: %w: %w", c, ErrNoAcknowledge, err)
	}
	adc := uint32(r[0])<<16 | uint32(r[1])<<8 | uint32(r[2])
	lg.Debugf("%s cmd=0x%02x adc=%d", c, cmd, adc)
	return adc, nil
}

// convertAndReadHumidity runs a humidity conversion in the configured master
// mode and returns the checked 16 bit result.
//
// It must be called with d.mu lock held.
func (d *Dev) convertAndReadHumidity() (uint16, error) {
	cmd := cmdMeasureRHNoHold
	if d.opts.MasterMode == Hold {
		cmd = cmdMeasureRHHold
	}
	if err := d.h.Tx([]byte{cmd}, nil); err != nil {
		return 0, fmt.Errorf("ms8607: starting humidity conversion: %w: %w", ErrNoAcknowledge, err)
	}
	time.Sleep(d.opts.HumidityResolution.ConversionTime())
	r := make([]byte, 3)
	if d.opts.MasterMode == Hold {
		if err := d.h.Tx(nil, r); err != nil {
			return 0, fmt.Errorf("ms8607: reading humidity: %w: %w", ErrNoAcknowledge, err)
		}
	} else if err := d.pollHumidity(r); err != nil {
		return 0, err
	}
	if common.CRC8(r[:2], 0x00) != r[2] {
		lg.Debugf("humidity crc mismatch: read 0x%02x computed 0x%02x", r[2], common.CRC8(r[:2], 0x00))
		return 0, fmt.Errorf("ms8607: humidity: %w", ErrCRC)
	}
	return uint16(r[0])<<8 | uint16(r[1]), nil
}

// pollHumidity repeats the read until the die acknowledges it. The die NACKs
// its address while the conversion is still running.
func (d *Dev) pollHumidity(r []byte) error {
	var err error
	for attempt := range d.opts.MaxPollAttempts {
		if attempt > 0 {
			time.Sleep(d.opts.PollInterval)
		}
		if err = d.h.Tx(nil, r); err == nil {
			return nil
		}
		lg.Debugf("humidity not ready, attempt %d: %v", attempt+1, err)
	}
	if err == nil {
		return fmt.Errorf("ms8607: humidity poll: %w", ErrTimeout)
	}
	return fmt.Errorf("ms8607: humidity poll after %d attempts: %w: %w", d.opts.MaxPollAttempts, ErrTimeout, err)
}

// readUserRegister returns the humidity die user register.
//
// It must be called with d.mu lock held.
func (d *Dev) readUserRegister() (byte, error) {
	r := make([]byte, 1)
	if err := d.h.Tx([]byte{cmdReadUserRegister}, r); err != nil {
		return 0, fmt.Errorf("ms8607: reading user register: %w: %w", ErrNoAcknowledge, err)
	}
	return r[0], nil
}

// updateUserRegister replaces the bits selected by mask with value, keeping
// the reserved bits as read from the device.
//
// It must be called with d.mu lock held.
func (d *Dev) updateUserRegister(mask, value byte) (byte, error) {
	reg, err := d.readUserRegister()
	if err != nil {
		return 0, err
	}
	mask &^= userRegReservedMask
	reg = reg&^mask | value&mask
	if err := d.h.Tx([]byte{cmdWriteUserRegister, reg}, nil); err != nil {
		return 0, fmt.Errorf("ms8607: writing user register: %w: %w", ErrNoAcknowledge, err)
	}
	lg.Debugf("user register <- 0x%02x", reg)
	return reg, nil
}

const (
	userRegResolutionMask byte = 0x81
	userRegBatteryLowMask byte = 0x40
	userRegHeaterMask     byte = 0x04
	userRegReservedMask   byte = 0x38
)
