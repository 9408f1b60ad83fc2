// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ms8607

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

const (
	// PressureAddress is the fixed I²C address of the pressure/temperature die.
	PressureAddress uint16 = 0x76
	// HumidityAddress is the fixed I²C address of the humidity die.
	HumidityAddress uint16 = 0x40

	minSampleDuration = 50 * time.Millisecond
)

// Opts holds the configuration options for the device.
type Opts struct {
	// PressureResolution is the oversampling ratio used for D1 and D2. The
	// zero value is OSR256, DefaultOpts uses OSR8192.
	PressureResolution PressureResolution
	// HumidityResolution is written to the humidity die by Begin(). The zero
	// value is 12 bit.
	HumidityResolution HumidityResolution
	// MasterMode selects hold or no-hold humidity reads. The zero value is
	// NoHold.
	MasterMode MasterMode
	// PollInterval is the delay between two no-hold read attempts once the
	// conversion time elapsed. Leave 0 to use the default of 1ms.
	PollInterval time.Duration
	// MaxPollAttempts bounds the no-hold read attempts before ErrTimeout is
	// returned. Leave 0 to use the default of 20.
	MaxPollAttempts int
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	PressureResolution: OSR8192,
	HumidityResolution: Humidity12Bit,
	MasterMode:         NoHold,
	PollInterval:       time.Millisecond,
	MaxPollAttempts:    20,
}

// Measurement is a compensated reading.
type Measurement struct {
	// Temperature in °C.
	Temperature float64
	// Pressure in mbar.
	Pressure float64
	// Humidity in %RH, not temperature compensated.
	Humidity float64

	env physic.Env
}

// Env returns the measurement in periph units.
func (m *Measurement) Env() physic.Env {
	return m.env
}

func (m *Measurement) String() string {
	return fmt.Sprintf("%.2f°C %.2fmbar %.2f%%RH", m.Temperature, m.Pressure, m.Humidity)
}

// quantity indexes the unread flags of the cached reading.
type quantity int

const (
	qTemperature quantity = iota
	qPressure
	qHumidity
)

// Dev is a handle to an initialized MS8607 device.
//
// All bus transactions hold mu, so a single conversion is in flight at any
// time.
type Dev struct {
	p    *i2c.Dev
	h    *i2c.Dev
	opts Opts

	mu       sync.Mutex
	ready    bool
	cal      Calibration
	calOK    bool
	heaterOn bool

	last   Measurement
	cached bool
	unread [3]bool

	stop chan struct{}
	wg   sync.WaitGroup
}

// NewI2C returns an object that communicates over I²C to an MS8607
// pressure, humidity and temperature sensor. Begin() is run before
// returning. The Opts can be nil.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	d := &Dev{
		p:    &i2c.Dev{Bus: b, Addr: PressureAddress},
		h:    &i2c.Dev{Bus: b, Addr: HumidityAddress},
		opts: *opts,
	}
	if d.opts.PollInterval <= 0 {
		d.opts.PollInterval = DefaultOpts.PollInterval
	}
	if d.opts.MaxPollAttempts <= 0 {
		d.opts.MaxPollAttempts = DefaultOpts.MaxPollAttempts
	}
	if !d.opts.PressureResolution.valid() {
		return nil, fmt.Errorf("ms8607: invalid pressure resolution %s", d.opts.PressureResolution)
	}
	if !d.opts.HumidityResolution.valid() {
		return nil, fmt.Errorf("ms8607: invalid humidity resolution %s", d.opts.HumidityResolution)
	}
	if err := d.Begin(); err != nil {
		return nil, err
	}
	return d, nil
}

// Begin resets both dies, loads and checks the calibration PROM, and writes
// the configured humidity resolution. It can be called again to recover
// from a failure. On error the device is left not initialized.
func (d *Dev) Begin() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ready = false
	d.cal = Calibration{}
	d.calOK = false
	if err := d.reset(); err != nil {
		return err
	}
	// The soft reset turned the heater off.
	d.heaterOn = false
	cal, err := d.readPROM()
	if err != nil {
		return err
	}
	d.cal = cal
	d.calOK = true
	if _, err := d.updateUserRegister(userRegResolutionMask, humiditySettings[d.opts.HumidityResolution].regValue); err != nil {
		return err
	}
	d.ready = true
	lg.Debugf("initialized: %s, humidity %s, %s", d.opts.PressureResolution, d.opts.HumidityResolution, d.opts.MasterMode)
	return nil
}

// IsConnected reports whether both dies acknowledge a register read.
func (d *Dev) IsConnected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.p.Tx([]byte{cmdReadPROM}, make([]byte, 2)); err != nil {
		return false
	}
	_, err := d.readUserRegister()
	return err == nil
}

// Reset issues a soft-reset to both dies. The user register returns to its
// power-on value, so the heater is off and the humidity resolution is 12 bit
// until Begin() is called again.
func (d *Dev) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.reset(); err != nil {
		return err
	}
	d.heaterOn = false
	d.opts.HumidityResolution = Humidity12Bit
	return nil
}

// It must be called with d.mu lock held.
func (d *Dev) reset() error {
	lg.Debug("reset")
	if err := d.p.Tx([]byte{cmdPReset}, nil); err != nil {
		return fmt.Errorf("ms8607: error resetting pressure sensor: %w: %w", ErrNoAcknowledge, err)
	}
	time.Sleep(pressureResetDuration)
	if err := d.h.Tx([]byte{cmdHReset}, nil); err != nil {
		return fmt.Errorf("ms8607: error resetting humidity sensor: %w: %w", ErrNoAcknowledge, err)
	}
	time.Sleep(humidityResetDuration)
	return nil
}

// ReadCalibration reloads the calibration PROM. On a CRC mismatch the
// coefficients are dropped and compensation is refused until a later load
// succeeds.
func (d *Dev) ReadCalibration() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	cal, err := d.readPROM()
	if err != nil {
		if errors.Is(err, ErrCRC) {
			d.cal = Calibration{}
			d.calOK = false
		}
		return err
	}
	d.cal = cal
	d.calOK = true
	return nil
}

// Calibration returns the validated calibration words.
func (d *Dev) Calibration() (Calibration, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.calOK {
		return Calibration{}, ErrNotInitialized
	}
	return d.cal, nil
}

// SetPressureResolution selects the oversampling ratio of the next pressure
// and temperature conversions.
func (d *Dev) SetPressureResolution(res PressureResolution) error {
	if !res.valid() {
		return fmt.Errorf("ms8607: invalid pressure resolution %s", res)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opts.PressureResolution = res
	return nil
}

// SetHumidityResolution writes the humidity ADC resolution to the device.
func (d *Dev) SetHumidityResolution(res HumidityResolution) error {
	if !res.valid() {
		return fmt.Errorf("ms8607: invalid humidity resolution %s", res)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.updateUserRegister(userRegResolutionMask, humiditySettings[res].regValue); err != nil {
		return err
	}
	d.opts.HumidityResolution = res
	return nil
}

// SetMasterMode selects hold or no-hold humidity reads.
func (d *Dev) SetMasterMode(mode MasterMode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opts.MasterMode = mode
}

// EnableHeater turns on the humidity die heater. While it is on,
// CompensatedHumidity and DewPoint return ErrHeaterOn.
func (d *Dev) EnableHeater() error {
	return d.setHeater(true)
}

// DisableHeater turns off the humidity die heater.
func (d *Dev) DisableHeater() error {
	return d.setHeater(false)
}

func (d *Dev) setHeater(on bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	var v byte
	if on {
		v = userRegHeaterMask
	}
	if _, err := d.updateUserRegister(userRegHeaterMask, v); err != nil {
		return err
	}
	d.heaterOn = on
	return nil
}

// HeaterStatus reads the heater bit back from the device.
func (d *Dev) HeaterStatus() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	reg, err := d.readUserRegister()
	if err != nil {
		return false, err
	}
	return reg&userRegHeaterMask != 0, nil
}

// BatteryLow reports whether the supply dropped below 2.25V.
func (d *Dev) BatteryLow() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	reg, err := d.readUserRegister()
	if err != nil {
		return false, err
	}
	return reg&userRegBatteryLowMask != 0, nil
}

// Read runs a temperature/pressure conversion followed by a humidity
// conversion, compensates them and replaces the cached reading.
func (d *Dev) Read() (Measurement, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	m, err := d.read()
	if err != nil {
		d.cached = false
		d.unread = [3]bool{}
		return Measurement{}, err
	}
	d.last = m
	d.cached = true
	d.unread = [3]bool{true, true, true}
	return m, nil
}

// It must be called with d.mu lock held.
func (d *Dev) read() (Measurement, error) {
	if !d.ready || !d.calOK {
		return Measurement{}, ErrNotInitialized
	}
	d2, err := d.convertAndReadADC(channelTemperature, d.opts.PressureResolution)
	if err != nil {
		return Measurement{}, err
	}
	d1, err := d.convertAndReadADC(channelPressure, d.opts.PressureResolution)
	if err != nil {
		return Measurement{}, err
	}
	if d1 == 0 || d2 == 0 {
		return Measurement{}, fmt.Errorf("ms8607: zero ADC code (D1=%d D2=%d): %w", d1, d2, ErrTransfer)
	}
	rawRH, err := d.convertAndReadHumidity()
	if err != nil {
		return Measurement{}, err
	}

	temp, pressure := compensate(d1, d2, &d.cal)
	rh := humidityFromADC(rawRH, d.opts.HumidityResolution)
	m := Measurement{
		Temperature: float64(temp) / 100,
		Pressure:    float64(pressure) / 100,
		Humidity:    rh,
	}
	m.env = physic.Env{
		Temperature: physic.Temperature(temp)*10*physic.MilliCelsius + physic.ZeroCelsius,
		Pressure:    physic.Pressure(pressure) * physic.Pascal,
		Humidity:    physic.RelativeHumidity(rh * float64(physic.PercentRH)),
	}
	return m, nil
}

// cachedValue returns the cached reading, reading the device first when
// nothing is cached, and marks q as read.
func (d *Dev) cachedValue(q quantity) (Measurement, error) {
	d.mu.Lock()
	cached := d.cached
	d.mu.Unlock()
	if !cached {
		if _, err := d.Read(); err != nil {
			return Measurement{}, err
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.unread[q] = false
	return d.last, nil
}

// Temperature returns the cached temperature in °C. The device is only read
// when no reading is cached yet.
func (d *Dev) Temperature() (float64, error) {
	m, err := d.cachedValue(qTemperature)
	return m.Temperature, err
}

// Pressure returns the cached pressure in mbar. The device is only read when
// no reading is cached yet.
func (d *Dev) Pressure() (float64, error) {
	m, err := d.cachedValue(qPressure)
	return m.Pressure, err
}

// Humidity returns the cached relative humidity in %RH. The device is only
// read when no reading is cached yet.
func (d *Dev) Humidity() (float64, error) {
	m, err := d.cachedValue(qHumidity)
	return m.Humidity, err
}

// Unread reports which cached values were not fetched through Temperature,
// Pressure or Humidity since the last Read.
func (d *Dev) Unread() (temperature, pressure, humidity bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.unread[qTemperature], d.unread[qPressure], d.unread[qHumidity]
}

// CompensatedHumidity returns rh (%RH) measured at temperature t (°C)
// corrected with the temperature coefficient of the sensor. It fails with
// ErrHeaterOn while the heater is enabled.
func (d *Dev) CompensatedHumidity(t, rh float64) (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.heaterOn {
		return 0, ErrHeaterOn
	}
	return compensatedHumidity(t, rh), nil
}

// DewPoint returns the dew point in °C for rh (%RH) measured at temperature
// t (°C). It fails with ErrHeaterOn while the heater is enabled, and with
// ErrComputation when the inputs are outside the formula's domain.
func (d *Dev) DewPoint(t, rh float64) (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.heaterOn {
		return 0, ErrHeaterOn
	}
	return dewPoint(t, rh)
}

// Sense implements physic.SenseEnv.
func (d *Dev) Sense(e *physic.Env) error {
	m, err := d.Read()
	if err != nil {
		return err
	}
	*e = m.env
	return nil
}

// SenseContinuous implements physic.SenseEnv. It returns a channel that will
// receive a measurement every interval. It is the caller's responsibility to
// call Halt() when done.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval < minSampleDuration {
		return nil, errors.New("ms8607: sample interval is < device sample rate")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return nil, errors.New("ms8607: SenseContinuous already running")
	}
	d.stop = make(chan struct{})
	ch := make(chan physic.Env, 16)
	d.wg.Add(1)
	go func(stop <-chan struct{}) {
		defer d.wg.Done()
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				var e physic.Env
				if err := d.Sense(&e); err != nil {
					lg.Debugf("continuous sense: %v", err)
					continue
				}
				select {
				case ch <- e:
				case <-stop:
					return
				}
			}
		}
	}(d.stop)
	return ch, nil
}

// Halt stops a running SenseContinuous. Implements conn.Resource.
func (d *Dev) Halt() error {
	d.mu.Lock()
	stop := d.stop
	d.stop = nil
	d.mu.Unlock()
	if stop != nil {
		close(stop)
		d.wg.Wait()
	}
	return nil
}

// Precision implements physic.SenseEnv.
func (d *Dev) Precision(e *physic.Env) {
	d.mu.Lock()
	bits := d.opts.HumidityResolution.Bits()
	d.mu.Unlock()
	e.Temperature = 10 * physic.MilliKelvin
	e.Pressure = physic.Pascal
	e.Humidity = physic.RelativeHumidity(math.Round(humidityCoeffMul / float64(uint(1)<<bits) * float64(physic.PercentRH)))
}

func (d *Dev) String() string {
	return fmt.Sprintf("ms8607{%s}", d.p.Bus)
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
