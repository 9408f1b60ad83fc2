// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// ms8607 reads an MS8607 pressure, humidity and temperature sensor and prints
// the compensated values.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/GermanBionicSystems/pht/envbar"
	"github.com/GermanBionicSystems/pht/ms8607"
	logger "github.com/d2r2/go-logger"
	"github.com/davecgh/go-spew/spew"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

var lg = logger.NewPackageLogger("main",
	// logger.DebugLevel,
	logger.InfoLevel,
)

var osrValues = map[int]ms8607.PressureResolution{
	256:  ms8607.OSR256,
	512:  ms8607.OSR512,
	1024: ms8607.OSR1024,
	2048: ms8607.OSR2048,
	4096: ms8607.OSR4096,
	8192: ms8607.OSR8192,
}

var rhValues = map[int]ms8607.HumidityResolution{
	8:  ms8607.Humidity8Bit,
	10: ms8607.Humidity10Bit,
	11: ms8607.Humidity11Bit,
	12: ms8607.Humidity12Bit,
}

func mainImpl() error {
	busName := flag.String("bus", "", "I²C bus to use")
	osr := flag.Int("osr", 8192, "pressure oversampling ratio: 256, 512, 1024, 2048, 4096 or 8192")
	rh := flag.Int("rh", 12, "humidity resolution in bits: 8, 10, 11 or 12")
	hold := flag.Bool("hold", false, "read humidity in hold master mode")
	interval := flag.Duration("interval", time.Second, "delay between samples")
	n := flag.Int("n", 1, "number of samples, 0 to run forever")
	heater := flag.Bool("heater", false, "turn on the humidity die heater")
	altitude := flag.Float64("altitude", 0, "altitude in meters, prints the sea level pressure when set")
	bar := flag.Bool("bar", false, "render readings as terminal bars")
	dump := flag.Bool("dump", false, "dump the calibration PROM")
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}
	if *verbose {
		_ = logger.ChangePackageLogLevel("ms8607", logger.DebugLevel)
		_ = logger.ChangePackageLogLevel("main", logger.DebugLevel)
	}

	opts := ms8607.DefaultOpts
	var ok bool
	if opts.PressureResolution, ok = osrValues[*osr]; !ok {
		return fmt.Errorf("invalid -osr %d", *osr)
	}
	if opts.HumidityResolution, ok = rhValues[*rh]; !ok {
		return fmt.Errorf("invalid -rh %d", *rh)
	}
	if *hold {
		opts.MasterMode = ms8607.Hold
	}

	if _, err := host.Init(); err != nil {
		return err
	}
	b, err := i2creg.Open(*busName)
	if err != nil {
		return err
	}
	defer b.Close()

	d, err := ms8607.NewI2C(b, &opts)
	if err != nil {
		return fmt.Errorf("%w (status %s)", err, ms8607.StatusOf(err))
	}
	defer d.Halt()
	lg.Debugf("%s ready", d)

	if *dump {
		cal, err := d.Calibration()
		if err != nil {
			return err
		}
		spew.Dump(cal)
		fmt.Println(&cal)
	}
	if *heater {
		if err := d.EnableHeater(); err != nil {
			return err
		}
		defer d.DisableHeater()
	}
	if low, err := d.BatteryLow(); err != nil {
		return err
	} else if low {
		lg.Notify("supply voltage below 2.25V")
	}

	var screen *envbar.Dev
	if *bar {
		screen = envbar.New(nil)
		defer screen.Halt()
	}

	for i := 0; *n == 0 || i < *n; i++ {
		if i != 0 {
			time.Sleep(*interval)
		}
		m, err := d.Read()
		if err != nil {
			lg.Errorf("read failed: %v", err)
			continue
		}
		if screen != nil {
			if err := screen.Draw(m.Env()); err != nil {
				return err
			}
			continue
		}
		printMeasurement(d, &m, *altitude)
	}
	return nil
}

func printMeasurement(d *ms8607.Dev, m *ms8607.Measurement, altitude float64) {
	fmt.Println(m)
	if altitude != 0 {
		fmt.Printf("  sea level pressure: %.2fmbar\n", ms8607.AdjustToSeaLevel(m.Pressure, altitude))
	}
	if rh, err := d.CompensatedHumidity(m.Temperature, m.Humidity); err == nil {
		fmt.Printf("  compensated humidity: %.2f%%RH\n", rh)
	} else {
		lg.Debugf("compensated humidity: %v", err)
	}
	if dp, err := d.DewPoint(m.Temperature, m.Humidity); err == nil {
		fmt.Printf("  dew point: %.2f°C\n", dp)
	} else {
		lg.Debugf("dew point: %v", err)
	}
}

func main() {
	defer logger.FinalizeLogger()
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "ms8607: %s.\n", err)
		logger.FinalizeLogger()
		os.Exit(1)
	}
}
