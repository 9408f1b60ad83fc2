// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ms8607_test

import (
	"fmt"
	"log"

	"github.com/GermanBionicSystems/pht/ms8607"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Use i2creg I²C bus registry to find the first available I²C bus.
	b, err := i2creg.Open("")
	if err != nil {
		log.Fatalf("failed to open I²C: %v", err)
	}
	defer b.Close()

	d, err := ms8607.NewI2C(b, &ms8607.DefaultOpts)
	if err != nil {
		log.Fatalf("failed to initialize MS8607: %v", err)
	}

	m, err := d.Read()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(&m)

	if dp, err := d.DewPoint(m.Temperature, m.Humidity); err == nil {
		fmt.Printf("dew point %.2f°C\n", dp)
	}

	// Or through the physic.SenseEnv interface.
	e := physic.Env{}
	if err := d.Sense(&e); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%8s %10s %9s\n", e.Temperature, e.Pressure, e.Humidity)
}
