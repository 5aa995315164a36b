// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2cshare_test

import (
	"fmt"
	"log"
	"time"

	"github.com/GermanBionicSystems/weatherkit/bh1750"
	"github.com/GermanBionicSystems/weatherkit/bmp180"
	"github.com/GermanBionicSystems/weatherkit/dht11"
	"github.com/GermanBionicSystems/weatherkit/i2cshare"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// Example reads a barometer and a light sensor sharing one I²C bus, and a
// DHT11 on a GPIO line, every 5 seconds.
func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	b, err := i2creg.Open("")
	if err != nil {
		log.Fatalf("failed to open I²C: %v", err)
	}
	// One handle per driver. b is closed along with the last handle.
	bus := i2cshare.New(b)
	defer bus.Close()
	baroBus := bus.Clone()
	defer baroBus.Close()
	lightBus := bus.Clone()
	defer lightBus.Close()

	baro, err := bmp180.NewI2C(baroBus, nil)
	if err != nil {
		log.Fatalf("failed to initialize BMP180: %v", err)
	}
	light, err := bh1750.NewI2C(lightBus, nil)
	if err != nil {
		log.Fatalf("failed to initialize BH1750: %v", err)
	}
	defer light.Halt()

	pin := gpioreg.ByName("GPIO4")
	if pin == nil {
		log.Fatal("failed to find GPIO4")
	}
	hygro, err := dht11.New(pin, nil)
	if err != nil {
		log.Fatalf("failed to initialize DHT11: %v", err)
	}
	defer hygro.Halt()

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for range 3 {
		<-ticker.C
		// Sensor errors are reported and the loop goes on.
		if t, p, err := baro.TemperatureAndPressure(bmp180.O2); err != nil {
			log.Println(err)
		} else {
			fmt.Printf("%.1f°C %.2fhPa\n", float64(t)/10, float64(p)/100)
		}
		if lx, err := light.Illuminance(); err != nil {
			log.Println(err)
		} else {
			fmt.Println(lx)
		}
		if m, err := hygro.Measure(); err != nil {
			log.Println(err)
		} else {
			fmt.Println(m)
		}
	}
}
