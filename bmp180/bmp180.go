// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bmp180

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GermanBionicSystems/weatherkit/common"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// DefaultAddress is the fixed I²C address of the BMP180.
const DefaultAddress uint16 = 0x77

const (
	regCalibration byte = 0xAA
	regControl     byte = 0xF4
	regResult      byte = 0xF6

	cmdTemperature byte = 0x2E
	// temperatureUs is the maximum temperature conversion time.
	temperatureUs uint32 = 4500
)

// Oversampling is the number of internal samples averaged for a pressure
// reading. More samples lower the noise and lengthen the conversion.
type Oversampling uint8

const (
	O1 Oversampling = iota // ultra low power, 4.5ms
	O2                     // standard, 7.5ms
	O4                     // high resolution, 13.5ms
	O8                     // ultra high resolution, 25.5ms
)

func (o Oversampling) String() string {
	switch o {
	case O1:
		return "1x"
	case O2:
		return "2x"
	case O4:
		return "4x"
	case O8:
		return "8x"
	default:
		return fmt.Sprintf("Oversampling(%d)", uint8(o))
	}
}

// command returns the control register value starting a pressure
// conversion.
func (o Oversampling) command() byte {
	return 0x34 + byte(o)<<6
}

// maxDuration returns the maximum conversion time in µs.
func (o Oversampling) maxDuration() uint32 {
	switch o {
	case O2:
		return 7500
	case O4:
		return 13500
	case O8:
		return 25500
	default:
		return 4500
	}
}

// Opts holds the configuration options for the device.
type Opts struct {
	// Address is the I²C address. Default is DefaultAddress.
	Address uint16
	// Oversampling is used by Sense and SenseContinuous. Default is O1.
	Oversampling Oversampling
	// Delay waits for conversions. Default is common.HostDelay.
	Delay common.Delayer
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	Address:      DefaultAddress,
	Oversampling: O1,
	Delay:        common.HostDelay{},
}

// Dev is a BMP180 sensor.
type Dev struct {
	d    *i2c.Dev
	opts Opts
	cal  calibration

	mu   sync.Mutex
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewI2C returns an object that communicates over I²C to a BMP180. It reads
// the calibration block; if that fails the device can't be used and NewI2C
// has to be called again. The Opts can be nil.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	o := DefaultOpts
	if opts != nil {
		o = *opts
	}
	if o.Address == 0 {
		o.Address = DefaultAddress
	}
	if o.Delay == nil {
		o.Delay = common.HostDelay{}
	}
	if o.Oversampling > O8 {
		return nil, fmt.Errorf("bmp180: invalid oversampling %s", o.Oversampling)
	}
	d := &Dev{d: &i2c.Dev{Bus: b, Addr: o.Address}, opts: o}
	var buf [calibrationLen]byte
	if err := d.d.Tx([]byte{regCalibration}, buf[:]); err != nil {
		return nil, &BusError{Op: "reading calibration", Err: err}
	}
	if !validCalibration(buf[:]) {
		return nil, ErrInvalidCalibration
	}
	d.cal = newCalibration(buf[:])
	return d, nil
}

// Temperature returns the temperature in 0.1°C.
func (d *Dev) Temperature() (int32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ut, err := d.measure(cmdTemperature, temperatureUs)
	if err != nil {
		return 0, err
	}
	t, _, err := d.cal.compensateTemperature(ut)
	if err != nil {
		return 0, err
	}
	return t, nil
}

// TemperatureAndPressure returns the temperature in 0.1°C and the pressure
// in Pa. Nothing is returned if either conversion fails, or if a raw reading
// can't be compensated (ErrInvalidMeasurement).
func (d *Dev) TemperatureAndPressure(oss Oversampling) (int32, int32, error) {
	if oss > O8 {
		return 0, 0, fmt.Errorf("bmp180: invalid oversampling %s", oss)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	ut, err := d.measure(cmdTemperature, temperatureUs)
	if err != nil {
		return 0, 0, err
	}
	t, b5, err := d.cal.compensateTemperature(ut)
	if err != nil {
		return 0, 0, err
	}
	up, err := d.measure(oss.command(), oss.maxDuration())
	if err != nil {
		return 0, 0, err
	}
	p, err := d.cal.compensatePressure(up, b5, oss)
	if err != nil {
		return 0, 0, err
	}
	return t, p, nil
}

// Sense implements physic.SenseEnv. It uses Opts.Oversampling. The humidity
// is always 0.
func (d *Dev) Sense(e *physic.Env) error {
	t, p, err := d.TemperatureAndPressure(d.opts.Oversampling)
	if err != nil {
		return err
	}
	e.Temperature = physic.ZeroCelsius + (physic.Celsius/10)*physic.Temperature(t)
	e.Pressure = physic.Pressure(p) * physic.Pascal
	e.Humidity = 0
	return nil
}

// SenseContinuous implements physic.SenseEnv. Readings that fail are
// skipped. It is the caller's responsibility to call Halt() when done.
//
// On a bus shared with package i2cshare, the device needs a handle of its
// own.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval <= 0 {
		return nil, errors.New("bmp180: invalid interval")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return nil, errors.New("bmp180: sense continuous already running")
	}
	d.stop = make(chan struct{})
	sensing := make(chan physic.Env)
	d.wg.Add(1)
	go func(stop <-chan struct{}) {
		defer d.wg.Done()
		defer close(sensing)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				var e physic.Env
				if err := d.Sense(&e); err != nil {
					continue
				}
				select {
				case sensing <- e:
				case <-stop:
					return
				}
			}
		}
	}(d.stop)
	return sensing, nil
}

// Precision implements physic.SenseEnv.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = physic.Celsius / 10
	e.Pressure = physic.Pascal
	e.Humidity = 0
}

// Halt stops a SenseContinuous loop. The device powers itself down between
// conversions.
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

func (d *Dev) String() string {
	return fmt.Sprintf("bmp180{%s}", d.d)
}

// measure starts a conversion with cmd, waits us microseconds and returns
// the raw result.
//
// It must be called with d.mu lock held.
func (d *Dev) measure(cmd byte, us uint32) (uint16, error) {
	if err := d.d.Tx([]byte{regControl, cmd}, nil); err != nil {
		return 0, &BusError{Op: "starting conversion", Err: err}
	}
	d.opts.Delay.DelayMicroseconds(us)
	var buf [2]byte
	if err := d.d.Tx([]byte{regResult}, buf[:]); err != nil {
		return 0, &BusError{Op: "reading conversion", Err: err}
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
