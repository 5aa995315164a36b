// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bh1750

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/GermanBionicSystems/weatherkit/common"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
)

const (
	// DefaultAddress is used when the ADDR pin is low.
	DefaultAddress uint16 = 0x23
	// AltAddress is used when the ADDR pin is high.
	AltAddress uint16 = 0x5C
)

const (
	cmdPowerDown byte = 0x00
	cmdPowerOn   byte = 0x01
	cmdReset     byte = 0x07
	cmdMTHigh    byte = 0x40
	cmdMTLow     byte = 0x60
)

// Measurement time register bounds.
const (
	MinMeasurementTime     uint8 = 31
	DefaultMeasurementTime uint8 = 69
	MaxMeasurementTime     uint8 = 254
)

// Resolution selects a one-time measurement mode.
type Resolution uint8

const (
	Lx1_0 Resolution = iota // high resolution, 1 lx
	Lx0_5                   // high resolution mode 2, 0.5 lx
	Lx4_0                   // low resolution, 4 lx
)

func (r Resolution) String() string {
	switch r {
	case Lx1_0:
		return "1lx"
	case Lx0_5:
		return "0.5lx"
	case Lx4_0:
		return "4lx"
	default:
		return fmt.Sprintf("Resolution(%d)", uint8(r))
	}
}

func (r Resolution) command() byte {
	switch r {
	case Lx0_5:
		return 0x21
	case Lx4_0:
		return 0x23
	default:
		return 0x20
	}
}

// maxDuration returns the maximum conversion time in µs for the
// measurement time register mt.
func (r Resolution) maxDuration(mt uint8) uint32 {
	base := uint32(180000)
	if r == Lx4_0 {
		base = 24000
	}
	return (base*uint32(mt) + uint32(DefaultMeasurementTime) - 1) / uint32(DefaultMeasurementTime)
}

// MilliLux is an illuminance in thousandths of a lux.
type MilliLux uint32

func (m MilliLux) String() string {
	return fmt.Sprintf("%d.%03dlx", m/1000, m%1000)
}

// Opts holds the configuration options for the device.
type Opts struct {
	// Address is the I²C address. Default is DefaultAddress.
	Address uint16
	// Resolution of the measurements. Default is Lx1_0.
	Resolution Resolution
	// MeasurementTime is the measurement time register. Default is
	// DefaultMeasurementTime.
	MeasurementTime uint8
	// Delay waits for conversions. Default is common.HostDelay.
	Delay common.Delayer
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	Address:         DefaultAddress,
	Resolution:      Lx1_0,
	MeasurementTime: DefaultMeasurementTime,
	Delay:           common.HostDelay{},
}

// Dev is a BH1750 sensor.
type Dev struct {
	d    *i2c.Dev
	opts Opts
	mu   sync.Mutex
}

// NewI2C returns an object that communicates over I²C to a BH1750. The
// sensor is powered on and its measurement time register set. The Opts can
// be nil.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	o := DefaultOpts
	if opts != nil {
		o = *opts
	}
	if o.Address == 0 {
		o.Address = DefaultAddress
	}
	if o.MeasurementTime == 0 {
		o.MeasurementTime = DefaultMeasurementTime
	}
	if o.Delay == nil {
		o.Delay = common.HostDelay{}
	}
	if o.Resolution > Lx4_0 {
		return nil, fmt.Errorf("bh1750: invalid resolution %s", o.Resolution)
	}
	d := &Dev{d: &i2c.Dev{Bus: b, Addr: o.Address}, opts: o}
	if err := d.write(cmdPowerOn); err != nil {
		return nil, err
	}
	if err := d.setMeasurementTime(o.MeasurementTime); err != nil {
		return nil, err
	}
	return d, nil
}

// Reset clears the last measurement. The sensor must be powered on.
func (d *Dev) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.write(cmdPowerOn); err != nil {
		return err
	}
	return d.write(cmdReset)
}

// SetResolution selects the mode of the following measurements.
func (d *Dev) SetResolution(r Resolution) error {
	if r > Lx4_0 {
		return fmt.Errorf("bh1750: invalid resolution %s", r)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opts.Resolution = r
	return nil
}

// SetMeasurementTime sets the measurement time register, in
// [MinMeasurementTime, MaxMeasurementTime]. Higher values increase the
// sensitivity and the conversion time.
func (d *Dev) SetMeasurementTime(mt uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setMeasurementTime(mt)
}

// Illuminance performs a one-time measurement.
func (d *Dev) Illuminance() (MilliLux, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r := d.opts.Resolution
	mt := d.opts.MeasurementTime
	if err := d.write(r.command()); err != nil {
		return 0, err
	}
	d.opts.Delay.DelayMicroseconds(r.maxDuration(mt))
	var buf [2]byte
	if err := d.d.Tx(nil, buf[:]); err != nil {
		return 0, fmt.Errorf("bh1750: reading measurement: %w", err)
	}
	// lx = raw / 1.2 * 69 / mt
	mlx := uint64(binary.BigEndian.Uint16(buf[:])) * 1000 * 10 * uint64(DefaultMeasurementTime) / (12 * uint64(mt))
	if r == Lx0_5 {
		mlx /= 2
	}
	return MilliLux(mlx), nil
}

// Halt powers the sensor down.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.write(cmdPowerDown)
}

func (d *Dev) String() string {
	return fmt.Sprintf("bh1750{%s}", d.d)
}

func (d *Dev) setMeasurementTime(mt uint8) error {
	if mt < MinMeasurementTime || mt > MaxMeasurementTime {
		return fmt.Errorf("bh1750: measurement time %d out of range [%d, %d]", mt, MinMeasurementTime, MaxMeasurementTime)
	}
	if err := d.write(cmdMTHigh | mt>>5); err != nil {
		return err
	}
	if err := d.write(cmdMTLow | mt&0x1f); err != nil {
		return err
	}
	d.opts.MeasurementTime = mt
	return nil
}

func (d *Dev) write(cmd byte) error {
	if err := d.d.Tx([]byte{cmd}, nil); err != nil {
		return fmt.Errorf("bh1750: command 0x%02x: %w", cmd, err)
	}
	return nil
}

var _ conn.Resource = &Dev{}
