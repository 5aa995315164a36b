// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GermanBionicSystems/weatherkit/common"
	"github.com/GermanBionicSystems/weatherkit/pulse"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

const (
	// wakeMs is how long the line is left released before the start signal.
	wakeMs = 1
	// startMs is the start signal. The datasheet asks for at least 18ms.
	startMs = 20
	// settleUs is the wait after releasing the line, before the sensor
	// pulls it low to acknowledge.
	settleUs = 40
)

// State is the step of a reading the driver is in, or ended in.
type State int

const (
	Idle State = iota
	Handshaking
	SamplingBits
	Validating
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Handshaking:
		return "Handshaking"
	case SamplingBits:
		return "SamplingBits"
	case Validating:
		return "Validating"
	case Done:
		return "Done"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Opts holds the configuration options for the device.
type Opts struct {
	// Clock times the pulses. Default is a common.HostClock.
	Clock common.Clock
	// Delay implements the start signal. Default is common.HostDelay.
	Delay common.Delayer
	// Ceiling is the number of polls of the line after which a pulse is
	// considered lost. Default is pulse.DefaultCeiling.
	Ceiling uint32
	// MinInterval is the shortest interval accepted by SenseContinuous.
	// Default is 1s.
	MinInterval time.Duration
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	Delay:       common.HostDelay{},
	Ceiling:     pulse.DefaultCeiling,
	MinInterval: time.Second,
}

// Dev is a DHT11 sensor on a single GPIO line.
type Dev struct {
	p       gpio.PinIO
	sampler *pulse.Sampler
	delay   common.Delayer
	opts    Opts

	mu    sync.Mutex
	state State
	stop  chan struct{}
	wg    sync.WaitGroup
}

// New returns a DHT11 on the open-drain line p. The line is released so the
// pull-up holds it high until the first reading. The Opts can be nil.
func New(p gpio.PinIO, opts *Opts) (*Dev, error) {
	o := DefaultOpts
	if opts != nil {
		o = *opts
	}
	if o.Clock == nil {
		o.Clock = common.NewHostClock()
	}
	if o.Delay == nil {
		o.Delay = common.HostDelay{}
	}
	if o.MinInterval <= 0 {
		o.MinInterval = time.Second
	}
	d := &Dev{
		p:       p,
		sampler: pulse.New(p, o.Clock, o.Ceiling),
		delay:   o.Delay,
		opts:    o,
	}
	if err := d.release(); err != nil {
		return nil, err
	}
	return d, nil
}

// Measure performs a reading.
//
// It doesn't retry: on failure wait for the sensor's sampling interval and
// call it again. A ChecksumMismatchError is returned for a corrupt frame,
// ErrTimeout when the sensor doesn't answer and MalformedBitCountError when
// it stopped answering mid-frame.
func (d *Dev) Measure() (Measurement, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	m, err := d.measure()
	if err != nil {
		d.state = Failed
		return Measurement{}, err
	}
	d.state = Done
	return m, nil
}

// State returns the step the last reading is in, or ended in.
func (d *Dev) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Sense implements physic.SenseEnv. The pressure is always 0.
func (d *Dev) Sense(e *physic.Env) error {
	m, err := d.Measure()
	if err != nil {
		return err
	}
	e.Temperature = physic.ZeroCelsius + (physic.Celsius/10)*physic.Temperature(m.Temperature)
	e.Humidity = physic.RelativeHumidity(m.Humidity) * physic.MilliRH
	e.Pressure = 0
	return nil
}

// SenseContinuous implements physic.SenseEnv. Readings that fail are
// skipped. It is the caller's responsibility to call Halt() when done.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval < d.opts.MinInterval {
		return nil, fmt.Errorf("dht11: invalid interval %s, minimum is %s", interval, d.opts.MinInterval)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return nil, errors.New("dht11: sense continuous already running")
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
	e.Humidity = physic.MilliRH
	e.Pressure = 0
}

// Halt stops a SenseContinuous loop and releases the line.
func (d *Dev) Halt() error {
	d.mu.Lock()
	stop := d.stop
	d.stop = nil
	d.mu.Unlock()
	if stop != nil {
		close(stop)
		d.wg.Wait()
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.release()
}

func (d *Dev) String() string {
	return fmt.Sprintf("dht11{%s}", d.p)
}

// measure runs one reading. It must be called with d.mu held.
func (d *Dev) measure() (Measurement, error) {
	d.state = Handshaking
	if err := d.handshake(); err != nil {
		return Measurement{}, err
	}

	d.state = SamplingBits
	// Two pairs are needed to tell the acknowledge pulse from bit 0.
	first, err := d.readPulse()
	if err != nil {
		return Measurement{}, err
	}
	second, err := d.readPulse()
	if err != nil {
		return Measurement{}, err
	}
	var p RawPayload
	n := 0
	push := func(b pair) {
		p[n/8] <<= 1
		if b.bit() {
			p[n/8] |= 1
		}
		n++
	}
	if !isAck(first, second) {
		push(first)
	}
	push(second)
	for n < payloadBits {
		b, err := d.readPulse()
		if err != nil {
			return Measurement{}, &MalformedBitCountError{Bits: n}
		}
		push(b)
	}
	// The sensor ends the frame with a low, then lets the line float back up.
	if _, err := d.sampler.WaitForLevel(gpio.High); err != nil {
		return Measurement{}, err
	}

	d.state = Validating
	return Decode(p)
}

// handshake sends the start signal and returns once the sensor pulls the
// line low.
func (d *Dev) handshake() error {
	if err := d.release(); err != nil {
		return err
	}
	d.delay.DelayMilliseconds(wakeMs)
	if err := d.p.Out(gpio.Low); err != nil {
		return &GPIOError{Level: gpio.Low, Err: err}
	}
	d.delay.DelayMilliseconds(startMs)
	if err := d.release(); err != nil {
		return err
	}
	d.delay.DelayMicroseconds(settleUs)
	// The sensor answers 20 to 40µs after the release, the line may still be
	// high here.
	_, err := d.sampler.WaitForLevel(gpio.Low)
	return err
}

// pair is a low pulse and the high pulse following it, in clock ticks.
type pair struct {
	low, high uint64
}

// bit returns true when the high lasted longer than the low.
func (p pair) bit() bool {
	return p.high > p.low
}

// isAck returns true if a, followed by b, is the acknowledge pulse: its low
// lasts 80µs against 50µs for a bit. Ticks have no fixed unit so the two
// lows are compared, a is the acknowledge when its low is over 25% longer.
// Sensors that skip the acknowledge start directly with bit 0.
func isAck(a, b pair) bool {
	return a.low*4 > b.low*5
}

// readPulse times one low/high pair.
func (d *Dev) readPulse() (pair, error) {
	low, err := d.sampler.WaitForLevel(gpio.High)
	if err != nil {
		return pair{}, err
	}
	high, err := d.sampler.WaitForLevel(gpio.Low)
	if err != nil {
		return pair{}, err
	}
	return pair{low: low, high: high}, nil
}

func (d *Dev) release() error {
	if err := d.p.Out(gpio.High); err != nil {
		return &GPIOError{Level: gpio.High, Err: err}
	}
	return nil
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
