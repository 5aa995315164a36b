// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pulsetest is meant to be used to test drivers built on package
// pulse without real hardware or real timing.
package pulsetest

import (
	"time"

	"github.com/GermanBionicSystems/weatherkit/common"
	"github.com/GermanBionicSystems/weatherkit/pulse"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// Line is a scripted open-drain line that keeps its own time.
//
// Every Read advances the clock by one tick, so a Window of Duration n in
// Script is seen by n consecutive reads. The script starts playing when the
// line is released with Out(gpio.High) and restarts at every release. While
// the line is driven low, reads return gpio.Low. Once the script is
// exhausted reads return Idle.
//
// Line also implements common.Clock and common.Delayer. Delays are recorded
// but don't advance the clock.
type Line struct {
	gpiotest.Pin
	Script []pulse.Window
	Idle   gpio.Level
	// OutErr is returned by Out when set.
	OutErr error

	// Outs records the levels passed to Out.
	Outs []gpio.Level
	// Delays records the requested delays.
	Delays []time.Duration
	// Reads counts calls to Read.
	Reads int

	now    uint64
	origin uint64
	driven bool
}

// Bits returns the script a DHTxx sensor plays for payload: the 80/80
// acknowledge pulse, then for every bit a 50 ticks low followed by a high
// of 70 ticks for a 1 or 26 ticks for a 0, then the final 50 ticks low.
func Bits(payload []byte) []pulse.Window {
	s := []pulse.Window{{Level: gpio.Low, Duration: 80}, {Level: gpio.High, Duration: 80}}
	for _, b := range payload {
		for i := 7; i >= 0; i-- {
			high := uint64(26)
			if b&(1<<uint(i)) != 0 {
				high = 70
			}
			s = append(s, pulse.Window{Level: gpio.Low, Duration: 50}, pulse.Window{Level: gpio.High, Duration: high})
		}
	}
	return append(s, pulse.Window{Level: gpio.Low, Duration: 50})
}

// Now implements common.Clock.
func (l *Line) Now() uint64 {
	return l.now
}

// Read implements gpio.PinIn.
func (l *Line) Read() gpio.Level {
	t := l.now - l.origin
	l.now++
	l.Reads++
	if l.driven {
		return gpio.Low
	}
	for _, w := range l.Script {
		if t < w.Duration {
			return w.Level
		}
		t -= w.Duration
	}
	return l.Idle
}

// Out implements gpio.PinOut.
func (l *Line) Out(v gpio.Level) error {
	if l.OutErr != nil {
		return l.OutErr
	}
	l.Outs = append(l.Outs, v)
	l.driven = v == gpio.Low
	if !l.driven {
		l.origin = l.now
	}
	return nil
}

// DelayMicroseconds implements common.Delayer.
func (l *Line) DelayMicroseconds(us uint32) {
	l.Delays = append(l.Delays, time.Duration(us)*time.Microsecond)
}

// DelayMilliseconds implements common.Delayer.
func (l *Line) DelayMilliseconds(ms uint32) {
	l.Delays = append(l.Delays, time.Duration(ms)*time.Millisecond)
}

var _ gpio.PinIO = &Line{}
var _ common.Clock = &Line{}
var _ common.Delayer = &Line{}
