// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pulse

import (
	"errors"
	"fmt"

	"github.com/GermanBionicSystems/weatherkit/common"
	"periph.io/x/conn/v3/gpio"
)

// DefaultCeiling is the number of polls after which a wait gives up.
const DefaultCeiling uint32 = 0xFFFFF

// ErrTimeout is returned when the line did not reach the requested level
// within the iteration ceiling.
var ErrTimeout = errors.New("pulse: timed out waiting for level")

// Window is the time a line spent at Level, in clock ticks.
type Window struct {
	Level    gpio.Level
	Duration uint64
}

func (w Window) String() string {
	return fmt.Sprintf("%s for %d ticks", w.Level, w.Duration)
}

// Sampler polls a pin and times level changes against a Clock.
type Sampler struct {
	pin     gpio.PinIn
	clock   common.Clock
	ceiling uint32
}

// New returns a Sampler reading p and timing with c. A ceiling of 0 selects
// DefaultCeiling.
func New(p gpio.PinIn, c common.Clock, ceiling uint32) *Sampler {
	if ceiling == 0 {
		ceiling = DefaultCeiling
	}
	return &Sampler{pin: p, clock: c, ceiling: ceiling}
}

// WaitForLevel blocks until the pin reads l and returns the number of ticks
// elapsed since the call. If the pin already reads l, it returns 0.
func (s *Sampler) WaitForLevel(l gpio.Level) (uint64, error) {
	start := s.clock.Now()
	if s.pin.Read() == l {
		return 0, nil
	}
	var count uint32
	for s.pin.Read() != l {
		count++
		if count > s.ceiling {
			return 0, ErrTimeout
		}
	}
	return s.clock.Now() - start, nil
}

// Measure returns the window the line spends at l, ending when it leaves l.
func (s *Sampler) Measure(l gpio.Level) (Window, error) {
	d, err := s.WaitForLevel(!l)
	if err != nil {
		return Window{}, err
	}
	return Window{Level: l, Duration: d}, nil
}

func (s *Sampler) String() string {
	return fmt.Sprintf("pulse.Sampler{%s}", s.pin)
}
