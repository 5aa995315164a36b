// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package common

import (
	"time"

	"periph.io/x/host/v3/cpu"
)

// Clock is a monotonic tick counter.
//
// The unit of a tick is left to the implementation. Callers only ever
// subtract two readings, relying on unsigned wraparound, so a counter that
// overflows is fine as long as a single interval fits in 64 bits.
type Clock interface {
	Now() uint64
}

// Delayer blocks the calling goroutine for a fixed amount of time.
type Delayer interface {
	DelayMicroseconds(us uint32)
	DelayMilliseconds(ms uint32)
}

// HostClock is a Clock that counts nanoseconds on the host monotonic clock.
type HostClock struct {
	epoch time.Time
}

// NewHostClock returns a HostClock whose tick 0 is now.
func NewHostClock() *HostClock {
	return &HostClock{epoch: time.Now()}
}

// Now implements Clock.
func (c *HostClock) Now() uint64 {
	return uint64(time.Since(c.epoch))
}

// HostDelay is a Delayer backed by the host.
//
// Microsecond delays spin on the CPU since the scheduler can't wake a
// goroutine that precisely; millisecond delays sleep.
type HostDelay struct{}

// DelayMicroseconds implements Delayer.
func (HostDelay) DelayMicroseconds(us uint32) {
	cpu.Nanospin(time.Duration(us) * time.Microsecond)
}

// DelayMilliseconds implements Delayer.
func (HostDelay) DelayMilliseconds(ms uint32) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

var _ Clock = &HostClock{}
var _ Delayer = HostDelay{}
