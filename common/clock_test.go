// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package common

import (
	"testing"
	"time"
)

func TestHostClock(t *testing.T) {
	c := NewHostClock()
	start := c.Now()
	time.Sleep(2 * time.Millisecond)
	if d := c.Now() - start; d < uint64(2*time.Millisecond) {
		t.Errorf("expected at least %d ticks, got %d", uint64(2*time.Millisecond), d)
	}
}

func TestHostDelay(t *testing.T) {
	var d HostDelay
	start := time.Now()
	d.DelayMicroseconds(500)
	if e := time.Since(start); e < 500*time.Microsecond {
		t.Errorf("DelayMicroseconds(500) returned after %s", e)
	}
	start = time.Now()
	d.DelayMilliseconds(3)
	if e := time.Since(start); e < 3*time.Millisecond {
		t.Errorf("DelayMilliseconds(3) returned after %s", e)
	}
}
