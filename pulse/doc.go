// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pulse measures how long a digital line stays at a level.
//
// It is the building block of bit-banged protocols that encode data in
// pulse widths, such as the DHTxx single-wire protocol. The Sampler busy
// polls the pin and bounds the wait with an iteration ceiling rather than a
// timer, so results are only as good as the polling loop is undisturbed:
// the caller must make sure nothing preempts it for longer than a pulse
// while a frame is being received.
package pulse
