// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import (
	"errors"
	"fmt"

	"github.com/GermanBionicSystems/weatherkit/pulse"
	"periph.io/x/conn/v3/gpio"
)

// ErrTimeout is returned when the sensor stopped toggling the line.
var ErrTimeout = pulse.ErrTimeout

// ErrChecksumMismatch matches every ChecksumMismatchError with errors.Is.
var ErrChecksumMismatch = errors.New("dht11: checksum mismatch")

// ChecksumMismatchError is returned when the payload checksum doesn't match
// the sum of the data bytes.
type ChecksumMismatchError struct {
	Payload RawPayload
	Sum     byte
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("dht11: checksum mismatch: payload % x sums to 0x%02x", e.Payload[:], e.Sum)
}

func (e *ChecksumMismatchError) Is(target error) bool {
	return target == ErrChecksumMismatch
}

// MalformedBitCountError is returned when the sensor stopped sending
// before the 40th bit. It unwraps to ErrTimeout.
type MalformedBitCountError struct {
	Bits int
}

func (e *MalformedBitCountError) Error() string {
	return fmt.Sprintf("dht11: only %d of %d bits received", e.Bits, payloadBits)
}

func (e *MalformedBitCountError) Unwrap() error {
	return ErrTimeout
}

// GPIOError wraps a failure to drive the data line.
type GPIOError struct {
	Level gpio.Level
	Err   error
}

func (e *GPIOError) Error() string {
	if e.Level == gpio.High {
		return fmt.Sprintf("dht11: failed to release line: %v", e.Err)
	}
	return fmt.Sprintf("dht11: failed to pull line low: %v", e.Err)
}

func (e *GPIOError) Unwrap() error {
	return e.Err
}
