// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bmp180

import (
	"errors"
	"fmt"
)

// ErrInvalidCalibration is returned when the calibration block read from
// the device contains a word that the datasheet rules out (0x0000 or
// 0xFFFF), which happens when the bus returns garbage.
var ErrInvalidCalibration = errors.New("bmp180: invalid calibration data")

// ErrInvalidMeasurement is returned when a raw reading can't be compensated
// with the device's calibration, which happens when the bus returns garbage.
var ErrInvalidMeasurement = errors.New("bmp180: invalid raw measurement")

// BusError wraps a failed I²C transaction.
type BusError struct {
	Op  string
	Err error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("bmp180: %s: %v", e.Op, e.Err)
}

func (e *BusError) Unwrap() error {
	return e.Err
}
