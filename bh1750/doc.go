// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bh1750 controls a ROHM BH1750 ambient light sensor over I²C.
//
// The driver uses the one-time measurement modes: the sensor powers down
// after every conversion. Sensitivity can be traded for conversion time
// with SetMeasurementTime.
//
// # Datasheet
//
// https://www.mouser.com/datasheet/2/348/bh1750fvi-e-186247.pdf
package bh1750
