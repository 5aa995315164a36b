// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bmp180 controls a Bosch BMP180 barometric pressure sensor over
// I²C.
//
// The device returns uncompensated ADC counts. The driver reads the 11
// factory calibration words once, when the device is opened, and applies
// the integer compensation algorithm from the datasheet to every reading.
// The pressure compensation depends on an intermediate value of the
// temperature compensation, so a pressure reading always starts with a
// temperature conversion.
//
// # Datasheet
//
// https://ae-bst.resource.bosch.com/media/_tech/media/datasheets/BST-BMP180-DS000-12.pdf
//
// The worked example on page 15 uses rounded intermediate values. The
// implementation here matches the integer reference code, which produces
// the same final results.
package bmp180
