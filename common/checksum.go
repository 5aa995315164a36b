// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains the pieces shared by the drivers in this module:
// the timing capabilities (Clock, Delayer) they are built on and small
// integrity helpers such as the additive checksum used by DHTxx sensors.
package common

// Sum8 returns the sum of the byte slice parameter truncated to 8 bits. This
// is the checksum carried in the last byte of DHTxx payloads.
func Sum8(bytes []byte) byte {
	var sum byte
	for _, val := range bytes {
		sum += val
	}
	return sum
}
