// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dht11 controls a DHT11 temperature and humidity sensor over its
// single-wire, bit-banged protocol.
//
// The host starts a reading by pulling the data line low for at least 18ms
// and releasing it. The sensor acknowledges with an 80µs low and 80µs high
// pulse, then sends 40 bits, most significant first. Every bit is a 50µs
// low followed by a high whose length encodes the value: about 26µs for a 0
// and 70µs for a 1. The driver doesn't rely on those absolute durations:
// a bit is 1 when its high is longer than the low that preceded it. Some
// sensors skip the acknowledge, it is recognized by its low being longer
// than the low of the first bit.
//
// The 5 byte payload is humidity (integer, fraction), temperature (integer
// with the sign in bit 7, fraction) and a checksum that is the 8 bit sum of
// the first four bytes.
//
// Timing is measured by busy polling the pin, see package pulse. Don't
// sample the sensor more often than once a second.
//
// # Datasheet
//
// https://www.mouser.com/datasheet/2/758/DHT11-Technical-Data-Sheet-Translated-Version-1143054.pdf
package dht11
