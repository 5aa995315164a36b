// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import (
	"fmt"

	"github.com/GermanBionicSystems/weatherkit/common"
	"periph.io/x/conn/v3/gpio"
)

const payloadBits = 40

// RawPayload is a frame as sent by the sensor: humidity integer and
// fraction, temperature integer (bit 7 is the sign) and fraction, checksum.
type RawPayload [5]byte

// Measurement is a decoded reading.
type Measurement struct {
	// Temperature in tenths of a degree Celsius.
	Temperature int16
	// Humidity in tenths of a percent.
	Humidity uint16
}

func (m Measurement) String() string {
	t := m.Temperature
	sign := ""
	if t < 0 {
		sign = "-"
		t = -t
	}
	return fmt.Sprintf("%s%d.%d°C %d.%d%%rH", sign, t/10, t%10, m.Humidity/10, m.Humidity%10)
}

// Decode validates the checksum of p and decodes it.
func Decode(p RawPayload) (Measurement, error) {
	if sum := common.Sum8(p[:4]); sum != p[4] {
		return Measurement{}, &ChecksumMismatchError{Payload: p, Sum: sum}
	}
	t := int16(p[2]&0x7f)*10 + int16(p[3])
	if p[2]&0x80 != 0 {
		t = -t
	}
	return Measurement{
		Temperature: t,
		Humidity:    uint16(p[0])*10 + uint16(p[1]),
	}, nil
}

// DecodeLevels rebuilds a payload from a capture of the line taken at a
// fixed sampling period, starting anywhere in the high that precedes the
// first bit.
//
// Each bit is classified by counting consecutive low samples and the high
// samples that follow them: 1 when there are more highs than lows. This is
// an alternative to timing pulses with Measure and needs a sampling period
// a few times shorter than a bit. The result isn't checked; pass it to
// Decode.
func DecodeLevels(samples []gpio.Level) RawPayload {
	var p RawPayload
	i := 0
	for i < len(samples) && samples[i] == gpio.High {
		i++
	}
	for bit := 0; bit < payloadBits && i < len(samples); bit++ {
		lows := 0
		for i < len(samples) && samples[i] == gpio.Low {
			lows++
			i++
		}
		highs := 0
		for i < len(samples) && samples[i] == gpio.High {
			highs++
			i++
		}
		if highs > lows {
			p[bit/8] |= 1 << uint(7-bit%8)
		}
	}
	return p
}
