// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bmp180

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Calibration from the worked example of the datasheet.
var datasheetCalibration = calibration{
	ac1: 408, ac2: -72, ac3: -14383,
	ac4: 32741, ac5: 32757, ac6: 23153,
	b1: 6190, b2: 4,
	mb: -32767, mc: -8711, md: 2868,
}

var datasheetCalibrationBytes = []byte{
	0x01, 0x98, 0xff, 0xb8, 0xc7, 0xd1, 0x7f, 0xe5, 0x7f, 0xf5, 0x5a, 0x71,
	0x18, 0x2e, 0x00, 0x04, 0x80, 0x01, 0xdd, 0xf9, 0x0b, 0x34,
}

func TestNewCalibration(t *testing.T) {
	c := newCalibration(datasheetCalibrationBytes)
	if diff := cmp.Diff(c, datasheetCalibration, cmp.AllowUnexported(calibration{})); diff != "" {
		t.Errorf("newCalibration() difference (-got +want):\n%s", diff)
	}
	if !validCalibration(datasheetCalibrationBytes) {
		t.Error("datasheet calibration should be valid")
	}
	for _, w := range [][]byte{{0x00, 0x00}, {0xff, 0xff}} {
		b := append([]byte(nil), datasheetCalibrationBytes...)
		copy(b[10:], w)
		if validCalibration(b) {
			t.Errorf("calibration with word % x should be invalid", w)
		}
	}
}

func TestCompensateTemperature(t *testing.T) {
	temp, b5, err := datasheetCalibration.compensateTemperature(27898)
	if err != nil {
		t.Fatal(err)
	}
	if temp != 150 {
		t.Errorf("expected 150, got %d", temp)
	}
	if b5 != 2399 {
		t.Errorf("expected b5 2399, got %d", b5)
	}
}

func TestCompensateTemperature_ZeroDivisor(t *testing.T) {
	// x1 == -md.
	temp, b5, err := datasheetCalibration.compensateTemperature(20285)
	if !errors.Is(err, ErrInvalidMeasurement) {
		t.Fatalf("expected ErrInvalidMeasurement, got %v", err)
	}
	if temp != 0 || b5 != 0 {
		t.Errorf("expected no result, got %d %d", temp, b5)
	}
	for _, ut := range []uint16{0, 20284, 20286, 0xffff} {
		if _, _, err := datasheetCalibration.compensateTemperature(ut); err != nil {
			t.Errorf("compensateTemperature(%d): %v", ut, err)
		}
	}
}

func TestCompensatePressure(t *testing.T) {
	tests := []struct {
		up   uint16
		oss  Oversampling
		want int32
	}{
		{23843, O1, 69964},
		{23843, O2, 34416},
		{23843, O4, 16686},
		{23843, O8, 7831},
		{47686, O2, 69962},
		// b7 >= 0x80000000, the quotient is doubled instead.
		{45000, O1, 133323},
	}
	_, b5, err := datasheetCalibration.compensateTemperature(27898)
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range tests {
		p, err := datasheetCalibration.compensatePressure(test.up, b5, test.oss)
		if err != nil {
			t.Fatal(err)
		}
		if p != test.want {
			t.Errorf("compensatePressure(%d, %s) = %d, want %d", test.up, test.oss, p, test.want)
		}
	}
}

func TestCompensatePressure_ZeroDivisor(t *testing.T) {
	// b4 rounds down to 0.
	c := datasheetCalibration
	c.ac3 = 14383
	c.ac4 = 1
	p, err := c.compensatePressure(23843, 2399, O1)
	if !errors.Is(err, ErrInvalidMeasurement) {
		t.Fatalf("expected ErrInvalidMeasurement, got %v", err)
	}
	if p != 0 {
		t.Errorf("expected no result, got %d", p)
	}
}

func TestCompensate_Deterministic(t *testing.T) {
	temp, b5, _ := datasheetCalibration.compensateTemperature(27898)
	p, _ := datasheetCalibration.compensatePressure(23843, b5, O1)
	for range 100 {
		t2, b52, _ := datasheetCalibration.compensateTemperature(27898)
		if t2 != temp || b52 != b5 {
			t.Fatalf("temperature changed: %d/%d != %d/%d", t2, b52, temp, b5)
		}
		if p2, _ := datasheetCalibration.compensatePressure(23843, b52, O1); p2 != p {
			t.Fatalf("pressure changed: %d != %d", p2, p)
		}
	}
}

func TestOversampling(t *testing.T) {
	tests := []struct {
		oss     Oversampling
		command byte
		us      uint32
		s       string
	}{
		{O1, 0x34, 4500, "1x"},
		{O2, 0x74, 7500, "2x"},
		{O4, 0xb4, 13500, "4x"},
		{O8, 0xf4, 25500, "8x"},
	}
	for _, test := range tests {
		if c := test.oss.command(); c != test.command {
			t.Errorf("%s: command 0x%02x, want 0x%02x", test.oss, c, test.command)
		}
		if us := test.oss.maxDuration(); us != test.us {
			t.Errorf("%s: duration %d, want %d", test.oss, us, test.us)
		}
		if s := test.oss.String(); s != test.s {
			t.Errorf("String() = %q, want %q", s, test.s)
		}
	}
}
