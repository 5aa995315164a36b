// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package weatherkit is a container for the drivers of a small weather
// station: a DHT11 hygrometer on a GPIO line (dht11), a BMP180 barometer
// (bmp180) and a BH1750 light sensor (bh1750) sharing one I²C bus
// (i2cshare).
package weatherkit
