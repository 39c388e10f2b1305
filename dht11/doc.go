// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dht11 reads an Aosong DHT11 temperature/humidity sensor wired to a
// single GPIO line.
//
// The sensor has no clock line. The host pulls the line low for at least 18ms
// to wake it up, then the sensor answers with an 80µs low / 80µs high
// acknowledgement followed by 40 bits. Each bit is a ~50µs low pulse followed
// by a high pulse of ~26µs for a 0 or ~70µs for a 1. The driver measures both
// pulses of a bit by busy polling the line and decides the bit by comparing
// the two poll counts, so no absolute timing constant is needed.
//
// The 40 bits are humidity (integral, decimal), temperature (integral,
// decimal with the sign in bit 7) and an 8-bit checksum.
//
// dht11.Dev implements physic.SenseEnv. The sensor should not be sampled more
// than once per second.
package dht11
