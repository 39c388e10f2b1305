// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains functions used across multiple packages. For
// example, the 8-bit truncated sum used by single-wire sensors from Aosong.
package common

// Sum8 returns the sum of the byte slice parameter truncated to 8 bits. It is
// the checksum carried in the last byte of DHT11/DHT22 frames.
func Sum8(bytes []byte) byte {
	var sum byte
	for _, val := range bytes {
		sum += val
	}
	return sum
}
