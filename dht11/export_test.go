// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import "time"

// SetClock replaces the clock used for the start signal and calibration. It
// returns a function restoring the previous one.
func SetClock(n func() time.Time, s func(time.Duration)) func() {
	oldNow, oldSleep := now, sleep
	now, sleep = n, s
	return func() { now, sleep = oldNow, oldSleep }
}
