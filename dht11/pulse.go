// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Cycles is a number of polls of the data line.
type Cycles uint32

// Sample is the measurement of a single pulse. Timeout is set when the level
// did not change within the calibrated budget, in which case Cycles is
// meaningless.
type Sample struct {
	Cycles  Cycles
	Timeout bool
}

// frameBits is the number of bits sent by the sensor per read.
const frameBits = 40

// Pulses holds the low/high pulse pairs of one read, in order. Pair i is
// Pulses[2*i] (low) and Pulses[2*i+1] (high) and encodes bit i.
type Pulses [2 * frameBits]Sample

// Calibrate sleeps for d and returns the number of microseconds that actually
// elapsed. The result is used as the maximum number of polls of a single
// pulse: a poll of the line costs well under a microsecond on the supported
// hosts, so the budget is a generous bound whatever the host speed. It never
// returns less than 1.
func Calibrate(d time.Duration) Cycles {
	start := now()
	sleep(d)
	us := now().Sub(start) / time.Microsecond
	if us < 1 {
		return 1
	}
	if us > time.Duration(^Cycles(0)) {
		return ^Cycles(0)
	}
	return Cycles(us)
}

// expectPulse polls l while it reads level and returns the number of polls
// that saw level. It gives up after max polls.
//
// It is a tight loop on purpose: the pulses last tens of microseconds and any
// sleep would miss the transition.
func expectPulse(l Line, level gpio.Level, max Cycles) Sample {
	for count := Cycles(0); count < max; count++ {
		if l.Read() != level {
			return Sample{Cycles: count}
		}
	}
	return Sample{Timeout: true}
}

var (
	sleep = time.Sleep
	now   = time.Now
)
