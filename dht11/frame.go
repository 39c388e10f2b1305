// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import (
	"fmt"

	"github.com/GermanBionicSystems/dht11/common"
	"periph.io/x/conn/v3/physic"
)

// Frame is the 5 bytes sent by the sensor:
//
//	{humidity integral, humidity decimal, temperature integral, temperature decimal and sign, checksum}
type Frame [5]byte

// Decode converts the pulses of a read into a Frame. A bit is 1 when its high
// pulse lasted more polls than its low pulse, 0 otherwise, including when they
// are equal. Decode fails on the first pair that contains a timeout.
func Decode(p *Pulses) (Frame, error) {
	var f Frame
	for i := 0; i < frameBits; i++ {
		low, high := p[2*i], p[2*i+1]
		if low.Timeout || high.Timeout {
			return Frame{}, &TimeoutError{Phase: PhaseData, Bit: i}
		}
		f[i/8] <<= 1
		if high.Cycles > low.Cycles {
			f[i/8] |= 1
		}
	}
	return f, nil
}

// Valid returns true if the checksum byte matches the payload.
//
// Any single flipped bit is detected. Corruption of several bits can cancel
// out in the sum and go unnoticed.
func (f Frame) Valid() bool {
	return f[4] == common.Sum8(f[:4])
}

// Humidity returns the relative humidity encoded in the frame.
func (f Frame) Humidity() physic.RelativeHumidity {
	return physic.RelativeHumidity(f[0])*physic.PercentRH + physic.RelativeHumidity(f[1])*physic.MilliRH
}

// Temperature returns the temperature encoded in the frame.
//
// When bit 7 of the decimal byte is set the value is below zero and is
// encoded as -1 - (integral + decimal/10).
func (f Frame) Temperature() physic.Temperature {
	t := physic.Temperature(f[2])*physic.Celsius + physic.Temperature(f[3]&0x0f)*physic.Celsius/10
	if f[3]&0x80 != 0 {
		t = -physic.Celsius - t
	}
	return t + physic.ZeroCelsius
}

// Reading converts the frame to physical values. The result is meaningless
// unless Valid returns true.
func (f Frame) Reading() Reading {
	return Reading{Temperature: f.Temperature(), Humidity: f.Humidity()}
}

func (f Frame) String() string {
	return fmt.Sprintf("%02x %02x %02x %02x %02x", f[0], f[1], f[2], f[3], f[4])
}

// Reading is a temperature and humidity measurement.
type Reading struct {
	Temperature physic.Temperature
	Humidity    physic.RelativeHumidity
}

// Celsius returns the temperature in °C.
func (r Reading) Celsius() float64 {
	return r.Temperature.Celsius()
}

// Percent returns the relative humidity in %.
func (r Reading) Percent() float64 {
	return float64(r.Humidity) / float64(physic.PercentRH)
}

func (r Reading) String() string {
	return fmt.Sprintf("%s %s", r.Temperature, r.Humidity)
}
