// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import (
	"periph.io/x/conn/v3/gpio"
)

// Line is the GPIO line connected to the sensor data pin. It is owned by a
// single read from Open to Release.
type Line interface {
	// In switches the line to input with the given bias. gpio.PullNoChange
	// leaves the bias as is.
	In(pull gpio.Pull) error
	// Out switches the line to output and drives it to l.
	Out(l gpio.Level) error
	// Read returns the current level. It is called in a tight loop.
	Read() gpio.Level
	// Release gives the line back. It may be called more than once.
	Release() error
	String() string
}

// Opener acquires the line for one read.
type Opener interface {
	Open() (Line, error)
	String() string
}

// PinOpener returns an Opener for a pin from the periph registry, for example
// gpioreg.ByName("GPIO26").
//
// periph pins are not acquired nor released; Release leaves the pin as an
// input with pull-up, which is the idle state of the bus.
func PinOpener(p gpio.PinIO) Opener {
	return &pinOpener{p: p}
}

type pinOpener struct {
	p gpio.PinIO
}

func (o *pinOpener) Open() (Line, error) {
	return &pinLine{p: o.p}, nil
}

func (o *pinOpener) String() string {
	return o.p.String()
}

type pinLine struct {
	p gpio.PinIO
}

func (l *pinLine) In(pull gpio.Pull) error {
	return l.p.In(pull, gpio.NoEdge)
}

func (l *pinLine) Out(v gpio.Level) error {
	return l.p.Out(v)
}

func (l *pinLine) Read() gpio.Level {
	return l.p.Read()
}

func (l *pinLine) Release() error {
	_ = l.p.In(gpio.PullUp, gpio.NoEdge)
	return nil
}

func (l *pinLine) String() string {
	return l.p.String()
}
