// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build linux

// Package gpiodline drives a DHT11 data line through the Linux GPIO character
// device (/dev/gpiochipN).
//
// Unlike sysfs or memory mapped pins, a character device line is requested
// for exclusive use and must be given back, which is what dht11.Opener and
// dht11.Line model. On a Raspberry Pi 5 the header pins are on gpiochip4.
package gpiodline

import (
	"fmt"

	"github.com/GermanBionicSystems/dht11/dht11"
	"github.com/warthog618/gpiod"
	"periph.io/x/conn/v3/gpio"
)

// DefaultConsumer is the label shown by gpioinfo while a read is running.
const DefaultConsumer = "dht11"

// Opener requests a line of a GPIO chip.
type Opener struct {
	// Chip is the name or path of the chip, e.g. "gpiochip4".
	Chip string
	// Offset is the line number on the chip.
	Offset int
	// Consumer labels the line while it is requested. Default is
	// DefaultConsumer.
	Consumer string
}

// Open implements dht11.Opener. The line is requested as an input with
// pull-up, the idle state of the bus.
func (o *Opener) Open() (dht11.Line, error) {
	consumer := o.Consumer
	if consumer == "" {
		consumer = DefaultConsumer
	}
	l, err := gpiod.RequestLine(o.Chip, o.Offset, gpiod.WithConsumer(consumer), gpiod.AsInput, gpiod.WithPullUp)
	if err != nil {
		return nil, err
	}
	return &Line{l: l, name: o.String()}, nil
}

func (o *Opener) String() string {
	return fmt.Sprintf("%s:%d", o.Chip, o.Offset)
}

// Line is a requested line. It implements dht11.Line.
type Line struct {
	l      *gpiod.Line
	name   string
	closed bool
}

// In implements dht11.Line.
func (l *Line) In(pull gpio.Pull) error {
	bias, err := biasOption(pull)
	if err != nil {
		return err
	}
	return l.l.Reconfigure(gpiod.AsInput, bias)
}

// Out implements dht11.Line.
func (l *Line) Out(v gpio.Level) error {
	value := 0
	if v == gpio.High {
		value = 1
	}
	return l.l.Reconfigure(gpiod.AsOutput(value))
}

// Read implements dht11.Line.
//
// A failed read reports gpio.Low. The error cannot be returned from the
// polling loop; the read then fails on a timeout or on the checksum.
func (l *Line) Read() gpio.Level {
	v, err := l.l.Value()
	return gpio.Level(err == nil && v != 0)
}

// Release implements dht11.Line.
func (l *Line) Release() error {
	if l.closed {
		return nil
	}
	l.closed = true
	_ = l.l.Close()
	return nil
}

func (l *Line) String() string {
	return l.name
}

func biasOption(pull gpio.Pull) (gpiod.LineConfigOption, error) {
	switch pull {
	case gpio.Float:
		return gpiod.WithBiasDisabled, nil
	case gpio.PullDown:
		return gpiod.WithPullDown, nil
	case gpio.PullUp:
		return gpiod.WithPullUp, nil
	case gpio.PullNoChange:
		return gpiod.WithBiasAsIs, nil
	default:
		return nil, fmt.Errorf("gpiodline: unsupported pull %s", pull)
	}
}

var _ dht11.Opener = &Opener{}
var _ dht11.Line = &Line{}
