// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dht11test is meant to be used to test drivers using a DHT11 without
// the sensor. Waveform plays back the answer of a sensor one poll at a time,
// so tests are deterministic whatever the speed of the host.
package dht11test

import (
	"errors"
	"fmt"
	"sync"

	"github.com/GermanBionicSystems/dht11/dht11"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// Segment is a level held on the line for a number of polls.
type Segment struct {
	L     gpio.Level
	Polls int
}

// Typical pulse lengths in polls, at roughly one poll per microsecond.
const (
	AckPolls  = 80
	LowPolls  = 50
	ZeroPolls = 26
	OnePolls  = 70
)

// Answer returns the segments a sensor sends for frame: the acknowledgement,
// 40 bits and the final low pulse that ends the transmission.
func Answer(frame [5]byte) []Segment {
	s := make([]Segment, 0, 2+2*40+1)
	s = append(s, Segment{gpio.Low, AckPolls}, Segment{gpio.High, AckPolls})
	for i := 0; i < 40; i++ {
		high := ZeroPolls
		if frame[i/8]&(0x80>>uint(i%8)) != 0 {
			high = OnePolls
		}
		s = append(s, Segment{gpio.Low, LowPolls}, Segment{gpio.High, high})
	}
	return append(s, Segment{gpio.Low, LowPolls})
}

// Waveform is a simulated data line. Until the host sends a start signal (Out
// with gpio.Low followed by In) it reads as the bus idle level, high. Then it
// plays back Segments, one poll per Read, and reads Idle once they are
// exhausted.
//
// Waveform implements both dht11.Opener and dht11.Line.
type Waveform struct {
	gpiotest.Pin
	Segments []Segment
	Idle     gpio.Level
	// OpenErr is returned by Open when set.
	OpenErr error
	// InErr and OutErr are returned by the mode changes when set.
	InErr  error
	OutErr error

	mu       sync.Mutex
	started  bool
	armed    bool
	seg      int
	inSeg    int
	polls    int
	opens    int
	releases int
	held     bool
	ops      []string
}

// Open implements dht11.Opener. The line must be released before being
// opened again.
func (w *Waveform) Open() (dht11.Line, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.OpenErr != nil {
		return nil, w.OpenErr
	}
	if w.held {
		return nil, errors.New("dht11test: line already acquired")
	}
	w.held = true
	w.opens++
	w.started, w.armed = false, false
	w.seg, w.inSeg = 0, 0
	w.ops = append(w.ops, "open")
	return w, nil
}

// In implements dht11.Line.
func (w *Waveform) In(pull gpio.Pull) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.InErr != nil {
		return w.InErr
	}
	w.ops = append(w.ops, "in:"+pull.String())
	w.Pin.P = pull
	if w.armed {
		w.started = true
	}
	return nil
}

// Out implements dht11.Line.
func (w *Waveform) Out(l gpio.Level) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.OutErr != nil {
		return w.OutErr
	}
	w.ops = append(w.ops, "out:"+l.String())
	w.Pin.L = l
	w.armed = l == gpio.Low
	return nil
}

// Read implements dht11.Line.
func (w *Waveform) Read() gpio.Level {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.polls++
	if !w.started {
		if w.armed {
			return gpio.Low
		}
		return gpio.High
	}
	for w.seg < len(w.Segments) && w.inSeg >= w.Segments[w.seg].Polls {
		w.seg++
		w.inSeg = 0
	}
	if w.seg == len(w.Segments) {
		return w.Idle
	}
	w.inSeg++
	return w.Segments[w.seg].L
}

// Release implements dht11.Line.
func (w *Waveform) Release() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.held {
		w.held = false
		w.releases++
		w.ops = append(w.ops, "release")
	}
	return nil
}

// Polls returns the number of times the line was read.
func (w *Waveform) Polls() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.polls
}

// Opens returns the number of times the line was acquired.
func (w *Waveform) Opens() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.opens
}

// Releases returns the number of times the line was released.
func (w *Waveform) Releases() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.releases
}

// Ops returns the mode changes applied to the line, in order.
func (w *Waveform) Ops() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.ops...)
}

func (w *Waveform) String() string {
	return fmt.Sprintf("waveform(%s)", w.Pin.Name())
}

var _ dht11.Opener = &Waveform{}
var _ dht11.Line = &Waveform{}
