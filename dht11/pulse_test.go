// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import (
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// scriptLine reads levels in order, then repeats the last one forever.
type scriptLine struct {
	levels []gpio.Level
	reads  int
}

func (s *scriptLine) In(gpio.Pull) error   { return nil }
func (s *scriptLine) Out(gpio.Level) error { return nil }
func (s *scriptLine) Release() error       { return nil }
func (s *scriptLine) String() string       { return "script" }

func (s *scriptLine) Read() gpio.Level {
	i := s.reads
	if i >= len(s.levels) {
		i = len(s.levels) - 1
	}
	s.reads++
	return s.levels[i]
}

func TestCalibrate(t *testing.T) {
	defer func(n func() time.Time, s func(time.Duration)) { now, sleep = n, s }(now, sleep)
	var slept []time.Duration
	clock := time.Unix(0, 0)
	now = func() time.Time { return clock }
	sleep = func(d time.Duration) {
		slept = append(slept, d)
		// The scheduler overshoots.
		clock = clock.Add(d + 37*time.Microsecond)
	}

	if c := Calibrate(time.Millisecond); c != 1037 {
		t.Errorf("expected 1037 polls, got %d", c)
	}
	if len(slept) != 1 || slept[0] != time.Millisecond {
		t.Errorf("expected a single 1ms sleep, got %v", slept)
	}

	// Never 0 so the line is polled at least once.
	sleep = func(time.Duration) {}
	if c := Calibrate(0); c != 1 {
		t.Errorf("expected 1 poll, got %d", c)
	}
}

func TestExpectPulse(t *testing.T) {
	data := []struct {
		name   string
		levels []gpio.Level
		level  gpio.Level
		max    Cycles
		want   Sample
		reads  int
	}{
		{"count", []gpio.Level{gpio.High, gpio.High, gpio.High, gpio.Low}, gpio.High, 10, Sample{Cycles: 3}, 4},
		{"already changed", []gpio.Level{gpio.Low}, gpio.High, 10, Sample{Cycles: 0}, 1},
		{"stuck", []gpio.Level{gpio.Low}, gpio.Low, 100, Sample{Timeout: true}, 100},
		{"stuck single poll", []gpio.Level{gpio.High}, gpio.High, 1, Sample{Timeout: true}, 1},
		{"changes on last poll", []gpio.Level{gpio.Low, gpio.Low, gpio.High}, gpio.Low, 3, Sample{Cycles: 2}, 3},
		{"changes after budget", []gpio.Level{gpio.Low, gpio.Low, gpio.Low, gpio.High}, gpio.Low, 3, Sample{Timeout: true}, 3},
	}
	for _, line := range data {
		t.Run(line.name, func(t *testing.T) {
			l := &scriptLine{levels: line.levels}
			if got := expectPulse(l, line.level, line.max); got != line.want {
				t.Errorf("expected %+v, got %+v", line.want, got)
			}
			if l.reads != line.reads {
				t.Errorf("expected %d reads, got %d", line.reads, l.reads)
			}
		})
	}
}
