// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build linux

package gpiodline

import (
	"testing"
	"time"

	"github.com/GermanBionicSystems/dht11/dht11"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/go-gpiosim"
	"periph.io/x/conn/v3/gpio"
)

const offset = 2

// newSim returns a simulated chip. It needs the gpio-sim kernel module and
// root; the test is skipped otherwise.
func newSim(t *testing.T) *gpiosim.Simpleton {
	s, err := gpiosim.NewSimpleton(4)
	if err != nil {
		t.Skipf("gpio-sim not available: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBiasOption(t *testing.T) {
	for _, p := range []gpio.Pull{gpio.Float, gpio.PullDown, gpio.PullUp, gpio.PullNoChange} {
		o, err := biasOption(p)
		require.NoError(t, err, p.String())
		require.NotNil(t, o, p.String())
	}
	_, err := biasOption(gpio.Pull(42))
	require.Error(t, err)
}

func TestOpener_String(t *testing.T) {
	o := &Opener{Chip: "gpiochip4", Offset: 26}
	require.Equal(t, "gpiochip4:26", o.String())
}

func TestOpener_unavailable(t *testing.T) {
	o := &Opener{Chip: "/dev/gpiochip-does-not-exist", Offset: 0}
	_, err := o.Open()
	require.Error(t, err)
}

func TestLine(t *testing.T) {
	s := newSim(t)
	o := &Opener{Chip: s.DevPath(), Offset: offset}
	l, err := o.Open()
	require.NoError(t, err)

	// Exclusive while requested.
	_, err = o.Open()
	require.Error(t, err)

	require.NoError(t, l.Out(gpio.Low))
	v, err := s.Level(offset)
	require.NoError(t, err)
	require.Equal(t, 0, v)
	require.NoError(t, l.Out(gpio.High))
	v, err = s.Level(offset)
	require.NoError(t, err)
	require.Equal(t, 1, v)

	require.NoError(t, l.In(gpio.Float))
	require.NoError(t, s.SetPull(offset, 0))
	require.Equal(t, gpio.Low, l.Read())
	require.NoError(t, s.SetPull(offset, 1))
	require.Equal(t, gpio.High, l.Read())

	require.NoError(t, l.Release())
	require.NoError(t, l.Release())

	// Released lines can be requested again.
	l, err = o.Open()
	require.NoError(t, err)
	require.NoError(t, l.Release())
}

func TestReadFrame_noSensor(t *testing.T) {
	s := newSim(t)
	o := &Opener{Chip: s.DevPath(), Offset: offset}
	d, err := dht11.New(o, &dht11.Opts{StartLow: 18 * time.Millisecond})
	require.NoError(t, err)

	// Nothing answers the start signal.
	_, err = d.ReadFrame()
	var te *dht11.TimeoutError
	require.ErrorAs(t, err, &te)

	// The line was given back.
	l, err := o.Open()
	require.NoError(t, err)
	require.NoError(t, l.Release())
}
