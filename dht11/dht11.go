// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/golang/glog"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// minStartLow is the shortest start signal the sensor is guaranteed to detect.
const minStartLow = 18 * time.Millisecond

// MinInterval is the shortest interval between two reads the sensor
// tolerates.
const MinInterval = time.Second

// Opts holds the configuration options for the device.
type Opts struct {
	// StartLow is how long the line is held low to wake up the sensor. It must
	// be at least 18ms. Default is 20ms.
	StartLow time.Duration
	// Calibration is the wall-clock time used to calibrate the pulse timeout.
	// Default is 1ms. Leave 0 to use default.
	Calibration time.Duration
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	StartLow:    20 * time.Millisecond,
	Calibration: time.Millisecond,
}

// Dev is a DHT11 sensor. It owns the timeout calibration and the pulse buffer
// used by its reads. Reads are serialized.
type Dev struct {
	open Opener
	opts Opts
	max  Cycles

	mu     sync.Mutex
	pulses Pulses

	stop chan struct{}
	wg   sync.WaitGroup
}

// New returns a Dev reading the sensor on the line returned by o. The pulse
// timeout is calibrated once here. The Opts can be nil.
func New(o Opener, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	d := &Dev{open: o, opts: *opts}
	if d.opts.StartLow == 0 {
		d.opts.StartLow = DefaultOpts.StartLow
	}
	if d.opts.StartLow < minStartLow {
		return nil, fmt.Errorf("dht11: start signal of %s is shorter than %s", d.opts.StartLow, minStartLow)
	}
	if d.opts.Calibration <= 0 {
		d.opts.Calibration = DefaultOpts.Calibration
	}
	d.max = Calibrate(d.opts.Calibration)
	glog.V(2).Infof("dht11: %s pulse timeout is %d polls", o, d.max)
	return d, nil
}

// ReadFrame runs one exchange with the sensor and returns the validated frame.
//
// It returns a *TimeoutError if the sensor stopped answering, a
// *ChecksumError if the frame is corrupted and a *ResourceUnavailableError or
// *ConfigurationError if the line could not be driven. ReadFrame does not
// retry; wait at least MinInterval before trying again.
func (d *Dev) ReadFrame() (Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.exchange(); err != nil {
		return Frame{}, err
	}
	f, err := Decode(&d.pulses)
	if err != nil {
		glog.V(2).Infof("dht11: %v", err)
		return Frame{}, err
	}
	if !f.Valid() {
		glog.V(2).Infof("dht11: bad checksum %s", f)
		return f, &ChecksumError{Frame: f}
	}
	return f, nil
}

// exchange wakes up the sensor and records its answer in d.pulses. The line is
// released on return.
func (d *Dev) exchange() error {
	l, err := d.open.Open()
	if err != nil {
		return &ResourceUnavailableError{Line: d.open.String(), Err: err}
	}
	defer l.Release()

	// The bus idles high.
	if err := l.In(gpio.PullUp); err != nil {
		return &ConfigurationError{Op: "idle input", Err: err}
	}
	if glog.V(2) {
		glog.Infof("dht11: %s idle level %s", l, l.Read())
	}

	// Start signal.
	if err := l.Out(gpio.Low); err != nil {
		return &ConfigurationError{Op: "start signal", Err: err}
	}
	sleep(d.opts.StartLow)
	if err := l.In(gpio.PullUp); err != nil {
		return &ConfigurationError{Op: "release pull-up", Err: err}
	}
	if err := l.In(gpio.PullNoChange); err != nil {
		return &ConfigurationError{Op: "release input", Err: err}
	}

	return d.capture(l)
}

// capture records the acknowledgement and the 80 data pulses. The goroutine
// stays on its thread and the GC is off until it returns.
func (d *Dev) capture(l Line) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer debug.SetGCPercent(debug.SetGCPercent(-1))

	if s := expectPulse(l, gpio.Low, d.max); s.Timeout {
		glog.V(2).Infof("dht11: no acknowledgement low pulse")
		return &TimeoutError{Phase: PhaseAckLow}
	}
	if s := expectPulse(l, gpio.High, d.max); s.Timeout {
		glog.V(2).Infof("dht11: no acknowledgement high pulse")
		return &TimeoutError{Phase: PhaseAckHigh}
	}
	for i := 0; i < len(d.pulses); i += 2 {
		d.pulses[i] = expectPulse(l, gpio.Low, d.max)
		d.pulses[i+1] = expectPulse(l, gpio.High, d.max)
	}
	return nil
}

// Sense implements physic.SenseEnv. The pressure is always 0. The sensor is
// read once; e is left untouched on failure.
func (d *Dev) Sense(e *physic.Env) error {
	f, err := d.ReadFrame()
	if err != nil {
		return err
	}
	r := f.Reading()
	e.Temperature = r.Temperature
	e.Humidity = r.Humidity
	e.Pressure = 0
	return nil
}

// SenseContinuous implements physic.SenseEnv. It returns a channel that
// receives a measurement every interval, which must be at least MinInterval.
// Failed reads are skipped. It is the caller's responsibility to call Halt()
// when done.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval < MinInterval {
		return nil, fmt.Errorf("dht11: invalid interval %s, minimum %s", interval, MinInterval)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return nil, errors.New("dht11: sense continuous already running")
	}

	d.stop = make(chan struct{})
	stop := d.stop
	sensing := make(chan physic.Env)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer close(sensing)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				var e physic.Env
				if err := d.Sense(&e); err != nil {
					glog.V(1).Infof("%s: %v", d, err)
					continue
				}
				select {
				case sensing <- e:
				case <-stop:
					return
				}
			}
		}
	}()
	return sensing, nil
}

// Precision implements physic.SenseEnv.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = physic.Celsius / 10
	e.Pressure = 0
	e.Humidity = physic.MilliRH
}

// Halt stops a running SenseContinuous().
func (d *Dev) Halt() error {
	d.mu.Lock()
	stop := d.stop
	d.stop = nil
	d.mu.Unlock()
	if stop == nil {
		return nil
	}
	close(stop)
	d.wg.Wait()
	return nil
}

func (d *Dev) String() string {
	return "dht11{" + d.open.String() + "}"
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
