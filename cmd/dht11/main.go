// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build linux

// dht11 reads a DHT11 sensor and prints the temperature and the relative
// humidity, one per line. It exits with status 1 when the read fails.
//
// With -watch it reads the sensor periodically until interrupted. With -mqtt
// each reading is also published as JSON.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GermanBionicSystems/dht11/dht11"
	"github.com/GermanBionicSystems/dht11/gpiodline"
	"github.com/GermanBionicSystems/dht11/internal/config"
	"github.com/GermanBionicSystems/dht11/internal/publish"
	"github.com/golang/glog"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

var (
	configPath = flag.String("config", "", "YAML configuration file")
	chip       = flag.String("chip", "", "GPIO chip of the data line (gpiod backend, default gpiochip4)")
	line       = flag.Int("line", -1, "offset of the data line on -chip (default 26)")
	pin        = flag.String("pin", "", "periph pin name of the data line, e.g. GPIO26; selects the periph backend")
	broker     = flag.String("mqtt", "", "MQTT broker URL to publish readings to, e.g. mqtt://host:1883")
	topic      = flag.String("topic", "", "MQTT topic (default dht11)")
	watch      = flag.Duration("watch", 0, "read every interval until interrupted instead of once; at least 1s")
)

func main() {
	flag.Parse()
	defer glog.Flush()
	if err := mainImpl(); err != nil {
		glog.Errorf("%v", err)
		glog.Flush()
		os.Exit(1)
	}
}

func mainImpl() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	o, err := opener(&cfg.Sensor)
	if err != nil {
		return err
	}
	d, err := dht11.New(o, &dht11.Opts{StartLow: cfg.Sensor.StartLow(), Calibration: cfg.Sensor.Calibration()})
	if err != nil {
		return err
	}

	var pub *publish.Publisher
	if cfg.MQTT.Broker != "" {
		opts, err := publish.ClientOptions(cfg.MQTT.Broker, cfg.MQTT.ClientID)
		if err != nil {
			return err
		}
		if pub, err = publish.New(opts, cfg.MQTT.Topic); err != nil {
			return err
		}
		defer pub.Close()
	}

	report := func(r dht11.Reading) error {
		fmt.Printf("%g°C\n%g%%\n", r.Celsius(), r.Percent())
		if pub == nil {
			return nil
		}
		return pub.Publish(publish.NewMessage(o.String(), r, time.Now()))
	}

	if cfg.Watch() == 0 {
		f, err := d.ReadFrame()
		if err != nil {
			return describe(err)
		}
		return report(f.Reading())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ch, err := d.SenseContinuous(cfg.Watch())
	if err != nil {
		return err
	}
	defer d.Halt()
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-ch:
			if !ok {
				return nil
			}
			if err := report(envReading(e)); err != nil {
				glog.Warning(err)
			}
		}
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return nil, err
		}
	}
	if *chip != "" {
		cfg.Sensor.Chip = *chip
	}
	if *line >= 0 {
		cfg.Sensor.Line = *line
	}
	if *pin != "" {
		cfg.Sensor.Backend = config.BackendPeriph
		cfg.Sensor.Pin = *pin
	}
	if *broker != "" {
		cfg.MQTT.Broker = *broker
	}
	if *topic != "" {
		cfg.MQTT.Topic = *topic
	}
	if *watch != 0 {
		cfg.WatchMs = int(*watch / time.Millisecond)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	config.Normalize(cfg)
	return cfg, nil
}

func opener(s *config.SensorConfig) (dht11.Opener, error) {
	if s.Backend != config.BackendPeriph {
		return &gpiodline.Opener{Chip: s.Chip, Offset: s.Line}, nil
	}
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	p := gpioreg.ByName(s.Pin)
	if p == nil {
		return nil, fmt.Errorf("unknown pin %q", s.Pin)
	}
	return dht11.PinOpener(p), nil
}

// describe adds a hint to the errors of a failed read.
func describe(err error) error {
	var te *dht11.TimeoutError
	var ce *dht11.ChecksumError
	switch {
	case errors.As(err, &te):
		return fmt.Errorf("%w (is the sensor wired and powered?)", err)
	case errors.As(err, &ce):
		return fmt.Errorf("%w (try again in a second)", err)
	}
	return err
}

func envReading(e physic.Env) dht11.Reading {
	return dht11.Reading{Temperature: e.Temperature, Humidity: e.Humidity}
}
