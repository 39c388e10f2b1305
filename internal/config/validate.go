// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks configuration correctness. It does not mutate cfg.
func Validate(cfg *Config) error {
	s := cfg.Sensor
	switch s.Backend {
	case BackendGPIOD:
		if s.Chip == "" {
			return errors.New("sensor: chip is required with the gpiod backend")
		}
		if s.Line < 0 {
			return fmt.Errorf("sensor: invalid line %d", s.Line)
		}
	case BackendPeriph:
		if s.Pin == "" {
			return errors.New("sensor: pin is required with the periph backend")
		}
	default:
		return fmt.Errorf("sensor: unknown backend %q", s.Backend)
	}
	if s.StartLowMs != 0 && s.StartLowMs < 18 {
		return fmt.Errorf("sensor: start_low_ms must be at least 18, got %d", s.StartLowMs)
	}
	if s.CalibrationUs < 0 {
		return fmt.Errorf("sensor: invalid calibration_us %d", s.CalibrationUs)
	}
	if cfg.WatchMs != 0 && cfg.WatchMs < 1000 {
		return fmt.Errorf("watch_ms must be 0 or at least 1000, got %d", cfg.WatchMs)
	}
	if strings.ContainsAny(cfg.MQTT.Topic, "+#") {
		return fmt.Errorf("mqtt: topic %q must not contain wildcards", cfg.MQTT.Topic)
	}
	return nil
}

// Normalize fills in derived defaults. It must be called after Validate.
func Normalize(cfg *Config) {
	if cfg.MQTT.Broker != "" && cfg.MQTT.Topic == "" {
		cfg.MQTT.Topic = "dht11"
	}
	cfg.MQTT.Topic = strings.Trim(cfg.MQTT.Topic, "/")
}
