// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import "fmt"

// Phase identifies the part of the exchange in which the sensor stopped
// answering.
type Phase int

const (
	// PhaseAckLow is the low half of the sensor's acknowledgement.
	PhaseAckLow Phase = iota
	// PhaseAckHigh is the high half of the sensor's acknowledgement.
	PhaseAckHigh
	// PhaseData is the transmission of the 40 data bits.
	PhaseData
)

func (p Phase) String() string {
	switch p {
	case PhaseAckLow:
		return "ack-low"
	case PhaseAckHigh:
		return "ack-high"
	case PhaseData:
		return "bit-capture"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// TimeoutError is returned when the line did not change level within the
// calibrated budget. Bit is the index of the failing bit in PhaseData.
//
// The read can be attempted again after at least one second.
type TimeoutError struct {
	Phase Phase
	Bit   int
}

func (e *TimeoutError) Error() string {
	if e.Phase == PhaseData {
		return fmt.Sprintf("dht11: timeout in %s at bit %d", e.Phase, e.Bit)
	}
	return fmt.Sprintf("dht11: timeout in %s", e.Phase)
}

// ChecksumError is returned when the frame was received but its checksum does
// not match. Frame holds what was received.
type ChecksumError struct {
	Frame Frame
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("dht11: checksum mismatch in frame %s", e.Frame)
}

// ResourceUnavailableError is returned when the data line cannot be acquired.
type ResourceUnavailableError struct {
	Line string
	Err  error
}

func (e *ResourceUnavailableError) Error() string {
	return fmt.Sprintf("dht11: failed to acquire %s: %v", e.Line, e.Err)
}

func (e *ResourceUnavailableError) Unwrap() error {
	return e.Err
}

// ConfigurationError is returned when the line rejects a mode change.
type ConfigurationError struct {
	Op  string
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("dht11: %s: %v", e.Op, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
