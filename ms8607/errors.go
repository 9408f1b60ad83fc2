// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ms8607

import "errors"

// Status is the outcome of a device operation. Every non-OK Status is also an
// error so it can be returned, wrapped, and matched with errors.Is.
type Status int

const (
	StatusOK Status = iota
	// The device did not acknowledge its address or a command.
	StatusNoAcknowledge
	// The device answered with unusable data.
	StatusTransferError
	// A PROM or humidity checksum did not match.
	StatusCRCError
	// The humidity compensation was requested while the heater is on.
	StatusHeaterOnError
	// The humidity die did not finish a no-hold conversion in time.
	StatusTimeout
	// The inputs lie outside the domain of the dew point formula.
	StatusComputationError
	// Begin() has not completed successfully.
	StatusNotInitialized
)

var statusNames = [...]string{
	StatusOK:               "ok",
	StatusNoAcknowledge:    "no_i2c_acknowledge",
	StatusTransferError:    "i2c_transfer_error",
	StatusCRCError:         "crc_error",
	StatusHeaterOnError:    "heater_on_error",
	StatusTimeout:          "timeout_error",
	StatusComputationError: "computation_error",
	StatusNotInitialized:   "not_initialized",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

func (s Status) Error() string {
	return "ms8607: " + s.String()
}

// Errors returned by the driver. Bus failures wrap the underlying error so
// both errors.Is(err, ErrNoAcknowledge) and the original cause are
// available.
var (
	ErrNoAcknowledge  error = StatusNoAcknowledge
	ErrTransfer       error = StatusTransferError
	ErrCRC            error = StatusCRCError
	ErrHeaterOn       error = StatusHeaterOnError
	ErrTimeout        error = StatusTimeout
	ErrComputation    error = StatusComputationError
	ErrNotInitialized error = StatusNotInitialized
)

// StatusOf returns the Status carried by err. nil maps to StatusOK and
// errors that did not originate from this package map to
// StatusTransferError.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	var s Status
	if errors.As(err, &s) {
		return s
	}
	return StatusTransferError
}
