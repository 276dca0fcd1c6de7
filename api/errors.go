// Package api
// Author: momentics <momentics@gmail.com>
//
// Status codes and common errors shared by the queue core and allocation services.

package api

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Status is a negative errno-style result code. It is what a remote allocation
// service reports, and it travels through the Go error chain unchanged.
type Status int32

const (
	StatusOK              Status = 0
	StatusNoEntry         Status = -2
	StatusNoMemory        Status = -12
	StatusBusy            Status = -16
	StatusInvalidArgument Status = -22
	StatusNoSpace         Status = -28
)

// Error implements the error interface.
func (s Status) Error() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoEntry:
		return "no such entry"
	case StatusNoMemory:
		return "out of memory"
	case StatusBusy:
		return "resource busy"
	case StatusInvalidArgument:
		return "invalid argument"
	case StatusNoSpace:
		return "no space left in queue"
	default:
		return fmt.Sprintf("status %d", int32(s))
	}
}

// StatusOf extracts the Status carried by err.
// nil maps to StatusOK; errors without a Status map to StatusInvalidArgument.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	var st Status
	if errors.As(err, &st) {
		return st
	}
	return StatusInvalidArgument
}

// Common errors used across the library.
var (
	// ErrMetadataMismatch rejects a service whose metadata record layout differs.
	ErrMetadataMismatch = errors.New("producer metadata size mismatch")

	// ErrServiceClosed is reported by an allocation service after Close.
	ErrServiceClosed = errors.New("allocation service is closed")
)
