package driver

import (
	"errors"

	"github.com/Alia5/pijoy/db9"
)

var (
	// ErrInvalidMode is returned for a slot whose mode is missing, reserved or unknown.
	ErrInvalidMode = db9.ErrInvalidMode
	// ErrAllocation is returned when the host cannot register a pad.
	ErrAllocation = errors.New("allocation failure")
	// ErrLineUnavailable is returned by Open when the port's lines are owned elsewhere.
	ErrLineUnavailable = errors.New("gpio lines unavailable")
	// ErrInterrupted is returned by Open when the caller gave up waiting.
	ErrInterrupted = errors.New("interrupted")
	// ErrInvalidPort is returned for a slot naming a missing or already used connector.
	ErrInvalidPort = errors.New("invalid port")
	// ErrNoDevices is returned when no slot is configured.
	ErrNoDevices = errors.New("no devices configured")
	// ErrClosed is returned by Open after the driver was torn down.
	ErrClosed = errors.New("driver closed")
)
