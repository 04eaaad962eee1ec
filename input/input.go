// Package input defines the host input-event consumer pads report into, and the
// sinks that implement it.
package input

import (
	"fmt"
	"log/slog"

	"github.com/Alia5/pijoy/db9"
)

// Device is one registered pad on the host side.
//
// ReportAbs, ReportKey and Sync are called from the poll cycle and must not block.
// Reports accumulate until Sync flushes them as one frame.
type Device interface {
	ReportAbs(code uint16, value int32)
	ReportKey(code uint16, pressed bool)
	Sync()
	// Close unregisters the device.
	Close() error
}

// Registrar registers pads with the host.
type Registrar interface {
	Register(info db9.Info) (Device, error)
}

// Sink names accepted by NewRegistrar.
const (
	SinkUinput = "uinput"
	SinkLog    = "log"
	SinkNone   = "none"
)

// NewRegistrar builds the registrar for a sink name.
func NewRegistrar(sink string, logger *slog.Logger) (Registrar, error) {
	switch sink {
	case SinkUinput, "":
		return NewUinput(DefaultUinputPath), nil
	case SinkLog:
		return NewLogRegistrar(logger), nil
	case SinkNone:
		return Discard{}, nil
	default:
		return nil, fmt.Errorf("unknown sink %q", sink)
	}
}

// Discard registers devices that drop every report.
type Discard struct{}

func (Discard) Register(db9.Info) (Device, error) { return discardDevice{}, nil }

type discardDevice struct{}

func (discardDevice) ReportAbs(uint16, int32) {}
func (discardDevice) ReportKey(uint16, bool)  {}
func (discardDevice) Sync()                   {}
func (discardDevice) Close() error            { return nil }
