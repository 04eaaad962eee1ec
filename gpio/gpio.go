// Package gpio defines the host GPIO facility pijoy polls pads through.
package gpio

import "errors"

// ErrLineBusy is returned when a requested line is owned by another consumer.
var ErrLineBusy = errors.New("gpio line busy")

// Request describes a set of lines to claim in one call.
type Request struct {
	// Consumer is the label shown to other users of the chip.
	Consumer string
	Inputs   []int
	Outputs  []int
	// OutputHigh is the initial level of every output line.
	OutputHigh bool
}

// Chip hands out exclusive ownership of lines.
type Chip interface {
	RequestLines(req Request) (Lines, error)
	Close() error
}

// Lines is a claimed group of lines addressed by chip offset.
//
// Set and Get sit on the polling hot path: they must not block or allocate, and
// report no error. A failed access leaves the line at whatever level it had.
type Lines interface {
	Set(offset int, high bool)
	Get(offset int) bool
	Release() error
}
