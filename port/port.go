// Package port models one DB9 connector: six data lines and one select line.
package port

import (
	"fmt"

	"github.com/Alia5/pijoy/gpio"
)

// Level is the select line state.
type Level bool

const (
	// Select asserts the select line (electrically low).
	Select Level = false
	// Unselect releases it (electrically high).
	Unselect Level = true
)

// DataLines is the number of data lines per connector.
const DataLines = 6

// Pinout maps a connector to chip line offsets. Data[i] is sampled into bit i.
type Pinout struct {
	Name   string
	Data   [DataLines]int
	Select int
}

// Default connector wiring on a Raspberry Pi header (BCM numbering).
var (
	Pinout0 = Pinout{Name: "js0", Data: [DataLines]int{2, 3, 4, 17, 27, 22}, Select: 23}
	Pinout1 = Pinout{Name: "js1", Data: [DataLines]int{10, 9, 11, 0, 5, 6}, Select: 12}
)

// Pinouts lists the connectors by port index.
var Pinouts = [...]Pinout{Pinout0, Pinout1}

// Port is one connector bound to a chip.
//
// DriveSelect and Sample are called from the poll cycle without any lock; the
// caller guarantees the lines stay acquired while a cycle can reach this port.
type Port struct {
	pins  Pinout
	chip  gpio.Chip
	lines gpio.Lines
}

// New binds a pinout to a chip. No lines are claimed until Acquire.
func New(chip gpio.Chip, pins Pinout) *Port {
	return &Port{pins: pins, chip: chip}
}

// Pinout returns the port's wiring.
func (p *Port) Pinout() Pinout { return p.pins }

// Acquire claims all seven lines. The select line starts released.
func (p *Port) Acquire() error {
	if p.lines != nil {
		return fmt.Errorf("port %s already acquired", p.pins.Name)
	}
	lines, err := p.chip.RequestLines(gpio.Request{
		Consumer:   "pijoy-" + p.pins.Name,
		Inputs:     p.pins.Data[:],
		Outputs:    []int{p.pins.Select},
		OutputHigh: bool(Unselect),
	})
	if err != nil {
		return fmt.Errorf("acquire port %s: %w", p.pins.Name, err)
	}
	p.lines = lines
	return nil
}

// Release gives the lines back to the chip. Must pair with a successful Acquire.
func (p *Port) Release() error {
	if p.lines == nil {
		return nil
	}
	err := p.lines.Release()
	p.lines = nil
	return err
}

// Acquired reports whether the port currently holds its lines.
func (p *Port) Acquired() bool { return p.lines != nil }

// DriveSelect sets the select line. It does nothing if the port is not acquired.
func (p *Port) DriveSelect(level Level) {
	if l := p.lines; l != nil {
		l.Set(p.pins.Select, bool(level))
	}
}

// Sample reads the six data lines into bits 0..5. ok is false if the port is not
// acquired.
func (p *Port) Sample() (bits uint8, ok bool) {
	l := p.lines
	if l == nil {
		return 0, false
	}
	for i, off := range p.pins.Data {
		if l.Get(off) {
			bits |= 1 << i
		}
	}
	return bits, true
}
