// Package db9 describes the DB9 controller family (Sega Multisystem, Genesis, Saturn,
// Amiga CD-32) and decodes port samples into button and axis values.
package db9

import (
	"errors"
	"fmt"
)

// ErrInvalidMode is returned for reserved or out-of-range mode identifiers.
var ErrInvalidMode = errors.New("invalid mode")

// Mode identifies a controller type. Values are stable; 0 and 4 are reserved.
type Mode int

const (
	MultiStick   Mode = 0x01
	Multi2Stick  Mode = 0x02
	GenesisPad   Mode = 0x03
	Genesis5Pad  Mode = 0x05
	Genesis6Pad  Mode = 0x06
	SaturnPad    Mode = 0x07
	Multi0802    Mode = 0x08
	Multi0802Two Mode = 0x09
	CD32Pad      Mode = 0x0A
	SaturnDPP    Mode = 0x0B
	SaturnDPPTwo Mode = 0x0C

	maxMode = 0x0D
)

// Descriptor is the static description of one controller type.
type Descriptor struct {
	Mode          Mode
	Name          string
	Buttons       []uint16
	PadCount      int
	AxisCount     int
	Bidirectional bool
	ReverseActive bool
}

// ButtonCount is the number of logical buttons the mode exposes.
func (d Descriptor) ButtonCount() int { return len(d.Buttons) }

var (
	multiButtons   = []uint16{BtnTrigger, BtnThumb}
	genesisButtons = []uint16{BtnStart, BtnA, BtnB, BtnC, BtnX, BtnY, BtnZ, BtnMode}
	cd32Buttons    = []uint16{BtnA, BtnB, BtnC, BtnX, BtnY, BtnZ, BtnTL, BtnTR, BtnStart}
)

// modes is indexed by Mode. Empty entries are the reserved slots.
var modes = [maxMode]Descriptor{
	{},
	{MultiStick, "Multisystem joystick", multiButtons[:1], 1, 2, true, true},
	{Multi2Stick, "Multisystem joystick (2 fire)", multiButtons[:2], 1, 2, true, true},
	{GenesisPad, "Genesis pad", genesisButtons[:4], 1, 2, true, true},
	{},
	{Genesis5Pad, "Genesis 5 pad", genesisButtons[:6], 1, 2, true, true},
	{Genesis6Pad, "Genesis 6 pad", genesisButtons[:8], 1, 2, true, true},
	{SaturnPad, "Saturn pad", cd32Buttons[:9], 6, 7, false, true},
	{Multi0802, "Multisystem (0.8.0.2) joystick", multiButtons[:1], 1, 2, true, true},
	{Multi0802Two, "Multisystem (0.8.0.2-dual) joystick", multiButtons[:1], 2, 2, true, true},
	{CD32Pad, "Amiga CD-32 pad", cd32Buttons[:7], 1, 2, true, true},
	{SaturnDPP, "Saturn dpp", cd32Buttons[:9], 6, 7, false, false},
	{SaturnDPPTwo, "Saturn dpp dual", cd32Buttons[:9], 12, 7, false, false},
}

// Lookup returns the descriptor for m, or ErrInvalidMode.
func Lookup(m Mode) (Descriptor, error) {
	if m < 1 || m >= maxMode || modes[m].Name == "" {
		return Descriptor{}, fmt.Errorf("%w: %d", ErrInvalidMode, int(m))
	}
	return modes[m], nil
}

// Valid reports whether m names a supported controller type.
func (m Mode) Valid() bool {
	_, err := Lookup(m)
	return err == nil
}

func (m Mode) String() string {
	if d, err := Lookup(m); err == nil {
		return d.Name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Modes returns every valid descriptor in identifier order.
func Modes() []Descriptor {
	out := make([]Descriptor, 0, len(modes))
	for _, d := range modes {
		if d.Name != "" {
			out = append(out, d)
		}
	}
	return out
}
