package testing

import (
	"sync"

	"github.com/Alia5/pijoy/db9"
)

// StaticPad drives fixed data levels regardless of the select line.
type StaticPad struct {
	mu   sync.Mutex
	bits uint8
}

// NewStaticPad returns a pad presenting bits on its data lines.
func NewStaticPad(bits uint8) *StaticPad { return &StaticPad{bits: bits} }

func (p *StaticPad) OnSelect(bool) {}

func (p *StaticPad) Data() uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bits
}

// SetData changes the presented levels.
func (p *StaticPad) SetData(bits uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bits = bits
}

// Genesis6Pad emulates a six-button Mega Drive pad. Lines are active-low.
//
// The real pad counts select edges and resets its counter after ~1.5ms of
// inactivity. This emulation counts select-release writes and wraps after four,
// which matches one poll cycle.
type Genesis6Pad struct {
	mu      sync.Mutex
	high    bool
	count   int
	pressed map[uint16]bool
	up, dn  bool
	lt, rt  bool
}

// NewGenesis6Pad returns a pad with nothing pressed.
func NewGenesis6Pad() *Genesis6Pad {
	return &Genesis6Pad{high: true, pressed: map[uint16]bool{}}
}

// Press holds or releases a button.
func (p *Genesis6Pad) Press(code uint16, down bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pressed[code] = down
}

// Direction sets the d-pad.
func (p *Genesis6Pad) Direction(up, down, left, right bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.up, p.dn, p.lt, p.rt = up, down, left, right
}

func (p *Genesis6Pad) OnSelect(high bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if high {
		p.count++
		if p.count > 4 {
			p.count = 1
		}
	}
	p.high = high
}

func (p *Genesis6Pad) Data() uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()

	var on uint8
	set := func(bit uint8, v bool) {
		if v {
			on |= bit
		}
	}
	switch {
	case p.high && p.count == 3:
		set(db9.BitUp, p.pressed[db9.BtnZ])
		set(db9.BitDown, p.pressed[db9.BtnY])
		set(db9.BitLeft, p.pressed[db9.BtnX])
		set(db9.BitRight, p.pressed[db9.BtnMode])
	case p.high:
		set(db9.BitUp, p.up)
		set(db9.BitDown, p.dn)
		set(db9.BitLeft, p.lt)
		set(db9.BitRight, p.rt)
		set(db9.BitFire1, p.pressed[db9.BtnB])
		set(db9.BitFire2, p.pressed[db9.BtnC])
	case p.count >= 3:
		on |= db9.BitUp | db9.BitDown | db9.BitLeft | db9.BitRight
		set(db9.BitFire1, p.pressed[db9.BtnA])
		set(db9.BitFire2, p.pressed[db9.BtnStart])
	default:
		set(db9.BitUp, p.up)
		set(db9.BitDown, p.dn)
		on |= db9.BitLeft | db9.BitRight
		set(db9.BitFire1, p.pressed[db9.BtnA])
		set(db9.BitFire2, p.pressed[db9.BtnStart])
	}
	return ^on & db9.DataMask
}
