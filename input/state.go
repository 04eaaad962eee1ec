package input

import (
	"strings"

	"github.com/Alia5/pijoy/db9"
)

// State is a decoded snapshot of one pad. It is a plain value so it can be copied
// across goroutines without allocating.
type State struct {
	Axes [db9.MaxAxes]int32
	// Keys has bit i set when db9.Keys[i] is pressed.
	Keys uint16
}

func axisIndex(code uint16) int {
	for i := 0; i < db9.MaxAxes; i++ {
		if db9.Axes[i] == code {
			return i
		}
	}
	return -1
}

// SetAbs records an axis value. Unknown axes are ignored.
func (s *State) SetAbs(code uint16, value int32) {
	if i := axisIndex(code); i >= 0 {
		s.Axes[i] = value
	}
}

// SetKey records a key state. Unknown keys are ignored.
func (s *State) SetKey(code uint16, pressed bool) {
	i := db9.KeyIndex(code)
	if i < 0 {
		return
	}
	if pressed {
		s.Keys |= 1 << i
	} else {
		s.Keys &^= 1 << i
	}
}

// Pressed reports whether a key is down.
func (s State) Pressed(code uint16) bool {
	i := db9.KeyIndex(code)
	return i >= 0 && s.Keys&(1<<i) != 0
}

// Axis returns the last value of an axis.
func (s State) Axis(code uint16) int32 {
	if i := axisIndex(code); i >= 0 {
		return s.Axes[i]
	}
	return 0
}

// PressedNames lists pressed keys by short name, in db9.Keys order.
func (s State) PressedNames() []string {
	var out []string
	for i, k := range db9.Keys {
		if s.Keys&(1<<i) != 0 {
			out = append(out, db9.KeyName(k))
		}
	}
	return out
}

func (s State) String() string {
	return "keys=[" + strings.Join(s.PressedNames(), ",") + "]"
}
