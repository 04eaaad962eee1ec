package db9

// Data line bitmasks as sampled from a port (bit 0 = first data line).
const (
	BitUp    = 0x01
	BitDown  = 0x02
	BitLeft  = 0x04
	BitRight = 0x08
	BitFire1 = 0x10
	BitFire2 = 0x20

	// DataMask covers the six data lines.
	DataMask = 0x3f
)

// Linux input event types.
const (
	EvSyn = 0x00
	EvKey = 0x01
	EvAbs = 0x03
)

// BusHost is BUS_HOST from linux/input.h.
const BusHost = 0x19

// Linux input key codes used by DB9 pads.
const (
	BtnTrigger = 0x120
	BtnThumb   = 0x121
	BtnA       = 0x130
	BtnB       = 0x131
	BtnC       = 0x132
	BtnX       = 0x133
	BtnY       = 0x134
	BtnZ       = 0x135
	BtnTL      = 0x136
	BtnTR      = 0x137
	BtnStart   = 0x13b
	BtnMode    = 0x13c
)

// Linux absolute axis codes.
const (
	AbsX     = 0x00
	AbsY     = 0x01
	AbsZ     = 0x02
	AbsRX    = 0x03
	AbsRY    = 0x04
	AbsRZ    = 0x05
	AbsHat0X = 0x10
	AbsHat0Y = 0x11
	AbsHat1X = 0x12
	AbsHat1Y = 0x13
)

// MaxAxes is the largest axis count of any mode.
const MaxAxes = 7

// MaxButtons is the largest button count of any mode.
const MaxButtons = 12

// Axes lists the axis codes in the order modes expose them.
var Axes = [...]uint16{AbsX, AbsY, AbsRX, AbsRY, AbsRZ, AbsZ, AbsHat0X, AbsHat0Y, AbsHat1X, AbsHat1Y}

// Keys lists every key code any mode can report. A key's index in this list is its
// bit position in a KeyMask.
var Keys = [...]uint16{BtnTrigger, BtnThumb, BtnA, BtnB, BtnC, BtnX, BtnY, BtnZ, BtnTL, BtnTR, BtnStart, BtnMode}

var keyNames = map[uint16]string{
	BtnTrigger: "trigger",
	BtnThumb:   "thumb",
	BtnA:       "a",
	BtnB:       "b",
	BtnC:       "c",
	BtnX:       "x",
	BtnY:       "y",
	BtnZ:       "z",
	BtnTL:      "tl",
	BtnTR:      "tr",
	BtnStart:   "start",
	BtnMode:    "mode",
}

// KeyName returns a short lowercase name for a key code, or "" if unknown.
func KeyName(code uint16) string {
	return keyNames[code]
}

// KeyIndex returns the index of code in Keys, or -1.
func KeyIndex(code uint16) int {
	for i, k := range Keys {
		if k == code {
			return i
		}
	}
	return -1
}

var axisNames = map[uint16]string{
	AbsX:     "x",
	AbsY:     "y",
	AbsZ:     "z",
	AbsRX:    "rx",
	AbsRY:    "ry",
	AbsRZ:    "rz",
	AbsHat0X: "hat0x",
	AbsHat0Y: "hat0y",
	AbsHat1X: "hat1x",
	AbsHat1Y: "hat1y",
}

// AxisName returns a short lowercase name for an axis code, or "" if unknown.
func AxisName(code uint16) string {
	return axisNames[code]
}
