package db9

// Sample A is taken with select released, sample B with select asserted, sample C
// after the third release when six-button pads present their extended page.

// active normalizes a raw sample so that a set bit means "pressed".
// DB9 pads pull a line low for an active input unless the mode says otherwise.
func active(bits uint8, reverseActive bool) uint8 {
	if reverseActive {
		return ^bits & DataMask
	}
	return bits & DataMask
}

func axis(on uint8, pos, neg uint8) int32 {
	var v int32
	if on&pos != 0 {
		v++
	}
	if on&neg != 0 {
		v--
	}
	return v
}

// DirectionsA decodes the d-pad of sample A as horizontal and vertical axes in -1..1.
func DirectionsA(bits uint8, reverseActive bool) (x, y int32) {
	on := active(bits, reverseActive)
	return axis(on, BitRight, BitLeft), axis(on, BitDown, BitUp)
}

// ButtonsA decodes B and C from sample A.
func ButtonsA(bits uint8, reverseActive bool) (b, c bool) {
	on := active(bits, reverseActive)
	return on&BitFire1 != 0, on&BitFire2 != 0
}

// ButtonsB decodes A and Start from sample B.
func ButtonsB(bits uint8, reverseActive bool) (a, start bool) {
	on := active(bits, reverseActive)
	return on&BitFire1 != 0, on&BitFire2 != 0
}

// ButtonsC decodes the extended page (X, Y, Z, Mode) from sample C. Only six-button
// pads drive these bits; other pads repeat their direction bits here.
func ButtonsC(bits uint8, reverseActive bool) (x, y, z, mode bool) {
	on := active(bits, reverseActive)
	return on&BitLeft != 0, on&BitDown != 0, on&BitUp != 0, on&BitRight != 0
}
