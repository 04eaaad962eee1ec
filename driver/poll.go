package driver

import (
	"github.com/Alia5/pijoy/db9"
	"github.com/Alia5/pijoy/port"
)

type sample uint8

const (
	sampleNone sample = iota
	sampleA           // select released: d-pad, B, C
	sampleB           // select asserted: A, Start
	sampleC           // after the third release: X, Y, Z, Mode
)

type phase struct {
	level  port.Level
	settle bool
	read   sample
}

// cycle is the select sequence of one poll. Six-button pads step through their
// pages on select edges and fall back to page A once the line idles.
var cycle = [...]phase{
	{port.Unselect, true, sampleA},
	{port.Select, true, sampleB},
	{port.Unselect, true, sampleNone},
	{port.Select, true, sampleNone},
	{port.Unselect, true, sampleC},
	{port.Select, true, sampleNone},
	{port.Unselect, true, sampleNone},
	{port.Select, false, sampleNone},
}

// poll runs one cycle over every pad whose port is held. It takes no lock and
// allocates nothing.
func (d *Driver) poll() {
	var buf [MaxDevices]*Device
	devs := buf[:0]
	for _, dev := range d.devices {
		if dev != nil && dev.active.Load() {
			devs = append(devs, dev)
		}
	}
	if len(devs) == 0 {
		return
	}

	for _, ph := range cycle {
		for _, dev := range devs {
			dev.port.DriveSelect(ph.level)
		}
		if ph.settle {
			d.settle(SettleDelay)
		}
		if ph.read == sampleNone {
			continue
		}
		for _, dev := range devs {
			if bits, ok := dev.port.Sample(); ok {
				dev.report(ph.read, bits)
			}
		}
	}
	for _, dev := range devs {
		dev.input.Sync()
	}
}

func (dev *Device) report(s sample, bits uint8) {
	rev := dev.mode.ReverseActive
	in := dev.input
	switch s {
	case sampleA:
		x, y := db9.DirectionsA(bits, rev)
		in.ReportAbs(db9.AbsX, x)
		in.ReportAbs(db9.AbsY, y)
		b, c := db9.ButtonsA(bits, rev)
		in.ReportKey(db9.BtnB, b)
		in.ReportKey(db9.BtnC, c)
	case sampleB:
		a, start := db9.ButtonsB(bits, rev)
		in.ReportKey(db9.BtnA, a)
		in.ReportKey(db9.BtnStart, start)
	case sampleC:
		x, y, z, mode := db9.ButtonsC(bits, rev)
		in.ReportKey(db9.BtnX, x)
		in.ReportKey(db9.BtnY, y)
		in.ReportKey(db9.BtnZ, z)
		in.ReportKey(db9.BtnMode, mode)
	}
}
