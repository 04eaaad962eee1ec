package driver

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/pijoy/db9"
	th "github.com/Alia5/pijoy/internal/testing"
	"github.com/Alia5/pijoy/port"
)

// newManual builds a driver whose scheduler never fires, so tests drive poll directly.
func newManual(t *testing.T, cfg Config, chip *th.FakeChip, rec *th.Recorder) (*Driver, *[]time.Duration) {
	t.Helper()
	var delays []time.Duration
	d, err := New(cfg, chip, rec, slog.Default(),
		WithPeriod(time.Hour),
		WithSettle(func(dl time.Duration) { delays = append(delays, dl) }),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d, &delays
}

func TestPollSelectSequence(t *testing.T) {
	chip := th.NewFakeChip()
	chip.Attach(port.Pinout0, th.NewStaticPad(db9.DataMask))
	d, delays := newManual(t, Config{Slots: [MaxDevices]*Slot{{Port: 0, Mode: db9.Genesis6Pad}}}, chip, &th.Recorder{})
	require.NoError(t, d.Device(0).Open(context.Background()))
	chip.Ops()

	d.poll()

	sel := port.Pinout0.Select
	var levels []bool
	reads := map[int]int{}
	writes := 0
	for _, op := range chip.Ops() {
		switch op.Kind {
		case th.OpSet:
			require.Equal(t, sel, op.Offset)
			levels = append(levels, op.High)
			writes++
		case th.OpGet:
			reads[writes]++
		}
	}
	assert.Equal(t, []bool{true, false, true, false, true, false, true, false}, levels)
	// samples follow the 1st, 2nd and 5th select write
	assert.Equal(t, map[int]int{1: port.DataLines, 2: port.DataLines, 5: port.DataLines}, reads)
	assert.Len(t, *delays, 7)
	for _, dl := range *delays {
		assert.Equal(t, SettleDelay, dl)
	}
	assert.False(t, chip.Level(sel), "cycle ends with select asserted")
}

func TestPollGenesis6(t *testing.T) {
	chip := th.NewFakeChip()
	pad := th.NewGenesis6Pad()
	chip.Attach(port.Pinout0, pad)
	rec := &th.Recorder{}
	d, _ := newManual(t, Config{Slots: [MaxDevices]*Slot{{Port: 0, Mode: db9.Genesis6Pad}}}, chip, rec)
	require.NoError(t, d.Device(0).Open(context.Background()))

	d.poll()
	got := rec.Devices()[0].State()
	assert.Equal(t, int32(0), got.Axis(db9.AbsX))
	assert.Equal(t, int32(0), got.Axis(db9.AbsY))
	assert.Empty(t, got.PressedNames())

	pad.Direction(false, true, false, true)
	pad.Press(db9.BtnA, true)
	pad.Press(db9.BtnC, true)
	pad.Press(db9.BtnZ, true)
	pad.Press(db9.BtnMode, true)
	d.poll()

	got = rec.Devices()[0].State()
	assert.Equal(t, int32(1), got.Axis(db9.AbsX))
	assert.Equal(t, int32(1), got.Axis(db9.AbsY))
	for _, code := range []uint16{db9.BtnA, db9.BtnC, db9.BtnZ, db9.BtnMode} {
		assert.True(t, got.Pressed(code), db9.KeyName(code))
	}
	for _, code := range []uint16{db9.BtnB, db9.BtnStart, db9.BtnX, db9.BtnY} {
		assert.False(t, got.Pressed(code), db9.KeyName(code))
	}
	assert.Equal(t, 2, rec.Devices()[0].Frames())
}

func TestPollReportsOneFramePerCycle(t *testing.T) {
	chip := th.NewFakeChip()
	chip.Attach(port.Pinout0, th.NewStaticPad(db9.DataMask))
	rec := &th.Recorder{}
	d, _ := newManual(t, Config{Slots: [MaxDevices]*Slot{{Port: 0, Mode: db9.Genesis6Pad}}}, chip, rec)
	require.NoError(t, d.Device(0).Open(context.Background()))

	d.poll()
	events := rec.Devices()[0].Events()
	require.Len(t, events, 11)
	assert.Equal(t, th.Event{Type: db9.EvAbs, Code: db9.AbsX}, events[0])
	assert.Equal(t, th.Event{Type: db9.EvAbs, Code: db9.AbsY}, events[1])
	assert.Equal(t, th.Event{Type: db9.EvSyn}, events[10])
}

func TestPollSkipsInactivePorts(t *testing.T) {
	chip := th.NewFakeChip()
	chip.Attach(port.Pinout0, th.NewStaticPad(0))
	chip.Attach(port.Pinout1, th.NewStaticPad(0))
	rec := &th.Recorder{}
	d, _ := newManual(t, Config{Slots: [MaxDevices]*Slot{
		{Port: 0, Mode: db9.GenesisPad},
		{Port: 1, Mode: db9.GenesisPad},
	}}, chip, rec)
	require.NoError(t, d.Device(1).Open(context.Background()))
	chip.Ops()

	d.poll()
	for _, op := range chip.Ops() {
		if op.Kind == th.OpSet {
			assert.Equal(t, port.Pinout1.Select, op.Offset)
		}
	}
	devs := rec.Devices()
	assert.Zero(t, devs[0].Frames())
	assert.Equal(t, 1, devs[1].Frames())

	d.Device(1).Close()
	d.poll()
	assert.Empty(t, chip.Ops())
	assert.Equal(t, 1, devs[1].Frames())
}
