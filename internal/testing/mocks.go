// Package testing holds fakes for the GPIO and input facilities.
package testing

import (
	"errors"
	"sync"

	"github.com/Alia5/pijoy/db9"
	"github.com/Alia5/pijoy/gpio"
	"github.com/Alia5/pijoy/input"
	"github.com/Alia5/pijoy/port"
)

// Pad emulates the controller end of a connector.
type Pad interface {
	// OnSelect is called on every write to the select line.
	OnSelect(high bool)
	// Data returns the six data line levels, bit i for data line i.
	Data() uint8
}

// OpKind is the kind of a recorded line access.
type OpKind int

const (
	OpSet OpKind = iota
	OpGet
)

// Op is one recorded line access.
type Op struct {
	Kind   OpKind
	Offset int
	High   bool
}

type attachment struct {
	pins port.Pinout
	pad  Pad
}

// FakeChip is an in-memory gpio.Chip that records every access.
type FakeChip struct {
	mu       sync.Mutex
	owned    map[int]bool
	busy     map[int]bool
	levels   map[int]bool
	pads     []attachment
	ops      []Op
	requests int
	releases int
}

// NewFakeChip returns an empty chip where unattached lines read low.
func NewFakeChip() *FakeChip {
	return &FakeChip{
		owned:  map[int]bool{},
		busy:   map[int]bool{},
		levels: map[int]bool{},
	}
}

// Attach connects a pad emulator to a connector's lines.
func (c *FakeChip) Attach(pins port.Pinout, pad Pad) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pads = append(c.pads, attachment{pins: pins, pad: pad})
}

// SetBusy marks a line as owned by someone else.
func (c *FakeChip) SetBusy(offset int, busy bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy[offset] = busy
}

func (c *FakeChip) RequestLines(req gpio.Request) (gpio.Lines, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	all := append(append([]int(nil), req.Inputs...), req.Outputs...)
	for _, off := range all {
		if c.busy[off] || c.owned[off] {
			return nil, gpio.ErrLineBusy
		}
	}
	for _, off := range all {
		c.owned[off] = true
	}
	for _, off := range req.Outputs {
		c.levels[off] = req.OutputHigh
	}
	c.requests++
	return &fakeLines{chip: c, offsets: all}, nil
}

func (c *FakeChip) Close() error { return nil }

// Owned reports whether a line is currently claimed through this chip.
func (c *FakeChip) Owned(offset int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.owned[offset]
}

// Level returns the last level written to a line.
func (c *FakeChip) Level(offset int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.levels[offset]
}

// Counts returns how many requests and releases the chip has served.
func (c *FakeChip) Counts() (requests, releases int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requests, c.releases
}

// Ops returns and clears the recorded accesses.
func (c *FakeChip) Ops() []Op {
	c.mu.Lock()
	defer c.mu.Unlock()
	ops := c.ops
	c.ops = nil
	return ops
}

type fakeLines struct {
	chip     *FakeChip
	offsets  []int
	released bool
}

func (l *fakeLines) Set(offset int, high bool) {
	c := l.chip
	c.mu.Lock()
	c.ops = append(c.ops, Op{Kind: OpSet, Offset: offset, High: high})
	c.levels[offset] = high
	var pad Pad
	for _, a := range c.pads {
		if a.pins.Select == offset {
			pad = a.pad
		}
	}
	c.mu.Unlock()
	if pad != nil {
		pad.OnSelect(high)
	}
}

func (l *fakeLines) Get(offset int) bool {
	c := l.chip
	c.mu.Lock()
	c.ops = append(c.ops, Op{Kind: OpGet, Offset: offset})
	level := c.levels[offset]
	var pad Pad
	bit := -1
	for _, a := range c.pads {
		for i, d := range a.pins.Data {
			if d == offset {
				pad, bit = a.pad, i
			}
		}
	}
	c.mu.Unlock()
	if pad != nil {
		return pad.Data()&(1<<bit) != 0
	}
	return level
}

func (l *fakeLines) Release() error {
	c := l.chip
	c.mu.Lock()
	defer c.mu.Unlock()
	if l.released {
		return errors.New("lines released twice")
	}
	l.released = true
	for _, off := range l.offsets {
		delete(c.owned, off)
	}
	c.releases++
	return nil
}

// Event is one report recorded by a Recorder device.
type Event struct {
	Type  uint16
	Code  uint16
	Value int32
}

// RecordedDevice keeps everything reported to one registered device.
type RecordedDevice struct {
	mu     sync.Mutex
	Info   db9.Info
	events []Event
	state  input.State
	frames int
	closed bool
}

func (d *RecordedDevice) ReportAbs(code uint16, value int32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, Event{Type: db9.EvAbs, Code: code, Value: value})
	d.state.SetAbs(code, value)
}

func (d *RecordedDevice) ReportKey(code uint16, pressed bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var v int32
	if pressed {
		v = 1
	}
	d.events = append(d.events, Event{Type: db9.EvKey, Code: code, Value: v})
	d.state.SetKey(code, pressed)
}

func (d *RecordedDevice) Sync() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, Event{Type: db9.EvSyn})
	d.frames++
}

func (d *RecordedDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Events returns and clears the recorded reports.
func (d *RecordedDevice) Events() []Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	ev := d.events
	d.events = nil
	return ev
}

// State returns the accumulated pad state.
func (d *RecordedDevice) State() input.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Frames returns the number of Syncs seen.
func (d *RecordedDevice) Frames() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames
}

// Closed reports whether the device was unregistered.
func (d *RecordedDevice) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Recorder is an input.Registrar that keeps every device it registers.
type Recorder struct {
	mu      sync.Mutex
	devices []*RecordedDevice
	// FailAt makes the n-th Register call (1-based) fail. Zero disables it.
	FailAt int
	calls  int
}

var ErrRegisterFailed = errors.New("register failed")

func (r *Recorder) Register(info db9.Info) (input.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.FailAt != 0 && r.calls == r.FailAt {
		return nil, ErrRegisterFailed
	}
	d := &RecordedDevice{Info: info}
	r.devices = append(r.devices, d)
	return d, nil
}

// Devices returns the devices registered so far.
func (r *Recorder) Devices() []*RecordedDevice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*RecordedDevice(nil), r.devices...)
}

// Live returns the devices not yet closed.
func (r *Recorder) Live() []*RecordedDevice {
	var out []*RecordedDevice
	for _, d := range r.Devices() {
		if !d.Closed() {
			out = append(out, d)
		}
	}
	return out
}
