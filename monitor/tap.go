package monitor

import (
	"github.com/Alia5/pijoy/db9"
	"github.com/Alia5/pijoy/input"
)

// Update is the state of one pad after a sync that changed it.
type Update struct {
	Phys  string
	Axes  int
	State input.State
}

// Tap is an input.Registrar that forwards everything to another registrar and
// publishes pad state on each changing sync.
type Tap struct {
	next    input.Registrar
	updates chan Update
}

// NewTap wraps next.
func NewTap(next input.Registrar) *Tap {
	return &Tap{next: next, updates: make(chan Update, 64)}
}

// Updates delivers state changes. Updates are dropped while the channel is full.
func (t *Tap) Updates() <-chan Update { return t.updates }

func (t *Tap) Register(info db9.Info) (input.Device, error) {
	dev, err := t.next.Register(info)
	if err != nil {
		return nil, err
	}
	return &tapDevice{Device: dev, phys: info.Phys, axes: len(info.Axes), out: t.updates}, nil
}

type tapDevice struct {
	input.Device
	phys string
	axes int
	out  chan<- Update

	cur, sent input.State
	primed    bool
}

func (d *tapDevice) ReportAbs(code uint16, value int32) {
	d.cur.SetAbs(code, value)
	d.Device.ReportAbs(code, value)
}

func (d *tapDevice) ReportKey(code uint16, pressed bool) {
	d.cur.SetKey(code, pressed)
	d.Device.ReportKey(code, pressed)
}

func (d *tapDevice) Sync() {
	d.Device.Sync()
	if d.primed && d.cur == d.sent {
		return
	}
	select {
	case d.out <- Update{Phys: d.phys, Axes: d.axes, State: d.cur}:
		d.sent = d.cur
		d.primed = true
	default:
	}
}
