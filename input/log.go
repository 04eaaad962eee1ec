package input

import (
	"log/slog"

	"github.com/Alia5/pijoy/db9"
)

// LogRegistrar registers devices that log every state change at info level.
// Logging happens on a per-device goroutine so Sync never waits on the handler.
type LogRegistrar struct {
	logger *slog.Logger
}

// NewLogRegistrar returns a registrar logging through logger.
func NewLogRegistrar(logger *slog.Logger) *LogRegistrar {
	return &LogRegistrar{logger: logger}
}

func (r *LogRegistrar) Register(info db9.Info) (Device, error) {
	d := &logDevice{
		logger: r.logger.With("device", info.Phys, "name", info.Name),
		frames: make(chan State, 16),
		done:   make(chan struct{}),
	}
	go d.run()
	return d, nil
}

type logDevice struct {
	logger *slog.Logger
	cur    State
	last   State
	frames chan State
	done   chan struct{}
}

func (d *logDevice) ReportAbs(code uint16, value int32) { d.cur.SetAbs(code, value) }
func (d *logDevice) ReportKey(code uint16, pressed bool) { d.cur.SetKey(code, pressed) }

func (d *logDevice) Sync() {
	if d.cur == d.last {
		return
	}
	select {
	case d.frames <- d.cur:
		d.last = d.cur
	default:
	}
}

func (d *logDevice) run() {
	defer close(d.done)
	for st := range d.frames {
		d.logger.Info("pad state", "axes", st.Axes, "keys", st.PressedNames())
	}
}

func (d *logDevice) Close() error {
	close(d.frames)
	<-d.done
	return nil
}
