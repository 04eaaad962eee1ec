// Package driver polls DB9 pads over GPIO and reports them as host input devices.
//
// A Driver owns up to MaxDevices registered pads. Each pad's connector lines are
// claimed on its first Open and given back on its last Close; while any pad is
// open a Scheduler runs the poll cycle every RefreshPeriod.
package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Alia5/pijoy/db9"
	"github.com/Alia5/pijoy/gpio"
	"github.com/Alia5/pijoy/input"
	"github.com/Alia5/pijoy/port"
)

const (
	// MaxDevices is the number of configurable pad slots.
	MaxDevices = 2
	// RefreshPeriod is the time between poll cycles.
	RefreshPeriod = 10 * time.Millisecond
	// SettleDelay is the wait after each select transition before lines are read.
	SettleDelay = 14 * time.Microsecond
)

// Slot configures one pad: the connector it is wired to and its protocol.
type Slot struct {
	Port int
	Mode db9.Mode
}

// SlotFromArgs converts a "<port>,<mode>" argument list into a slot.
// An empty list means the slot is unused and returns nil.
func SlotFromArgs(args []int) (*Slot, error) {
	switch len(args) {
	case 0:
		return nil, nil
	case 1:
		return nil, fmt.Errorf("%w: port %d has no device type", ErrInvalidMode, args[0])
	case 2:
		return &Slot{Port: args[0], Mode: db9.Mode(args[1])}, nil
	default:
		return nil, fmt.Errorf("expected <port>,<mode>, got %d values", len(args))
	}
}

// Config selects which slots are in use. A nil entry is an unused slot.
type Config struct {
	Slots [MaxDevices]*Slot
}

// Option tunes a Driver.
type Option func(*Driver)

// WithSettle replaces the busy-wait used between select transitions.
func WithSettle(fn func(time.Duration)) Option {
	return func(d *Driver) { d.settle = fn }
}

// WithPeriod overrides RefreshPeriod.
func WithPeriod(p time.Duration) Option {
	return func(d *Driver) { d.period = p }
}

// Device is one registered pad.
type Device struct {
	drv    *Driver
	slot   int
	mode   db9.Descriptor
	port   *port.Port
	portNo int
	info   db9.Info
	input  input.Device

	// refs is guarded by the driver lock.
	refs int
	// active is read by the poll cycle without any lock.
	active atomic.Bool
}

// Slot returns the configuration slot the pad was created from.
func (dev *Device) Slot() int { return dev.slot }

// Port returns the connector index.
func (dev *Device) Port() int { return dev.portNo }

// Mode returns the pad's protocol descriptor.
func (dev *Device) Mode() db9.Descriptor { return dev.mode }

// Info returns the identity the pad was registered with.
func (dev *Device) Info() db9.Info { return dev.info }

// Driver is the shared state of all pads.
type Driver struct {
	logger *slog.Logger

	// lock serializes Open, Close and teardown. Capacity one.
	lock    chan struct{}
	open    int
	devices [MaxDevices]*Device
	ports   [len(port.Pinouts)]*port.Port

	sched  *Scheduler
	period time.Duration
	settle func(time.Duration)
	closed bool
}

// New registers every configured pad. On any failure the pads registered so far
// are unregistered again and nothing is left behind.
func New(cfg Config, chip gpio.Chip, reg input.Registrar, logger *slog.Logger, opts ...Option) (*Driver, error) {
	d := &Driver{
		logger: logger,
		lock:   make(chan struct{}, 1),
		period: RefreshPeriod,
		settle: spin,
	}
	for _, o := range opts {
		o(d)
	}
	for i, pins := range port.Pinouts {
		d.ports[i] = port.New(chip, pins)
	}
	d.sched = NewScheduler(d.period, d.poll)

	count := 0
	for i, s := range cfg.Slots {
		if s == nil {
			continue
		}
		dev, err := d.probe(i, *s, reg)
		if err != nil {
			logger.Error("error on init", "slot", i, "error", err)
			_ = d.unregister()
			return nil, err
		}
		d.devices[i] = dev
		count++
	}
	if count == 0 {
		logger.Error("no devices configured")
		return nil, ErrNoDevices
	}
	return d, nil
}

func (d *Driver) probe(slot int, s Slot, reg input.Registrar) (*Device, error) {
	desc, err := db9.Lookup(s.Mode)
	if err != nil {
		return nil, fmt.Errorf("slot %d: %w", slot, err)
	}
	if s.Port < 0 || s.Port >= len(d.ports) {
		return nil, fmt.Errorf("%w: slot %d port %d out of range", ErrInvalidPort, slot, s.Port)
	}
	for _, other := range d.devices {
		if other != nil && other.portNo == s.Port {
			return nil, fmt.Errorf("%w: port %d used by slot %d", ErrInvalidPort, s.Port, other.slot)
		}
	}

	info := db9.DeviceInfo(desc, s.Port)
	in, err := reg.Register(info)
	if err != nil {
		return nil, fmt.Errorf("%w: register %s: %w", ErrAllocation, info.Phys, err)
	}
	d.logger.Info("device registered", "slot", slot, "port", s.Port, "mode", desc.Name, "phys", info.Phys)
	return &Device{
		drv:    d,
		slot:   slot,
		mode:   desc,
		port:   d.ports[s.Port],
		portNo: s.Port,
		info:   info,
		input:  in,
	}, nil
}

// Devices returns the registered pads in slot order.
func (d *Driver) Devices() []*Device {
	var out []*Device
	for _, dev := range d.devices {
		if dev != nil {
			out = append(out, dev)
		}
	}
	return out
}

// Device returns the pad in a slot, or nil.
func (d *Driver) Device(slot int) *Device {
	if slot < 0 || slot >= MaxDevices {
		return nil
	}
	return d.devices[slot]
}

// Close stops polling, releases every port still held by outstanding opens and
// unregisters all pads.
func (d *Driver) Close() error {
	d.lock <- struct{}{}
	defer d.release()
	if d.closed {
		return nil
	}
	d.closed = true
	if d.open > 0 {
		d.logger.Warn("closing with open devices", "open", d.open)
		for _, dev := range d.devices {
			if dev != nil {
				dev.active.Store(false)
			}
		}
		d.sched.Stop()
		for _, dev := range d.devices {
			if dev == nil || dev.refs == 0 {
				continue
			}
			dev.refs = 0
			if err := dev.port.Release(); err != nil {
				d.logger.Warn("release port", "port", dev.portNo, "error", err)
			}
		}
		d.open = 0
	}
	return d.unregister()
}

func (d *Driver) unregister() error {
	var errs []error
	for i, dev := range d.devices {
		if dev == nil {
			continue
		}
		if err := dev.input.Close(); err != nil {
			errs = append(errs, fmt.Errorf("unregister %s: %w", dev.info.Phys, err))
		}
		d.logger.Info("unregister device", "slot", dev.slot, "phys", dev.info.Phys)
		d.devices[i] = nil
	}
	return errors.Join(errs...)
}

// DeviceStatus is a point-in-time view of one pad.
type DeviceStatus struct {
	Slot     int
	Port     int
	Mode     db9.Mode
	Name     string
	Phys     string
	Refs     int
	Acquired bool
}

// Status is a point-in-time view of the driver.
type Status struct {
	Open    int
	Polling bool
	Devices []DeviceStatus
}

// Snapshot reports open counts and port ownership.
func (d *Driver) Snapshot(ctx context.Context) (Status, error) {
	if err := d.acquire(ctx); err != nil {
		return Status{}, err
	}
	defer d.release()
	st := Status{Open: d.open, Polling: d.sched.Running()}
	for _, dev := range d.devices {
		if dev == nil {
			continue
		}
		st.Devices = append(st.Devices, DeviceStatus{
			Slot:     dev.slot,
			Port:     dev.portNo,
			Mode:     dev.mode.Mode,
			Name:     dev.mode.Name,
			Phys:     dev.info.Phys,
			Refs:     dev.refs,
			Acquired: dev.port.Acquired(),
		})
	}
	return st, nil
}

// spin busy-waits for d.
func spin(d time.Duration) {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
	}
}
