package driver

import (
	"context"
	"fmt"
)

func (d *Driver) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrInterrupted, err)
	}
	select {
	case d.lock <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrInterrupted, ctx.Err())
	}
}

func (d *Driver) release() { <-d.lock }

// Open registers a consumer of the pad. The first open claims the pad's
// connector lines; the first open across all pads starts polling.
//
// Waiting for the lifecycle lock is abandoned when ctx is done, with
// ErrInterrupted and no state changed.
func (dev *Device) Open(ctx context.Context) error {
	d := dev.drv
	if err := d.acquire(ctx); err != nil {
		return err
	}
	defer d.release()
	if d.closed {
		return ErrClosed
	}

	if dev.refs == 0 {
		if err := dev.port.Acquire(); err != nil {
			d.logger.Error("request gpio failed", "port", dev.portNo, "error", err)
			return fmt.Errorf("%w: %w", ErrLineUnavailable, err)
		}
		d.logger.Debug("request gpio ok", "port", dev.portNo)
		dev.active.Store(true)
	}
	dev.refs++
	d.open++
	if d.open == 1 {
		d.sched.Start()
		d.logger.Debug("polling started")
	}
	d.logger.Debug("open device", "port", dev.portNo, "used", dev.refs)
	return nil
}

// Close drops one consumer. The last close of the pad releases its lines; the
// last close across all pads stops polling, waiting for an in-flight cycle.
// Closing a pad that is not open logs a warning and does nothing.
func (dev *Device) Close() {
	d := dev.drv
	d.lock <- struct{}{}
	defer d.release()

	if dev.refs == 0 {
		d.logger.Warn("close on a device that is not open", "port", dev.portNo)
		return
	}
	dev.refs--
	d.open--

	last := dev.refs == 0
	if last {
		dev.active.Store(false)
	}
	switch {
	case d.open == 0:
		d.sched.Stop()
		d.logger.Debug("polling stopped")
	case last:
		// the other pad keeps polling; let a running cycle finish before the
		// lines go away under it.
		d.sched.Quiesce()
	}
	if last {
		if err := dev.port.Release(); err != nil {
			d.logger.Warn("free gpio failed", "port", dev.portNo, "error", err)
		} else {
			d.logger.Debug("free gpio", "port", dev.portNo)
		}
	}
	d.logger.Debug("close device", "port", dev.portNo, "used", dev.refs)
}
