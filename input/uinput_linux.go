//go:build linux

package input

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/Alia5/pijoy/db9"
	"github.com/Alia5/pijoy/internal/ioctl"
)

// DefaultUinputPath is where the uinput device node usually lives.
const DefaultUinputPath = "/dev/uinput"

const uinputMaxNameSize = 80

// frameCap bounds the events buffered between two Syncs, SYN_REPORT included.
const frameCap = 32

type inputID struct {
	bustype, vendor, product, version uint16
}

type absInfo struct {
	value, min, max, fuzz, flat, resolution int32
}

type uinputSetup struct {
	id           inputID
	name         [uinputMaxNameSize]byte
	ffEffectsMax uint32
}

type uinputAbsSetup struct {
	code uint16
	_    [2]byte
	info absInfo
}

type inputEvent struct {
	time  unix.Timeval
	typ   uint16
	code  uint16
	value int32
}

var (
	uiDevCreate  = ioctl.IO('U', 1)
	uiDevDestroy = ioctl.IO('U', 2)
	uiDevSetup   = ioctl.IOW('U', 3, unsafe.Sizeof(uinputSetup{}))
	uiAbsSetup   = ioctl.IOW('U', 4, unsafe.Sizeof(uinputAbsSetup{}))
	uiSetEvBit   = ioctl.IOW('U', 100, unsafe.Sizeof(int32(0)))
	uiSetKeyBit  = ioctl.IOW('U', 101, unsafe.Sizeof(int32(0)))
	uiSetAbsBit  = ioctl.IOW('U', 103, unsafe.Sizeof(int32(0)))
	uiSetPhys    = ioctl.IOW('U', 108, unsafe.Sizeof(uintptr(0)))
)

// Uinput registers pads as virtual input devices through /dev/uinput.
type Uinput struct {
	path string
}

// NewUinput returns a registrar using the uinput node at path.
func NewUinput(path string) *Uinput {
	return &Uinput{path: path}
}

func (u *Uinput) Register(info db9.Info) (Device, error) {
	fd, err := unix.Open(u.path, unix.O_WRONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", u.path, err)
	}
	if err := setupUinput(fd, info); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("register %q: %w", info.Name, err)
	}
	return &uinputDevice{
		fd:     fd,
		events: make([]inputEvent, 0, frameCap),
	}, nil
}

func setupUinput(fd int, info db9.Info) error {
	for _, ev := range []uintptr{db9.EvKey, db9.EvAbs, db9.EvSyn} {
		if err := ioctl.Int(fd, uiSetEvBit, ev); err != nil {
			return fmt.Errorf("UI_SET_EVBIT: %w", err)
		}
	}
	for _, k := range info.Keys {
		if err := ioctl.Int(fd, uiSetKeyBit, uintptr(k)); err != nil {
			return fmt.Errorf("UI_SET_KEYBIT %#x: %w", k, err)
		}
	}
	for _, a := range info.Axes {
		if err := ioctl.Int(fd, uiSetAbsBit, uintptr(a.Code)); err != nil {
			return fmt.Errorf("UI_SET_ABSBIT %#x: %w", a.Code, err)
		}
	}

	phys, err := unix.BytePtrFromString(info.Phys)
	if err != nil {
		return err
	}
	if err := ioctl.Ptr(fd, uiSetPhys, unsafe.Pointer(phys)); err != nil {
		return fmt.Errorf("UI_SET_PHYS: %w", err)
	}

	var setup uinputSetup
	copy(setup.name[:uinputMaxNameSize-1], info.Name)
	setup.id = inputID{bustype: info.Bus, vendor: info.Vendor, product: info.Product, version: info.Version}
	if err := ioctl.Ptr(fd, uiDevSetup, unsafe.Pointer(&setup)); err != nil {
		return fmt.Errorf("UI_DEV_SETUP: %w", err)
	}

	for _, a := range info.Axes {
		abs := uinputAbsSetup{code: a.Code, info: absInfo{min: a.Min, max: a.Max}}
		if err := ioctl.Ptr(fd, uiAbsSetup, unsafe.Pointer(&abs)); err != nil {
			return fmt.Errorf("UI_ABS_SETUP %#x: %w", a.Code, err)
		}
	}

	if err := ioctl.Int(fd, uiDevCreate, 0); err != nil {
		return fmt.Errorf("UI_DEV_CREATE: %w", err)
	}
	return nil
}

type uinputDevice struct {
	fd     int
	events []inputEvent
}

func (d *uinputDevice) push(typ, code uint16, value int32) {
	// the last slot is kept for SYN_REPORT
	if len(d.events) >= cap(d.events)-1 {
		return
	}
	d.events = append(d.events, inputEvent{typ: typ, code: code, value: value})
}

func (d *uinputDevice) ReportAbs(code uint16, value int32) { d.push(db9.EvAbs, code, value) }

func (d *uinputDevice) ReportKey(code uint16, pressed bool) {
	var v int32
	if pressed {
		v = 1
	}
	d.push(db9.EvKey, code, v)
}

// Sync writes the pending frame followed by SYN_REPORT in a single write.
// The node is non-blocking; a frame the kernel cannot take is dropped.
func (d *uinputDevice) Sync() {
	d.events = append(d.events, inputEvent{typ: db9.EvSyn})
	n := len(d.events) * int(unsafe.Sizeof(inputEvent{}))
	buf := unsafe.Slice((*byte)(unsafe.Pointer(&d.events[0])), n)
	_, _ = unix.Write(d.fd, buf)
	d.events = d.events[:0]
}

func (d *uinputDevice) Close() error {
	_ = ioctl.Int(d.fd, uiDevDestroy, 0)
	return unix.Close(d.fd)
}
