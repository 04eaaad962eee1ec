//go:build linux

package gpio

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/Alia5/pijoy/internal/ioctl"
)

// GPIO character device uAPI v2 (linux/gpio.h).
const (
	linesMax    = 64
	maxNameSize = 32
	numAttrsMax = 10

	lineFlagInput  = 1 << 2
	lineFlagOutput = 1 << 3

	attrIDFlags        = 1
	attrIDOutputValues = 2
)

type lineAttribute struct {
	id    uint32
	_     uint32
	value uint64
}

type lineConfigAttribute struct {
	attr lineAttribute
	mask uint64
}

type lineConfig struct {
	flags    uint64
	numAttrs uint32
	_        [5]uint32
	attrs    [numAttrsMax]lineConfigAttribute
}

type lineRequest struct {
	offsets         [linesMax]uint32
	consumer        [maxNameSize]byte
	config          lineConfig
	numLines        uint32
	eventBufferSize uint32
	_               [5]uint32
	fd              int32
}

type lineValues struct {
	bits uint64
	mask uint64
}

var (
	getLineIoctl       = ioctl.IOWR(0xB4, 0x07, unsafe.Sizeof(lineRequest{}))
	lineGetValuesIoctl = ioctl.IOWR(0xB4, 0x0E, unsafe.Sizeof(lineValues{}))
	lineSetValuesIoctl = ioctl.IOWR(0xB4, 0x0F, unsafe.Sizeof(lineValues{}))
)

// CharDev is a GPIO chip opened through /dev/gpiochipN.
type CharDev struct {
	path string
	fd   int
}

// OpenChip opens a GPIO character device.
func OpenChip(path string) (*CharDev, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &CharDev{path: path, fd: fd}, nil
}

// RequestLines claims inputs and outputs in a single line request.
func (c *CharDev) RequestLines(req Request) (Lines, error) {
	n := len(req.Inputs) + len(req.Outputs)
	if n == 0 || n > linesMax {
		return nil, fmt.Errorf("invalid line count %d", n)
	}

	var lr lineRequest
	copy(lr.consumer[:maxNameSize-1], req.Consumer)
	l := &charDevLines{offsets: make([]int, 0, n)}

	var outMask, outInit uint64
	for _, off := range req.Inputs {
		lr.offsets[len(l.offsets)] = uint32(off)
		l.offsets = append(l.offsets, off)
	}
	for _, off := range req.Outputs {
		bit := uint64(1) << len(l.offsets)
		outMask |= bit
		if req.OutputHigh {
			outInit |= bit
		}
		lr.offsets[len(l.offsets)] = uint32(off)
		l.offsets = append(l.offsets, off)
	}
	lr.numLines = uint32(n)
	lr.config.flags = lineFlagInput
	if outMask != 0 {
		lr.config.attrs[0] = lineConfigAttribute{
			attr: lineAttribute{id: attrIDFlags, value: lineFlagOutput},
			mask: outMask,
		}
		lr.config.attrs[1] = lineConfigAttribute{
			attr: lineAttribute{id: attrIDOutputValues, value: outInit},
			mask: outMask,
		}
		lr.config.numAttrs = 2
	}

	if err := ioctl.Ptr(c.fd, getLineIoctl, unsafe.Pointer(&lr)); err != nil {
		if errors.Is(err, unix.EBUSY) {
			return nil, fmt.Errorf("%s %v: %w", c.path, l.offsets, ErrLineBusy)
		}
		return nil, fmt.Errorf("request lines %v on %s: %w", l.offsets, c.path, err)
	}
	l.fd = int(lr.fd)
	return l, nil
}

// Close closes the chip. Lines already requested stay valid until released.
func (c *CharDev) Close() error {
	return unix.Close(c.fd)
}

type charDevLines struct {
	fd      int
	offsets []int
	vals    lineValues
}

func (l *charDevLines) index(offset int) int {
	for i, o := range l.offsets {
		if o == offset {
			return i
		}
	}
	return -1
}

func (l *charDevLines) Set(offset int, high bool) {
	i := l.index(offset)
	if i < 0 {
		return
	}
	l.vals.mask = 1 << i
	l.vals.bits = 0
	if high {
		l.vals.bits = l.vals.mask
	}
	_ = ioctl.Ptr(l.fd, lineSetValuesIoctl, unsafe.Pointer(&l.vals))
}

func (l *charDevLines) Get(offset int) bool {
	i := l.index(offset)
	if i < 0 {
		return false
	}
	l.vals.mask = 1 << i
	l.vals.bits = 0
	if err := ioctl.Ptr(l.fd, lineGetValuesIoctl, unsafe.Pointer(&l.vals)); err != nil {
		return false
	}
	return l.vals.bits&l.vals.mask != 0
}

func (l *charDevLines) Release() error {
	return unix.Close(l.fd)
}
