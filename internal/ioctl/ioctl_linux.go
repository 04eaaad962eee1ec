//go:build linux

// Package ioctl encodes Linux ioctl request numbers and issues them.
package ioctl

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	nrBits   = 8
	typeBits = 8
	sizeBits = 14

	nrShift   = 0
	typeShift = nrShift + nrBits
	sizeShift = typeShift + typeBits
	dirShift  = sizeShift + sizeBits

	dirNone  = 0
	dirWrite = 1
	dirRead  = 2
)

func ioc(dir, typ, nr, size uintptr) uintptr {
	return (dir << dirShift) | (typ << typeShift) | (nr << nrShift) | (size << sizeShift)
}

// IO is _IO(typ, nr).
func IO(typ, nr uintptr) uintptr { return ioc(dirNone, typ, nr, 0) }

// IOW is _IOW(typ, nr, size).
func IOW(typ, nr, size uintptr) uintptr { return ioc(dirWrite, typ, nr, size) }

// IOR is _IOR(typ, nr, size).
func IOR(typ, nr, size uintptr) uintptr { return ioc(dirRead, typ, nr, size) }

// IOWR is _IOWR(typ, nr, size).
func IOWR(typ, nr, size uintptr) uintptr { return ioc(dirRead|dirWrite, typ, nr, size) }

// Ptr issues an ioctl whose argument is a pointer.
func Ptr(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// Int issues an ioctl whose argument is passed by value.
func Int(fd int, req uintptr, arg uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, arg)
	if errno != 0 {
		return errno
	}
	return nil
}
