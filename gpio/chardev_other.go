//go:build !linux

package gpio

import "errors"

// CharDev is only available on Linux.
type CharDev struct{}

// OpenChip always fails outside Linux.
func OpenChip(path string) (*CharDev, error) {
	return nil, errors.New("gpio character devices require linux")
}

func (c *CharDev) RequestLines(req Request) (Lines, error) {
	return nil, errors.New("gpio character devices require linux")
}

func (c *CharDev) Close() error { return nil }
