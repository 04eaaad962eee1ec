//go:build !linux

package input

import (
	"errors"

	"github.com/Alia5/pijoy/db9"
)

// DefaultUinputPath is where the uinput device node usually lives.
const DefaultUinputPath = "/dev/uinput"

// Uinput is only available on Linux.
type Uinput struct{}

// NewUinput returns a registrar that always fails outside Linux.
func NewUinput(path string) *Uinput { return &Uinput{} }

func (u *Uinput) Register(info db9.Info) (Device, error) {
	return nil, errors.New("uinput requires linux")
}
