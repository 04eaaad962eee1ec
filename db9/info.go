package db9

import "fmt"

// AxisRange is the reported value range of one absolute axis.
type AxisRange struct {
	Code     uint16
	Min, Max int32
}

// Info is what the host input layer needs to register a pad.
type Info struct {
	Name    string
	Phys    string
	Bus     uint16
	Vendor  uint16
	Product uint16
	Version uint16
	Keys    []uint16
	Axes    []AxisRange
}

// DeviceInfo builds the registration info for a pad of mode d attached to port.
// The first two axes are the d-pad (-1..1); any further ones are analog (1..255).
func DeviceInfo(d Descriptor, port int) Info {
	info := Info{
		Name:    d.Name,
		Phys:    fmt.Sprintf("pijoy/input%d", port),
		Bus:     BusHost,
		Vendor:  0x0002,
		Product: uint16(d.Mode),
		Version: 0x0100,
		Keys:    append([]uint16(nil), d.Buttons...),
	}
	for i := 0; i < d.AxisCount; i++ {
		r := AxisRange{Code: Axes[i], Min: 1, Max: 255}
		if i < 2 {
			r.Min, r.Max = -1, 1
		}
		info.Axes = append(info.Axes, r)
	}
	return info
}
