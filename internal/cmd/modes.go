package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/Alia5/pijoy/db9"
)

// Modes prints the controller type table.
type Modes struct{}

func (m *Modes) Run() error {
	return printModes(os.Stdout)
}

func printModes(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPADS\tAXES\tBUTTONS")
	for _, d := range db9.Modes() {
		names := make([]string, 0, len(d.Buttons))
		for _, b := range d.Buttons {
			names = append(names, db9.KeyName(b))
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\n", d.Mode, d.Name, d.PadCount, d.AxisCount, strings.Join(names, ","))
	}
	return tw.Flush()
}
