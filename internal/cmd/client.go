package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/Alia5/pijoy/apiclient"
	"github.com/Alia5/pijoy/apitypes"
)

type ClientConfig struct {
	Addr string `help:"Address of a running monitor" default:"127.0.0.1:3243" env:"PIJOY_MONITOR_ADDR"`
}

// Status prints the state of a running instance.
type Status struct {
	Monitor ClientConfig `embed:"" prefix:"monitor."`
}

func (s *Status) Run() error {
	st, err := apiclient.New(s.Monitor.Addr).Status()
	if err != nil {
		return err
	}
	return printStatus(os.Stdout, st)
}

func printStatus(w io.Writer, st *apitypes.StatusResponse) error {
	fmt.Fprintf(w, "open: %d  polling: %t\n", st.Open, st.Polling)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLOT\tPORT\tMODE\tPHYS\tOPENS\tACQUIRED")
	for _, d := range st.Devices {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%d\t%t\n", d.Slot, d.Port, d.Name, d.Phys, d.Opens, d.Acquired)
	}
	return tw.Flush()
}

// Watch prints live frames of one pad. Watching keeps the pad polled.
type Watch struct {
	Pad     int          `arg:"" help:"Pad slot (0 or 1)"`
	Monitor ClientConfig `embed:"" prefix:"monitor."`
}

func (c *Watch) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return apiclient.New(c.Monitor.Addr).Watch(ctx, c.Pad, func(st apitypes.PadState) error {
		_, err := fmt.Fprintln(os.Stdout, formatPadState(st))
		return err
	})
}

func formatPadState(st apitypes.PadState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s #%d", st.Phys, st.Seq)
	for _, name := range []string{"x", "y", "rx", "ry", "rz", "z", "hat0x"} {
		if v, ok := st.Axes[name]; ok {
			fmt.Fprintf(&b, " %s=%d", name, v)
		}
	}
	fmt.Fprintf(&b, " [%s]", strings.Join(st.Buttons, " "))
	return b.String()
}
