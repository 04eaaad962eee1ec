package apiclient_test

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiclient "github.com/Alia5/pijoy/apiclient"
	apitypes "github.com/Alia5/pijoy/apitypes"
	"github.com/Alia5/pijoy/db9"
	"github.com/Alia5/pijoy/driver"
	th "github.com/Alia5/pijoy/internal/testing"
	"github.com/Alia5/pijoy/monitor"
	"github.com/Alia5/pijoy/port"
)

func startMonitor(t *testing.T) (*monitor.Server, *th.Genesis6Pad) {
	t.Helper()
	chip := th.NewFakeChip()
	pad := th.NewGenesis6Pad()
	chip.Attach(port.Pinout1, pad)
	tap := monitor.NewTap(&th.Recorder{})

	var cfg driver.Config
	cfg.Slots[1] = &driver.Slot{Port: 1, Mode: db9.Genesis6Pad}
	drv, err := driver.New(cfg, chip, tap, slog.Default(),
		driver.WithPeriod(time.Millisecond),
		driver.WithSettle(func(time.Duration) {}),
	)
	require.NoError(t, err)
	srv := monitor.NewServer(drv, tap, "127.0.0.1:0", slog.Default())
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
		_ = drv.Close()
	})
	return srv, pad
}

func TestWatchStreamsPad(t *testing.T) {
	srv, pad := startMonitor(t)
	c := apiclient.New(srv.Addr())

	pad.Press(db9.BtnY, true)
	errStop := errors.New("seen")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := c.Watch(ctx, 1, func(st apitypes.PadState) error {
		assert.Equal(t, "pijoy/input1", st.Phys)
		if slices.Contains(st.Buttons, "y") {
			return errStop
		}
		return nil
	})
	require.ErrorIs(t, err, errStop)

	require.Eventually(t, func() bool {
		st, err := c.Status()
		return err == nil && st.Open == 0
	}, 2*time.Second, 5*time.Millisecond)
}

func TestWatchCancel(t *testing.T) {
	srv, _ := startMonitor(t)
	c := apiclient.New(srv.Addr())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Watch(ctx, 1, func(apitypes.PadState) error { return nil }) }()

	require.Eventually(t, func() bool {
		st, err := c.Status()
		return err == nil && st.Open == 1
	}, 2*time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not return")
	}
}

func TestWatchUnknownPad(t *testing.T) {
	srv, _ := startMonitor(t)
	c := apiclient.New(srv.Addr())

	err := c.Watch(context.Background(), 0, func(apitypes.PadState) error { return nil })
	var apiErr *apitypes.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
}

func TestStatusAgainstServer(t *testing.T) {
	srv, _ := startMonitor(t)
	c := apiclient.New(srv.Addr())

	st, err := c.Status()
	require.NoError(t, err)
	require.Len(t, st.Devices, 1)
	assert.Equal(t, 1, st.Devices[0].Slot)
	assert.False(t, st.Polling)

	modes, err := c.Modes()
	require.NoError(t, err)
	assert.Len(t, modes.Modes, 11)
}
