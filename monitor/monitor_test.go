package monitor_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/pijoy/apitypes"
	"github.com/Alia5/pijoy/db9"
	"github.com/Alia5/pijoy/driver"
	th "github.com/Alia5/pijoy/internal/testing"
	"github.com/Alia5/pijoy/monitor"
	"github.com/Alia5/pijoy/port"
)

type fixture struct {
	rec *th.Recorder
	pad *th.Genesis6Pad
	drv *driver.Driver
	srv *monitor.Server
}

func startServer(t *testing.T) *fixture {
	t.Helper()
	chip := th.NewFakeChip()
	pad := th.NewGenesis6Pad()
	chip.Attach(port.Pinout0, pad)
	rec := &th.Recorder{}
	tap := monitor.NewTap(rec)

	var cfg driver.Config
	cfg.Slots[0] = &driver.Slot{Port: 0, Mode: db9.Genesis6Pad}
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
	return &fixture{rec: rec, pad: pad, drv: drv, srv: srv}
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	return resp.StatusCode
}

func TestModesEndpoint(t *testing.T) {
	f := startServer(t)
	var modes apitypes.ModesResponse
	code := getJSON(t, fmt.Sprintf("http://%s/modes", f.srv.Addr()), &modes)
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, modes.Modes, 11)
	assert.Equal(t, 1, modes.Modes[0].ID)
	assert.Equal(t, []string{"trigger"}, modes.Modes[0].Buttons)
}

func TestStatusEndpoint(t *testing.T) {
	f := startServer(t)
	var st apitypes.StatusResponse
	code := getJSON(t, fmt.Sprintf("http://%s/status", f.srv.Addr()), &st)
	assert.Equal(t, http.StatusOK, code)
	assert.Zero(t, st.Open)
	assert.False(t, st.Polling)
	require.Len(t, st.Devices, 1)
	assert.Equal(t, "pijoy/input0", st.Devices[0].Phys)
	assert.Equal(t, int(db9.Genesis6Pad), st.Devices[0].Mode)
}

func TestWebSocketRejectsBadPad(t *testing.T) {
	f := startServer(t)
	tests := []struct {
		query string
		code  int
	}{
		{"", http.StatusBadRequest},
		{"pad=x", http.StatusBadRequest},
		{"pad=1", http.StatusNotFound},
		{"pad=5", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			_, resp, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://%s/ws?%s", f.srv.Addr(), tt.query), nil)
			require.Error(t, err)
			require.NotNil(t, resp)
			defer resp.Body.Close()
			assert.Equal(t, tt.code, resp.StatusCode)
			assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))
			var apiErr apitypes.ApiError
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&apiErr))
			assert.Equal(t, tt.code, apiErr.Status)
		})
	}
}

func TestWebSocketStreamsPad(t *testing.T) {
	f := startServer(t)
	status := func() apitypes.StatusResponse {
		var st apitypes.StatusResponse
		getJSON(t, fmt.Sprintf("http://%s/status", f.srv.Addr()), &st)
		return st
	}

	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://%s/ws?pad=0", f.srv.Addr()), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, status().Open, "a watching client holds the pad open")

	f.pad.Press(db9.BtnStart, true)
	f.pad.Direction(false, false, true, false)
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var msg apitypes.PadState
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, "pijoy/input0", msg.Phys)
		if slices.Contains(msg.Buttons, "start") && msg.Axes["x"] == -1 {
			break
		}
	}

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return status().Open == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestShutdownReleasesClients(t *testing.T) {
	f := startServer(t)
	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://%s/ws?pad=0", f.srv.Addr()), nil)
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, f.srv.Shutdown(ctx))

	st, err := f.drv.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Zero(t, st.Open)
}
