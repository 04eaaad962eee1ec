// Package monitor serves live pad state over websockets plus a small JSON status API.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Alia5/pijoy/apitypes"
	"github.com/Alia5/pijoy/db9"
	"github.com/Alia5/pijoy/driver"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server is the monitor HTTP server. Every websocket client holds one open on
// the pad it watches, so watching a pad keeps it polled.
type Server struct {
	drv    *driver.Driver
	hub    *Hub
	bc     *Broadcaster
	addr   string
	logger *slog.Logger

	ln      net.Listener
	http    *http.Server
	cancel  context.CancelFunc
	clients sync.WaitGroup
}

// NewServer builds a server for drv fed by tap. drv must have been created with
// tap as its registrar.
func NewServer(drv *driver.Driver, tap *Tap, addr string, logger *slog.Logger) *Server {
	hub := NewHub(logger)
	return &Server{
		drv:    drv,
		hub:    hub,
		bc:     NewBroadcaster(hub, tap.Updates(), logger),
		addr:   addr,
		logger: logger,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /modes", s.handleModes)
	return mux
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.ln = ln
	ctx, s.cancel = context.WithCancel(ctx)
	go s.bc.Run(ctx)

	s.http = &http.Server{Handler: s.Handler()}
	s.logger.Info("monitor listening", "addr", ln.Addr().String())
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("monitor serve", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s.ln == nil {
		return s.addr
	}
	return s.ln.Addr().String()
}

// Shutdown stops accepting, disconnects every client and waits until their
// opens are closed.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.http != nil {
		err = s.http.Shutdown(ctx)
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.hub.CloseAll()
	s.clients.Wait()
	return err
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	slot, err := strconv.Atoi(r.URL.Query().Get("pad"))
	if err != nil {
		writeError(w, ErrBadRequest(fmt.Sprintf("invalid pad: %v", err)))
		return
	}
	dev := s.drv.Device(slot)
	if dev == nil {
		writeError(w, ErrNotFound(fmt.Sprintf("pad %d not configured", slot)))
		return
	}
	if err := dev.Open(r.Context()); err != nil {
		s.logger.Error("monitor open pad", "slot", slot, "error", err)
		writeError(w, err)
		return
	}
	s.clients.Add(1)
	defer s.clients.Done()
	defer dev.Close()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	c := NewClient(s.hub, conn, dev.Info().Phys)
	if !s.hub.Register(c) {
		_ = conn.Close()
		return
	}
	s.bc.SendInitialState(c)
	go c.WritePump()
	c.ReadPump()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.drv.Snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	resp := apitypes.StatusResponse{Open: st.Open, Polling: st.Polling, Devices: []apitypes.DeviceStatus{}}
	for _, d := range st.Devices {
		resp.Devices = append(resp.Devices, apitypes.DeviceStatus{
			Slot:     d.Slot,
			Port:     d.Port,
			Mode:     int(d.Mode),
			Name:     d.Name,
			Phys:     d.Phys,
			Opens:    d.Refs,
			Acquired: d.Acquired,
		})
	}
	writeJSON(w, resp)
}

func (s *Server) handleModes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, ModesResponse())
}

// ModesResponse lists every valid controller type.
func ModesResponse() apitypes.ModesResponse {
	resp := apitypes.ModesResponse{Modes: []apitypes.ModeInfo{}}
	for _, d := range db9.Modes() {
		names := make([]string, 0, len(d.Buttons))
		for _, b := range d.Buttons {
			names = append(names, db9.KeyName(b))
		}
		resp.Modes = append(resp.Modes, apitypes.ModeInfo{
			ID:            int(d.Mode),
			Name:          d.Name,
			Buttons:       names,
			Pads:          d.PadCount,
			Axes:          d.AxisCount,
			Bidirectional: d.Bidirectional,
			ReverseActive: d.ReverseActive,
		})
	}
	return resp
}
