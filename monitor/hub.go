package monitor

import (
	"log/slog"
	"sync"
)

// Hub tracks connected websocket clients by the pad they watch.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	closed  bool
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{clients: make(map[*Client]bool), logger: logger}
}

// Register adds a new client to the hub. It returns false once CloseAll ran.
func (h *Hub) Register(c *Client) bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	h.clients[c] = true
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("monitor client connected", "phys", c.phys, "total", n)
	return true
}

// Unregister removes a client and closes its send queue. Safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	if ok {
		h.logger.Info("monitor client disconnected", "phys", c.phys, "total", n)
	}
}

// BroadcastTo queues msg for every client watching phys. A client whose queue is
// full is disconnected.
func (h *Hub) BroadcastTo(phys string, msg []byte) {
	var slow []*Client
	h.mu.RLock()
	for c := range h.clients {
		if c.phys != phys {
			continue
		}
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range slow {
		h.logger.Warn("monitor client too slow, dropping", "phys", c.phys)
		h.Unregister(c)
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll disconnects every client and refuses new ones.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	h.closed = true
	all := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		all = append(all, c)
	}
	h.mu.Unlock()
	for _, c := range all {
		h.Unregister(c)
		_ = c.conn.Close()
	}
}
