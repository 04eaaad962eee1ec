package monitor

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/Alia5/pijoy/apitypes"
	"github.com/Alia5/pijoy/db9"
)

const fullSyncInterval = 5 * time.Second

// Broadcaster forwards tap updates to the hub and resends every known state
// periodically so late or lossy clients converge.
type Broadcaster struct {
	hub     *Hub
	updates <-chan Update
	logger  *slog.Logger

	mu   sync.Mutex
	last map[string]Update
	seq  int64
}

func NewBroadcaster(h *Hub, updates <-chan Update, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:     h,
		updates: updates,
		logger:  logger,
		last:    make(map[string]Update),
	}
}

// Run forwards updates until ctx is done or the update channel is closed.
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(fullSyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-b.updates:
			if !ok {
				return
			}
			b.mu.Lock()
			b.last[u.Phys] = u
			data := b.encode(u)
			b.mu.Unlock()
			if data != nil {
				b.hub.BroadcastTo(u.Phys, data)
			}
		case <-ticker.C:
			b.mu.Lock()
			msgs := make(map[string][]byte, len(b.last))
			for phys, u := range b.last {
				msgs[phys] = b.encode(u)
			}
			b.mu.Unlock()
			for phys, data := range msgs {
				if data != nil {
					b.hub.BroadcastTo(phys, data)
				}
			}
		}
	}
}

// SendInitialState queues the last known state of the client's pad, if any.
func (b *Broadcaster) SendInitialState(c *Client) {
	b.mu.Lock()
	u, ok := b.last[c.phys]
	var data []byte
	if ok {
		data = b.encode(u)
	}
	b.mu.Unlock()
	if data == nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// encode must be called with b.mu held.
func (b *Broadcaster) encode(u Update) []byte {
	b.seq++
	data, err := json.Marshal(NewPadState(b.seq, u))
	if err != nil {
		b.logger.Error("marshal pad state", "error", err)
		return nil
	}
	return data
}

// NewPadState converts an update into its wire form.
func NewPadState(seq int64, u Update) apitypes.PadState {
	axes := make(map[string]int32, u.Axes)
	for i := 0; i < u.Axes && i < db9.MaxAxes; i++ {
		axes[db9.AxisName(db9.Axes[i])] = u.State.Axes[i]
	}
	buttons := u.State.PressedNames()
	if buttons == nil {
		buttons = []string{}
	}
	return apitypes.PadState{
		Type:      "full",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Phys:      u.Phys,
		Axes:      axes,
		Buttons:   buttons,
	}
}
