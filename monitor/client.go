package monitor

import (
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// Client is one websocket connection watching one pad.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	phys string
}

func NewClient(hub *Hub, conn *websocket.Conn, phys string) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 64),
		phys: phys,
	}
}

// WritePump sends queued messages until the queue is closed or a write fails.
func (c *Client) WritePump() {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

// ReadPump discards client messages and returns once the connection is gone.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
