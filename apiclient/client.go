// Package apiclient is a Go client for the pijoy monitor API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	apitypes "github.com/Alia5/pijoy/apitypes"
)

// Client provides a high-level interface to the monitor API, handling request
// formatting, response parsing, and error handling.
type Client struct{ transport *Transport }

// New constructs a high-level API client for the monitor at addr (host:port).
func New(addr string) *Client { return &Client{transport: NewTransport(addr)} }

// NewWithConfig constructs a client with custom transport timeouts.
func NewWithConfig(addr string, cfg *Config) *Client {
	return &Client{transport: NewTransportWithConfig(addr, cfg)}
}

// WithTransport constructs a Client using a custom Transport implementation.
func WithTransport(t *Transport) *Client { return &Client{transport: t} }

// Status returns open counts and port ownership of every configured pad.
func (c *Client) Status() (*apitypes.StatusResponse, error) {
	return c.StatusCtx(context.Background())
}

func (c *Client) StatusCtx(ctx context.Context) (*apitypes.StatusResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "status")
	if err != nil {
		return nil, err
	}
	return parse[apitypes.StatusResponse](raw)
}

// Modes lists the controller types the driver supports.
func (c *Client) Modes() (*apitypes.ModesResponse, error) {
	return c.ModesCtx(context.Background())
}

func (c *Client) ModesCtx(ctx context.Context) (*apitypes.ModesResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "modes")
	if err != nil {
		return nil, err
	}
	return parse[apitypes.ModesResponse](raw)
}

// Watch streams the state of the pad in slot to fn until ctx is done, fn returns
// an error, or the server goes away. The pad is polled while Watch runs.
// Cancellation returns nil.
func (c *Client) Watch(ctx context.Context, slot int, fn func(apitypes.PadState) error) error {
	conn, err := c.transport.StreamCtx(ctx, "ws", url.Values{"pad": {strconv.Itoa(slot)}})
	if err != nil {
		var he *handshakeError
		if errors.As(err, &he) {
			if _, perr := parse[struct{}](he.body); perr != nil {
				return perr
			}
		}
		return err
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	for {
		var st apitypes.PadState
		if err := conn.ReadJSON(&st); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		if err := fn(st); err != nil {
			return err
		}
	}
}

func parse[T any](data string) (*T, error) {
	if data == "" {
		return nil, errors.New("empty response")
	}
	var problem apitypes.ApiError
	if err := json.Unmarshal([]byte(data), &problem); err == nil && (problem.Status != 0 || problem.Title != "") {
		return nil, &problem
	}
	var out T
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &out, nil
}
