package apiclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Config controls low-level transport behavior such as timeouts.
type Config struct {
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

func defaultConfig() Config {
	return Config{
		DialTimeout: 3 * time.Second,
		ReadTimeout: 5 * time.Second,
	}
}

// Transport talks to a pijoy monitor. Requests are plain GETs whose body is
// returned verbatim, problem+json error bodies included; streams are websockets.
type Transport struct {
	addr   string
	mock   func(path string) (string, error)
	cfg    Config
	client *http.Client
	dialer *websocket.Dialer
}

// NewTransport creates a new low-level transport.
func NewTransport(addr string) *Transport { return NewTransportWithConfig(addr, nil) }

// NewTransportWithConfig creates a new low-level transport with optional timeouts configuration.
func NewTransportWithConfig(addr string, cfg *Config) *Transport {
	c := defaultConfig()
	if cfg != nil {
		c = *cfg
	}
	return &Transport{
		addr:   addr,
		cfg:    c,
		client: &http.Client{Timeout: c.DialTimeout + c.ReadTimeout},
		dialer: &websocket.Dialer{HandshakeTimeout: c.DialTimeout},
	}
}

// NewMockTransport creates a transport that returns canned responses without real networking.
func NewMockTransport(responder func(path string) (string, error)) *Transport {
	return &Transport{addr: "mock", mock: responder, cfg: defaultConfig()}
}

// DoCtx fetches path and returns the response body without its trailing newline.
func (t *Transport) DoCtx(ctx context.Context, path string) (string, error) {
	if t.mock != nil {
		return t.mock(path)
	}
	u := url.URL{Scheme: "http", Host: t.addr, Path: "/" + strings.TrimPrefix(path, "/")}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read: %w", err)
	}
	return strings.TrimSuffix(string(body), "\n"), nil
}

// StreamCtx opens a websocket on path. On a refused handshake the response body
// is returned as the error text so callers can parse it as a problem.
func (t *Transport) StreamCtx(ctx context.Context, path string, query url.Values) (*websocket.Conn, error) {
	if t.mock != nil {
		return nil, errors.New("mock transport cannot stream")
	}
	u := url.URL{Scheme: "ws", Host: t.addr, Path: "/" + strings.TrimPrefix(path, "/"), RawQuery: query.Encode()}
	conn, resp, err := t.dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil && resp.Body != nil {
			defer resp.Body.Close()
			if body, rerr := io.ReadAll(resp.Body); rerr == nil && len(body) > 0 {
				return nil, &handshakeError{body: strings.TrimSpace(string(body)), err: err}
			}
		}
		return nil, fmt.Errorf("dial %s: %w", path, err)
	}
	return conn, nil
}

type handshakeError struct {
	body string
	err  error
}

func (e *handshakeError) Error() string { return e.body }
func (e *handshakeError) Unwrap() error { return e.err }
