package apiclient_test

import (
	"context"
	"errors"
	"testing"

	apiclient "github.com/Alia5/pijoy/apiclient"
	apitypes "github.com/Alia5/pijoy/apitypes"

	"github.com/stretchr/testify/assert"
)

// testClient constructs a client backed by a simple in-memory responder.
// If err is non-nil, every request returns that error, simulating dial failures.
func testClient(responses map[string]string, err error) *apiclient.Client {
	return apiclient.WithTransport(apiclient.NewMockTransport(func(path string) (string, error) {
		if err != nil {
			return "", err
		}
		return responses[path], nil
	}))
}

func TestHighLevelClient(t *testing.T) {
	tests := []struct {
		name       string
		responses  map[string]string
		err        error
		call       func(c *apiclient.Client) (any, error)
		wantErr    string
		assertFunc func(t *testing.T, got any)
	}{
		{
			name:      "status",
			responses: map[string]string{"status": `{"open":1,"polling":true,"devices":[{"slot":0,"port":1,"mode":6,"name":"Genesis 6 pad","phys":"pijoy/input1","opens":1,"acquired":true}]}`},
			call:      func(c *apiclient.Client) (any, error) { return c.Status() },
			assertFunc: func(t *testing.T, got any) {
				st := got.(*apitypes.StatusResponse)
				assert.True(t, st.Polling)
				if assert.Len(t, st.Devices, 1) {
					assert.Equal(t, "pijoy/input1", st.Devices[0].Phys)
					assert.Equal(t, 1, st.Devices[0].Opens)
				}
			},
		},
		{
			name:      "modes",
			responses: map[string]string{"modes": `{"modes":[{"id":1,"name":"Multisystem joystick","buttons":["trigger"],"pads":1,"axes":2}]}`},
			call:      func(c *apiclient.Client) (any, error) { return c.Modes() },
			assertFunc: func(t *testing.T, got any) {
				m := got.(*apitypes.ModesResponse)
				assert.Equal(t, []string{"trigger"}, m.Modes[0].Buttons)
			},
		},
		{
			name:      "structured error",
			responses: map[string]string{"status": `{"status":503,"title":"Service Unavailable","detail":"interrupted"}`},
			call:      func(c *apiclient.Client) (any, error) { return c.Status() },
			wantErr:   "503 Service Unavailable: interrupted",
		},
		{
			name:    "transport failure",
			err:     errors.New("dial fail"),
			call:    func(c *apiclient.Client) (any, error) { return c.Modes() },
			wantErr: "dial fail",
		},
		{
			name:    "blank response error",
			call:    func(c *apiclient.Client) (any, error) { return c.Status() },
			wantErr: "empty response",
		},
		{
			name:      "malformed body",
			responses: map[string]string{"modes": `{"modes":`},
			call:      func(c *apiclient.Client) (any, error) { return c.Modes() },
			wantErr:   "decode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(tt.responses, tt.err)
			got, err := tt.call(c)
			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			assert.NoError(t, err)
			if tt.assertFunc != nil {
				tt.assertFunc(t, got)
			}
		})
	}
}

func TestStructuredErrorType(t *testing.T) {
	c := testClient(map[string]string{"status": `{"status":409,"title":"Conflict","detail":"busy"}`}, nil)
	_, err := c.Status()
	var apiErr *apitypes.ApiError
	if assert.ErrorAs(t, err, &apiErr) {
		assert.Equal(t, 409, apiErr.Status)
	}
}

func TestContextCancellation(t *testing.T) {
	c := apiclient.New("127.0.0.1:9")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.StatusCtx(ctx)
	assert.Error(t, err)
	assert.Error(t, c.Watch(ctx, 0, func(apitypes.PadState) error { return nil }))
}

func TestMockCannotStream(t *testing.T) {
	c := testClient(nil, nil)
	assert.Error(t, c.Watch(context.Background(), 0, func(apitypes.PadState) error { return nil }))
}
