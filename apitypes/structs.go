package apitypes

import (
	"fmt"
)

// ApiError represents an RFC 7807 (problem+json) error response.
type ApiError struct {
	// Status is the HTTP-style status code (e.g., 400, 404, 500)
	Status int `json:"status"`
	// Title is a short, human-readable summary of the problem type
	Title string `json:"title"`
	// Detail is a human-readable explanation specific to this occurrence
	Detail string `json:"detail"`
}

func (e ApiError) Error() string {
	if e.Status == 0 && e.Title == "" {
		return "unknown error"
	}
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
}

// --

// PadState is one frame of a pad as streamed over the monitor websocket.
type PadState struct {
	Type      string           `json:"type"` // "full"
	Seq       int64            `json:"seq"`
	Timestamp int64            `json:"timestamp"` // unix milliseconds
	Phys      string           `json:"phys"`
	Axes      map[string]int32 `json:"axes"`
	Buttons   []string         `json:"buttons"`
}

type ModeInfo struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Buttons       []string `json:"buttons"`
	Pads          int      `json:"pads"`
	Axes          int      `json:"axes"`
	Bidirectional bool     `json:"bidirectional"`
	ReverseActive bool     `json:"reverseActive"`
}

type ModesResponse struct {
	Modes []ModeInfo `json:"modes"`
}

type DeviceStatus struct {
	Slot     int    `json:"slot"`
	Port     int    `json:"port"`
	Mode     int    `json:"mode"`
	Name     string `json:"name"`
	Phys     string `json:"phys"`
	Opens    int    `json:"opens"`
	Acquired bool   `json:"acquired"`
}

type StatusResponse struct {
	Open    int            `json:"open"`
	Polling bool           `json:"polling"`
	Devices []DeviceStatus `json:"devices"`
}
