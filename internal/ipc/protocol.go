package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/wogix/internal/wm"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload       CommandType = "RELOAD"
	CommandGetStatus    CommandType = "GET_STATUS"
	CommandListWindows  CommandType = "LIST_WINDOWS"
	CommandKeepOnScreen CommandType = "KEEP_ON_SCREEN"
	CommandReconcile    CommandType = "RECONCILE"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Rect is a screen rectangle on the wire.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	WindowCount   int   `json:"window_count"`
	UptimeSeconds int64 `json:"uptime_seconds"`
	DaemonRunning bool  `json:"daemon_running"`
	Screen        Rect  `json:"screen"`
	WorkArea      Rect  `json:"work_area"`
}

// ListWindowsPayload selects windows with a filter in the YAML filter
// grammar. An empty filter selects every window.
type ListWindowsPayload struct {
	Filter string `json:"filter,omitempty"`
}

// WindowsData represents the data returned by LIST_WINDOWS
type WindowsData struct {
	// Filter is the normalised form of the requested filter.
	Filter  string        `json:"filter"`
	Windows []wm.Snapshot `json:"windows"`
}

type KeepOnScreenPayload struct {
	WindowID uint32 `json:"window_id"`
	Rect
}

type KeepOnScreenData struct {
	WindowID uint32 `json:"window_id"`
	Rect
}

// ReconcileData lists the windows withdrawn by RECONCILE.
type ReconcileData struct {
	Withdrawn []uint32 `json:"withdrawn"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
