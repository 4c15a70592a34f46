package mcp

import "github.com/1broseidon/wogix/internal/wm"

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	Filter string `json:"filter,omitempty" jsonschema:"Optional window filter in the wogix YAML filter grammar (default: all windows)"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Filter  string        `json:"filter"`
	Count   int           `json:"count"`
	Windows []wm.Snapshot `json:"windows"`
}

// MatchFilterInput is the input for the match_filter tool.
type MatchFilterInput struct {
	Filter string `json:"filter" jsonschema:"required,Window filter in the wogix YAML filter grammar"`
}

// MatchFilterOutput is the output for the match_filter tool.
type MatchFilterOutput struct {
	Filter    string   `json:"filter"`
	WindowIDs []string `json:"window_ids"`
}

// KeepOnScreenInput is the input for the keep_on_screen tool.
type KeepOnScreenInput struct {
	WindowID string `json:"window_id" jsonschema:"required,Window id, decimal or 0x-prefixed hex"`
	X        int    `json:"x" jsonschema:"Proposed x of the top-left corner"`
	Y        int    `json:"y" jsonschema:"Proposed y of the top-left corner"`
	Width    int    `json:"width" jsonschema:"Proposed inner width"`
	Height   int    `json:"height" jsonschema:"Proposed inner height"`
}

// KeepOnScreenOutput is the output for the keep_on_screen tool.
type KeepOnScreenOutput struct {
	WindowID string `json:"window_id"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Changed  bool   `json:"changed"`
}

// DaemonStatusInput is the input for the daemon_status tool.
type DaemonStatusInput struct{}

// DaemonStatusOutput is the output for the daemon_status tool.
type DaemonStatusOutput struct {
	Running       bool   `json:"running"`
	WindowCount   int    `json:"window_count"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Screen        string `json:"screen"`
	WorkArea      string `json:"work_area"`
}

// ReconcileInput is the input for the reconcile_windows tool.
type ReconcileInput struct{}

// ReconcileOutput is the output for the reconcile_windows tool.
type ReconcileOutput struct {
	Withdrawn []string `json:"withdrawn"`
}
