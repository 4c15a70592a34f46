package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/wogix/internal/cfilter"
	"github.com/1broseidon/wogix/internal/ipc"
)

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	if strings.TrimSpace(args.Filter) != "" {
		if _, err := cfilter.Parse(args.Filter); err != nil {
			return nil, ListWindowsOutput{}, err
		}
	}

	data, err := s.daemon.ListWindows(args.Filter)
	if err != nil {
		return nil, ListWindowsOutput{}, fmt.Errorf("list_windows: %w", err)
	}
	s.logger.Debug("list_windows", "filter", data.Filter, "count", len(data.Windows))

	return nil, ListWindowsOutput{
		Filter:  data.Filter,
		Count:   len(data.Windows),
		Windows: data.Windows,
	}, nil
}

func (s *Server) handleMatchFilter(_ context.Context, _ *mcpsdk.CallToolRequest, args MatchFilterInput) (*mcpsdk.CallToolResult, MatchFilterOutput, error) {
	if strings.TrimSpace(args.Filter) == "" {
		return nil, MatchFilterOutput{}, fmt.Errorf("filter is required")
	}
	f, err := cfilter.Parse(args.Filter)
	if err != nil {
		return nil, MatchFilterOutput{}, err
	}

	data, err := s.daemon.ListWindows(args.Filter)
	if err != nil {
		return nil, MatchFilterOutput{}, fmt.Errorf("match_filter: %w", err)
	}

	out := MatchFilterOutput{
		Filter:    f.String(),
		WindowIDs: make([]string, 0, len(data.Windows)),
	}
	for _, w := range data.Windows {
		out.WindowIDs = append(out.WindowIDs, formatWindowID(w.ID))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: fmt.Sprintf("%s matches %d window(s)", out.Filter, len(out.WindowIDs))},
		},
	}, out, nil
}

func (s *Server) handleKeepOnScreen(_ context.Context, _ *mcpsdk.CallToolRequest, args KeepOnScreenInput) (*mcpsdk.CallToolResult, KeepOnScreenOutput, error) {
	id, err := parseWindowID(args.WindowID)
	if err != nil {
		return nil, KeepOnScreenOutput{}, err
	}

	in := ipc.Rect{X: args.X, Y: args.Y, Width: args.Width, Height: args.Height}
	data, err := s.daemon.KeepOnScreen(id, in)
	if err != nil {
		return nil, KeepOnScreenOutput{}, fmt.Errorf("keep_on_screen: %w", err)
	}

	return nil, KeepOnScreenOutput{
		WindowID: formatWindowID(data.WindowID),
		X:        data.X,
		Y:        data.Y,
		Width:    data.Width,
		Height:   data.Height,
		Changed:  data.Rect != in,
	}, nil
}

func (s *Server) handleDaemonStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ DaemonStatusInput) (*mcpsdk.CallToolResult, DaemonStatusOutput, error) {
	status, err := s.daemon.GetStatus()
	if err != nil {
		// A stopped daemon is a status, not a failure.
		s.logger.Debug("daemon_status", "error", err)
		return nil, DaemonStatusOutput{Running: false}, nil
	}
	return nil, DaemonStatusOutput{
		Running:       status.DaemonRunning,
		WindowCount:   status.WindowCount,
		UptimeSeconds: status.UptimeSeconds,
		Screen:        formatRect(status.Screen),
		WorkArea:      formatRect(status.WorkArea),
	}, nil
}

func (s *Server) handleReconcile(_ context.Context, _ *mcpsdk.CallToolRequest, _ ReconcileInput) (*mcpsdk.CallToolResult, ReconcileOutput, error) {
	data, err := s.daemon.Reconcile()
	if err != nil {
		return nil, ReconcileOutput{}, fmt.Errorf("reconcile_windows: %w", err)
	}
	out := ReconcileOutput{Withdrawn: make([]string, 0, len(data.Withdrawn))}
	for _, id := range data.Withdrawn {
		out.Withdrawn = append(out.Withdrawn, formatWindowID(id))
	}
	return nil, out, nil
}

func parseWindowID(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("window_id is required")
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window_id %q: %w", s, err)
	}
	if v == 0 {
		return 0, fmt.Errorf("invalid window_id %q", s)
	}
	return uint32(v), nil
}

func formatWindowID(id uint32) string {
	return fmt.Sprintf("0x%x", id)
}

func formatRect(r ipc.Rect) string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}
