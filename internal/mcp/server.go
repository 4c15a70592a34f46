package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/wogix/internal/ipc"
)

const (
	ServerName    = "wogix"
	ServerVersion = "0.1.0"
)

// Daemon is the window manager as seen through its IPC socket.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows(filter string) (*ipc.WindowsData, error)
	KeepOnScreen(windowID uint32, r ipc.Rect) (*ipc.KeepOnScreenData, error)
	Reconcile() (*ipc.ReconcileData, error)
}

// Server is the MCP server exposing window inspection tools.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	logger    *slog.Logger
}

// NewServer creates an MCP server that answers from daemon.
func NewServer(daemon Daemon, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		daemon: daemon,
		logger: logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List the top-level windows managed by the wogix daemon with their class, title, map state and geometry. Optionally restrict the list with a filter in the wogix YAML filter grammar, e.g. 'mapped' or '{and: [mapped, {glob_name: \"*term*\"}]}'.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "match_filter",
		Description: "Check a window filter. Parses the filter, reports its normalised form and the ids of the managed windows it accepts. Filters are YAML: keywords true/all, false/none, is_client, iconified, mapped; mappings name, re_name, glob_name, title, re_title, glob_title, and, or, not.",
	}, s.handleMatchFilter)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "keep_on_screen",
		Description: "Compute where a proposed geometry for a managed window would be placed so that the whole window, border included, stays inside the usable screen area. The window is not moved.",
	}, s.handleKeepOnScreen)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "daemon_status",
		Description: "Report whether the wogix daemon is running, how many windows it manages and the screen and work area it places them in.",
	}, s.handleDaemonStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reconcile_windows",
		Description: "Ask the daemon to drop windows that no longer exist. Returns the ids that were withdrawn.",
	}, s.handleReconcile)
}
