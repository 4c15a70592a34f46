package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/wogix/internal/cfilter"
	"github.com/1broseidon/wogix/internal/config"
	"github.com/1broseidon/wogix/internal/platform"
	"github.com/1broseidon/wogix/internal/runtimepath"
	"github.com/1broseidon/wogix/internal/wm"
)

// WindowService is the part of the window manager served over IPC.
type WindowService interface {
	Len() int
	ScreenArea() (full, work platform.Rect)
	Snapshots(f cfilter.Filter) []wm.Snapshot
	KeepOnScreen(id platform.WindowID, r platform.Rect) (platform.Rect, error)
	Reconcile() []platform.WindowID
}

// ConfigLoader reads the configuration for RELOAD.
type ConfigLoader func() (*config.Config, error)

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	cfg          *config.Config
	cfgMu        sync.RWMutex
	loadConfig   ConfigLoader
	windows      WindowService
	logger       *slog.Logger
	startTime    time.Time
	reloadChan   chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a server on the default socket path.
func NewServer(cfg *config.Config, windows WindowService, reloadChan chan struct{}, logger *slog.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath, cfg, windows, reloadChan, logger), nil
}

// NewServerAt creates a server listening on socketPath.
func NewServerAt(socketPath string, cfg *config.Config, windows WindowService, reloadChan chan struct{}, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		cfg:        cfg,
		loadConfig: config.Load,
		windows:    windows,
		logger:     logger,
		startTime:  time.Now(),
		reloadChan: reloadChan,
	}
}

// SetConfigLoader replaces the loader used by RELOAD.
func (s *Server) SetConfigLoader(load ConfigLoader) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	s.loadConfig = load
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	// Accept connections
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Warn("IPC accept error", "error", err)
			if errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal IPC response", "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send IPC response", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandListWindows:
		return s.handleListWindows(req.Payload)
	case CommandKeepOnScreen:
		return s.handleKeepOnScreen(req.Payload)
	case CommandReconcile:
		return s.handleReconcile()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// handleReload reloads the configuration
func (s *Server) handleReload() *Response {
	s.logger.Info("IPC: reload requested")

	s.cfgMu.RLock()
	load := s.loadConfig
	s.cfgMu.RUnlock()

	newCfg, err := load()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}

	s.cfgMu.Lock()
	s.cfg = newCfg
	s.cfgMu.Unlock()

	// Notify the main daemon via channel (non-blocking)
	select {
	case s.reloadChan <- struct{}{}:
	default:
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

// handleGetStatus returns current daemon status
func (s *Server) handleGetStatus() *Response {
	full, work := s.windows.ScreenArea()
	status := StatusData{
		WindowCount:   s.windows.Len(),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
		Screen:        rectToWire(full),
		WorkArea:      rectToWire(work),
	}

	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleListWindows(payload json.RawMessage) *Response {
	var req ListWindowsPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid list payload: %v", err))
		}
	}

	filter := cfilter.All
	if req.Filter != "" {
		f, err := cfilter.Parse(req.Filter)
		if err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid filter: %v", err))
		}
		filter = f
	}

	resp, err := NewOKResponse(WindowsData{
		Filter:  filter.String(),
		Windows: s.windows.Snapshots(filter),
	})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleKeepOnScreen(payload json.RawMessage) *Response {
	var req KeepOnScreenPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid keep_on_screen payload: %v", err))
	}
	if req.WindowID == 0 {
		return NewErrorResponse("window_id is required")
	}

	r, err := s.windows.KeepOnScreen(platform.WindowID(req.WindowID), platform.Rect{
		X:      req.X,
		Y:      req.Y,
		Width:  req.Width,
		Height: req.Height,
	})
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to clamp window 0x%x: %v", req.WindowID, err))
	}

	resp, _ := NewOKResponse(KeepOnScreenData{WindowID: req.WindowID, Rect: rectToWire(r)})
	return resp
}

func (s *Server) handleReconcile() *Response {
	gone := s.windows.Reconcile()
	data := ReconcileData{Withdrawn: make([]uint32, 0, len(gone))}
	for _, id := range gone {
		data.Withdrawn = append(data.Withdrawn, uint32(id))
	}
	resp, _ := NewOKResponse(data)
	return resp
}

func rectToWire(r platform.Rect) Rect {
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

// GetConfig returns the current config (thread-safe)
func (s *Server) GetConfig() *config.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// UpdateConfig updates the config (thread-safe)
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	s.cfg = cfg
}
