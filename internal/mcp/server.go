// Package mcp exposes the running daemon to MCP clients. Tools proxy
// to the daemon over the IPC socket, so the MCP process itself holds
// no window-system state.
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/WKDev/Glide/internal/config"
	"github.com/WKDev/Glide/internal/ipc"
)

const (
	ServerName    = "glide"
	ServerVersion = "0.1.0"
)

// daemonClient is the slice of the IPC client the tools use.
type daemonClient interface {
	GetConfig() (*config.Config, error)
	SetConfig(cfg *config.Config) error
	SetEnabled(enabled bool) error
	GetProcesses() ([]string, error)
	GetStatus() (*ipc.StatusData, error)
	Reload() error
}

// Server is the MCP server proxying to the gesture daemon.
type Server struct {
	mcpServer *mcpsdk.Server
	client    daemonClient
}

// NewServer creates an MCP server backed by the daemon's IPC socket.
func NewServer() *Server {
	s := &Server{client: ipc.NewClient()}

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
		Name:        "get_config",
		Description: "Read the daemon's effective configuration: gesture modifiers, the process filter, snapping, opacity and behavior toggles.",
	}, s.handleGetConfig)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_config",
		Description: "Update configuration settings. Only the fields provided change; the result is validated, applied immediately and persisted to the config file.",
	}, s.handleSetConfig)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_enabled",
		Description: "Turn window gestures on or off at runtime without persisting. The daemon keeps running either way.",
	}, s.handleSetEnabled)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_processes",
		Description: "List the executable names owning currently visible windows, for building the process filter list.",
	}, s.handleListProcesses)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report daemon status: whether gestures are enabled, whether a drag is in flight, the platform and uptime.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reload_config",
		Description: "Re-read the config file from disk and apply the result.",
	}, s.handleReload)
}

func (s *Server) handleGetConfig(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetConfigInput) (*mcpsdk.CallToolResult, *config.Config, error) {
	cfg, err := s.client.GetConfig()
	if err != nil {
		return nil, nil, err
	}
	return nil, cfg, nil
}

func (s *Server) handleSetConfig(_ context.Context, _ *mcpsdk.CallToolRequest, args SetConfigInput) (*mcpsdk.CallToolResult, SetConfigOutput, error) {
	cfg, err := s.client.GetConfig()
	if err != nil {
		return nil, SetConfigOutput{}, err
	}

	applyOverrides(cfg, args)
	if err := cfg.Validate(); err != nil {
		return nil, SetConfigOutput{}, fmt.Errorf("invalid config: %w", err)
	}
	if err := s.client.SetConfig(cfg); err != nil {
		return nil, SetConfigOutput{}, err
	}
	return nil, SetConfigOutput{Applied: true}, nil
}

func (s *Server) handleSetEnabled(_ context.Context, _ *mcpsdk.CallToolRequest, args SetEnabledInput) (*mcpsdk.CallToolResult, SetEnabledOutput, error) {
	if err := s.client.SetEnabled(args.Enabled); err != nil {
		return nil, SetEnabledOutput{}, err
	}
	return nil, SetEnabledOutput{Enabled: args.Enabled}, nil
}

func (s *Server) handleListProcesses(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListProcessesInput) (*mcpsdk.CallToolResult, ListProcessesOutput, error) {
	processes, err := s.client.GetProcesses()
	if err != nil {
		return nil, ListProcessesOutput{}, err
	}
	return nil, ListProcessesOutput{Processes: processes}, nil
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}
	return nil, GetStatusOutput{
		DaemonRunning: status.DaemonRunning,
		Enabled:       status.Enabled,
		GestureActive: status.GestureActive,
		Platform:      status.Platform,
		UptimeSeconds: status.UptimeSeconds,
	}, nil
}

func (s *Server) handleReload(_ context.Context, _ *mcpsdk.CallToolRequest, _ ReloadInput) (*mcpsdk.CallToolResult, ReloadOutput, error) {
	if err := s.client.Reload(); err != nil {
		return nil, ReloadOutput{}, err
	}
	return nil, ReloadOutput{Reloaded: true}, nil
}

// applyOverrides merges the non-nil tool arguments onto a config
// snapshot.
func applyOverrides(cfg *config.Config, args SetConfigInput) {
	if args.Enabled != nil {
		cfg.Enabled = *args.Enabled
	}
	if args.MoveModifier != nil {
		cfg.MoveModifier = *args.MoveModifier
	}
	if args.ResizeModifier1 != nil {
		cfg.ResizeModifier1 = *args.ResizeModifier1
	}
	if args.ResizeModifier2 != nil {
		cfg.ResizeModifier2 = *args.ResizeModifier2
	}
	if args.FilterMode != nil {
		cfg.FilterMode = config.FilterMode(*args.FilterMode)
	}
	if args.FilterList != nil {
		cfg.FilterList = append([]string(nil), (*args.FilterList)...)
	}
	if args.Autostart != nil {
		cfg.Autostart = *args.Autostart
	}
	if args.AllowNonForeground != nil {
		cfg.AllowNonForeground = *args.AllowNonForeground
	}
	if args.RaiseOnGrab != nil {
		cfg.RaiseOnGrab = *args.RaiseOnGrab
	}
	if args.RestoreMaximized != nil {
		cfg.RestoreMaximized = *args.RestoreMaximized
	}
	if args.SnapEnabled != nil {
		cfg.SnapEnabled = *args.SnapEnabled
	}
	if args.SnapThreshold != nil {
		cfg.SnapThreshold = *args.SnapThreshold
	}
	if args.ScrollOpacity != nil {
		cfg.ScrollOpacity = *args.ScrollOpacity
	}
	if args.OpacityStep != nil {
		cfg.OpacityStep = *args.OpacityStep
	}
	if args.OpacityFloor != nil {
		cfg.OpacityFloor = *args.OpacityFloor
	}
	if args.MiddleClickTopmost != nil {
		cfg.MiddleClickTopmost = *args.MiddleClickTopmost
	}
}
