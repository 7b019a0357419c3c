package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"

	"github.com/WKDev/Glide/internal/config"
	"github.com/WKDev/Glide/internal/runtimepath"
)

// Controller is the daemon surface the IPC server drives. The daemon
// implements it over the gesture engine and the config store.
type Controller interface {
	// Config returns the current effective configuration.
	Config() *config.Config
	// ApplyConfig validates, persists and applies a full replacement
	// configuration.
	ApplyConfig(cfg *config.Config) error
	// SetEnabled flips the input hook at runtime without persisting.
	SetEnabled(enabled bool) error
	// Reload re-reads the config file and applies the result.
	Reload() error
	// Status reports the daemon's current state.
	Status() StatusData
	// Processes lists the executable names owning visible windows.
	Processes() ([]string, error)
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	ctrl         Controller
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(ctrl Controller) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		ctrl:       ctrl,
	}, nil
}

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

	log.Printf("IPC server listening on %s", s.socketPath)

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
			log.Printf("IPC accept error: %v", err)
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
		log.Printf("IPC read error: %v", err)
		return
	}

	// Parse request
	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Handle command
	resp := s.handleCommand(req)

	// Send response
	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetConfig:
		return s.handleGetConfig()
	case CommandSetConfig:
		return s.handleSetConfig(req.Payload)
	case CommandSetEnabled:
		return s.handleSetEnabled(req.Payload)
	case CommandGetProcesses:
		return s.handleGetProcesses()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandReload:
		return s.handleReload()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetConfig() *Response {
	resp, err := NewOKResponse(s.ctrl.Config())
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// handleSetConfig applies a full config replacement. The payload is
// overlaid on a snapshot of the current config, so a client may send
// only the keys it changes.
func (s *Server) handleSetConfig(payload json.RawMessage) *Response {
	if len(payload) == 0 {
		return NewErrorResponse("SET_CONFIG requires a payload")
	}

	cfg := s.ctrl.Config().Clone()
	if err := json.Unmarshal(payload, cfg); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid config payload: %v", err))
	}
	if err := cfg.Validate(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid config: %v", err))
	}
	if err := s.ctrl.ApplyConfig(cfg); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to apply config: %v", err))
	}

	log.Println("IPC: config updated")
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleSetEnabled(payload json.RawMessage) *Response {
	var req SetEnabledPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid enabled payload: %v", err))
	}

	if err := s.ctrl.SetEnabled(req.Enabled); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to set enabled: %v", err))
	}

	log.Printf("IPC: enabled set to %v", req.Enabled)
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleGetProcesses() *Response {
	processes, err := s.ctrl.Processes()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to list processes: %v", err))
	}

	resp, err := NewOKResponse(ProcessesData{Processes: processes})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleGetStatus() *Response {
	resp, err := NewOKResponse(s.ctrl.Status())
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// handleReload reloads the configuration from disk
func (s *Server) handleReload() *Response {
	log.Println("IPC: Received RELOAD command")

	if err := s.ctrl.Reload(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}

	log.Println("IPC: Config reloaded successfully")
	resp, _ := NewOKResponse(nil)
	return resp
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
