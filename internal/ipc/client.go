package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/WKDev/Glide/internal/config"
	"github.com/WKDev/Glide/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	// Connect to socket
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	// Set deadline
	conn.SetDeadline(time.Now().Add(c.timeout))

	// Marshal request
	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Send request
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	// Read response
	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Parse response
	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// Check for error response
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// GetConfig retrieves the daemon's effective configuration
func (c *Client) GetConfig() (*config.Config, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetConfig})
	if err != nil {
		return nil, err
	}

	var cfg config.Config
	if err := json.Unmarshal(resp.Data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config data: %w", err)
	}
	return &cfg, nil
}

// SetConfig sends a full replacement configuration to the daemon
func (c *Client) SetConfig(cfg *config.Config) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config payload: %w", err)
	}

	_, err = c.sendRequest(&Request{
		Command: CommandSetConfig,
		Payload: payload,
	})
	return err
}

// SetEnabled toggles the input hook at runtime
func (c *Client) SetEnabled(enabled bool) error {
	payload, err := json.Marshal(SetEnabledPayload{Enabled: enabled})
	if err != nil {
		return fmt.Errorf("failed to marshal enabled payload: %w", err)
	}

	_, err = c.sendRequest(&Request{
		Command: CommandSetEnabled,
		Payload: payload,
	})
	return err
}

// GetProcesses retrieves the executable names owning visible windows
func (c *Client) GetProcesses() ([]string, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetProcesses})
	if err != nil {
		return nil, err
	}

	var data ProcessesData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse processes data: %w", err)
	}
	return data.Processes, nil
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	_, err := c.sendRequest(&Request{Command: CommandReload})
	return err
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
