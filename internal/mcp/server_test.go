package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/WKDev/Glide/internal/config"
	"github.com/WKDev/Glide/internal/ipc"
)

type fakeClient struct {
	cfg       *config.Config
	setCfg    *config.Config
	enabled   *bool
	processes []string
	status    *ipc.StatusData
	reloads   int
	err       error
}

func (f *fakeClient) GetConfig() (*config.Config, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.cfg, nil
}

func (f *fakeClient) SetConfig(cfg *config.Config) error {
	f.setCfg = cfg
	return f.err
}

func (f *fakeClient) SetEnabled(enabled bool) error {
	f.enabled = &enabled
	return f.err
}

func (f *fakeClient) GetProcesses() ([]string, error) {
	return f.processes, f.err
}

func (f *fakeClient) GetStatus() (*ipc.StatusData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.status, nil
}

func (f *fakeClient) Reload() error {
	f.reloads++
	return f.err
}

func newTestServer(client daemonClient) *Server {
	s := NewServer()
	s.client = client
	return s
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestSetConfigMergesOverrides(t *testing.T) {
	fc := &fakeClient{cfg: config.DefaultConfig()}
	s := newTestServer(fc)

	_, out, err := s.handleSetConfig(context.Background(), nil, SetConfigInput{
		MoveModifier:  strPtr("win"),
		SnapThreshold: intPtr(30),
	})
	if err != nil {
		t.Fatalf("set_config failed: %v", err)
	}
	if !out.Applied {
		t.Error("expected applied=true")
	}
	if fc.setCfg == nil {
		t.Fatal("no config sent to the daemon")
	}
	if fc.setCfg.MoveModifier != "win" || fc.setCfg.SnapThreshold != 30 {
		t.Errorf("sent config = %+v", fc.setCfg)
	}
	// Untouched fields keep their current values.
	if fc.setCfg.ResizeModifier1 != "alt" || fc.setCfg.ResizeModifier2 != "shift" {
		t.Errorf("resize combo changed unexpectedly: %q+%q", fc.setCfg.ResizeModifier1, fc.setCfg.ResizeModifier2)
	}
}

func TestSetConfigRejectsInvalid(t *testing.T) {
	fc := &fakeClient{cfg: config.DefaultConfig()}
	s := newTestServer(fc)

	_, _, err := s.handleSetConfig(context.Background(), nil, SetConfigInput{
		MoveModifier: strPtr("hyper"),
	})
	if err == nil {
		t.Fatal("unknown modifier should be rejected")
	}
	if fc.setCfg != nil {
		t.Error("invalid config must not reach the daemon")
	}
}

func TestSetEnabledForwards(t *testing.T) {
	fc := &fakeClient{}
	s := newTestServer(fc)

	_, out, err := s.handleSetEnabled(context.Background(), nil, SetEnabledInput{Enabled: true})
	if err != nil {
		t.Fatalf("set_enabled failed: %v", err)
	}
	if !out.Enabled || fc.enabled == nil || !*fc.enabled {
		t.Error("enable did not reach the daemon")
	}
}

func TestGetStatusMapsFields(t *testing.T) {
	fc := &fakeClient{status: &ipc.StatusData{
		DaemonRunning: true,
		Enabled:       true,
		GestureActive: true,
		Platform:      "linux/x11",
		UptimeSeconds: 12,
	}}
	s := newTestServer(fc)

	_, out, err := s.handleGetStatus(context.Background(), nil, GetStatusInput{})
	if err != nil {
		t.Fatalf("get_status failed: %v", err)
	}
	if !out.DaemonRunning || !out.Enabled || !out.GestureActive {
		t.Errorf("status = %+v", out)
	}
	if out.Platform != "linux/x11" || out.UptimeSeconds != 12 {
		t.Errorf("status = %+v", out)
	}
}

func TestListProcesses(t *testing.T) {
	fc := &fakeClient{processes: []string{"bash", "firefox"}}
	s := newTestServer(fc)

	_, out, err := s.handleListProcesses(context.Background(), nil, ListProcessesInput{})
	if err != nil {
		t.Fatalf("list_processes failed: %v", err)
	}
	if len(out.Processes) != 2 {
		t.Errorf("processes = %v", out.Processes)
	}
}

func TestToolErrorsPropagate(t *testing.T) {
	fc := &fakeClient{err: errors.New("daemon not running")}
	s := newTestServer(fc)

	if _, _, err := s.handleGetConfig(context.Background(), nil, GetConfigInput{}); err == nil {
		t.Error("get_config should surface client errors")
	}
	if _, _, err := s.handleReload(context.Background(), nil, ReloadInput{}); err == nil {
		t.Error("reload_config should surface client errors")
	}
}
