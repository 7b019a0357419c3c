package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/WKDev/Glide/internal/modifiers"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.MoveModifiers() != modifiers.NewSet(modifiers.Alt) {
		t.Fatalf("expected alt move combo, got %v", cfg.MoveModifiers())
	}
	if cfg.ResizeModifiers() != modifiers.NewSet(modifiers.Alt, modifiers.Shift) {
		t.Fatalf("expected alt+shift resize combo, got %v", cfg.ResizeModifiers())
	}
}

func TestLoadFromPath_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SnapThreshold != DefaultSnapThreshold || cfg.MoveModifier != "alt" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFromPath_OverlaysOnDefaults(t *testing.T) {
	path := writeConfig(t, `
move_modifier: win
snap_threshold: 35
filter_mode: whitelist
filter_list:
  - notepad.exe
`)

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MoveModifiers() != modifiers.NewSet(modifiers.Win) {
		t.Fatalf("expected win move combo, got %v", cfg.MoveModifiers())
	}
	if cfg.SnapThreshold != 35 {
		t.Fatalf("expected snap_threshold=35, got %d", cfg.SnapThreshold)
	}
	if cfg.FilterMode != FilterWhitelist {
		t.Fatalf("expected whitelist, got %s", cfg.FilterMode)
	}
	// Omitted keys keep their defaults.
	if cfg.ResizeModifier2 != "shift" {
		t.Fatalf("expected default resize_modifier_2, got %q", cfg.ResizeModifier2)
	}
	if !cfg.SnapEnabled {
		t.Fatalf("expected snap_enabled default true")
	}
}

func TestLoadFromPath_RejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "snap_treshold: 10\n")

	if _, err := LoadFromPath(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestLoadFromPath_ValidationErrorCarriesSource(t *testing.T) {
	path := writeConfig(t, "enabled: true\nsnap_threshold: -5\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Path != "snap_threshold" {
		t.Fatalf("expected path snap_threshold, got %q", verr.Path)
	}
	if verr.Source.File != path || verr.Source.Line != 2 {
		t.Fatalf("expected source %s:2, got %s:%d", path, verr.Source.File, verr.Source.Line)
	}
	if !strings.Contains(err.Error(), "snap_threshold") {
		t.Fatalf("error should mention the path: %v", err)
	}
}

func TestValidate_RejectsIdenticalResizeModifiers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ResizeModifier1 = "alt"
	cfg.ResizeModifier2 = "alt"

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected error for identical resize modifiers")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path != "resize_modifier_2" {
		t.Fatalf("expected resize_modifier_2 validation error, got %v", err)
	}
}

func TestValidate_RejectsUnknownModifier(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MoveModifier = "hyper"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown modifier")
	}
}

func TestValidate_OpacityBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OpacityStep = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for opacity_step=0")
	}

	cfg = DefaultConfig()
	cfg.OpacityFloor = 101
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for opacity_floor=101")
	}
}

func TestAllowsProcess(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FilterList = []string{"Notepad.exe", "game.exe"}

	// Blacklist: listed processes are rejected, case-insensitively.
	if cfg.AllowsProcess("notepad.exe") {
		t.Fatalf("blacklist should reject notepad.exe")
	}
	if !cfg.AllowsProcess("firefox") {
		t.Fatalf("blacklist should allow firefox")
	}

	// Whitelist inverts the decision for the same list.
	cfg.FilterMode = FilterWhitelist
	if !cfg.AllowsProcess("notepad.exe") {
		t.Fatalf("whitelist should allow notepad.exe")
	}
	if cfg.AllowsProcess("firefox") {
		t.Fatalf("whitelist should reject firefox")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.SnapThreshold = 42
	cfg.FilterList = []string{"taskmgr.exe"}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.SnapThreshold != 42 {
		t.Fatalf("expected snap_threshold=42, got %d", loaded.SnapThreshold)
	}
	if len(loaded.FilterList) != 1 || loaded.FilterList[0] != "taskmgr.exe" {
		t.Fatalf("filter_list not preserved: %v", loaded.FilterList)
	}
}

func TestSaveRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.SnapThreshold = -1
	if err := cfg.Save(path); err == nil {
		t.Fatalf("expected save to fail validation")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("invalid config should not be written")
	}
}

func TestStoreReplace(t *testing.T) {
	store := NewStore(DefaultConfig())

	next := DefaultConfig()
	next.SnapThreshold = 99
	store.Replace(next)

	if store.Current().SnapThreshold != 99 {
		t.Fatalf("expected replaced snapshot")
	}
}

func TestClone_IsIndependent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FilterList = []string{"a.exe"}

	clone := cfg.Clone()
	clone.FilterList[0] = "b.exe"
	clone.SnapThreshold = 7

	if cfg.FilterList[0] != "a.exe" || cfg.SnapThreshold == 7 {
		t.Fatalf("clone shares state with original")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
