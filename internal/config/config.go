package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/WKDev/Glide/internal/modifiers"
)

// FilterMode selects how the process filter list is interpreted.
type FilterMode string

const (
	// FilterBlacklist rejects gestures on windows whose process is listed.
	FilterBlacklist FilterMode = "blacklist"
	// FilterWhitelist rejects gestures on windows whose process is not listed.
	FilterWhitelist FilterMode = "whitelist"
)

const (
	DefaultSnapThreshold = 20
	DefaultOpacityStep   = 5
	DefaultOpacityFloor  = 20
)

// Config is the complete daemon configuration. Live code never mutates
// a Config in place; updates build a new value and publish it through a
// Store.
type Config struct {
	// Enabled controls whether the input hook is installed.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// MoveModifier is the key held to start a move drag.
	MoveModifier string `yaml:"move_modifier" json:"move_modifier"`
	// ResizeModifier1/2 are the keys held together to start a resize.
	ResizeModifier1 string `yaml:"resize_modifier_1" json:"resize_modifier_1"`
	ResizeModifier2 string `yaml:"resize_modifier_2" json:"resize_modifier_2"`

	// FilterMode and FilterList exclude (or exclusively allow) windows
	// by owning executable name, compared case-insensitively.
	FilterMode FilterMode `yaml:"filter_mode" json:"filter_mode"`
	FilterList []string   `yaml:"filter_list" json:"filter_list"`

	// Autostart is persisted for the settings surface; the daemon
	// itself ignores it.
	Autostart bool `yaml:"autostart" json:"autostart"`

	// AllowNonForeground permits gestures on windows that do not have
	// input focus.
	AllowNonForeground bool `yaml:"allow_nonforeground" json:"allow_nonforeground"`
	// RaiseOnGrab raises the window when a gesture starts.
	RaiseOnGrab bool `yaml:"raise_on_grab" json:"raise_on_grab"`
	// RestoreMaximized lets a move gesture restore a maximized window
	// and carry it under the cursor. When false such gestures are
	// rejected.
	RestoreMaximized bool `yaml:"restore_maximized" json:"restore_maximized"`

	SnapEnabled   bool `yaml:"snap_enabled" json:"snap_enabled"`
	SnapThreshold int  `yaml:"snap_threshold" json:"snap_threshold"`

	// ScrollOpacity enables wheel-based opacity adjustment during the
	// move gesture.
	ScrollOpacity bool `yaml:"scroll_opacity" json:"scroll_opacity"`
	// OpacityStep/OpacityFloor are percentages.
	OpacityStep  int `yaml:"opacity_step" json:"opacity_step"`
	OpacityFloor int `yaml:"opacity_floor" json:"opacity_floor"`

	// MiddleClickTopmost toggles always-on-top with modifier+middle click.
	MiddleClickTopmost bool `yaml:"middleclick_topmost" json:"middleclick_topmost"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:            true,
		MoveModifier:       "alt",
		ResizeModifier1:    "alt",
		ResizeModifier2:    "shift",
		FilterMode:         FilterBlacklist,
		FilterList:         []string{},
		Autostart:          false,
		AllowNonForeground: true,
		RaiseOnGrab:        false,
		RestoreMaximized:   true,
		SnapEnabled:        true,
		SnapThreshold:      DefaultSnapThreshold,
		ScrollOpacity:      true,
		OpacityStep:        DefaultOpacityStep,
		OpacityFloor:       DefaultOpacityFloor,
		MiddleClickTopmost: true,
	}
}

// MoveModifiers returns the parsed move combo. Call only on a
// validated config.
func (c *Config) MoveModifiers() modifiers.Set {
	k, _ := modifiers.ParseKey(c.MoveModifier)
	return modifiers.NewSet(k)
}

// ResizeModifiers returns the parsed resize combo. Call only on a
// validated config.
func (c *Config) ResizeModifiers() modifiers.Set {
	k1, _ := modifiers.ParseKey(c.ResizeModifier1)
	k2, _ := modifiers.ParseKey(c.ResizeModifier2)
	return modifiers.NewSet(k1, k2)
}

// FilterMatches reports whether the given executable name appears in
// the filter list.
func (c *Config) FilterMatches(process string) bool {
	for _, entry := range c.FilterList {
		if strings.EqualFold(strings.TrimSpace(entry), process) {
			return true
		}
	}
	return false
}

// AllowsProcess applies the filter mode to the given executable name.
func (c *Config) AllowsProcess(process string) bool {
	if c.FilterMode == FilterWhitelist {
		return c.FilterMatches(process)
	}
	return !c.FilterMatches(process)
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if _, err := modifiers.ParseKey(c.MoveModifier); err != nil {
		return &ValidationError{Path: "move_modifier", Err: err}
	}
	r1, err := modifiers.ParseKey(c.ResizeModifier1)
	if err != nil {
		return &ValidationError{Path: "resize_modifier_1", Err: err}
	}
	r2, err := modifiers.ParseKey(c.ResizeModifier2)
	if err != nil {
		return &ValidationError{Path: "resize_modifier_2", Err: err}
	}
	if r1 == r2 {
		return &ValidationError{Path: "resize_modifier_2", Err: fmt.Errorf("resize modifiers must be distinct")}
	}
	switch c.FilterMode {
	case FilterBlacklist, FilterWhitelist:
	default:
		return &ValidationError{Path: "filter_mode", Err: fmt.Errorf("filter_mode must be one of: blacklist, whitelist")}
	}
	if c.FilterList == nil {
		return &ValidationError{Path: "filter_list", Err: fmt.Errorf("filter_list must not be null")}
	}
	for i, entry := range c.FilterList {
		if strings.TrimSpace(entry) == "" {
			return &ValidationError{Path: fmt.Sprintf("filter_list[%d]", i), Err: fmt.Errorf("filter entry must not be empty")}
		}
	}
	if c.SnapThreshold < 0 {
		return &ValidationError{Path: "snap_threshold", Err: fmt.Errorf("snap_threshold must be >= 0")}
	}
	if c.OpacityStep < 1 || c.OpacityStep > 100 {
		return &ValidationError{Path: "opacity_step", Err: fmt.Errorf("opacity_step must be between 1 and 100")}
	}
	if c.OpacityFloor < 1 || c.OpacityFloor > 100 {
		return &ValidationError{Path: "opacity_floor", Err: fmt.Errorf("opacity_floor must be between 1 and 100")}
	}
	return nil
}

// Clone returns a deep copy. Sessions freeze their config with it so a
// concurrent replacement cannot change a drag in flight.
func (c *Config) Clone() *Config {
	out := *c
	out.FilterList = append([]string(nil), c.FilterList...)
	return &out
}

// Save writes the configuration to the given path, or the standard
// location when path is empty.
//
// Note: this marshals the effective config and will not preserve
// comments from the original YAML.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
