package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

// Source records where a config value came from, for error messages.
type Source struct {
	Kind   SourceKind
	File   string
	Line   int
	Column int
}

// ValidationError carries the YAML path of the offending value so the
// CLI and IPC boundary can report it precisely.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// rawConfig mirrors Config with pointer fields so a file can override
// any subset of the defaults while omitted keys keep their default.
type rawConfig struct {
	Enabled            *bool       `yaml:"enabled"`
	MoveModifier       *string     `yaml:"move_modifier"`
	ResizeModifier1    *string     `yaml:"resize_modifier_1"`
	ResizeModifier2    *string     `yaml:"resize_modifier_2"`
	FilterMode         *FilterMode `yaml:"filter_mode"`
	FilterList         *[]string   `yaml:"filter_list"`
	Autostart          *bool       `yaml:"autostart"`
	AllowNonForeground *bool       `yaml:"allow_nonforeground"`
	RaiseOnGrab        *bool       `yaml:"raise_on_grab"`
	RestoreMaximized   *bool       `yaml:"restore_maximized"`
	SnapEnabled        *bool       `yaml:"snap_enabled"`
	SnapThreshold      *int        `yaml:"snap_threshold"`
	ScrollOpacity      *bool       `yaml:"scroll_opacity"`
	OpacityStep        *int        `yaml:"opacity_step"`
	OpacityFloor       *int        `yaml:"opacity_floor"`
	MiddleClickTopmost *bool       `yaml:"middleclick_topmost"`
}

func buildEffective(raw rawConfig) *Config {
	cfg := DefaultConfig()
	if raw.Enabled != nil {
		cfg.Enabled = *raw.Enabled
	}
	if raw.MoveModifier != nil {
		cfg.MoveModifier = *raw.MoveModifier
	}
	if raw.ResizeModifier1 != nil {
		cfg.ResizeModifier1 = *raw.ResizeModifier1
	}
	if raw.ResizeModifier2 != nil {
		cfg.ResizeModifier2 = *raw.ResizeModifier2
	}
	if raw.FilterMode != nil {
		cfg.FilterMode = *raw.FilterMode
	}
	if raw.FilterList != nil {
		cfg.FilterList = *raw.FilterList
	}
	if raw.Autostart != nil {
		cfg.Autostart = *raw.Autostart
	}
	if raw.AllowNonForeground != nil {
		cfg.AllowNonForeground = *raw.AllowNonForeground
	}
	if raw.RaiseOnGrab != nil {
		cfg.RaiseOnGrab = *raw.RaiseOnGrab
	}
	if raw.RestoreMaximized != nil {
		cfg.RestoreMaximized = *raw.RestoreMaximized
	}
	if raw.SnapEnabled != nil {
		cfg.SnapEnabled = *raw.SnapEnabled
	}
	if raw.SnapThreshold != nil {
		cfg.SnapThreshold = *raw.SnapThreshold
	}
	if raw.ScrollOpacity != nil {
		cfg.ScrollOpacity = *raw.ScrollOpacity
	}
	if raw.OpacityStep != nil {
		cfg.OpacityStep = *raw.OpacityStep
	}
	if raw.OpacityFloor != nil {
		cfg.OpacityFloor = *raw.OpacityFloor
	}
	if raw.MiddleClickTopmost != nil {
		cfg.MiddleClickTopmost = *raw.MiddleClickTopmost
	}
	return cfg
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "glide", "config.yaml"), nil
}

// Load reads the configuration from the standard location. A missing
// file yields the defaults.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads, overlays and validates the config file at path.
func LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	} else if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read: %w", path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: failed to parse yaml: %w", path, err)
	}

	var raw rawConfig
	if err := decodeStrictYAML(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg := buildEffective(raw)
	if err := cfg.Validate(); err != nil {
		return nil, attachSourceContext(err, collectSources(&doc, path))
	}
	return cfg, nil
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}

func collectSources(doc *yaml.Node, file string) map[string]Source {
	out := make(map[string]Source)
	if doc == nil {
		return out
	}
	node := doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	collectSourcesRec(node, file, "", out)
	return out
}

func collectSourcesRec(node *yaml.Node, file string, prefix string, out map[string]Source) {
	if node == nil {
		return
	}
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			valNode := node.Content[i+1]
			path := keyNode.Value
			if prefix != "" {
				path = prefix + "." + keyNode.Value
			}
			out[path] = Source{
				Kind:   SourceFile,
				File:   file,
				Line:   valNode.Line,
				Column: valNode.Column,
			}
			collectSourcesRec(valNode, file, path, out)
		}
	case yaml.SequenceNode:
		if prefix != "" {
			out[prefix] = Source{
				Kind:   SourceFile,
				File:   file,
				Line:   node.Line,
				Column: node.Column,
			}
		}
	}
}

func attachSourceContext(err error, sources map[string]Source) error {
	verr, ok := err.(*ValidationError)
	if !ok || verr == nil || verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return verr
}
