package mcp

// GetConfigInput is the input for the get_config tool.
type GetConfigInput struct{}

// SetConfigInput is the input for the set_config tool. Every field is
// optional; unset fields keep their current value.
type SetConfigInput struct {
	Enabled            *bool     `json:"enabled,omitempty" jsonschema:"Install or remove the input hook"`
	MoveModifier       *string   `json:"move_modifier,omitempty" jsonschema:"Modifier key for the move gesture (alt, ctrl, shift, win)"`
	ResizeModifier1    *string   `json:"resize_modifier_1,omitempty" jsonschema:"First modifier key for the resize gesture"`
	ResizeModifier2    *string   `json:"resize_modifier_2,omitempty" jsonschema:"Second modifier key for the resize gesture"`
	FilterMode         *string   `json:"filter_mode,omitempty" jsonschema:"Process filter interpretation: blacklist or whitelist"`
	FilterList         *[]string `json:"filter_list,omitempty" jsonschema:"Executable names the filter applies to"`
	Autostart          *bool     `json:"autostart,omitempty" jsonschema:"Start the daemon at login"`
	AllowNonForeground *bool     `json:"allow_nonforeground,omitempty" jsonschema:"Allow gestures on unfocused windows"`
	RaiseOnGrab        *bool     `json:"raise_on_grab,omitempty" jsonschema:"Raise the window when a gesture starts"`
	RestoreMaximized   *bool     `json:"restore_maximized,omitempty" jsonschema:"Let a move gesture restore a maximized window"`
	SnapEnabled        *bool     `json:"snap_enabled,omitempty" jsonschema:"Snap window edges while dragging"`
	SnapThreshold      *int      `json:"snap_threshold,omitempty" jsonschema:"Snap distance in pixels"`
	ScrollOpacity      *bool     `json:"scroll_opacity,omitempty" jsonschema:"Adjust window opacity with modifier+wheel"`
	OpacityStep        *int      `json:"opacity_step,omitempty" jsonschema:"Opacity change per wheel notch, in percent"`
	OpacityFloor       *int      `json:"opacity_floor,omitempty" jsonschema:"Lowest opacity the wheel can reach, in percent"`
	MiddleClickTopmost *bool     `json:"middleclick_topmost,omitempty" jsonschema:"Toggle always-on-top with modifier+middle click"`
}

// SetConfigOutput is the output for the set_config tool.
type SetConfigOutput struct {
	Applied bool `json:"applied"`
}

// SetEnabledInput is the input for the set_enabled tool.
type SetEnabledInput struct {
	Enabled bool `json:"enabled" jsonschema:"required,Whether window gestures should be active"`
}

// SetEnabledOutput is the output for the set_enabled tool.
type SetEnabledOutput struct {
	Enabled bool `json:"enabled"`
}

// ListProcessesInput is the input for the list_processes tool.
type ListProcessesInput struct{}

// ListProcessesOutput is the output for the list_processes tool.
type ListProcessesOutput struct {
	Processes []string `json:"processes"`
}

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	DaemonRunning bool   `json:"daemon_running"`
	Enabled       bool   `json:"enabled"`
	GestureActive bool   `json:"gesture_active"`
	Platform      string `json:"platform"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// ReloadInput is the input for the reload_config tool.
type ReloadInput struct{}

// ReloadOutput is the output for the reload_config tool.
type ReloadOutput struct {
	Reloaded bool `json:"reloaded"`
}
