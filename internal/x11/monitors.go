package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		if outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			outputName = string(outputInfo.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   outputName,
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		})
	}

	return monitors, nil
}

// WorkAreaAt returns the usable desktop area of the monitor containing
// the given root coordinates: the monitor bounds intersected with the
// EWMH work area of the current desktop, so panels and docks are
// excluded. Falls back to the raw monitor bounds when the WM publishes
// no work area.
func (c *Connection) WorkAreaAt(x, y int) (Rect, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return Rect{}, err
	}
	if len(monitors) == 0 {
		return Rect{}, fmt.Errorf("no monitors found")
	}

	mon := &monitors[0]
	for i := range monitors {
		m := &monitors[i]
		if x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height {
			mon = m
			break
		}
	}
	bounds := Rect{X: mon.X, Y: mon.Y, Width: mon.Width, Height: mon.Height}

	workAreas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workAreas) == 0 {
		return bounds, nil
	}
	desktopIndex := 0
	if current, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(current) < len(workAreas) {
		desktopIndex = int(current)
	}
	wa := workAreas[desktopIndex]

	// Intersect monitor and work area; ignore a degenerate result.
	x1 := max(bounds.X, int(wa.X))
	y1 := max(bounds.Y, int(wa.Y))
	x2 := min(bounds.X+bounds.Width, int(wa.X)+int(wa.Width))
	y2 := min(bounds.Y+bounds.Height, int(wa.Y)+int(wa.Height))
	if x2 > x1 && y2 > y1 {
		return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}, nil
	}
	return bounds, nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
