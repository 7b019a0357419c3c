package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

const opacityAtom = "_NET_WM_WINDOW_OPACITY"

// Rect is window geometry in root coordinates.
type Rect struct {
	X, Y          int
	Width, Height int
}

func (r Rect) contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// MoveResizeWindow moves and resizes a window to the specified geometry
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	// Use EWMH MoveResize for better WM compatibility
	err := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height)
	if err != nil {
		// Fallback to direct window manipulation
		xwindow.New(c.XUtil, windowID).MoveResize(x, y, width, height)
	}
	return nil
}

// WindowRect returns a window's geometry in root coordinates.
func (c *Connection) WindowRect(windowID xproto.Window) (Rect, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return Rect{}, fmt.Errorf("window %d geometry: %w", windowID, err)
	}
	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return Rect{}, fmt.Errorf("window %d translate: %w", windowID, err)
	}
	return Rect{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}

// WindowAt returns the topmost normal window containing the given root
// coordinates, walking the EWMH stacking list from top to bottom.
// Returns 0 when no managed window is under the point.
func (c *Connection) WindowAt(x, y int) (xproto.Window, error) {
	stacking, err := ewmh.ClientListStackingGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("stacking list: %w", err)
	}

	// _NET_CLIENT_LIST_STACKING is bottom-to-top.
	for i := len(stacking) - 1; i >= 0; i-- {
		win := stacking[i]
		if !c.IsNormalWindow(win) {
			continue
		}
		if c.isHidden(win) {
			continue
		}
		rect, err := c.WindowRect(win)
		if err != nil {
			continue
		}
		if rect.contains(x, y) {
			return win, nil
		}
	}
	return 0, nil
}

// ListNormalWindows returns every visible normal window with its
// geometry, top of the stack last.
func (c *Connection) ListNormalWindows() ([]xproto.Window, []Rect, error) {
	stacking, err := ewmh.ClientListStackingGet(c.XUtil)
	if err != nil {
		return nil, nil, fmt.Errorf("stacking list: %w", err)
	}

	var wins []xproto.Window
	var rects []Rect
	for _, win := range stacking {
		if !c.IsNormalWindow(win) || c.isHidden(win) {
			continue
		}
		rect, err := c.WindowRect(win)
		if err != nil {
			continue
		}
		wins = append(wins, win)
		rects = append(rects, rect)
	}
	return wins, rects, nil
}

// IsMaximized reports whether the window carries either EWMH maximized state.
func (c *Connection) IsMaximized(windowID xproto.Window) (bool, error) {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return false, err
	}
	for _, state := range states {
		if state == "_NET_WM_STATE_MAXIMIZED_HORZ" || state == "_NET_WM_STATE_MAXIMIZED_VERT" {
			return true, nil
		}
	}
	return false, nil
}

// Unmaximize removes both maximized states from a window.
func (c *Connection) Unmaximize(windowID xproto.Window) error {
	if err := ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateRemove, "_NET_WM_STATE_MAXIMIZED_HORZ"); err != nil {
		return err
	}
	return ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateRemove, "_NET_WM_STATE_MAXIMIZED_VERT")
}

// ToggleAbove toggles the always-on-top state of a window.
func (c *Connection) ToggleAbove(windowID xproto.Window) error {
	return ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateToggle, "_NET_WM_STATE_ABOVE")
}

// SetOpacity sets the compositor opacity hint on a window. percent is
// 1-100; 100 removes the property so the window renders natively.
func (c *Connection) SetOpacity(windowID xproto.Window, percent int) error {
	if percent >= 100 {
		atom, err := xprop.Atm(c.XUtil, opacityAtom)
		if err != nil {
			return err
		}
		return xproto.DeletePropertyChecked(c.XUtil.Conn(), windowID, atom).Check()
	}
	if percent < 1 {
		percent = 1
	}
	value := uint(uint64(percent) * 0xFFFFFFFF / 100)
	return xprop.ChangeProp32(c.XUtil, windowID, opacityAtom, "CARDINAL", value)
}

// Opacity reads the compositor opacity hint as a percentage. A window
// without the property is fully opaque.
func (c *Connection) Opacity(windowID xproto.Window) (int, error) {
	raw, err := xprop.PropValNum(xprop.GetProperty(c.XUtil, windowID, opacityAtom))
	if err != nil {
		return 100, nil
	}
	return int(uint64(raw) * 100 / 0xFFFFFFFF), nil
}

// Raise activates and raises a window using _NET_ACTIVE_WINDOW.
// We build the message manually because the xgbutil ewmh helpers panic
// on this library version.
func (c *Connection) Raise(windowID xproto.Window) error {
	atomReply, err := xproto.InternAtom(c.XUtil.Conn(), false,
		uint16(len("_NET_ACTIVE_WINDOW")), "_NET_ACTIVE_WINDOW").Reply()
	if err != nil {
		return fmt.Errorf("failed to intern _NET_ACTIVE_WINDOW: %w", err)
	}

	const sourceIndication = 2 // pager/direct action
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   atomReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{sourceIndication, 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// WindowPID returns the _NET_WM_PID of a window, or 0 when unset.
func (c *Connection) WindowPID(windowID xproto.Window) int {
	pid, err := ewmh.WmPidGet(c.XUtil, windowID)
	if err != nil {
		return 0
	}
	return int(pid)
}

// WindowExists reports whether the window is still alive.
func (c *Connection) WindowExists(windowID xproto.Window) bool {
	_, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	return err == nil
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_NORMAL" {
			return true
		}
		// Reject desktop, dock, splash, etc.
		if t == "_NET_WM_WINDOW_TYPE_DESKTOP" ||
			t == "_NET_WM_WINDOW_TYPE_DOCK" ||
			t == "_NET_WM_WINDOW_TYPE_SPLASH" ||
			t == "_NET_WM_WINDOW_TYPE_NOTIFICATION" {
			return false
		}
	}

	// If no specific type is set, assume it's normal
	return len(types) == 0
}

func (c *Connection) isHidden(windowID xproto.Window) bool {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, state := range states {
		if state == "_NET_WM_STATE_HIDDEN" {
			return true
		}
	}
	return false
}

// WindowClass returns the WM_CLASS class name, used as a fallback
// process identity when _NET_WM_PID is unset.
func (c *Connection) WindowClass(windowID xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		return ""
	}
	return wmClass.Class
}

func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}
