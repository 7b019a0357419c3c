//go:build linux

package platform

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/WKDev/Glide/internal/geometry"
	"github.com/WKDev/Glide/internal/x11"
)

// X11Backend implements Backend over a shared X11 connection. The same
// connection also serves the input hook grabs, so NewBackend is opened
// once per daemon.
type X11Backend struct {
	conn *x11.Connection
}

var _ Backend = (*X11Backend)(nil)

// NewBackend opens a fresh X11 connection.
func NewBackend() (Backend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &X11Backend{conn: conn}, nil
}

// Close disconnects from the X11 server.
func (b *X11Backend) Close() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking). The input hook's
// grab callbacks fire on this loop.
func (b *X11Backend) EventLoop() {
	b.conn.EventLoop()
}

// StopEventLoop asks a running EventLoop to return.
func (b *X11Backend) StopEventLoop() {
	b.conn.StopEventLoop()
}

// XUtil exposes the underlying xgbutil connection for X11-specific
// wiring (the hook source binds its grabs on it).
func (b *X11Backend) XUtil() *xgbutil.XUtil {
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *X11Backend) RootWindow() xproto.Window {
	return b.conn.Root
}

func (b *X11Backend) WindowAt(p geometry.Point) (WindowID, error) {
	win, err := b.conn.WindowAt(p.X, p.Y)
	if err != nil {
		return 0, err
	}
	return WindowID(win), nil
}

func (b *X11Backend) WindowRect(id WindowID) (geometry.Rect, error) {
	rect, err := b.conn.WindowRect(xproto.Window(id))
	if err != nil {
		if !b.conn.WindowExists(xproto.Window(id)) {
			return geometry.Rect{}, ErrWindowGone
		}
		return geometry.Rect{}, err
	}
	return fromX11Rect(rect), nil
}

func (b *X11Backend) MoveResize(id WindowID, bounds geometry.Rect) error {
	if !b.conn.WindowExists(xproto.Window(id)) {
		return ErrWindowGone
	}
	return b.conn.MoveResizeWindow(xproto.Window(id), bounds.X, bounds.Y, bounds.Width, bounds.Height)
}

func (b *X11Backend) ListWindows() ([]Window, error) {
	wins, rects, err := b.conn.ListNormalWindows()
	if err != nil {
		return nil, err
	}
	out := make([]Window, 0, len(wins))
	for i, win := range wins {
		pid := b.conn.WindowPID(win)
		name := processName(pid)
		if name == "" {
			name = b.conn.WindowClass(win)
		}
		out = append(out, Window{
			ID:      WindowID(win),
			PID:     pid,
			Process: name,
			Bounds:  fromX11Rect(rects[i]),
		})
	}
	return out, nil
}

func (b *X11Backend) ActiveWindow() (WindowID, error) {
	win, err := b.conn.GetActiveWindow()
	if err != nil {
		return 0, err
	}
	return WindowID(win), nil
}

func (b *X11Backend) Raise(id WindowID) error {
	return b.conn.Raise(xproto.Window(id))
}

func (b *X11Backend) IsMaximized(id WindowID) (bool, error) {
	return b.conn.IsMaximized(xproto.Window(id))
}

func (b *X11Backend) Restore(id WindowID) error {
	return b.conn.Unmaximize(xproto.Window(id))
}

func (b *X11Backend) SetOpacity(id WindowID, percent int) error {
	if !b.conn.WindowExists(xproto.Window(id)) {
		return ErrWindowGone
	}
	return b.conn.SetOpacity(xproto.Window(id), percent)
}

func (b *X11Backend) ToggleTopmost(id WindowID) error {
	return b.conn.ToggleAbove(xproto.Window(id))
}

func (b *X11Backend) WindowPID(id WindowID) int {
	return b.conn.WindowPID(xproto.Window(id))
}

func (b *X11Backend) ProcessName(id WindowID) string {
	pid := b.conn.WindowPID(xproto.Window(id))
	if name := processName(pid); name != "" {
		return name
	}
	return b.conn.WindowClass(xproto.Window(id))
}

func (b *X11Backend) WorkArea(p geometry.Point) (geometry.Rect, error) {
	rect, err := b.conn.WorkAreaAt(p.X, p.Y)
	if err != nil {
		return geometry.Rect{}, err
	}
	return fromX11Rect(rect), nil
}

func fromX11Rect(r x11.Rect) geometry.Rect {
	return geometry.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}
