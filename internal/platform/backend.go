// Package platform abstracts the window system behind a capability
// interface so the gesture engine stays platform-neutral.
package platform

import (
	"errors"

	"github.com/WKDev/Glide/internal/geometry"
)

// WindowID is a platform-neutral window identifier (an X window or a
// Win32 HWND).
type WindowID uint64

// ErrWindowGone reports that a window vanished mid-operation. The
// engine aborts the gesture silently when it sees this.
var ErrWindowGone = errors.New("window no longer exists")

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID      WindowID
	PID     int
	Process string
	Bounds  geometry.Rect
}

// Backend abstracts window-system operations across platforms. All
// methods are safe to call from the engine goroutine while the hook
// thread runs.
type Backend interface {
	// WindowAt returns the topmost normal window under the point, or 0
	// when nothing manageable is there.
	WindowAt(p geometry.Point) (WindowID, error)
	// WindowRect returns current geometry; ErrWindowGone if it vanished.
	WindowRect(id WindowID) (geometry.Rect, error)
	// MoveResize applies new geometry to a window.
	MoveResize(id WindowID, bounds geometry.Rect) error
	// ListWindows returns the visible top-level windows, bottom of the
	// stack first.
	ListWindows() ([]Window, error)

	ActiveWindow() (WindowID, error)
	Raise(id WindowID) error

	IsMaximized(id WindowID) (bool, error)
	// Restore takes a window out of the maximized state.
	Restore(id WindowID) error

	// SetOpacity sets window opacity as a percentage (1-100).
	SetOpacity(id WindowID, percent int) error
	// ToggleTopmost flips the always-on-top state.
	ToggleTopmost(id WindowID) error

	// WindowPID resolves the process id owning the window, or 0 when
	// unknown.
	WindowPID(id WindowID) int
	// ProcessName resolves the executable name owning the window, or ""
	// when unknown.
	ProcessName(id WindowID) string
	// WorkArea returns the usable desktop area of the monitor
	// containing the point.
	WorkArea(p geometry.Point) (geometry.Rect, error)

	Close()
}
