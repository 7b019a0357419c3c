// Package hook delivers global pointer input to the gesture engine.
// Each platform source intercepts mouse events system-wide while
// installed, stamps them with the held modifier set and forwards them
// without ever blocking the OS input path.
package hook

import (
	"errors"

	"github.com/WKDev/Glide/internal/geometry"
	"github.com/WKDev/Glide/internal/modifiers"
)

// ErrNotInstalled is returned by Rebind/Uninstall when no hook is active.
var ErrNotInstalled = errors.New("hook not installed")

// Kind discriminates hook events.
type Kind uint8

const (
	ButtonDown Kind = iota
	ButtonUp
	Move
	Wheel
)

// Button identifies a mouse button.
type Button uint8

const (
	ButtonLeft Button = iota + 1
	ButtonMiddle
	ButtonRight
)

// Event is one intercepted input event. Mods is the modifier set held
// at the moment the event fired, captured on the hook thread so the
// engine never races the keyboard state.
type Event struct {
	Kind       Kind
	Button     Button
	Pos        geometry.Point
	WheelDelta int
	Mods       modifiers.Set
}

// Bindings tells a source which modifier combos to intercept. Events
// outside these combos pass through to applications untouched.
type Bindings struct {
	// Move is the combo that starts a move drag (left button).
	Move modifiers.Set
	// Resize is the combo that starts a resize drag (left button).
	Resize modifiers.Set
	// Wheel intercepts scroll notches under the Move combo.
	Wheel bool
	// Middle intercepts middle clicks under the Move combo.
	Middle bool
}

// Source installs and removes the platform input hook.
//
// Install returns only once interception is active; a failed install
// leaves the system untouched and is reported as a plain error so the
// caller can keep running with the feature off. Uninstall returns only
// after no further events can be delivered. Sends into sink must never
// block: sources drop events when the channel is full.
type Source interface {
	Install(sink chan<- Event, b Bindings) error
	Rebind(b Bindings) error
	Uninstall() error
}
