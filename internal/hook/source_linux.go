//go:build linux

package hook

import (
	"fmt"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/WKDev/Glide/internal/geometry"
	"github.com/WKDev/Glide/internal/modifiers"
	"github.com/WKDev/Glide/internal/platform"
)

// x11Accessor is an optional interface for backends that expose X11
// internals. The hook shares the backend's connection so its grab
// callbacks fire on the same event loop.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// xSource intercepts drags via passive pointer grabs on the root
// window. The X server only delivers grabbed combinations, so events
// outside the bindings never reach us and never get swallowed.
type xSource struct {
	xu   *xgbutil.XUtil
	root xproto.Window

	mu        sync.Mutex
	sink      chan<- Event
	bindings  Bindings
	installed bool
}

var ignoreModsOnce sync.Once

// NewSource builds the hook source for an X11 backend.
func NewSource(backend platform.Backend) (Source, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok {
		return nil, fmt.Errorf("backend does not expose an X11 connection")
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &xSource{
		xu:   xu,
		root: accessor.RootWindow(),
	}, nil
}

func (s *xSource) Install(sink chan<- Event, b Bindings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.installed {
		return fmt.Errorf("hook already installed")
	}
	s.sink = sink
	s.bindings = b
	if err := s.attach(b); err != nil {
		mousebind.Detach(s.xu, s.root)
		return err
	}
	s.installed = true
	return nil
}

func (s *xSource) Rebind(b Bindings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.installed {
		return ErrNotInstalled
	}
	mousebind.Detach(s.xu, s.root)
	s.bindings = b
	if err := s.attach(b); err != nil {
		mousebind.Detach(s.xu, s.root)
		s.installed = false
		return err
	}
	return nil
}

func (s *xSource) Uninstall() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.installed {
		return ErrNotInstalled
	}
	mousebind.Detach(s.xu, s.root)
	s.installed = false
	return nil
}

func (s *xSource) attach(b Bindings) error {
	if err := s.attachDrag(b.Move, ButtonLeft, 1); err != nil {
		return err
	}
	if !b.Resize.IsEmpty() {
		if b.Resize != b.Move {
			if err := s.attachDrag(b.Resize, ButtonLeft, 1); err != nil {
				return err
			}
		}
		// Right-button drags resize without the extra modifier; X maps
		// the right button to 3.
		if err := s.attachDrag(b.Resize, ButtonRight, 3); err != nil {
			return err
		}
	}
	if b.Middle {
		if err := s.attachPress(b.Move, 2, func(mods modifiers.Set, p geometry.Point) Event {
			return Event{Kind: ButtonDown, Button: ButtonMiddle, Pos: p, Mods: mods}
		}); err != nil {
			return err
		}
	}
	if b.Wheel {
		// X maps wheel notches to buttons 4 (up) and 5 (down).
		if err := s.attachPress(b.Move, 4, func(mods modifiers.Set, p geometry.Point) Event {
			return Event{Kind: Wheel, WheelDelta: 1, Pos: p, Mods: mods}
		}); err != nil {
			return err
		}
		if err := s.attachPress(b.Move, 5, func(mods modifiers.Set, p geometry.Point) Event {
			return Event{Kind: Wheel, WheelDelta: -1, Pos: p, Mods: mods}
		}); err != nil {
			return err
		}
	}
	return nil
}

// attachDrag grabs a modifier+button drag. The combo's modifier set is
// stamped on every event of the drag; the engine classifies from it.
func (s *xSource) attachDrag(mods modifiers.Set, button Button, xButton int) error {
	combo := comboString(mods, xButton)
	mousebind.Drag(s.xu, s.root, s.root, combo, true,
		func(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) (bool, xproto.Cursor) {
			s.send(Event{Kind: ButtonDown, Button: button, Pos: geometry.Point{X: rootX, Y: rootY}, Mods: mods})
			return true, 0
		},
		func(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
			s.send(Event{Kind: Move, Pos: geometry.Point{X: rootX, Y: rootY}, Mods: mods})
		},
		func(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
			s.send(Event{Kind: ButtonUp, Button: button, Pos: geometry.Point{X: rootX, Y: rootY}, Mods: mods})
		})
	return nil
}

func (s *xSource) attachPress(mods modifiers.Set, xButton int, build func(modifiers.Set, geometry.Point) Event) error {
	combo := comboString(mods, xButton)
	return mousebind.ButtonPressFun(func(xu *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		s.send(build(mods, geometry.Point{X: int(ev.RootX), Y: int(ev.RootY)}))
	}).Connect(s.xu, s.root, combo, false, true)
}

// send never blocks; a saturated engine drops the event.
func (s *xSource) send(ev Event) {
	select {
	case s.sink <- ev:
	default:
	}
}

// comboString renders a modifier set plus button in xgbutil syntax,
// e.g. "Mod1-Shift-1".
func comboString(mods modifiers.Set, button int) string {
	var parts []string
	if mods.Has(modifiers.Ctrl) {
		parts = append(parts, "Control")
	}
	if mods.Has(modifiers.Alt) {
		parts = append(parts, "Mod1")
	}
	if mods.Has(modifiers.Shift) {
		parts = append(parts, "Shift")
	}
	if mods.Has(modifiers.Win) {
		parts = append(parts, "Mod4")
	}
	parts = append(parts, fmt.Sprintf("%d", button))
	return strings.Join(parts, "-")
}

// configureIgnoreMods makes grabs fire regardless of Caps/Num/Scroll
// lock state.
func configureIgnoreMods(xu *xgbutil.XUtil) {
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
