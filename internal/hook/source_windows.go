//go:build windows

package hook

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/WKDev/Glide/internal/geometry"
	"github.com/WKDev/Glide/internal/modifiers"
	"github.com/WKDev/Glide/internal/platform"
)

const (
	whKeyboardLL = 13
	whMouseLL    = 14

	wmKeyDown    = 0x0100
	wmKeyUp      = 0x0101
	wmSysKeyDown = 0x0104
	wmSysKeyUp   = 0x0105

	wmMouseMove   = 0x0200
	wmLButtonDown = 0x0201
	wmLButtonUp   = 0x0202
	wmRButtonDown = 0x0204
	wmRButtonUp   = 0x0205
	wmMButtonDown = 0x0207
	wmMButtonUp   = 0x0208
	wmMouseWheel  = 0x020A

	wmQuit = 0x0012

	wheelDelta = 120
)

var (
	user32                = windows.NewLazySystemDLL("user32.dll")
	kernel32              = windows.NewLazySystemDLL("kernel32.dll")
	procSetWindowsHookEx  = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHook = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx    = user32.NewProc("CallNextHookEx")
	procGetMessage        = user32.NewProc("GetMessageW")
	procPostThreadMessage = user32.NewProc("PostThreadMessageW")
	procGetCurrentThread  = kernel32.NewProc("GetCurrentThreadId")
)

type point struct {
	X, Y int32
}

type msg struct {
	Hwnd    syscall.Handle
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      point
}

type msllHookStruct struct {
	Pt          point
	MouseData   uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type kbdllHookStruct struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

// winSource installs WH_KEYBOARD_LL and WH_MOUSE_LL hooks from a
// dedicated OS thread running a message pump. The keyboard hook only
// maintains the modifier tracker; the mouse hook stamps each event
// with the tracker snapshot and swallows exactly the clicks a binding
// consumes.
type winSource struct {
	tracker *modifiers.Tracker

	mu        sync.Mutex
	installed bool
	sink      chan<- Event
	bindings  atomic.Pointer[Bindings]

	threadID  uint32
	done      chan struct{}
	mouseHook uintptr
	keyHook   uintptr

	// swallowed is the button whose down-click we consumed; the
	// matching up-click is consumed too. Hook thread only.
	swallowed Button

	mouseCb uintptr
	keyCb   uintptr
}

// NewSource builds the hook source. The backend argument is unused on
// Windows; the hook talks to user32 directly.
func NewSource(_ platform.Backend) (Source, error) {
	s := &winSource{tracker: modifiers.NewTracker()}
	// Callbacks are created once: the runtime never releases them and
	// the source is installed and uninstalled many times over a
	// daemon's life.
	s.mouseCb = syscall.NewCallback(s.mouseProc)
	s.keyCb = syscall.NewCallback(s.keyProc)
	return s, nil
}

func (s *winSource) Install(sink chan<- Event, b Bindings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.installed {
		return fmt.Errorf("hook already installed")
	}
	s.sink = sink
	bindings := b
	s.bindings.Store(&bindings)
	s.done = make(chan struct{})

	result := make(chan error, 1)
	go s.hookThread(result)
	if err := <-result; err != nil {
		return err
	}
	s.installed = true
	return nil
}

func (s *winSource) Rebind(b Bindings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.installed {
		return ErrNotInstalled
	}
	bindings := b
	s.bindings.Store(&bindings)
	return nil
}

func (s *winSource) Uninstall() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.installed {
		return ErrNotInstalled
	}
	procPostThreadMessage.Call(uintptr(s.threadID), wmQuit, 0, 0)
	<-s.done
	s.installed = false
	return nil
}

// hookThread owns the hooks: low-level hooks must be installed and
// pumped on the same thread, so it is locked for the duration.
func (s *winSource) hookThread(result chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	threadID, _, _ := procGetCurrentThread.Call()
	s.threadID = uint32(threadID)

	mouseHook, _, err := procSetWindowsHookEx.Call(whMouseLL, s.mouseCb, 0, 0)
	if mouseHook == 0 {
		result <- fmt.Errorf("failed to set mouse hook: %v", err)
		return
	}
	keyHook, _, err := procSetWindowsHookEx.Call(whKeyboardLL, s.keyCb, 0, 0)
	if keyHook == 0 {
		procUnhookWindowsHook.Call(mouseHook)
		result <- fmt.Errorf("failed to set keyboard hook: %v", err)
		return
	}
	s.mouseHook = mouseHook
	s.keyHook = keyHook
	result <- nil

	var m msg
	for {
		ret, _, _ := procGetMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(ret) <= 0 {
			break
		}
	}

	procUnhookWindowsHook.Call(s.mouseHook)
	procUnhookWindowsHook.Call(s.keyHook)
	s.mouseHook = 0
	s.keyHook = 0
	s.swallowed = 0
	// Key-up events stop arriving the moment the hook is gone.
	s.tracker.Reset()
	close(s.done)
}

// keyProc tracks modifier state. Keys are never swallowed.
func (s *winSource) keyProc(nCode int32, wParam uintptr, lParam uintptr) uintptr {
	if nCode >= 0 {
		k := (*kbdllHookStruct)(unsafe.Pointer(lParam))
		if key := vkToModifier(k.VkCode); key != 0 {
			switch wParam {
			case wmKeyDown, wmSysKeyDown:
				s.tracker.Press(key)
			case wmKeyUp, wmSysKeyUp:
				s.tracker.Release(key)
			}
		}
	}
	ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return ret
}

// mouseProc classifies just enough to decide swallowing; everything
// else happens on the engine goroutine. It must stay fast and must
// never block.
func (s *winSource) mouseProc(nCode int32, wParam uintptr, lParam uintptr) uintptr {
	if nCode < 0 {
		ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
		return ret
	}

	m := (*msllHookStruct)(unsafe.Pointer(lParam))
	pos := geometry.Point{X: int(m.Pt.X), Y: int(m.Pt.Y)}
	mods := s.tracker.Snapshot()
	b := *s.bindings.Load()
	swallow := false

	switch wParam {
	case wmMouseMove:
		s.send(Event{Kind: Move, Pos: pos, Mods: mods})
	case wmLButtonDown:
		if s.matchesDrag(mods, b) {
			s.swallowed = ButtonLeft
			s.send(Event{Kind: ButtonDown, Button: ButtonLeft, Pos: pos, Mods: mods})
			swallow = true
		}
	case wmLButtonUp:
		if s.swallowed == ButtonLeft {
			s.swallowed = 0
			s.send(Event{Kind: ButtonUp, Button: ButtonLeft, Pos: pos, Mods: mods})
			swallow = true
		}
	case wmRButtonDown:
		if !b.Resize.IsEmpty() && mods.Contains(b.Resize) {
			s.swallowed = ButtonRight
			s.send(Event{Kind: ButtonDown, Button: ButtonRight, Pos: pos, Mods: mods})
			swallow = true
		}
	case wmRButtonUp:
		if s.swallowed == ButtonRight {
			s.swallowed = 0
			s.send(Event{Kind: ButtonUp, Button: ButtonRight, Pos: pos, Mods: mods})
			swallow = true
		}
	case wmMButtonDown:
		if b.Middle && !b.Move.IsEmpty() && mods.Contains(b.Move) {
			s.swallowed = ButtonMiddle
			s.send(Event{Kind: ButtonDown, Button: ButtonMiddle, Pos: pos, Mods: mods})
			swallow = true
		}
	case wmMButtonUp:
		if s.swallowed == ButtonMiddle {
			s.swallowed = 0
			s.send(Event{Kind: ButtonUp, Button: ButtonMiddle, Pos: pos, Mods: mods})
			swallow = true
		}
	case wmMouseWheel:
		if b.Wheel && !b.Move.IsEmpty() && mods.Contains(b.Move) {
			delta := int(int16(uint16(m.MouseData>>16))) / wheelDelta
			s.send(Event{Kind: Wheel, WheelDelta: delta, Pos: pos, Mods: mods})
			swallow = true
		}
	}

	if swallow {
		return 1
	}
	ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return ret
}

func (s *winSource) matchesDrag(mods modifiers.Set, b Bindings) bool {
	if !b.Move.IsEmpty() && mods.Contains(b.Move) {
		return true
	}
	return !b.Resize.IsEmpty() && mods.Contains(b.Resize)
}

// send never blocks; a saturated engine drops the event.
func (s *winSource) send(ev Event) {
	select {
	case s.sink <- ev:
	default:
	}
}

func vkToModifier(vk uint32) modifiers.Key {
	switch vk {
	case 0x10, 0xA0, 0xA1: // VK_SHIFT, VK_LSHIFT, VK_RSHIFT
		return modifiers.Shift
	case 0x11, 0xA2, 0xA3: // VK_CONTROL, VK_LCONTROL, VK_RCONTROL
		return modifiers.Ctrl
	case 0x12, 0xA4, 0xA5: // VK_MENU, VK_LMENU, VK_RMENU
		return modifiers.Alt
	case 0x5B, 0x5C: // VK_LWIN, VK_RWIN
		return modifiers.Win
	}
	return 0
}
