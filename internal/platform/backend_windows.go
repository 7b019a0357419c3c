//go:build windows

package platform

import (
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/WKDev/Glide/internal/geometry"
)

var (
	user32                       = windows.NewLazySystemDLL("user32.dll")
	procWindowFromPoint          = user32.NewProc("WindowFromPoint")
	procGetAncestor              = user32.NewProc("GetAncestor")
	procGetWindowRect            = user32.NewProc("GetWindowRect")
	procSetWindowPos             = user32.NewProc("SetWindowPos")
	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procSetForegroundWindow      = user32.NewProc("SetForegroundWindow")
	procIsWindow                 = user32.NewProc("IsWindow")
	procIsWindowVisible          = user32.NewProc("IsWindowVisible")
	procIsZoomed                 = user32.NewProc("IsZoomed")
	procIsIconic                 = user32.NewProc("IsIconic")
	procShowWindow               = user32.NewProc("ShowWindow")
	procGetWindowLongW           = user32.NewProc("GetWindowLongW")
	procSetWindowLongW           = user32.NewProc("SetWindowLongW")
	procSetLayeredWindowAttrs    = user32.NewProc("SetLayeredWindowAttributes")
	procGetLayeredWindowAttrs    = user32.NewProc("GetLayeredWindowAttributes")
	procGetWindowThreadProcessID = user32.NewProc("GetWindowThreadProcessId")
	procEnumWindows              = user32.NewProc("EnumWindows")
	procGetWindowTextLengthW     = user32.NewProc("GetWindowTextLengthW")
	procMonitorFromPoint         = user32.NewProc("MonitorFromPoint")
	procGetMonitorInfoW          = user32.NewProc("GetMonitorInfoW")
)

const (
	gaRoot = 2

	wsExLayered    = 0x00080000
	wsExTopmost    = 0x00000008
	wsExToolWindow = 0x00000080
	lwaAlpha       = 0x00000002
	swRestore      = 9
	swpNoActivate  = 0x0010
	swpNoZOrder    = 0x0004
	swpNoSize      = 0x0001
	swpNoMove      = 0x0002
	monitorNearest = 2
)

// gwlExStyle is GWL_EXSTYLE (-20); the conversion sign-extends so the
// 32-bit index reaches user32 intact.
var gwlExStyle = uintptr(int64(-20))

type winRect struct {
	Left, Top, Right, Bottom int32
}

type winPoint struct {
	X, Y int32
}

type monitorInfo struct {
	Size    uint32
	Monitor winRect
	Work    winRect
	Flags   uint32
}

// Win32Backend implements Backend with direct user32 calls. All entry
// points used here are thread-safe, so no goroutine affinity is needed.
type Win32Backend struct{}

var _ Backend = (*Win32Backend)(nil)

func NewBackend() (Backend, error) {
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("failed to load user32.dll: %w", err)
	}
	return &Win32Backend{}, nil
}

func (b *Win32Backend) Close() {}

func (b *Win32Backend) WindowAt(p geometry.Point) (WindowID, error) {
	// WindowFromPoint takes the POINT by value, split across two args
	// on amd64's calling convention it is a single 64-bit word.
	packed := uintptr(uint32(int32(p.X))) | uintptr(uint32(int32(p.Y)))<<32
	hwnd, _, _ := procWindowFromPoint.Call(packed)
	if hwnd == 0 {
		return 0, nil
	}
	root, _, _ := procGetAncestor.Call(hwnd, gaRoot)
	if root == 0 {
		root = hwnd
	}
	visible, _, _ := procIsWindowVisible.Call(root)
	if visible == 0 {
		return 0, nil
	}
	if isToolWindow(root) {
		return 0, nil
	}
	return WindowID(root), nil
}

func (b *Win32Backend) WindowRect(id WindowID) (geometry.Rect, error) {
	if !isWindow(uintptr(id)) {
		return geometry.Rect{}, ErrWindowGone
	}
	var r winRect
	ret, _, err := procGetWindowRect.Call(uintptr(id), uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return geometry.Rect{}, fmt.Errorf("GetWindowRect: %w", err)
	}
	return fromWinRect(r), nil
}

func (b *Win32Backend) MoveResize(id WindowID, bounds geometry.Rect) error {
	if !isWindow(uintptr(id)) {
		return ErrWindowGone
	}
	ret, _, err := procSetWindowPos.Call(
		uintptr(id), 0,
		uintptr(int32(bounds.X)), uintptr(int32(bounds.Y)),
		uintptr(int32(bounds.Width)), uintptr(int32(bounds.Height)),
		swpNoZOrder|swpNoActivate,
	)
	if ret == 0 {
		return fmt.Errorf("SetWindowPos: %w", err)
	}
	return nil
}

// enumCollector receives windows from the EnumWindows callback. The
// callback is created once; EnumWindows calls are serialized.
var (
	enumMu        sync.Mutex
	enumCollector *[]Window
	enumCallback  = syscall.NewCallback(func(hwnd uintptr, _ uintptr) uintptr {
		if visible, _, _ := procIsWindowVisible.Call(hwnd); visible == 0 {
			return 1
		}
		if iconic, _, _ := procIsIconic.Call(hwnd); iconic != 0 {
			return 1
		}
		if isToolWindow(hwnd) {
			return 1
		}
		if titleLen, _, _ := procGetWindowTextLengthW.Call(hwnd); titleLen == 0 {
			return 1
		}
		var r winRect
		if ret, _, _ := procGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&r))); ret == 0 {
			return 1
		}
		pid := windowPID(hwnd)
		*enumCollector = append(*enumCollector, Window{
			ID:      WindowID(hwnd),
			PID:     pid,
			Process: processName(pid),
			Bounds:  fromWinRect(r),
		})
		return 1
	})
)

func (b *Win32Backend) ListWindows() ([]Window, error) {
	enumMu.Lock()
	defer enumMu.Unlock()

	var out []Window
	enumCollector = &out
	defer func() { enumCollector = nil }()

	ret, _, err := procEnumWindows.Call(enumCallback, 0)
	if ret == 0 {
		return nil, fmt.Errorf("EnumWindows: %w", err)
	}

	// EnumWindows yields top-to-bottom; callers expect bottom first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (b *Win32Backend) ActiveWindow() (WindowID, error) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	return WindowID(hwnd), nil
}

func (b *Win32Backend) Raise(id WindowID) error {
	procSetForegroundWindow.Call(uintptr(id))
	return nil
}

func (b *Win32Backend) IsMaximized(id WindowID) (bool, error) {
	if !isWindow(uintptr(id)) {
		return false, ErrWindowGone
	}
	zoomed, _, _ := procIsZoomed.Call(uintptr(id))
	return zoomed != 0, nil
}

func (b *Win32Backend) Restore(id WindowID) error {
	if !isWindow(uintptr(id)) {
		return ErrWindowGone
	}
	procShowWindow.Call(uintptr(id), swRestore)
	return nil
}

func (b *Win32Backend) SetOpacity(id WindowID, percent int) error {
	if !isWindow(uintptr(id)) {
		return ErrWindowGone
	}
	style, _, _ := procGetWindowLongW.Call(uintptr(id), gwlExStyle)
	if percent >= 100 {
		// Fully opaque: drop the layered style so the window renders
		// on the fast path again.
		procSetWindowLongW.Call(uintptr(id), gwlExStyle, style&^uintptr(wsExLayered))
		return nil
	}
	if style&wsExLayered == 0 {
		procSetWindowLongW.Call(uintptr(id), gwlExStyle, style|wsExLayered)
	}
	if percent < 1 {
		percent = 1
	}
	alpha := uintptr(percent * 255 / 100)
	ret, _, err := procSetLayeredWindowAttrs.Call(uintptr(id), 0, alpha, lwaAlpha)
	if ret == 0 {
		return fmt.Errorf("SetLayeredWindowAttributes: %w", err)
	}
	return nil
}

func (b *Win32Backend) ToggleTopmost(id WindowID) error {
	if !isWindow(uintptr(id)) {
		return ErrWindowGone
	}
	style, _, _ := procGetWindowLongW.Call(uintptr(id), gwlExStyle)
	insertAfter := ^uintptr(0) // HWND_TOPMOST (-1)
	if style&wsExTopmost != 0 {
		insertAfter = ^uintptr(1) // HWND_NOTOPMOST (-2)
	}
	ret, _, err := procSetWindowPos.Call(
		uintptr(id), insertAfter, 0, 0, 0, 0,
		swpNoMove|swpNoSize|swpNoActivate,
	)
	if ret == 0 {
		return fmt.Errorf("SetWindowPos: %w", err)
	}
	return nil
}

func (b *Win32Backend) WindowPID(id WindowID) int {
	return windowPID(uintptr(id))
}

func (b *Win32Backend) ProcessName(id WindowID) string {
	return processName(windowPID(uintptr(id)))
}

func (b *Win32Backend) WorkArea(p geometry.Point) (geometry.Rect, error) {
	packed := uintptr(uint32(int32(p.X))) | uintptr(uint32(int32(p.Y)))<<32
	monitor, _, _ := procMonitorFromPoint.Call(packed, monitorNearest)
	if monitor == 0 {
		return geometry.Rect{}, fmt.Errorf("no monitor at %d,%d", p.X, p.Y)
	}
	info := monitorInfo{Size: uint32(unsafe.Sizeof(monitorInfo{}))}
	ret, _, err := procGetMonitorInfoW.Call(monitor, uintptr(unsafe.Pointer(&info)))
	if ret == 0 {
		return geometry.Rect{}, fmt.Errorf("GetMonitorInfo: %w", err)
	}
	return fromWinRect(info.Work), nil
}

func isWindow(hwnd uintptr) bool {
	ret, _, _ := procIsWindow.Call(hwnd)
	return ret != 0
}

func isToolWindow(hwnd uintptr) bool {
	style, _, _ := procGetWindowLongW.Call(hwnd, gwlExStyle)
	return style&wsExToolWindow != 0
}

func windowPID(hwnd uintptr) int {
	var pid uint32
	procGetWindowThreadProcessID.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	return int(pid)
}

func fromWinRect(r winRect) geometry.Rect {
	return geometry.Rect{
		X:      int(r.Left),
		Y:      int(r.Top),
		Width:  int(r.Right - r.Left),
		Height: int(r.Bottom - r.Top),
	}
}
