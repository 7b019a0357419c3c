package engine

import (
	"os"
	"testing"

	"github.com/WKDev/Glide/internal/config"
	"github.com/WKDev/Glide/internal/geometry"
	"github.com/WKDev/Glide/internal/hook"
	"github.com/WKDev/Glide/internal/modifiers"
	"github.com/WKDev/Glide/internal/platform"
)

type fakeWindow struct {
	bounds    geometry.Rect
	pid       int
	process   string
	maximized bool
	restored  geometry.Rect
	gone      bool
}

type fakeBackend struct {
	windows   map[platform.WindowID]*fakeWindow
	stack     []platform.WindowID // bottom first
	active    platform.WindowID
	work      geometry.Rect
	moves     []geometry.Rect
	opacities map[platform.WindowID]int
	raised    []platform.WindowID
	topmost   map[platform.WindowID]bool
	restores  int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		windows:   make(map[platform.WindowID]*fakeWindow),
		work:      geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
		opacities: make(map[platform.WindowID]int),
		topmost:   make(map[platform.WindowID]bool),
	}
}

func (b *fakeBackend) addWindow(id platform.WindowID, w fakeWindow) {
	b.windows[id] = &w
	b.stack = append(b.stack, id)
}

func (b *fakeBackend) WindowAt(p geometry.Point) (platform.WindowID, error) {
	for i := len(b.stack) - 1; i >= 0; i-- {
		id := b.stack[i]
		w := b.windows[id]
		if !w.gone && w.bounds.Contains(p) {
			return id, nil
		}
	}
	return 0, nil
}

func (b *fakeBackend) WindowRect(id platform.WindowID) (geometry.Rect, error) {
	w, ok := b.windows[id]
	if !ok || w.gone {
		return geometry.Rect{}, platform.ErrWindowGone
	}
	return w.bounds, nil
}

func (b *fakeBackend) MoveResize(id platform.WindowID, bounds geometry.Rect) error {
	w, ok := b.windows[id]
	if !ok || w.gone {
		return platform.ErrWindowGone
	}
	w.bounds = bounds
	b.moves = append(b.moves, bounds)
	return nil
}

func (b *fakeBackend) ListWindows() ([]platform.Window, error) {
	out := make([]platform.Window, 0, len(b.stack))
	for _, id := range b.stack {
		w := b.windows[id]
		if w.gone {
			continue
		}
		out = append(out, platform.Window{ID: id, PID: w.pid, Process: w.process, Bounds: w.bounds})
	}
	return out, nil
}

func (b *fakeBackend) ActiveWindow() (platform.WindowID, error) { return b.active, nil }

func (b *fakeBackend) Raise(id platform.WindowID) error {
	b.raised = append(b.raised, id)
	return nil
}

func (b *fakeBackend) IsMaximized(id platform.WindowID) (bool, error) {
	w, ok := b.windows[id]
	if !ok || w.gone {
		return false, platform.ErrWindowGone
	}
	return w.maximized, nil
}

func (b *fakeBackend) Restore(id platform.WindowID) error {
	w := b.windows[id]
	w.maximized = false
	w.bounds = w.restored
	b.restores++
	return nil
}

func (b *fakeBackend) SetOpacity(id platform.WindowID, percent int) error {
	w, ok := b.windows[id]
	if !ok || w.gone {
		return platform.ErrWindowGone
	}
	b.opacities[id] = percent
	return nil
}

func (b *fakeBackend) ToggleTopmost(id platform.WindowID) error {
	b.topmost[id] = !b.topmost[id]
	return nil
}

func (b *fakeBackend) WindowPID(id platform.WindowID) int {
	if w, ok := b.windows[id]; ok {
		return w.pid
	}
	return 0
}

func (b *fakeBackend) ProcessName(id platform.WindowID) string {
	if w, ok := b.windows[id]; ok {
		return w.process
	}
	return ""
}

func (b *fakeBackend) WorkArea(p geometry.Point) (geometry.Rect, error) { return b.work, nil }

func (b *fakeBackend) Close() {}

type fakeSource struct {
	installed   bool
	bindings    hook.Bindings
	rebinds     int
	failInstall error
}

func (s *fakeSource) Install(sink chan<- hook.Event, b hook.Bindings) error {
	if s.failInstall != nil {
		return s.failInstall
	}
	s.installed = true
	s.bindings = b
	return nil
}

func (s *fakeSource) Rebind(b hook.Bindings) error {
	s.bindings = b
	s.rebinds++
	return nil
}

func (s *fakeSource) Uninstall() error {
	if !s.installed {
		return hook.ErrNotInstalled
	}
	s.installed = false
	return nil
}

func newTestEngine(t *testing.T, cfg *config.Config) (*Engine, *fakeBackend, *fakeSource) {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	fb := newFakeBackend()
	fs := &fakeSource{}
	e := New(fb, fs, config.NewStore(cfg))
	if err := e.SetEnabled(true); err != nil {
		t.Fatalf("SetEnabled(true) failed: %v", err)
	}
	return e, fb, fs
}

func alt() modifiers.Set      { return modifiers.NewSet(modifiers.Alt) }
func altShift() modifiers.Set { return modifiers.NewSet(modifiers.Alt, modifiers.Shift) }

func press(pos geometry.Point, mods modifiers.Set) hook.Event {
	return hook.Event{Kind: hook.ButtonDown, Button: hook.ButtonLeft, Pos: pos, Mods: mods}
}

func moveTo(pos geometry.Point) hook.Event {
	return hook.Event{Kind: hook.Move, Pos: pos}
}

func release(pos geometry.Point) hook.Event {
	return hook.Event{Kind: hook.ButtonUp, Button: hook.ButtonLeft, Pos: pos}
}

func rightPress(pos geometry.Point, mods modifiers.Set) hook.Event {
	return hook.Event{Kind: hook.ButtonDown, Button: hook.ButtonRight, Pos: pos, Mods: mods}
}

func rightRelease(pos geometry.Point) hook.Event {
	return hook.Event{Kind: hook.ButtonUp, Button: hook.ButtonRight, Pos: pos}
}

func TestMoveGesture(t *testing.T) {
	e, fb, _ := newTestEngine(t, nil)
	fb.addWindow(1, fakeWindow{bounds: geometry.Rect{X: 100, Y: 100, Width: 300, Height: 200}, pid: 42, process: "editor"})

	e.handle(press(geometry.Point{X: 150, Y: 150}, alt()))
	if !e.GestureActive() {
		t.Fatal("expected a gesture after qualifying press")
	}
	e.handle(moveTo(geometry.Point{X: 250, Y: 130}))

	got := fb.windows[1].bounds
	want := geometry.Rect{X: 200, Y: 80, Width: 300, Height: 200}
	if got != want {
		t.Errorf("moved bounds = %v, want %v", got, want)
	}

	e.handle(release(geometry.Point{X: 250, Y: 130}))
	if e.GestureActive() {
		t.Error("gesture should end on button release")
	}
	if fb.windows[1].bounds != want {
		t.Errorf("release changed bounds to %v", fb.windows[1].bounds)
	}
}

func TestResizeTakesPriorityOverMove(t *testing.T) {
	e, fb, _ := newTestEngine(t, nil)
	fb.addWindow(1, fakeWindow{bounds: geometry.Rect{X: 100, Y: 100, Width: 300, Height: 200}, pid: 42, process: "editor"})

	// Alt+Shift satisfies both combos; resize wins. Cursor in the
	// bottom-right quadrant anchors the top-left corner.
	e.handle(press(geometry.Point{X: 390, Y: 290}, altShift()))
	e.handle(moveTo(geometry.Point{X: 440, Y: 320}))

	got := fb.windows[1].bounds
	want := geometry.Rect{X: 100, Y: 100, Width: 350, Height: 230}
	if got != want {
		t.Errorf("resized bounds = %v, want %v", got, want)
	}
}

func TestRightButtonDragResizes(t *testing.T) {
	e, fb, _ := newTestEngine(t, nil)
	fb.addWindow(1, fakeWindow{bounds: geometry.Rect{X: 100, Y: 100, Width: 300, Height: 200}, pid: 42, process: "editor"})

	e.handle(rightPress(geometry.Point{X: 390, Y: 290}, altShift()))
	if !e.GestureActive() {
		t.Fatal("right press with the resize combo should start a gesture")
	}
	e.handle(moveTo(geometry.Point{X: 440, Y: 320}))

	got := fb.windows[1].bounds
	want := geometry.Rect{X: 100, Y: 100, Width: 350, Height: 230}
	if got != want {
		t.Errorf("resized bounds = %v, want %v", got, want)
	}

	// The left button releasing does not end a right-button drag.
	e.handle(release(geometry.Point{X: 440, Y: 320}))
	if !e.GestureActive() {
		t.Error("left release ended a right-button gesture")
	}
	e.handle(rightRelease(geometry.Point{X: 440, Y: 320}))
	if e.GestureActive() {
		t.Error("gesture still active after right release")
	}
}

func TestRightButtonNeverMoves(t *testing.T) {
	e, fb, _ := newTestEngine(t, nil)
	fb.addWindow(1, fakeWindow{bounds: geometry.Rect{X: 100, Y: 100, Width: 300, Height: 200}, pid: 42, process: "editor"})

	// Alt alone satisfies only the move combo, which the right button
	// does not trigger.
	e.handle(rightPress(geometry.Point{X: 150, Y: 150}, alt()))
	if e.GestureActive() {
		t.Error("right press with only the move combo should be ignored")
	}
}

func TestExtraModifiersDoNotDisqualify(t *testing.T) {
	e, fb, _ := newTestEngine(t, nil)
	fb.addWindow(1, fakeWindow{bounds: geometry.Rect{X: 100, Y: 100, Width: 300, Height: 200}, pid: 42, process: "editor"})

	e.handle(press(geometry.Point{X: 150, Y: 150}, modifiers.NewSet(modifiers.Alt, modifiers.Ctrl)))
	if !e.GestureActive() {
		t.Error("alt+ctrl should still match the alt move combo")
	}
}

func TestNoModifiersNoGesture(t *testing.T) {
	e, fb, _ := newTestEngine(t, nil)
	fb.addWindow(1, fakeWindow{bounds: geometry.Rect{X: 100, Y: 100, Width: 300, Height: 200}, pid: 42, process: "editor"})

	e.handle(press(geometry.Point{X: 150, Y: 150}, 0))
	if e.GestureActive() {
		t.Error("press without modifiers must not start a gesture")
	}
	e.handle(press(geometry.Point{X: 150, Y: 150}, modifiers.NewSet(modifiers.Shift)))
	if e.GestureActive() {
		t.Error("shift alone matches neither combo")
	}
}

func TestPressOnEmptyDesktopIgnored(t *testing.T) {
	e, _, _ := newTestEngine(t, nil)
	e.handle(press(geometry.Point{X: 500, Y: 500}, alt()))
	if e.GestureActive() {
		t.Error("press over no window must not start a gesture")
	}
}

func TestSecondPressIgnoredDuringGesture(t *testing.T) {
	e, fb, _ := newTestEngine(t, nil)
	fb.addWindow(1, fakeWindow{bounds: geometry.Rect{X: 100, Y: 100, Width: 300, Height: 200}, pid: 42, process: "editor"})
	fb.addWindow(2, fakeWindow{bounds: geometry.Rect{X: 600, Y: 100, Width: 300, Height: 200}, pid: 43, process: "browser"})

	e.handle(press(geometry.Point{X: 150, Y: 150}, alt()))
	e.handle(press(geometry.Point{X: 650, Y: 150}, alt()))
	e.handle(moveTo(geometry.Point{X: 200, Y: 150}))

	if fb.windows[2].bounds.X != 600 {
		t.Error("second press must not retarget the active gesture")
	}
	if fb.windows[1].bounds.X != 150 {
		t.Errorf("first window did not follow the drag: %v", fb.windows[1].bounds)
	}
}

func TestWindowGoneAbortsGesture(t *testing.T) {
	e, fb, _ := newTestEngine(t, nil)
	fb.addWindow(1, fakeWindow{bounds: geometry.Rect{X: 100, Y: 100, Width: 300, Height: 200}, pid: 42, process: "editor"})

	e.handle(press(geometry.Point{X: 150, Y: 150}, alt()))
	fb.windows[1].gone = true
	e.handle(moveTo(geometry.Point{X: 300, Y: 150}))

	if e.GestureActive() {
		t.Error("gesture must abort when the window vanishes")
	}
}

func TestProcessFilter(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FilterMode = config.FilterBlacklist
	cfg.FilterList = []string{"locked.exe"}

	e, fb, _ := newTestEngine(t, cfg)
	fb.addWindow(1, fakeWindow{bounds: geometry.Rect{X: 100, Y: 100, Width: 300, Height: 200}, pid: 42, process: "Locked.exe"})

	e.handle(press(geometry.Point{X: 150, Y: 150}, alt()))
	if e.GestureActive() {
		t.Error("blacklisted process must be rejected, case-insensitively")
	}
}

func TestOwnWindowsRejected(t *testing.T) {
	e, fb, _ := newTestEngine(t, nil)
	fb.addWindow(1, fakeWindow{bounds: geometry.Rect{X: 100, Y: 100, Width: 300, Height: 200}, pid: os.Getpid(), process: "glide"})

	e.handle(press(geometry.Point{X: 150, Y: 150}, alt()))
	if e.GestureActive() {
		t.Error("the daemon's own windows must never be grabbed")
	}
}

func TestForegroundOnlyPolicy(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AllowNonForeground = false

	e, fb, _ := newTestEngine(t, cfg)
	fb.addWindow(1, fakeWindow{bounds: geometry.Rect{X: 100, Y: 100, Width: 300, Height: 200}, pid: 42, process: "editor"})
	fb.active = 2

	e.handle(press(geometry.Point{X: 150, Y: 150}, alt()))
	if e.GestureActive() {
		t.Error("non-foreground window must be rejected under the policy")
	}

	fb.active = 1
	e.handle(press(geometry.Point{X: 150, Y: 150}, alt()))
	if !e.GestureActive() {
		t.Error("foreground window should be grabbable")
	}
}

func TestMaximizedMoveRestoresUnderCursor(t *testing.T) {
	e, fb, _ := newTestEngine(t, nil)
	fb.addWindow(1, fakeWindow{
		bounds:    geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
		restored:  geometry.Rect{X: 200, Y: 200, Width: 800, Height: 600},
		maximized: true,
		pid:       42, process: "editor",
	})

	// Cursor at the horizontal midpoint, 10px below the top edge.
	e.handle(press(geometry.Point{X: 960, Y: 10}, alt()))

	if fb.restores != 1 {
		t.Fatalf("restores = %d, want 1", fb.restores)
	}
	got := fb.windows[1].bounds
	want := geometry.Rect{X: 960 - 400, Y: 0, Width: 800, Height: 600}
	if got != want {
		t.Errorf("restored bounds = %v, want %v", got, want)
	}
	if !e.GestureActive() {
		t.Error("drag should continue from the restored frame")
	}
}

func TestMaximizedResizeRejected(t *testing.T) {
	e, fb, _ := newTestEngine(t, nil)
	fb.addWindow(1, fakeWindow{
		bounds:    geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
		maximized: true,
		pid:       42, process: "editor",
	})

	e.handle(press(geometry.Point{X: 500, Y: 500}, altShift()))
	if e.GestureActive() || fb.restores != 0 {
		t.Error("resize on a maximized window must be a no-op")
	}
}

func TestMaximizedMoveRejectedWhenRestoreDisabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RestoreMaximized = false

	e, fb, _ := newTestEngine(t, cfg)
	fb.addWindow(1, fakeWindow{
		bounds:    geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
		maximized: true,
		pid:       42, process: "editor",
	})

	e.handle(press(geometry.Point{X: 500, Y: 500}, alt()))
	if e.GestureActive() || fb.restores != 0 {
		t.Error("maximized window must stay put when restore is disabled")
	}
}

func TestSnapToWorkAreaEdge(t *testing.T) {
	e, fb, _ := newTestEngine(t, nil)
	fb.addWindow(1, fakeWindow{bounds: geometry.Rect{X: 100, Y: 100, Width: 300, Height: 200}, pid: 42, process: "editor"})

	// Drag left to x=12: within the 20px default threshold of the work
	// area's left edge, so the window lands exactly at x=0.
	e.handle(press(geometry.Point{X: 150, Y: 150}, alt()))
	e.handle(moveTo(geometry.Point{X: 62, Y: 150}))

	if got := fb.windows[1].bounds.X; got != 0 {
		t.Errorf("x = %d, want snap to 0", got)
	}
}

func TestSnapToOtherWindowEdge(t *testing.T) {
	e, fb, _ := newTestEngine(t, nil)
	fb.addWindow(1, fakeWindow{bounds: geometry.Rect{X: 100, Y: 100, Width: 300, Height: 200}, pid: 42, process: "editor"})
	fb.addWindow(2, fakeWindow{bounds: geometry.Rect{X: 600, Y: 100, Width: 300, Height: 200}, pid: 43, process: "browser"})

	// Dragged right edge would land at 595, 5px short of window 2's
	// left edge at 600.
	e.handle(press(geometry.Point{X: 150, Y: 150}, alt()))
	e.handle(moveTo(geometry.Point{X: 345, Y: 150}))

	if got := fb.windows[1].bounds.Right(); got != 600 {
		t.Errorf("right edge = %d, want snap to 600", got)
	}
}

func TestSnapDisabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SnapEnabled = false

	e, fb, _ := newTestEngine(t, cfg)
	fb.addWindow(1, fakeWindow{bounds: geometry.Rect{X: 100, Y: 100, Width: 300, Height: 200}, pid: 42, process: "editor"})

	e.handle(press(geometry.Point{X: 150, Y: 150}, alt()))
	e.handle(moveTo(geometry.Point{X: 62, Y: 150}))

	if got := fb.windows[1].bounds.X; got != 12 {
		t.Errorf("x = %d, want 12 with snapping off", got)
	}
}

func TestWheelOpacity(t *testing.T) {
	e, fb, _ := newTestEngine(t, nil)
	fb.addWindow(1, fakeWindow{bounds: geometry.Rect{X: 100, Y: 100, Width: 300, Height: 200}, pid: 42, process: "editor"})

	wheel := func(delta int) {
		e.handle(hook.Event{Kind: hook.Wheel, Pos: geometry.Point{X: 150, Y: 150}, WheelDelta: delta, Mods: alt()})
	}

	wheel(-1)
	if got := fb.opacities[1]; got != 95 {
		t.Errorf("opacity after one step down = %d, want 95", got)
	}

	// Clamp at the floor.
	for i := 0; i < 30; i++ {
		wheel(-1)
	}
	if got := fb.opacities[1]; got != config.DefaultOpacityFloor {
		t.Errorf("opacity floor = %d, want %d", got, config.DefaultOpacityFloor)
	}

	// Clamp at fully opaque.
	for i := 0; i < 30; i++ {
		wheel(1)
	}
	if got := fb.opacities[1]; got != 100 {
		t.Errorf("opacity ceiling = %d, want 100", got)
	}
}

func TestWheelDuringDragTargetsSessionWindow(t *testing.T) {
	e, fb, _ := newTestEngine(t, nil)
	fb.addWindow(1, fakeWindow{bounds: geometry.Rect{X: 100, Y: 100, Width: 300, Height: 200}, pid: 42, process: "editor"})
	fb.addWindow(2, fakeWindow{bounds: geometry.Rect{X: 600, Y: 100, Width: 300, Height: 200}, pid: 43, process: "browser"})

	e.handle(press(geometry.Point{X: 150, Y: 150}, alt()))
	// Cursor now over window 2, but the session window takes the wheel.
	e.handle(hook.Event{Kind: hook.Wheel, Pos: geometry.Point{X: 650, Y: 150}, WheelDelta: -1, Mods: alt()})

	if _, ok := fb.opacities[2]; ok {
		t.Error("wheel during drag must not touch the hovered window")
	}
	if got := fb.opacities[1]; got != 95 {
		t.Errorf("session window opacity = %d, want 95", got)
	}
}

func TestMiddleClickTogglesTopmost(t *testing.T) {
	e, fb, _ := newTestEngine(t, nil)
	fb.addWindow(1, fakeWindow{bounds: geometry.Rect{X: 100, Y: 100, Width: 300, Height: 200}, pid: 42, process: "editor"})

	click := func() {
		e.handle(hook.Event{Kind: hook.ButtonDown, Button: hook.ButtonMiddle, Pos: geometry.Point{X: 150, Y: 150}, Mods: alt()})
	}

	click()
	if !fb.topmost[1] {
		t.Fatal("middle click should set topmost")
	}
	click()
	if fb.topmost[1] {
		t.Error("second middle click should clear topmost")
	}
}

func TestRaiseOnGrab(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RaiseOnGrab = true

	e, fb, _ := newTestEngine(t, cfg)
	fb.addWindow(1, fakeWindow{bounds: geometry.Rect{X: 100, Y: 100, Width: 300, Height: 200}, pid: 42, process: "editor"})

	e.handle(press(geometry.Point{X: 150, Y: 150}, alt()))
	if len(fb.raised) != 1 || fb.raised[0] != 1 {
		t.Errorf("raised = %v, want [1]", fb.raised)
	}
}

func TestSessionConfigFrozen(t *testing.T) {
	e, fb, _ := newTestEngine(t, nil)
	fb.addWindow(1, fakeWindow{bounds: geometry.Rect{X: 100, Y: 100, Width: 300, Height: 200}, pid: 42, process: "editor"})

	e.handle(press(geometry.Point{X: 150, Y: 150}, alt()))

	// A config replacement mid-drag must not change the active snap
	// behavior.
	next := config.DefaultConfig()
	next.SnapEnabled = false
	if err := e.ApplyConfig(next); err != nil {
		t.Fatalf("ApplyConfig failed: %v", err)
	}

	e.handle(moveTo(geometry.Point{X: 62, Y: 150}))
	if got := fb.windows[1].bounds.X; got != 0 {
		t.Errorf("x = %d, want 0 from the frozen snap context", got)
	}
}

func TestSetEnabledIdempotent(t *testing.T) {
	e, _, fs := newTestEngine(t, nil)

	if err := e.SetEnabled(true); err != nil {
		t.Fatalf("repeated enable: %v", err)
	}
	if err := e.SetEnabled(false); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if err := e.SetEnabled(false); err != nil {
		t.Fatalf("repeated disable: %v", err)
	}
	if fs.installed {
		t.Error("hook should be uninstalled")
	}
}

func TestDisableAbortsGesture(t *testing.T) {
	e, fb, _ := newTestEngine(t, nil)
	fb.addWindow(1, fakeWindow{bounds: geometry.Rect{X: 100, Y: 100, Width: 300, Height: 200}, pid: 42, process: "editor"})

	e.handle(press(geometry.Point{X: 150, Y: 150}, alt()))
	if err := e.SetEnabled(false); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if e.GestureActive() {
		t.Error("disabling must abort the active gesture")
	}
}

func TestApplyConfigRebinds(t *testing.T) {
	e, _, fs := newTestEngine(t, nil)

	next := config.DefaultConfig()
	next.MoveModifier = "win"
	if err := e.ApplyConfig(next); err != nil {
		t.Fatalf("ApplyConfig failed: %v", err)
	}
	if fs.rebinds != 1 {
		t.Errorf("rebinds = %d, want 1", fs.rebinds)
	}
	if !fs.bindings.Move.Has(modifiers.Win) {
		t.Error("new move combo not propagated to the hook")
	}
}

func TestApplyConfigTogglesHook(t *testing.T) {
	e, _, fs := newTestEngine(t, nil)

	next := config.DefaultConfig()
	next.Enabled = false
	if err := e.ApplyConfig(next); err != nil {
		t.Fatalf("ApplyConfig failed: %v", err)
	}
	if fs.installed {
		t.Error("hook should be removed when the config disables the feature")
	}

	again := config.DefaultConfig()
	if err := e.ApplyConfig(again); err != nil {
		t.Fatalf("ApplyConfig failed: %v", err)
	}
	if !fs.installed {
		t.Error("hook should be reinstalled when the config re-enables")
	}
}

func TestStopRestoresOpacity(t *testing.T) {
	e, fb, fs := newTestEngine(t, nil)
	fb.addWindow(1, fakeWindow{bounds: geometry.Rect{X: 100, Y: 100, Width: 300, Height: 200}, pid: 42, process: "editor"})

	if err := e.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	e.handle(hook.Event{Kind: hook.Wheel, Pos: geometry.Point{X: 150, Y: 150}, WheelDelta: -2, Mods: alt()})
	if got := fb.opacities[1]; got != 90 {
		t.Fatalf("opacity = %d, want 90", got)
	}

	e.Stop()
	if got := fb.opacities[1]; got != 100 {
		t.Errorf("opacity after shutdown = %d, want 100", got)
	}
	if fs.installed {
		t.Error("hook should be gone after shutdown")
	}
}

func TestEventsIgnoredWhileDisabled(t *testing.T) {
	e, fb, _ := newTestEngine(t, nil)
	fb.addWindow(1, fakeWindow{bounds: geometry.Rect{X: 100, Y: 100, Width: 300, Height: 200}, pid: 42, process: "editor"})

	if err := e.SetEnabled(false); err != nil {
		t.Fatalf("disable: %v", err)
	}
	e.handle(press(geometry.Point{X: 150, Y: 150}, alt()))
	if e.GestureActive() {
		t.Error("disabled engine must ignore stray events")
	}
}
