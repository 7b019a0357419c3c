// Package engine turns intercepted input into window transforms: it
// classifies gestures against the live config, owns the single drag
// session, and applies geometry through the platform backend.
package engine

import (
	"errors"
	"log"
	"sync"

	"github.com/WKDev/Glide/internal/config"
	"github.com/WKDev/Glide/internal/geometry"
	"github.com/WKDev/Glide/internal/hook"
	"github.com/WKDev/Glide/internal/platform"
)

// eventBuffer sizes the hook-to-engine channel. The hook drops events
// when it fills; mouse moves are coalesced on the way out so it only
// fills under pathological load.
const eventBuffer = 1024

// Action is what a gesture does to its window.
type Action uint8

const (
	ActionMove Action = iota
	ActionResize
)

func (a Action) String() string {
	if a == ActionResize {
		return "resize"
	}
	return "move"
}

// session is one live drag. Its config is frozen at gesture start so a
// concurrent config replacement cannot change behavior mid-drag.
type session struct {
	action Action
	window platform.WindowID
	button hook.Button
	start  geometry.Point
	origin geometry.Rect
	corner geometry.Corner
	cfg    *config.Config
	snap   geometry.SnapContext
	last   geometry.Rect
}

// Engine dispatches hook events. All mutable state is guarded by mu;
// the dispatcher goroutine and the IPC-facing methods share it.
type Engine struct {
	backend platform.Backend
	source  hook.Source
	store   *config.Store

	events chan hook.Event
	quit   chan struct{}
	wg     sync.WaitGroup

	mu      sync.Mutex
	enabled bool
	sess    *session
	// opacity remembers per-window levels for the daemon's lifetime.
	opacity map[platform.WindowID]int
}

func New(backend platform.Backend, source hook.Source, store *config.Store) *Engine {
	return &Engine{
		backend: backend,
		source:  source,
		store:   store,
		events:  make(chan hook.Event, eventBuffer),
		quit:    make(chan struct{}),
		opacity: make(map[platform.WindowID]int),
	}
}

// Start launches the dispatcher goroutine and installs the hook when
// the loaded config asks for it. A hook install failure is logged and
// reported but does not prevent startup; the daemon stays up with the
// feature off.
func (e *Engine) Start() error {
	e.wg.Add(1)
	go e.run()

	if e.store.Current().Enabled {
		if err := e.SetEnabled(true); err != nil {
			return err
		}
	}
	return nil
}

// Stop aborts any gesture, uninstalls the hook and restores every
// window the opacity controller touched.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.sess = nil
	if e.enabled {
		if err := e.source.Uninstall(); err != nil {
			log.Printf("hook uninstall: %v", err)
		}
		e.enabled = false
	}
	for id, pct := range e.opacity {
		if pct < 100 {
			e.backend.SetOpacity(id, 100)
		}
	}
	e.opacity = make(map[platform.WindowID]int)
	e.mu.Unlock()

	close(e.quit)
	e.wg.Wait()
}

// SetEnabled installs or uninstalls the hook. Idempotent.
func (e *Engine) SetEnabled(enabled bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if enabled == e.enabled {
		return nil
	}
	if enabled {
		if err := e.source.Install(e.events, bindingsFor(e.store.Current())); err != nil {
			return err
		}
		e.enabled = true
		log.Println("input hook installed")
		return nil
	}

	// Disabling aborts a gesture in flight; the window keeps its most
	// recently applied geometry.
	e.sess = nil
	if err := e.source.Uninstall(); err != nil && !errors.Is(err, hook.ErrNotInstalled) {
		return err
	}
	e.enabled = false
	log.Println("input hook removed")
	return nil
}

// ApplyConfig publishes a validated snapshot and reconciles the hook:
// bindings are rebound and the enabled state follows the new config.
// The active session, if any, keeps its frozen copy.
func (e *Engine) ApplyConfig(cfg *config.Config) error {
	e.store.Replace(cfg)

	e.mu.Lock()
	enabled := e.enabled
	e.mu.Unlock()

	if enabled && cfg.Enabled {
		if err := e.source.Rebind(bindingsFor(cfg)); err != nil {
			return err
		}
		return nil
	}
	return e.SetEnabled(cfg.Enabled)
}

func (e *Engine) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}

// GestureActive reports whether a drag session is in flight.
func (e *Engine) GestureActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess != nil
}

func bindingsFor(cfg *config.Config) hook.Bindings {
	return hook.Bindings{
		Move:   cfg.MoveModifiers(),
		Resize: cfg.ResizeModifiers(),
		Wheel:  cfg.ScrollOpacity,
		Middle: cfg.MiddleClickTopmost,
	}
}

// run is the dispatcher loop. Stale mouse moves are coalesced: only
// the most recent pending position is applied, so a burst of input
// never queues up transforms behind slow window-system calls.
func (e *Engine) run() {
	defer e.wg.Done()
	for {
		select {
		case <-e.quit:
			return
		case ev := <-e.events:
			for ev.Kind == hook.Move {
				select {
				case next := <-e.events:
					if next.Kind == hook.Move {
						ev = next
						continue
					}
					e.dispatch(ev)
					ev = next
				default:
				}
				break
			}
			e.dispatch(ev)
		}
	}
}

// dispatch isolates event handling: a panic in a handler must never
// take down the dispatcher while the hook is live.
func (e *Engine) dispatch(ev hook.Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("recovered from panic handling %v: %v", ev.Kind, r)
			e.mu.Lock()
			e.sess = nil
			e.mu.Unlock()
		}
	}()
	e.handle(ev)
}

func (e *Engine) handle(ev hook.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.enabled {
		return
	}

	switch ev.Kind {
	case hook.ButtonDown:
		e.handleButtonDown(ev)
	case hook.Move:
		e.handleMove(ev)
	case hook.ButtonUp:
		e.handleButtonUp(ev)
	case hook.Wheel:
		e.handleWheel(ev)
	}
}

func (e *Engine) handleButtonDown(ev hook.Event) {
	// At most one session; a second qualifying press is ignored.
	if e.sess != nil {
		return
	}

	cfg := e.store.Current()

	if ev.Button == hook.ButtonMiddle {
		if !cfg.MiddleClickTopmost || !ev.Mods.Contains(cfg.MoveModifiers()) {
			return
		}
		if win, ok := e.resolveTarget(ev.Pos, cfg); ok {
			if err := e.backend.ToggleTopmost(win); err != nil {
				log.Printf("toggle topmost: %v", err)
			}
		}
		return
	}
	// Resize is checked first: its combo is a superset of the move
	// combo in the default config, and extra held modifiers never
	// disqualify a gesture. A right-button drag only ever resizes.
	var action Action
	switch ev.Button {
	case hook.ButtonLeft:
		switch {
		case ev.Mods.Contains(cfg.ResizeModifiers()):
			action = ActionResize
		case ev.Mods.Contains(cfg.MoveModifiers()):
			action = ActionMove
		default:
			return
		}
	case hook.ButtonRight:
		if !ev.Mods.Contains(cfg.ResizeModifiers()) {
			return
		}
		action = ActionResize
	default:
		return
	}

	win, ok := e.resolveTarget(ev.Pos, cfg)
	if !ok {
		return
	}

	origin, ok := e.prepareWindow(win, action, ev.Pos, cfg)
	if !ok {
		return
	}

	if cfg.RaiseOnGrab {
		if err := e.backend.Raise(win); err != nil {
			log.Printf("raise on grab: %v", err)
		}
	}

	e.sess = &session{
		action: action,
		window: win,
		button: ev.Button,
		start:  ev.Pos,
		origin: origin,
		corner: geometry.NearestCorner(origin, ev.Pos),
		cfg:    cfg.Clone(),
		snap:   e.snapContext(win, ev.Pos, cfg),
		last:   origin,
	}
}

func (e *Engine) handleMove(ev hook.Event) {
	s := e.sess
	if s == nil {
		return
	}

	dx := ev.Pos.X - s.start.X
	dy := ev.Pos.Y - s.start.Y

	var rect geometry.Rect
	if s.action == ActionResize {
		rect = geometry.ResizeRect(s.origin, s.corner, dx, dy)
		rect = s.snap.SnapResize(rect, s.corner)
	} else {
		rect = geometry.MoveRect(s.origin, dx, dy)
		rect = s.snap.SnapMove(rect)
	}

	if rect == s.last {
		return
	}
	if err := e.backend.MoveResize(s.window, rect); err != nil {
		if errors.Is(err, platform.ErrWindowGone) {
			// Target vanished mid-drag: abort silently, no final commit.
			e.sess = nil
			return
		}
		log.Printf("%s window %d: %v", s.action, s.window, err)
		return
	}
	s.last = rect
}

func (e *Engine) handleButtonUp(ev hook.Event) {
	s := e.sess
	if s == nil || ev.Button != s.button {
		return
	}
	// The last applied rect is the final position; releasing commits it.
	e.sess = nil
}

// handleWheel adjusts window opacity. Stateless with respect to the
// drag session: it works during a drag or on a plain hover.
func (e *Engine) handleWheel(ev hook.Event) {
	cfg := e.store.Current()
	if !cfg.ScrollOpacity {
		return
	}

	var win platform.WindowID
	if s := e.sess; s != nil {
		win = s.window
	} else {
		target, ok := e.resolveTarget(ev.Pos, cfg)
		if !ok {
			return
		}
		win = target
	}

	current, ok := e.opacity[win]
	if !ok {
		current = 100
	}
	next := current + ev.WheelDelta*cfg.OpacityStep
	if next > 100 {
		next = 100
	}
	if next < cfg.OpacityFloor {
		next = cfg.OpacityFloor
	}
	if next == current {
		return
	}
	if err := e.backend.SetOpacity(win, next); err != nil {
		if errors.Is(err, platform.ErrWindowGone) {
			delete(e.opacity, win)
			return
		}
		log.Printf("set opacity window %d: %v", win, err)
		return
	}
	e.opacity[win] = next
}

// resolveTarget hit-tests the point and applies every gate that can
// reject a gesture: no window, foreground policy, own windows, the
// process filter. Misses are silent.
func (e *Engine) resolveTarget(p geometry.Point, cfg *config.Config) (platform.WindowID, bool) {
	win, err := e.backend.WindowAt(p)
	if err != nil {
		log.Printf("window at %d,%d: %v", p.X, p.Y, err)
		return 0, false
	}
	if win == 0 {
		return 0, false
	}

	if !cfg.AllowNonForeground {
		active, err := e.backend.ActiveWindow()
		if err != nil || active != win {
			return 0, false
		}
	}

	if platform.IsOwnProcess(e.backend.WindowPID(win)) {
		return 0, false
	}
	if !cfg.AllowsProcess(e.backend.ProcessName(win)) {
		return 0, false
	}
	return win, true
}

// prepareWindow handles the maximized edge cases and returns the
// origin rect the drag starts from.
func (e *Engine) prepareWindow(win platform.WindowID, action Action, p geometry.Point, cfg *config.Config) (geometry.Rect, bool) {
	maximized, err := e.backend.IsMaximized(win)
	if err != nil {
		return geometry.Rect{}, false
	}

	if maximized {
		// Resizing a maximized window is meaningless; let the WM keep it.
		if action == ActionResize {
			return geometry.Rect{}, false
		}
		if !cfg.RestoreMaximized {
			return geometry.Rect{}, false
		}
		return e.restoreUnderCursor(win, p)
	}

	origin, err := e.backend.WindowRect(win)
	if err != nil {
		return geometry.Rect{}, false
	}
	return origin, true
}

// restoreUnderCursor takes a window out of the maximized state and
// repositions it so the cursor keeps its proportional horizontal
// position over the restored frame, then the drag continues from there.
func (e *Engine) restoreUnderCursor(win platform.WindowID, p geometry.Point) (geometry.Rect, bool) {
	maxRect, err := e.backend.WindowRect(win)
	if err != nil {
		return geometry.Rect{}, false
	}
	if err := e.backend.Restore(win); err != nil {
		return geometry.Rect{}, false
	}
	restored, err := e.backend.WindowRect(win)
	if err != nil {
		return geometry.Rect{}, false
	}

	relX := 0.5
	if maxRect.Width > 0 {
		relX = float64(p.X-maxRect.X) / float64(maxRect.Width)
	}
	offsetY := p.Y - maxRect.Y
	if offsetY > restored.Height {
		offsetY = restored.Height / 2
	}

	origin := geometry.Rect{
		X:      p.X - int(relX*float64(restored.Width)),
		Y:      p.Y - offsetY,
		Width:  restored.Width,
		Height: restored.Height,
	}
	if err := e.backend.MoveResize(win, origin); err != nil {
		return geometry.Rect{}, false
	}
	return origin, true
}

// snapContext captures everything snapping needs once per gesture:
// the work area under the cursor and the rects of the other visible
// windows. No window-system queries happen per mouse move.
func (e *Engine) snapContext(win platform.WindowID, p geometry.Point, cfg *config.Config) geometry.SnapContext {
	if !cfg.SnapEnabled || cfg.SnapThreshold <= 0 {
		return geometry.SnapContext{}
	}

	work, err := e.backend.WorkArea(p)
	if err != nil {
		log.Printf("work area: %v", err)
		return geometry.SnapContext{}
	}

	var others []geometry.Rect
	if wins, err := e.backend.ListWindows(); err == nil {
		for _, w := range wins {
			if w.ID == win {
				continue
			}
			others = append(others, w.Bounds)
		}
	}

	return geometry.SnapContext{
		Work:      work,
		Others:    others,
		Threshold: cfg.SnapThreshold,
	}
}
