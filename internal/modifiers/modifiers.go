// Package modifiers tracks the logical modifier keys used to qualify
// drag gestures. Left and right variants of a physical key collapse to
// one logical key.
package modifiers

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Key is a logical modifier key.
type Key uint8

const (
	Alt Key = 1 << iota
	Ctrl
	Shift
	Win
)

func (k Key) String() string {
	switch k {
	case Alt:
		return "alt"
	case Ctrl:
		return "ctrl"
	case Shift:
		return "shift"
	case Win:
		return "win"
	}
	return fmt.Sprintf("modifiers.Key(%d)", uint8(k))
}

// ParseKey maps a config string to a Key. Accepted names are alt,
// ctrl, shift and win (case-insensitive, "super" aliases win).
func ParseKey(s string) (Key, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "alt":
		return Alt, nil
	case "ctrl", "control":
		return Ctrl, nil
	case "shift":
		return Shift, nil
	case "win", "super":
		return Win, nil
	}
	return 0, fmt.Errorf("unknown modifier %q", s)
}

// Set is a combination of modifier keys.
type Set uint8

// NewSet builds a Set from individual keys.
func NewSet(keys ...Key) Set {
	var s Set
	for _, k := range keys {
		s |= Set(k)
	}
	return s
}

func (s Set) With(k Key) Set    { return s | Set(k) }
func (s Set) Has(k Key) bool    { return s&Set(k) != 0 }
func (s Set) IsEmpty() bool     { return s == 0 }
func (s Set) Contains(o Set) bool { return s&o == o }

func (s Set) String() string {
	if s == 0 {
		return "none"
	}
	var parts []string
	for _, k := range []Key{Ctrl, Alt, Shift, Win} {
		if s.Has(k) {
			parts = append(parts, k.String())
		}
	}
	return strings.Join(parts, "+")
}

// Tracker holds the live modifier state. The hook thread writes it,
// the dispatcher reads it, so all access goes through one atomic word.
type Tracker struct {
	state atomic.Uint32
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Press records a key going down.
func (t *Tracker) Press(k Key) {
	for {
		old := t.state.Load()
		if t.state.CompareAndSwap(old, old|uint32(k)) {
			return
		}
	}
}

// Release records a key going up.
func (t *Tracker) Release(k Key) {
	for {
		old := t.state.Load()
		if t.state.CompareAndSwap(old, old&^uint32(k)) {
			return
		}
	}
}

// Snapshot returns the currently held set.
func (t *Tracker) Snapshot() Set {
	return Set(t.state.Load())
}

// Reset clears all held keys. Called when the hook is uninstalled or
// input focus is lost, since the matching key-up events will never
// arrive.
func (t *Tracker) Reset() {
	t.state.Store(0)
}
