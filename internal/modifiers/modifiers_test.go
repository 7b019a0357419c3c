package modifiers

import "testing"

func TestParseKey(t *testing.T) {
	cases := []struct {
		in   string
		want Key
	}{
		{"alt", Alt},
		{"Alt", Alt},
		{" CTRL ", Ctrl},
		{"control", Ctrl},
		{"shift", Shift},
		{"win", Win},
		{"super", Win},
	}
	for _, c := range cases {
		got, err := ParseKey(c.in)
		if err != nil {
			t.Fatalf("ParseKey(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseKey(%q) = %v, want %v", c.in, got, c.want)
		}
	}

	if _, err := ParseKey("hyper"); err == nil {
		t.Fatalf("expected error for unknown modifier")
	}
}

func TestSetContains(t *testing.T) {
	held := NewSet(Alt, Shift)

	if !held.Contains(NewSet(Alt)) {
		t.Fatalf("alt+shift should contain alt")
	}
	if !held.Contains(NewSet(Alt, Shift)) {
		t.Fatalf("alt+shift should contain alt+shift")
	}
	if held.Contains(NewSet(Ctrl)) {
		t.Fatalf("alt+shift should not contain ctrl")
	}
	if NewSet(Alt).Contains(held) {
		t.Fatalf("alt should not contain alt+shift")
	}
}

func TestTrackerPressReleaseReset(t *testing.T) {
	tr := NewTracker()

	tr.Press(Alt)
	tr.Press(Shift)
	if got := tr.Snapshot(); got != NewSet(Alt, Shift) {
		t.Fatalf("expected alt+shift, got %v", got)
	}

	tr.Release(Shift)
	if got := tr.Snapshot(); got != NewSet(Alt) {
		t.Fatalf("expected alt, got %v", got)
	}

	// Releasing a key that is not held is a no-op.
	tr.Release(Ctrl)
	if got := tr.Snapshot(); got != NewSet(Alt) {
		t.Fatalf("expected alt, got %v", got)
	}

	tr.Reset()
	if got := tr.Snapshot(); !got.IsEmpty() {
		t.Fatalf("expected empty set after reset, got %v", got)
	}
}
