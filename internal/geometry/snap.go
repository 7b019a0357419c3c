package geometry

// SnapContext holds the boundaries a drag may snap to. It is captured
// once when a gesture starts and never refreshed during the drag, so
// snapping costs no window-system round-trips per mouse move.
type SnapContext struct {
	// Work is the usable desktop area (monitor minus panels/docks).
	Work Rect
	// Others are the rects of the other visible top-level windows.
	Others []Rect
	// Threshold is the snap distance in pixels. Zero disables snapping.
	Threshold int
}

// vertical returns every x coordinate an edge may snap to.
func (c SnapContext) vertical() []int {
	lines := []int{c.Work.X, c.Work.Right()}
	for _, o := range c.Others {
		lines = append(lines, o.X, o.Right())
	}
	return lines
}

// horizontal returns every y coordinate an edge may snap to.
func (c SnapContext) horizontal() []int {
	lines := []int{c.Work.Y, c.Work.Bottom()}
	for _, o := range c.Others {
		lines = append(lines, o.Y, o.Bottom())
	}
	return lines
}

// snapAdjust returns the smallest in-threshold delta that lands one of
// the given edges exactly on a candidate line, or 0 when no candidate
// is close enough.
func snapAdjust(edges []int, lines []int, threshold int) int {
	best := threshold + 1
	for _, e := range edges {
		for _, l := range lines {
			d := l - e
			if abs(d) < abs(best) {
				best = d
			}
		}
	}
	if abs(best) > threshold {
		return 0
	}
	return best
}

// SnapMove adjusts a translated rect so that an edge within the
// threshold of a boundary lands exactly on it. Both edges of an axis
// move together; the nearer one wins.
func (c SnapContext) SnapMove(r Rect) Rect {
	if c.Threshold <= 0 {
		return r
	}
	r.X += snapAdjust([]int{r.X, r.Right()}, c.vertical(), c.Threshold)
	r.Y += snapAdjust([]int{r.Y, r.Bottom()}, c.horizontal(), c.Threshold)
	return r
}

// SnapResize adjusts a resized rect, snapping only the edges the
// dragged corner moves. Each moving edge snaps independently; the
// anchored edges never shift.
func (c SnapContext) SnapResize(r Rect, corner Corner) Rect {
	if c.Threshold <= 0 {
		return r
	}
	left, top, right, bottom := movingEdges(corner)
	vs, hs := c.vertical(), c.horizontal()

	// A snap never shrinks the rect below the minimum size; such
	// candidates are skipped rather than clamped.
	if left {
		d := snapAdjust([]int{r.X}, vs, c.Threshold)
		if r.Width-d >= MinWindowSize {
			r.X += d
			r.Width -= d
		}
	}
	if right {
		d := snapAdjust([]int{r.Right()}, vs, c.Threshold)
		if r.Width+d >= MinWindowSize {
			r.Width += d
		}
	}
	if top {
		d := snapAdjust([]int{r.Y}, hs, c.Threshold)
		if r.Height-d >= MinWindowSize {
			r.Y += d
			r.Height -= d
		}
	}
	if bottom {
		d := snapAdjust([]int{r.Bottom()}, hs, c.Threshold)
		if r.Height+d >= MinWindowSize {
			r.Height += d
		}
	}
	return r
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
