// Package geometry implements the drag math: translating and resizing
// window rectangles from cursor deltas, and snapping edges to nearby
// boundaries. Everything here is pure; callers own all state.
package geometry

import "fmt"

// MinWindowSize is the smallest width and height a resize may produce.
const MinWindowSize = 100

// Point is a position in virtual screen coordinates.
type Point struct {
	X, Y int
}

// Rect is a window rectangle in virtual screen coordinates.
type Rect struct {
	X, Y          int
	Width, Height int
}

func (r Rect) Right() int  { return r.X + r.Width }
func (r Rect) Bottom() int { return r.Y + r.Height }

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Corner identifies which corner of a rect a resize drags.
type Corner uint8

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

func (c Corner) String() string {
	switch c {
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BottomLeft:
		return "bottom-left"
	case BottomRight:
		return "bottom-right"
	}
	return "corner?"
}

// NearestCorner returns the corner of r closest to p. It decides the
// anchor for a resize gesture: the returned corner follows the cursor
// while the opposite corner stays fixed.
func NearestCorner(r Rect, p Point) Corner {
	right := p.X-r.X > r.Width/2
	bottom := p.Y-r.Y > r.Height/2
	switch {
	case right && bottom:
		return BottomRight
	case right:
		return TopRight
	case bottom:
		return BottomLeft
	}
	return TopLeft
}

// MoveRect translates origin by the cumulative cursor delta.
func MoveRect(origin Rect, dx, dy int) Rect {
	origin.X += dx
	origin.Y += dy
	return origin
}

// ResizeRect moves the given corner of origin by the cumulative cursor
// delta, keeping the opposite corner fixed. Width and height are
// floored at MinWindowSize; the clamp acts on the moving edge so the
// anchor never shifts.
func ResizeRect(origin Rect, corner Corner, dx, dy int) Rect {
	left, top := origin.X, origin.Y
	right, bottom := origin.Right(), origin.Bottom()

	switch corner {
	case TopLeft:
		left += dx
		top += dy
	case TopRight:
		right += dx
		top += dy
	case BottomLeft:
		left += dx
		bottom += dy
	case BottomRight:
		right += dx
		bottom += dy
	}

	if right-left < MinWindowSize {
		if corner == TopLeft || corner == BottomLeft {
			left = right - MinWindowSize
		} else {
			right = left + MinWindowSize
		}
	}
	if bottom-top < MinWindowSize {
		if corner == TopLeft || corner == TopRight {
			top = bottom - MinWindowSize
		} else {
			bottom = top + MinWindowSize
		}
	}

	return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// movingEdges reports which edges of the rect a corner drag moves.
func movingEdges(c Corner) (left, top, right, bottom bool) {
	switch c {
	case TopLeft:
		return true, true, false, false
	case TopRight:
		return false, true, true, false
	case BottomLeft:
		return true, false, false, true
	}
	return false, false, true, true
}
