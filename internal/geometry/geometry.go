package geometry

import (
	"math"

	"sketchsync/internal/shape"
)

// Rect is an axis-aligned box in world space. Width and Height may be
// negative when the box preserves drag direction; Normalized folds the
// sign into X,Y.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NormalizeRect builds the rectangle spanned by two opposite corners,
// with non-negative dimensions and X,Y at the min corner.
func NormalizeRect(x1, y1, x2, y2 float64) Rect {
	return Rect{
		X:      math.Min(x1, x2),
		Y:      math.Min(y1, y2),
		Width:  math.Abs(x2 - x1),
		Height: math.Abs(y2 - y1),
	}
}

// Normalized returns the same box with non-negative dimensions.
func (r Rect) Normalized() Rect {
	return NormalizeRect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Bounds returns the left/top/right/bottom edges, accounting for
// negative width or height.
func (r Rect) Bounds() (left, top, right, bottom float64) {
	left, right = r.X, r.X+r.Width
	if r.Width < 0 {
		left, right = right, left
	}
	top, bottom = r.Y, r.Y+r.Height
	if r.Height < 0 {
		top, bottom = bottom, top
	}
	return left, top, right, bottom
}

// Contains reports whether the world point lies inside the box.
func (r Rect) Contains(x, y float64) bool {
	left, top, right, bottom := r.Bounds()
	return x >= left && x <= right && y >= top && y <= bottom
}

// BoundingBox derives a shape's box purely from its own fields. Pen and
// text shapes have no box-backed resize support and return ok=false;
// callers must special-case them.
func BoundingBox(s shape.Shape) (Rect, bool) {
	switch s.Type {
	case shape.ToolRectangle, shape.ToolDiamond, shape.ToolSelection:
		return Rect{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}, true
	case shape.ToolEllipse:
		return Rect{X: s.X, Y: s.Y, Width: s.RadiusX * 2, Height: s.RadiusY * 2}, true
	case shape.ToolLine, shape.ToolArrow:
		return Rect{
			X:      math.Min(s.X, s.X+s.DX),
			Y:      math.Min(s.Y, s.Y+s.DY),
			Width:  math.Abs(s.DX),
			Height: math.Abs(s.DY),
		}, true
	default:
		return Rect{}, false
	}
}

// selectionPadding is the gap between a selected shape and its drawn
// selection border.
const selectionPadding = 4

// SelectionBorder returns the normalized border rectangle drawn around a
// selected shape's box. Corner handles sit on this rectangle's corners.
func SelectionBorder(box Rect) Rect {
	left, top, right, bottom := box.Bounds()
	return NormalizeRect(left-selectionPadding, top-selectionPadding, right+selectionPadding, bottom+selectionPadding)
}

// HitTest finds the first shape in z-order (oldest first) whose bounding
// box contains the world point. Freehand strokes are never hit.
func HitTest(shapes []shape.Shape, x, y float64) (shape.Shape, bool) {
	for _, s := range shapes {
		if s.Type == shape.ToolPen {
			continue
		}
		box, ok := BoundingBox(s)
		if !ok {
			continue
		}
		if box.Contains(x, y) {
			return s, true
		}
	}
	return shape.Shape{}, false
}
