package geometry

import (
	"math"

	"sketchsync/internal/shape"
)

// Corner tags one of the four resize handles on a selection border.
type Corner string

const (
	TopLeft     Corner = "top-left"
	TopRight    Corner = "top-right"
	BottomLeft  Corner = "bottom-left"
	BottomRight Corner = "bottom-right"
)

// HandleTolerance is the per-axis distance within which a pointer grabs
// a corner handle. The check is axis-wise, not Euclidean.
const HandleTolerance = 10

// HandleAt reports which corner handle of a normalized selection border
// the pointer is on. Match priority: top-left, bottom-left, top-right,
// bottom-right.
func HandleAt(border Rect, x, y float64) (Corner, bool) {
	near := func(a, b float64) bool { return math.Abs(a-b) <= HandleTolerance }

	left, top := border.X, border.Y
	right, bottom := border.X+border.Width, border.Y+border.Height

	switch {
	case near(x, left) && near(y, top):
		return TopLeft, true
	case near(x, left) && near(y, bottom):
		return BottomLeft, true
	case near(x, right) && near(y, top):
		return TopRight, true
	case near(x, right) && near(y, bottom):
		return BottomRight, true
	}
	return "", false
}

// resizeBox adjusts the two edges adjacent to the dragged corner so the
// opposite corner's world position stays fixed.
func resizeBox(box Rect, corner Corner, cx, cy float64) Rect {
	switch corner {
	case TopLeft:
		box.Width += box.X - cx
		box.Height += box.Y - cy
		box.X = cx
		box.Y = cy
	case BottomLeft:
		box.Width += box.X - cx
		box.Height = cy - box.Y
		box.X = cx
	case BottomRight:
		box.Width = cx - box.X
		box.Height = cy - box.Y
	case TopRight:
		box.Width = cx - box.X
		box.Height += box.Y - cy
		box.Y = cy
	}
	return box
}

// Resize drags one corner of a shape to the pointer position (cx,cy) in
// world space, anchored on the shape's bounding box as it was when the
// drag began. The new box is written back into the shape's own encoding:
// rectangles and diamonds take it verbatim, ellipses re-normalize it
// before deriving radii, and lines/arrows recompute the endpoint under
// the dragged corner so the other endpoint keeps its world coordinates.
// Pen and text shapes are returned unchanged.
func Resize(s shape.Shape, original Rect, corner Corner, cx, cy float64) shape.Shape {
	box := resizeBox(original, corner, cx, cy)

	switch s.Type {
	case shape.ToolRectangle, shape.ToolDiamond:
		s.X = box.X
		s.Y = box.Y
		s.Width = box.Width
		s.Height = box.Height

	case shape.ToolEllipse:
		norm := box.Normalized()
		s.X = norm.X
		s.Y = norm.Y
		s.RadiusX = norm.Width / 2
		s.RadiusY = norm.Height / 2

	case shape.ToolLine, shape.ToolArrow:
		x1, y1 := box.X, box.Y
		x2, y2 := box.X+box.Width, box.Y+box.Height

		switch corner {
		case TopLeft:
			s.X, s.Y = cx, cy
			s.DX, s.DY = x2-cx, y2-cy
		case BottomRight:
			s.X, s.Y = x1, y1
			s.DX, s.DY = cx-x1, cy-y1
		case TopRight:
			s.X, s.Y = x1, cy
			s.DX, s.DY = cx-x1, y2-cy
		case BottomLeft:
			s.X, s.Y = cx, y1
			s.DX, s.DY = x2-cx, cy-y1
		}
	}
	return s
}
