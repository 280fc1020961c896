package surface

import (
	"math"

	"sketchsync/internal/freehand"
	"sketchsync/internal/geometry"
	"sketchsync/internal/shape"
)

const (
	arrowHeadLength = 10
	arrowHeadAngle  = math.Pi / 6

	handleSize = 8

	selectionFill = "#3399ff"
	borderColor   = "#465C88"
	penFill       = "#000"
	handleFill    = "#fff"
)

// DrawShape renders one shape onto a surface in world coordinates. The
// caller is responsible for applying the viewport transform first.
func DrawShape(s Surface, sh shape.Shape) {
	switch sh.Type {
	case shape.ToolRectangle:
		drawRoundedRect(s, sh)
	case shape.ToolDiamond:
		drawDiamond(s, sh)
	case shape.ToolEllipse:
		drawEllipse(s, sh)
	case shape.ToolLine:
		drawLine(s, sh, false)
	case shape.ToolArrow:
		drawLine(s, sh, true)
	case shape.ToolPen:
		drawPen(s, sh)
	case shape.ToolText:
		s.FillText(sh.Text, sh.FontSize, sh.Color, sh.X, sh.Y)
	}
}

// drawRoundedRect normalizes a possibly-negative box, clamps the corner
// radius to half the shorter side, and traces the rounded outline.
func drawRoundedRect(s Surface, sh shape.Shape) {
	box := geometry.Rect{X: sh.X, Y: sh.Y, Width: sh.Width, Height: sh.Height}.Normalized()
	r := math.Min(sh.Radius, math.Min(box.Width, box.Height)/2)
	x, y, w, h := box.X, box.Y, box.Width, box.Height

	s.BeginPath()
	s.MoveTo(x+r, y)
	s.LineTo(x+w-r, y)
	s.ArcTo(x+w, y, x+w, y+r, r)
	s.LineTo(x+w, y+h-r)
	s.ArcTo(x+w, y+h, x+w-r, y+h, r)
	s.LineTo(x+r, y+h)
	s.ArcTo(x, y+h, x, y+h-r, r)
	s.LineTo(x, y+r)
	s.ArcTo(x, y, x+r, y, r)
	s.ClosePath()

	s.SetFillStyle(sh.BgColor)
	s.Fill()
	s.SetStrokeStyle(sh.StrokeColor, sh.StrokeWidth, sh.StrokeStyle)
	s.Stroke()
}

// drawDiamond joins the midpoints of the bounding box edges.
func drawDiamond(s Surface, sh shape.Shape) {
	box := geometry.Rect{X: sh.X, Y: sh.Y, Width: sh.Width, Height: sh.Height}.Normalized()
	cx := box.X + box.Width/2
	cy := box.Y + box.Height/2

	s.BeginPath()
	s.MoveTo(cx, box.Y)
	s.LineTo(box.X+box.Width, cy)
	s.LineTo(cx, box.Y+box.Height)
	s.LineTo(box.X, cy)
	s.ClosePath()

	s.SetFillStyle(sh.BgColor)
	s.Fill()
	s.SetStrokeStyle(sh.StrokeColor, sh.StrokeWidth, sh.StrokeStyle)
	s.Stroke()
}

func drawEllipse(s Surface, sh shape.Shape) {
	endAngle := sh.EndAngle
	if endAngle == 0 {
		endAngle = 2 * math.Pi
	}
	s.BeginPath()
	s.Ellipse(sh.X+sh.RadiusX, sh.Y+sh.RadiusY, sh.RadiusX, sh.RadiusY, sh.Rotation, sh.StartAngle, endAngle)
	s.ClosePath()

	s.SetFillStyle(sh.BgColor)
	s.Fill()
	s.SetStrokeStyle(sh.StrokeColor, sh.StrokeWidth, sh.StrokeStyle)
	s.Stroke()
}

func drawLine(s Surface, sh shape.Shape, head bool) {
	endX, endY := sh.X+sh.DX, sh.Y+sh.DY

	s.BeginPath()
	s.MoveTo(sh.X, sh.Y)
	s.LineTo(endX, endY)

	if head {
		angle := math.Atan2(sh.DY, sh.DX)
		s.MoveTo(endX, endY)
		s.LineTo(
			endX-arrowHeadLength*math.Cos(angle-arrowHeadAngle),
			endY-arrowHeadLength*math.Sin(angle-arrowHeadAngle),
		)
		s.MoveTo(endX, endY)
		s.LineTo(
			endX-arrowHeadLength*math.Cos(angle+arrowHeadAngle),
			endY-arrowHeadLength*math.Sin(angle+arrowHeadAngle),
		)
	}

	s.SetStrokeStyle(sh.StrokeColor, sh.StrokeWidth, sh.StrokeStyle)
	s.Stroke()
}

// drawPen fills the smoothed closed outline as a single solid region;
// freehand strokes are never stroked.
func drawPen(s Surface, sh shape.Shape) {
	outline := freehand.Outline(sh.Points, freehand.PenOptions())
	if len(outline) < 4 {
		return
	}

	s.BeginPath()
	s.MoveTo(outline[0].X, outline[0].Y)
	last := len(outline) - 1
	for i, p := range outline {
		var next freehand.Vec
		if i == last {
			next = outline[0]
		} else {
			next = outline[i+1]
		}
		s.QuadTo(p.X, p.Y, (p.X+next.X)/2, (p.Y+next.Y)/2)
	}
	s.LineTo(outline[0].X, outline[0].Y)
	s.ClosePath()

	s.SetFillStyle(penFill)
	s.Fill()
}

// DrawSelectionOverlay renders the transient drag-selection rectangle.
func DrawSelectionOverlay(s Surface, r geometry.Rect) {
	s.Save()
	s.SetFillStyle(selectionFill)
	s.BeginPath()
	s.MoveTo(r.X, r.Y)
	s.LineTo(r.X+r.Width, r.Y)
	s.LineTo(r.X+r.Width, r.Y+r.Height)
	s.LineTo(r.X, r.Y+r.Height)
	s.ClosePath()
	s.Fill()
	s.SetStrokeStyle(selectionFill, 1, 0)
	s.Stroke()
	s.Restore()
}

// DrawSelectionBorder renders the padded border and the four corner
// handles around a selected shape, and returns the border bounds used
// for handle hit-testing.
func DrawSelectionBorder(s Surface, box geometry.Rect) geometry.Rect {
	border := geometry.SelectionBorder(box)

	s.Save()
	s.SetStrokeStyle(borderColor, 1.2, 0)
	strokeRect(s, border)

	corners := [][2]float64{
		{border.X, border.Y},
		{border.X + border.Width, border.Y},
		{border.X, border.Y + border.Height},
		{border.X + border.Width, border.Y + border.Height},
	}
	s.SetFillStyle(handleFill)
	s.SetStrokeStyle(borderColor, 1.5, 0)
	for _, c := range corners {
		half := float64(handleSize) / 2
		r := geometry.Rect{X: c[0] - half, Y: c[1] - half, Width: handleSize, Height: handleSize}
		fillRect(s, r)
		strokeRect(s, r)
	}
	s.Restore()

	return border
}

func strokeRect(s Surface, r geometry.Rect) {
	rectPath(s, r)
	s.Stroke()
}

func fillRect(s Surface, r geometry.Rect) {
	rectPath(s, r)
	s.Fill()
}

func rectPath(s Surface, r geometry.Rect) {
	s.BeginPath()
	s.MoveTo(r.X, r.Y)
	s.LineTo(r.X+r.Width, r.Y)
	s.LineTo(r.X+r.Width, r.Y+r.Height)
	s.LineTo(r.X, r.Y+r.Height)
	s.ClosePath()
}

// DrawAll renders a shape list in z-order with the pan offset applied.
func DrawAll(s Surface, shapes []shape.Shape, panX, panY float64) {
	s.Save()
	s.Translate(panX, panY)
	for _, sh := range shapes {
		DrawShape(s, sh)
	}
	s.Restore()
}
