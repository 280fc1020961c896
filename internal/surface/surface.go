// Package surface abstracts the primitive drawing operations the shape
// layers need, so geometry, stroke and store code stay portable across
// rendering back ends. Implementations translate these calls onto a
// concrete canvas (HTML canvas, raster, SVG, test recorder).
package surface

// Surface is a minimal retained-path drawing target modeled on the 2D
// canvas operations the shapes actually use.
type Surface interface {
	Save()
	Restore()
	Translate(dx, dy float64)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadTo(cx, cy, x, y float64)
	ArcTo(x1, y1, x2, y2, radius float64)
	Ellipse(cx, cy, rx, ry, rotation, startAngle, endAngle float64)
	ClosePath()

	SetStrokeStyle(color string, width, dash float64)
	SetFillStyle(color string)
	Stroke()
	Fill()

	FillText(text, font, color string, x, y float64)
}
