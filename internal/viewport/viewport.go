// Package viewport converts between screen-space pointer coordinates and
// world-space drawing coordinates. A viewport owns the zoom scale and the
// pan offset; shapes themselves are stored in world space and never move
// under pan or zoom.
package viewport

import "math"

const (
	// MinScale and MaxScale clamp the zoom range.
	MinScale = 0.1
	MaxScale = 5.0

	// zoomIntensity is the per-step zoom factor delta.
	zoomIntensity = 0.2
)

// Point is a 2D coordinate, screen or world depending on context.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Viewport holds the transform state for one canvas. Width and Height
// are the visible canvas size in screen pixels, used as the default zoom
// focal point.
type Viewport struct {
	Scale  float64
	Pan    Point
	Width  float64
	Height float64
}

// New returns a viewport at scale 1 with no pan.
func New(width, height float64) *Viewport {
	return &Viewport{Scale: 1, Width: width, Height: height}
}

// ScreenToWorld maps a pointer position, already relative to the canvas
// origin, into world space.
func (v *Viewport) ScreenToWorld(screen Point) Point {
	return Point{
		X: screen.X/v.Scale - v.Pan.X,
		Y: screen.Y/v.Scale - v.Pan.Y,
	}
}

// WorldToScreen is the inverse of ScreenToWorld.
func (v *Viewport) WorldToScreen(world Point) Point {
	return Point{
		X: (world.X + v.Pan.X) * v.Scale,
		Y: (world.Y + v.Pan.Y) * v.Scale,
	}
}

// Zoom steps the scale in or out around a focal point, keeping the world
// point under the focal point stationary on screen. A nil focal point
// zooms around the canvas center. At the scale clamps the step is a
// no-op for the scale but the pan is still re-solved, which leaves it
// unchanged.
func (v *Viewport) Zoom(in bool, focal *Point) {
	factor := 1 - zoomIntensity
	if in {
		factor = 1 + zoomIntensity
	}
	newScale := clamp(v.Scale*factor, MinScale, MaxScale)

	center := Point{X: v.Width / 2, Y: v.Height / 2}
	if focal != nil {
		center = *focal
	}

	// World point currently under the focal point, at the old transform.
	world := v.ScreenToWorld(center)

	v.Pan = Point{
		X: center.X/newScale - world.X,
		Y: center.Y/newScale - world.Y,
	}
	v.Scale = newScale
}

// PanBy shifts the pan offset by a pointer movement measured in screen
// pixels against the previous pointer position.
func (v *Viewport) PanBy(deltaX, deltaY float64) {
	v.Pan.X += deltaX / v.Scale
	v.Pan.Y += deltaY / v.Scale
}

// Reset restores scale 1, keeping the pan offset.
func (v *Viewport) Reset() {
	v.Scale = 1
}

func clamp(x, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, x))
}
