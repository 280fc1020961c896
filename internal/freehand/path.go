package freehand

import (
	"math"
	"strconv"
	"strings"

	"sketchsync/internal/shape"
)

// Path runs the full pipeline for the pen tool: outline expansion
// followed by path construction. It returns the empty string when the
// stroke produces too little outline to render.
func Path(points []shape.Point, o Options) string {
	return PathFromOutline(Outline(points, o))
}

// PathFromOutline builds a closed smooth path from an outline polygon.
// Each outline point acts as a quadratic control point and the midpoint
// between consecutive points is the on-curve point, so the silhouette
// stays visually smooth while passing near every outline point. Fewer
// than 4 points render nothing. The result is an SVG-style path string:
// a move, a run of quadratics, a line back to the start and a close.
func PathFromOutline(outline []Vec) string {
	if len(outline) < 4 {
		return ""
	}

	var b strings.Builder
	b.WriteString("M ")
	writeVec(&b, outline[0])
	b.WriteString(" Q")

	last := len(outline) - 1
	for i, p := range outline {
		if i == last {
			b.WriteByte(' ')
			writeVec(&b, p)
			b.WriteByte(' ')
			writeVec(&b, midpoint(p, outline[0]))
			b.WriteString(" L ")
			writeVec(&b, outline[0])
			b.WriteString(" Z")
			break
		}
		b.WriteByte(' ')
		writeVec(&b, p)
		b.WriteByte(' ')
		writeVec(&b, midpoint(p, outline[i+1]))
	}
	return b.String()
}

func midpoint(a, b Vec) Vec {
	return Vec{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}

func writeVec(b *strings.Builder, v Vec) {
	b.WriteString(formatCoord(v.X))
	b.WriteByte(',')
	b.WriteString(formatCoord(v.Y))
}

// formatCoord truncates to 2 decimal places without rounding, matching
// the precision the renderer commits to the path.
func formatCoord(v float64) string {
	t := math.Trunc(v*100) / 100
	return strconv.FormatFloat(t, 'f', -1, 64)
}
