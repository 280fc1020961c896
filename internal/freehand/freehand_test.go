package freehand

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketchsync/internal/shape"
)

func samplePoints() []shape.Point {
	pts := make([]shape.Point, 0, 20)
	for i := 0; i < 20; i++ {
		pts = append(pts, shape.Point{X: float64(i * 5), Y: float64(i*i) / 10})
	}
	return pts
}

func TestOutline_EmptyInput(t *testing.T) {
	assert.Nil(t, Outline(nil, PenOptions()))
	assert.Nil(t, Outline([]shape.Point{}, PenOptions()))
}

func TestOutline_ClosedPolygon(t *testing.T) {
	out := Outline(samplePoints(), PenOptions())
	require.Greater(t, len(out), 4)

	// Every outline point stays within a stroke radius of the input's
	// bounding region, loosely bounded.
	for _, p := range out {
		assert.Greater(t, p.X, -10.0)
		assert.Less(t, p.X, 110.0)
	}
}

func TestOutline_SinglePointIsDot(t *testing.T) {
	out := Outline([]shape.Point{{X: 50, Y: 50}}, PenOptions())
	require.NotEmpty(t, out)

	// All dot points sit on a circle around the sample.
	for _, p := range out {
		d := dist(p, Vec{50, 50})
		assert.InDelta(t, dist(out[0], Vec{50, 50}), d, 1e-6)
	}
}

func TestOutline_TwoPointsProducesCappedStroke(t *testing.T) {
	out := Outline([]shape.Point{{X: 0, Y: 0}, {X: 40, Y: 0}}, PenOptions())
	assert.Greater(t, len(out), 10)
}

func TestPathFromOutline_TooFewPoints(t *testing.T) {
	assert.Equal(t, "", PathFromOutline(nil))
	assert.Equal(t, "", PathFromOutline([]Vec{{0, 0}, {1, 1}, {2, 2}}))
}

func TestPathFromOutline_Structure(t *testing.T) {
	path := PathFromOutline([]Vec{{0, 0}, {10, 0}, {10, 10}, {0, 10}})
	assert.True(t, strings.HasPrefix(path, "M 0,0 Q"), path)
	assert.True(t, strings.HasSuffix(path, "L 0,0 Z"), path)
	// Closing segment runs through the midpoint of last and first points.
	assert.Contains(t, path, "0,10 0,5")
}

func TestPath_FullPipeline(t *testing.T) {
	path := Path(samplePoints(), PenOptions())
	require.NotEmpty(t, path)
	assert.True(t, strings.HasPrefix(path, "M "))
	assert.True(t, strings.HasSuffix(path, " Z"))
}

func TestFormatCoord_TruncatesNotRounds(t *testing.T) {
	assert.Equal(t, "1.23", formatCoord(1.239999))
	assert.Equal(t, "1.23", formatCoord(1.23))
	assert.Equal(t, "-4.56", formatCoord(-4.569))
	assert.Equal(t, "7", formatCoord(7.0))
	assert.Equal(t, "0.99", formatCoord(0.999))
}

func TestStreamline_SwallowsLeadingJitter(t *testing.T) {
	// Tiny movements shorter than the stroke size get absorbed until the
	// stroke travels far enough.
	pts := []shape.Point{
		{X: 0, Y: 0},
		{X: 0.1, Y: 0},
		{X: 0.2, Y: 0},
		{X: 0.3, Y: 0},
		{X: 50, Y: 0},
		{X: 100, Y: 0},
	}
	sp := streamline(pts, PenOptions())
	require.NotEmpty(t, sp)
	// The jittery samples collapse: far fewer points survive than went in.
	assert.Less(t, len(sp), len(pts))
}

func TestStrokeRadius_ThinningResponse(t *testing.T) {
	easing := func(t float64) float64 { return t }

	full := strokeRadius(4, 0.5, 1, easing)
	half := strokeRadius(4, 0.5, 0.5, easing)
	none := strokeRadius(4, 0.5, 0, easing)

	assert.InDelta(t, 3.0, full, 1e-9)
	assert.InDelta(t, 2.0, half, 1e-9)
	assert.InDelta(t, 1.0, none, 1e-9)
	assert.Greater(t, full, half)
	assert.Greater(t, half, none)
}

func TestEffectivePressure_Default(t *testing.T) {
	p := shape.Point{X: 1, Y: 2}
	assert.InDelta(t, shape.DefaultPressure, p.EffectivePressure(), 1e-9)

	p.Pressure = 0.8
	assert.InDelta(t, 0.8, p.EffectivePressure(), 1e-9)
}
