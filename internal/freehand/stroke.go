// Package freehand turns noisy pressure-tagged pointer samples into a
// smooth closed outline for ink strokes. The outline algorithm is a
// variable-width expansion of the input polyline: samples are first
// streamlined (temporal smoothing), then each point is pushed out
// perpendicular to the stroke direction by a pressure-dependent radius,
// producing a left edge, an end cap, a reversed right edge and a start
// cap that together form one closed polygon.
package freehand

import (
	"math"

	"sketchsync/internal/shape"
)

// fixedPi is nudged past pi so cap arcs land slightly beyond the half
// turn and the polygon closes without a seam.
const fixedPi = math.Pi + 0.0001

// Options tune the outline expansion.
type Options struct {
	// Size is the full stroke width at maximum pressure.
	Size float64
	// Thinning scales how strongly pressure affects the radius.
	Thinning float64
	// Smoothing merges outline points closer than size*smoothing.
	Smoothing float64
	// Streamline blends each sample toward its predecessor.
	Streamline float64
	// Easing shapes the pressure-to-radius curve.
	Easing func(float64) float64
	// SimulatePressure derives pressure from drawing speed instead of
	// trusting the recorded values.
	SimulatePressure bool
	// Last marks the stroke as complete so the final segment gets a cap.
	Last bool
}

// PenOptions is the configuration the pen tool draws with.
func PenOptions() Options {
	return Options{
		Size:             4,
		Thinning:         0.5,
		Smoothing:        0.5,
		Streamline:       0.5,
		Easing:           func(t float64) float64 { return math.Sin(t * math.Pi / 2) },
		SimulatePressure: true,
		Last:             true,
	}
}

// strokePoint is one streamlined sample with its direction and arc
// length along the stroke.
type strokePoint struct {
	point         Vec
	pressure      float64
	vector        Vec
	distance      float64
	runningLength float64
}

// strokeRadius is the pressure-eased half-width at one point.
func strokeRadius(size, thinning, pressure float64, easing func(float64) float64) float64 {
	return size * easing(0.5-thinning*(0.5-pressure))
}

// streamline resamples the raw input: each point is interpolated toward
// its predecessor, short leading segments are swallowed until the stroke
// reaches a minimum length, and direction vectors are computed.
func streamline(points []shape.Point, o Options) []strokePoint {
	if len(points) == 0 {
		return nil
	}

	t := 0.15 + (1-o.Streamline)*0.85

	pts := make([]Vec, len(points))
	prs := make([]float64, len(points))
	for i, p := range points {
		pts[i] = Vec{p.X, p.Y}
		prs[i] = p.EffectivePressure()
	}

	// A two-point stroke gets interpolated intermediates so the outline
	// has enough material to cap.
	if len(pts) == 2 {
		last := pts[1]
		lastPr := prs[1]
		pts = pts[:1]
		prs = prs[:1]
		for i := 1; i < 5; i++ {
			pts = append(pts, lrp(pts[0], last, float64(i)/4))
			prs = append(prs, lastPr)
		}
	}
	if len(pts) == 1 {
		pts = append(pts, add(pts[0], Vec{1, 1}))
		prs = append(prs, prs[0])
	}

	out := []strokePoint{{
		point:    pts[0],
		pressure: prs[0],
		vector:   Vec{1, 1},
	}}

	var (
		reachedMinLength bool
		runningLength    float64
	)
	prev := out[0]
	max := len(pts) - 1

	for i := 1; i < len(pts); i++ {
		var point Vec
		if o.Last && i == max {
			// The stroke is complete: use the real endpoint.
			point = pts[i]
		} else {
			point = lrp(prev.point, pts[i], t)
		}
		if point == prev.point {
			continue
		}

		distance := dist(point, prev.point)
		runningLength += distance

		// Swallow jitter at the very start of the stroke.
		if i < max && !reachedMinLength {
			if runningLength < o.Size {
				continue
			}
			reachedMinLength = true
		}

		prev = strokePoint{
			point:         point,
			pressure:      prs[i],
			vector:        uni(sub(prev.point, point)),
			distance:      distance,
			runningLength: runningLength,
		}
		out = append(out, prev)
	}

	if len(out) > 1 {
		out[0].vector = out[1].vector
	} else {
		out[0].vector = Vec{}
	}
	return out
}

// Outline produces the closed polygon boundary around a stroke.
func Outline(points []shape.Point, o Options) []Vec {
	sp := streamline(points, o)
	if len(sp) == 0 || o.Size <= 0 {
		return nil
	}

	totalLength := sp[len(sp)-1].runningLength
	minDistance := math.Pow(o.Size*o.Smoothing, 2)

	var leftPts, rightPts []Vec

	// Seed the simulated pressure from the first few samples so the
	// stroke does not start at a spike.
	prevPressure := sp[0].pressure
	for _, p := range sp[:min(10, len(sp))] {
		pressure := p.pressure
		if o.SimulatePressure {
			spd := math.Min(1, p.distance/o.Size)
			rp := math.Min(1, 1-spd)
			pressure = math.Min(1, prevPressure+(rp-prevPressure)*(spd/2))
		}
		prevPressure = (prevPressure + pressure) / 2
	}

	radius := strokeRadius(o.Size, o.Thinning, sp[len(sp)-1].pressure, o.Easing)
	firstRadius := -1.0

	prevVector := sp[0].vector
	pl := sp[0].point
	pr := pl
	tl, tr := pl, pr
	prevIsSharpCorner := false

	for i, p := range sp {
		// Trim points too close to the end; the cap covers them.
		if i < len(sp)-1 && totalLength-p.runningLength < 3 {
			continue
		}

		if o.Thinning != 0 {
			pressure := p.pressure
			if o.SimulatePressure {
				spd := math.Min(1, p.distance/o.Size)
				rp := math.Min(1, 1-spd)
				pressure = math.Min(1, prevPressure+(rp-prevPressure)*(spd/2))
			}
			radius = strokeRadius(o.Size, o.Thinning, pressure, o.Easing)
			prevPressure = pressure
		} else {
			radius = o.Size / 2
		}
		if firstRadius < 0 {
			firstRadius = radius
		}
		radius = math.Max(0.01, radius)

		nextVector := p.vector
		if i < len(sp)-1 {
			nextVector = sp[i+1].vector
		}
		nextDpr := 1.0
		if i < len(sp)-1 {
			nextDpr = dpr(p.vector, nextVector)
		}
		prevDpr := dpr(p.vector, prevVector)

		isSharpCorner := prevDpr < 0 && !prevIsSharpCorner
		nextIsSharpCorner := nextDpr < 0

		// A reversal in direction gets a fan of points around the corner
		// instead of a single offset pair, which would fold the polygon.
		if isSharpCorner || nextIsSharpCorner {
			offset := mul(per(prevVector), radius)
			for t := 0.0; t <= 1; t += 1.0 / 13 {
				tl = rotAround(sub(p.point, offset), p.point, fixedPi*t)
				leftPts = append(leftPts, tl)
				tr = rotAround(add(p.point, offset), p.point, -fixedPi*t)
				rightPts = append(rightPts, tr)
			}
			pl, pr = tl, tr
			if nextIsSharpCorner {
				prevIsSharpCorner = true
			}
			continue
		}
		prevIsSharpCorner = false

		if i == len(sp)-1 {
			offset := mul(per(p.vector), radius)
			leftPts = append(leftPts, sub(p.point, offset))
			rightPts = append(rightPts, add(p.point, offset))
			continue
		}

		offset := mul(per(lrp(p.vector, nextVector, nextDpr)), radius)

		tl = sub(p.point, offset)
		if i <= 1 || dist2(pl, tl) > minDistance {
			leftPts = append(leftPts, tl)
			pl = tl
		}
		tr = add(p.point, offset)
		if i <= 1 || dist2(pr, tr) > minDistance {
			rightPts = append(rightPts, tr)
			pr = tr
		}

		prevVector = p.vector
	}

	firstPoint := sp[0].point
	lastPoint := add(sp[0].point, Vec{1, 1})
	if len(sp) > 1 {
		lastPoint = sp[len(sp)-1].point
	}

	// A single-sample stroke renders as a dot.
	if len(sp) == 1 {
		r := radius
		if firstRadius > 0 {
			r = firstRadius
		}
		start := prj(firstPoint, uni(per(sub(firstPoint, lastPoint))), -r)
		var dot []Vec
		for t := 1.0 / 13; t <= 1; t += 1.0 / 13 {
			dot = append(dot, rotAround(start, firstPoint, fixedPi*2*t))
		}
		return dot
	}

	var startCap, endCap []Vec

	if len(rightPts) > 0 {
		for t := 1.0 / 13; t <= 1; t += 1.0 / 13 {
			startCap = append(startCap, rotAround(rightPts[0], firstPoint, fixedPi*t))
		}
	}

	direction := per(neg(sp[len(sp)-1].vector))
	capStart := prj(lastPoint, direction, radius)
	for t := 1.0 / 29; t < 1; t += 1.0 / 29 {
		endCap = append(endCap, rotAround(capStart, lastPoint, fixedPi*t))
	}

	outline := make([]Vec, 0, len(leftPts)+len(endCap)+len(rightPts)+len(startCap))
	outline = append(outline, leftPts...)
	outline = append(outline, endCap...)
	for i := len(rightPts) - 1; i >= 0; i-- {
		outline = append(outline, rightPts[i])
	}
	outline = append(outline, startCap...)
	return outline
}
