package freehand

import "math"

// Vec is a 2D vector in world space.
type Vec struct {
	X float64
	Y float64
}

func add(a, b Vec) Vec { return Vec{a.X + b.X, a.Y + b.Y} }
func sub(a, b Vec) Vec { return Vec{a.X - b.X, a.Y - b.Y} }
func mul(a Vec, n float64) Vec {
	return Vec{a.X * n, a.Y * n}
}
func neg(a Vec) Vec { return Vec{-a.X, -a.Y} }

// per rotates a vector a quarter turn clockwise.
func per(a Vec) Vec { return Vec{a.Y, -a.X} }

func dpr(a, b Vec) float64 { return a.X*b.X + a.Y*b.Y }

func length(a Vec) float64 { return math.Hypot(a.X, a.Y) }

func dist(a, b Vec) float64 { return length(sub(a, b)) }

func dist2(a, b Vec) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

// uni normalizes a vector; the zero vector stays zero.
func uni(a Vec) Vec {
	l := length(a)
	if l == 0 {
		return Vec{}
	}
	return Vec{a.X / l, a.Y / l}
}

// lrp interpolates between two vectors.
func lrp(a, b Vec, t float64) Vec {
	return add(a, mul(sub(b, a), t))
}

// prj projects a point out along a unit vector by a distance.
func prj(a, b Vec, d float64) Vec {
	return add(a, mul(b, d))
}

// rotAround rotates a point around a center by r radians.
func rotAround(a, center Vec, r float64) Vec {
	s, c := math.Sin(r), math.Cos(r)
	px, py := a.X-center.X, a.Y-center.Y
	return Vec{
		X: px*c - py*s + center.X,
		Y: px*s + py*c + center.Y,
	}
}
