// Package geom provides the 2D vector and angle math used by the battle engine.
package geom

import "math"

// TwoPi is a full turn in radians.
const TwoPi = 2 * math.Pi

// Vec2 is a point or direction in arena space.
type Vec2 struct{ X, Y float64 }

func (a Vec2) Add(b Vec2) Vec2      { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2      { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Len() float64         { return math.Hypot(a.X, a.Y) }

// Dist returns the Euclidean distance between a and b.
func (a Vec2) Dist(b Vec2) float64 { return b.Sub(a).Len() }

// FromAngle returns the unit vector pointing at angle theta.
func FromAngle(theta float64) Vec2 {
	return Vec2{math.Cos(theta), math.Sin(theta)}
}

// Bearing returns the angle of the direction from a to b. Coincident points
// have bearing 0.
func Bearing(from, to Vec2) float64 {
	d := to.Sub(from)
	if d.X == 0 && d.Y == 0 {
		return 0
	}
	return math.Atan2(d.Y, d.X)
}

// NormalizeAngle maps theta into [0, 2π).
func NormalizeAngle(theta float64) float64 {
	if math.IsNaN(theta) || math.IsInf(theta, 0) {
		return 0
	}
	theta = math.Mod(theta, TwoPi)
	if theta < 0 {
		theta += TwoPi
	}
	// math.Mod of a tiny negative value can round up to exactly 2π.
	if theta >= TwoPi {
		theta = 0
	}
	return theta
}

// AngleDiff returns the signed difference to - from, normalized to (-π, π].
func AngleDiff(from, to float64) float64 {
	d := NormalizeAngle(to - from)
	if d > math.Pi {
		d -= TwoPi
	}
	return d
}

// InCone reports whether the bearing from origin to point lies within
// halfAngle of facing. A point on top of the origin has bearing 0, so it is
// inside only cones that cover angle 0.
func InCone(origin Vec2, facing float64, point Vec2, halfAngle float64) bool {
	return math.Abs(AngleDiff(facing, Bearing(origin, point))) <= halfAngle
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
