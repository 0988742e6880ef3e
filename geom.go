package chalkfield

import (
	"math"

	"github.com/tanema/gween/ease"
)

// Geometry kernel: stateless pure functions shared by the route generator
// and the play renderer. All inputs are assumed finite.

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Cross returns the 2D cross product (z component) of v and o. Its sign
// tells which side of v the vector o lies on.
func (v Vec2) Cross(o Vec2) float64 { return v.X*o.Y - v.Y*o.X }

// Length returns the Euclidean length of v.
func (v Vec2) Length() float64 { return math.Hypot(v.X, v.Y) }

// Perp returns v rotated 90 degrees counter-clockwise (screen coordinates,
// Y down).
func (v Vec2) Perp() Vec2 { return Vec2{-v.Y, v.X} }

// Normalize returns the unit vector in the direction of v. A zero-length
// input yields the unit X axis rather than NaN.
func Normalize(v Vec2) Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{X: 1, Y: 0}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpVec linearly interpolates between a and b by t, componentwise.
func LerpVec(a, b Vec2, t float64) Vec2 {
	return Vec2{Lerp(a.X, b.X, t), Lerp(a.Y, b.Y, t)}
}

// clamp limits x to [lo, hi].
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// BezierPoint evaluates the cubic Bezier curve defined by p0..p3 at
// t in [0, 1]. BezierPoint(..., 0) is exactly p0 and BezierPoint(..., 1)
// is exactly p3.
func BezierPoint(p0, p1, p2, p3 Vec2, t float64) Vec2 {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	c := 3 * u * t * t
	d := t * t * t
	return Vec2{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// BezierTangent evaluates the derivative of the cubic Bezier curve at t.
// The result is a direction only; callers must normalize before using it
// in angle computation.
func BezierTangent(p0, p1, p2, p3 Vec2, t float64) Vec2 {
	u := 1 - t
	a := 3 * u * u
	b := 6 * u * t
	c := 3 * t * t
	return Vec2{
		X: a*(p1.X-p0.X) + b*(p2.X-p1.X) + c*(p3.X-p2.X),
		Y: a*(p1.Y-p0.Y) + b*(p2.Y-p1.Y) + c*(p3.Y-p2.Y),
	}
}

// EaseOutCubic maps t in [0, 1] through the Penner out-cubic curve
// 1-(1-t)^3. It is monotonic on [0, 1] and drives the route draw-phase
// reveal.
func EaseOutCubic(t float64) float64 {
	return float64(ease.OutCubic(float32(t), 0, 1, 1))
}
