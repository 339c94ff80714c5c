// Package math provides the small vector and matrix types used by the
// terrain simulation and the 2D renderer.
package math

import "math"

// Vec2 is a 2D vector.
type Vec2 struct {
	X, Y float32
}

// FromPolar returns a vector of the given length pointing at angle radians,
// measured counter-clockwise from +X.
func FromPolar(length, angle float32) Vec2 {
	a := float64(angle)
	return Vec2{length * float32(math.Cos(a)), length * float32(math.Sin(a))}
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return float32(math.Hypot(float64(v.X), float64(v.Y)))
}

// Angle returns the direction of v in radians, in (-Pi, Pi].
func (v Vec2) Angle() float32 {
	return float32(math.Atan2(float64(v.Y), float64(v.X)))
}

// Vec3 lifts v into 3D with a zero Z.
func (v Vec2) Vec3() Vec3 {
	return Vec3{v.X, v.Y, 0}
}
