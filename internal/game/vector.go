/*
Package game
File: vector.go
Description:
    2D vector math for system-local and galaxy-map coordinates. Value
    semantics throughout: every operation returns a new Vector2.
*/

package game

import "math"

// Vector2 is a 2D point or direction.
type Vector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + other.
func (v Vector2) Add(other Vector2) Vector2 {
	return Vector2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns v - other.
func (v Vector2) Sub(other Vector2) Vector2 {
	return Vector2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Scale returns v scaled by factor.
func (v Vector2) Scale(factor float64) Vector2 {
	return Vector2{X: v.X * factor, Y: v.Y * factor}
}

// Length returns the magnitude of v.
func (v Vector2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// LengthSquared returns the squared magnitude, avoiding the sqrt when only
// comparisons are needed.
func (v Vector2) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns the unit vector of v, or the zero vector if v is zero.
func (v Vector2) Normalize() Vector2 {
	length := v.Length()
	if length == 0 {
		return Vector2{}
	}
	return Vector2{X: v.X / length, Y: v.Y / length}
}

// Distance returns the distance between v and other.
func (v Vector2) Distance(other Vector2) float64 {
	return v.Sub(other).Length()
}

// DistanceSquared returns the squared distance between v and other.
func (v Vector2) DistanceSquared(other Vector2) float64 {
	return v.Sub(other).LengthSquared()
}

// Dot returns the dot product of v and other.
func (v Vector2) Dot(other Vector2) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Angle returns the angle of v in radians.
func (v Vector2) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// FromAngle builds a unit vector pointing along angle (radians).
func FromAngle(angle float64) Vector2 {
	return Vector2{X: math.Cos(angle), Y: math.Sin(angle)}
}

// ClampLength returns v shortened to max if it is longer, unchanged otherwise.
func (v Vector2) ClampLength(max float64) Vector2 {
	if v.LengthSquared() <= max*max {
		return v
	}
	return v.Normalize().Scale(max)
}

// NormalizeAngle wraps an angle into (-π, π].
func NormalizeAngle(angle float64) float64 {
	for angle > math.Pi {
		angle -= 2 * math.Pi
	}
	for angle <= -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}

// AngleDelta returns the signed shortest-path rotation from 'from' to 'to',
// in (-π, π]. Interpolating by a positive fraction of this delta always turns
// the short way around, including across the 2π seam.
func AngleDelta(from, to float64) float64 {
	return NormalizeAngle(to - from)
}
