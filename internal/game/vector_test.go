package game

import (
	"math"
	"testing"
)

const floatTol = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < floatTol
}

func TestNormalizeAngleWraps(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{1.2, 1.2},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi}, // Lower bound is exclusive, maps to +pi
		{3 * math.Pi, math.Pi},
		{2*math.Pi + 0.3, 0.3},
		{-2*math.Pi - 0.3, -0.3},
		{math.Pi + 0.1, -math.Pi + 0.1},
	}
	for _, c := range cases {
		if got := NormalizeAngle(c.in); !almostEqual(got, c.want) {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

// TestAngleDeltaShortestPath pins the seam behaviour the rotation lerp relies
// on: from 359 degrees to 1 degree is +2 degrees through zero, never -358.
func TestAngleDeltaShortestPath(t *testing.T) {
	deg := math.Pi / 180

	if got := AngleDelta(359*deg, 1*deg); !almostEqual(got, 2*deg) {
		t.Errorf("AngleDelta(359deg, 1deg) = %v, want %v", got, 2*deg)
	}
	if got := AngleDelta(1*deg, 359*deg); !almostEqual(got, -2*deg) {
		t.Errorf("AngleDelta(1deg, 359deg) = %v, want %v", got, -2*deg)
	}
	// Exactly opposite directions resolve to +pi, matching NormalizeAngle's
	// half-open range.
	if got := AngleDelta(0, math.Pi); !almostEqual(got, math.Pi) {
		t.Errorf("AngleDelta(0, pi) = %v, want %v", got, math.Pi)
	}
}

func TestFromAngleRoundTrip(t *testing.T) {
	for _, angle := range []float64{0, 0.5, 1.234, -2.5, math.Pi / 2} {
		v := FromAngle(angle)
		if !almostEqual(v.Length(), 1) {
			t.Errorf("FromAngle(%v) has length %v, want 1", angle, v.Length())
		}
		if got := v.Angle(); !almostEqual(got, angle) {
			t.Errorf("FromAngle(%v).Angle() = %v", angle, got)
		}
	}
}

func TestClampLength(t *testing.T) {
	v := Vector2{X: 3, Y: 4} // Length 5

	// At or under the limit the vector passes through untouched.
	if got := v.ClampLength(5); got != v {
		t.Errorf("ClampLength(5) = %+v, want %+v unchanged", got, v)
	}
	if got := v.ClampLength(10); got != v {
		t.Errorf("ClampLength(10) = %+v, want %+v unchanged", got, v)
	}

	// Over the limit it shortens but keeps direction.
	got := v.ClampLength(2.5)
	if !almostEqual(got.Length(), 2.5) {
		t.Errorf("ClampLength(2.5) has length %v, want 2.5", got.Length())
	}
	if !almostEqual(got.X, 1.5) || !almostEqual(got.Y, 2.0) {
		t.Errorf("ClampLength(2.5) = %+v, want {1.5 2}", got)
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	if got := (Vector2{}).Normalize(); got != (Vector2{}) {
		t.Errorf("Normalize of zero vector = %+v, want zero", got)
	}
}

func TestVectorArithmetic(t *testing.T) {
	a := Vector2{X: 1, Y: 2}
	b := Vector2{X: 4, Y: 6}

	if got := a.Add(b); got != (Vector2{X: 5, Y: 8}) {
		t.Errorf("Add = %+v", got)
	}
	if got := b.Sub(a); got != (Vector2{X: 3, Y: 4}) {
		t.Errorf("Sub = %+v", got)
	}
	if got := a.Scale(2.5); got != (Vector2{X: 2.5, Y: 5}) {
		t.Errorf("Scale = %+v", got)
	}
	if got := a.Dot(b); got != 16 {
		t.Errorf("Dot = %v, want 16", got)
	}
	if got := a.Distance(b); !almostEqual(got, 5) {
		t.Errorf("Distance = %v, want 5", got)
	}
	if got := a.DistanceSquared(b); !almostEqual(got, 25) {
		t.Errorf("DistanceSquared = %v, want 25", got)
	}
}
