package geom

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func TestCrossOrthogonality(t *testing.T) {
	v := Vec3{X: 1, Y: 2, Z: 3}
	w := Vec3{X: -2, Y: 0.5, Z: 4}

	c := v.Cross(w)

	if math.Abs(c.Dot(v)) > epsilon || math.Abs(c.Dot(w)) > epsilon {
		t.Errorf("cross product not orthogonal to inputs: dot(v)=%g dot(w)=%g", c.Dot(v), c.Dot(w))
	}
}

func TestNormalizeUnitLength(t *testing.T) {
	v := Vec3{X: 3, Y: -4, Z: 12}

	u, ok := v.Normalize()
	if !ok {
		t.Fatal("expected normalize to succeed for non-zero vector")
	}
	if math.Abs(u.Norm()-1) > epsilon {
		t.Errorf("expected unit norm, got %g", u.Norm())
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	_, ok := Vec3{}.Normalize()
	if ok {
		t.Error("expected normalize to report degenerate input for zero vector")
	}
}

func TestAngleBetweenSelfAndOpposite(t *testing.T) {
	dirs := []Vec3{
		{X: 1},
		{Y: 1},
		{X: 1, Y: 1, Z: 1},
		{X: -0.3, Y: 0.7, Z: 2.1},
	}

	for _, d := range dirs {
		if a := AngleBetween(d, d); math.Abs(a) > epsilon {
			t.Errorf("AngleBetween(d, d) = %g, want 0 for %+v", a, d)
		}
		if a := AngleBetween(d, d.Scale(-1)); math.Abs(a-math.Pi) > epsilon {
			t.Errorf("AngleBetween(d, -d) = %g, want π for %+v", a, d)
		}
	}
}

func TestAngleBetweenPerpendicular(t *testing.T) {
	a := AngleBetween(Vec3{X: 1}, Vec3{Y: 1})
	if math.Abs(a-math.Pi/2) > epsilon {
		t.Errorf("expected π/2, got %g", a)
	}
}

func TestRotateZQuarterTurn(t *testing.T) {
	v := Vec3{X: 1, Z: 0.5}

	r := RotateZ(v, math.Pi/2)

	if math.Abs(r.X) > epsilon || math.Abs(r.Y-1) > epsilon {
		t.Errorf("expected (0,1,0.5), got %+v", r)
	}
	if r.Z != v.Z {
		t.Errorf("rotation about Z must preserve Z: got %g want %g", r.Z, v.Z)
	}
}

func TestRotateZPreservesNorm(t *testing.T) {
	v := Vec3{X: 2, Y: -1, Z: 3}
	for _, angle := range []float64{0.1, 1.0, math.Pi, 5.5} {
		r := RotateZ(v, angle)
		if math.Abs(r.Norm()-v.Norm()) > epsilon {
			t.Errorf("norm changed under rotation by %g: %g -> %g", angle, v.Norm(), r.Norm())
		}
	}
}
