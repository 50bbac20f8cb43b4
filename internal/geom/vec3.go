// Package geom provides the small fixed-size 3-vector math used by the
// primitive model. All values are float64 in world coordinates.
package geom

import "math"

// degenerateEpsilon is the squared-norm threshold below which a vector is
// considered to have no usable direction.
const degenerateEpsilon = 1e-12

// Vec3 is a 3-D vector or point.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and w.
func (v Vec3) Dot(w Vec3) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Cross returns the cross product v × w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		X: v.Y*w.Z - v.Z*w.Y,
		Y: v.Z*w.X - v.X*w.Z,
		Z: v.X*w.Y - v.Y*w.X,
	}
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns v scaled to unit length. The second return value is
// false when v is too close to zero to carry a direction, in which case
// the zero vector is returned.
func (v Vec3) Normalize() (Vec3, bool) {
	n2 := v.Dot(v)
	if n2 < degenerateEpsilon {
		return Vec3{}, false
	}
	inv := 1 / math.Sqrt(n2)
	return v.Scale(inv), true
}

// UnitZ is the global up axis used as the rotation axis for candidate
// generation (the scene convention is 2-D layouts embedded in 3-D).
var UnitZ = Vec3{Z: 1}

// AngleBetween returns the unsigned angle between v and w in radians,
// in [0, π]. Degenerate inputs yield 0.
func AngleBetween(v, w Vec3) float64 {
	nv := v.Norm()
	nw := w.Norm()
	if nv == 0 || nw == 0 {
		return 0
	}
	c := v.Dot(w) / (nv * nw)
	// Clamp against floating error before acos.
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	return math.Acos(c)
}

// RotateZ returns v rotated by angle radians about the global +Z axis.
func RotateZ(v Vec3, angle float64) Vec3 {
	s, c := math.Sincos(angle)
	return Vec3{
		X: c*v.X - s*v.Y,
		Y: s*v.X + c*v.Y,
		Z: v.Z,
	}
}
