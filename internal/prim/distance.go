package prim

import (
	"math"

	"github.com/banshee-data/primfit/internal/geom"
)

// DistanceToPoint returns the perpendicular distance from point to the
// infinite line. With a unit direction this is the norm of the cross
// product of (pos - point) and the direction.
func (p Primitive) DistanceToPoint(point geom.Vec3) float64 {
	return p.Pos.Sub(point).Cross(p.Dir).Norm()
}

// ProjectPoint returns the orthogonal projection of point onto the line.
func (p Primitive) ProjectPoint(point geom.Vec3) geom.Vec3 {
	k := point.Sub(p.Pos).Dot(p.Dir) / p.Dir.Dot(p.Dir)
	return p.Pos.Add(p.Dir.Scale(k))
}

// FiniteSegmentDistance returns the distance from point to the finite
// segment ext of the line, clamping the projection parameter to the
// segment. Callers comparing whole primitives rather than anchors use
// this; the correspondence matcher deliberately does not (see
// internal/corresp).
func FiniteSegmentDistance(ext Extent, point geom.Vec3) float64 {
	seg := ext[1].Sub(ext[0])
	segLen2 := seg.Dot(seg)
	if segLen2 == 0 {
		return point.Sub(ext[0]).Norm()
	}
	k := point.Sub(ext[0]).Dot(seg) / segLen2
	k = math.Max(0, math.Min(1, k))
	closest := ext[0].Add(seg.Scale(k))
	return point.Sub(closest).Norm()
}
