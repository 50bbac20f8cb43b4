package prim

import "github.com/banshee-data/primfit/internal/geom"

// PointSample is a 3-D sample bound to the grouping structure. GID is
// the primary membership (which primitive group the point supports).
// RefGID is a second, independent membership used when two primitive
// sets are evaluated against each other; it is -1 when unused.
type PointSample struct {
	Pos    geom.Vec3
	GID    int
	RefGID int
}

// NewPointSample returns a sample at pos belonging to gid, with no
// reference membership.
func NewPointSample(pos geom.Vec3, gid int) PointSample {
	return PointSample{Pos: pos, GID: gid, RefGID: -1}
}

// PopulationOf returns the indices of all points whose primary group tag
// equals gid, in input order.
func PopulationOf(points []PointSample, gid int) []int {
	var ids []int
	for i, pt := range points {
		if pt.GID == gid {
			ids = append(ids, i)
		}
	}
	return ids
}
