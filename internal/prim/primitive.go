// Package prim implements the oriented-line primitive model: fitting,
// distance queries, inlier-supported extent estimation, significance
// scoring and angle-constrained candidate generation.
//
// A primitive is a value type: an anchor position, a unit direction and
// a small set of typed tags. Derived state (the finite extent) lives in
// an external cache (see ExtentCache) rather than inside the value.
package prim

import (
	"fmt"

	"github.com/banshee-data/primfit/internal/geom"
)

// Status is the lifecycle flag of a primitive within the optimization
// workflow. Freshly generated candidates are StatusUnset until the
// optimizer evaluates them.
type Status int

const (
	StatusUnset    Status = iota // not yet evaluated
	StatusActive                 // accepted by the optimizer
	StatusRejected               // rejected by the optimizer
)

func (s Status) String() string {
	switch s {
	case StatusUnset:
		return "unset"
	case StatusActive:
		return "active"
	case StatusRejected:
		return "rejected"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Tags bind a primitive to the grouping structure of a scene.
type Tags struct {
	GID    int    // id of the spatial patch the primitive occupies
	DirGID int    // id of the group its orientation derives from
	Status Status // lifecycle flag
}

// Primitive is an oriented line: a 3-D anchor position and a unit
// direction. The anchor is any point on the line, not an endpoint.
type Primitive struct {
	Pos  geom.Vec3
	Dir  geom.Vec3
	Tags Tags
}

// FromPointDir builds a primitive through p0 along dir. The direction is
// normalized; a degenerate dir falls back to the +X axis so the result
// always satisfies the unit-direction invariant.
func FromPointDir(p0, dir geom.Vec3) Primitive {
	d, ok := dir.Normalize()
	if !ok {
		d = geom.Vec3{X: 1}
	}
	return Primitive{Pos: p0, Dir: d}
}

// FromEndPoints builds a primitive through both endpoints, anchored at
// the first.
func FromEndPoints(p0, p1 geom.Vec3) Primitive {
	return FromPointDir(p0, p1.Sub(p0))
}

// Normal returns the in-plane normal of the line: the unit vector
// perpendicular to the direction and lying in the plane whose normal is
// planeNormal. This is the vector stored by the on-disk serialization.
func (p Primitive) Normal(planeNormal geom.Vec3) geom.Vec3 {
	perp := planeNormal.Scale(p.Dir.Dot(planeNormal))
	par, ok := p.Dir.Sub(perp).Normalize()
	if !ok {
		// Direction parallel to the plane normal: no in-plane component.
		return geom.Vec3{}
	}
	n, _ := par.Cross(planeNormal).Normalize()
	return n
}

// GidLid identifies a primitive within a Collection: the group id plus
// the linear index inside that group's slice.
type GidLid struct {
	Gid int
	Lid int
}

func (g GidLid) String() string {
	return fmt.Sprintf("%d.%d", g.Gid, g.Lid)
}

// Less orders identities by (Gid, Lid). The ordering carries no
// geometric meaning; it exists to make sorts deterministic.
func (g GidLid) Less(o GidLid) bool {
	if g.Gid != o.Gid {
		return g.Gid < o.Gid
	}
	return g.Lid < o.Lid
}

// Collection groups primitives by GID. Identity of an entry is the pair
// (gid, index within the slice).
type Collection map[int][]Primitive

// Add appends p to the gid group and returns its identity.
func (c Collection) Add(gid int, p Primitive) GidLid {
	c[gid] = append(c[gid], p)
	return GidLid{Gid: gid, Lid: len(c[gid]) - 1}
}

// At returns the primitive with the given identity.
func (c Collection) At(id GidLid) Primitive {
	return c[id.Gid][id.Lid]
}

// Len returns the total number of primitives across all groups.
func (c Collection) Len() int {
	n := 0
	for _, prims := range c {
		n += len(prims)
	}
	return n
}
