package prim

import "github.com/banshee-data/primfit/internal/geom"

// GenerateCandidate synthesizes a new primitive at self's position whose
// direction is other's direction rotated to satisfy a canonical angle
// relationship. angles is the discretized set of desired angles in
// radians and closestAngleID indexes the one to enforce; multiplier is
// usually +1, or -1 to rotate back.
//
// Both rotation senses about the global up axis are tried and the branch
// angularly closer to self's direction wins. The candidate inherits GID
// from self (it occupies self's spatial slot), DirGID from other (it
// borrows other's orientation group) and starts with StatusUnset.
func GenerateCandidate(self, other Primitive, closestAngleID int, angles []float64, multiplier float64) Primitive {
	angle := angles[closestAngleID] * multiplier

	d0 := geom.RotateZ(other.Dir, angle)
	d1 := geom.RotateZ(other.Dir, -angle)

	chosen := d0
	if geom.AngleBetween(self.Dir, d0) > geom.AngleBetween(self.Dir, d1) {
		chosen = d1
	}

	out := FromPointDir(self.Pos, chosen)
	out.Tags = Tags{
		GID:    self.Tags.GID,
		DirGID: other.Tags.DirGID,
		Status: StatusUnset,
	}
	return out
}
