// Package corresp matches the primitives of two independently grouped
// collections against each other: pairwise anchor-distance costs, a
// deterministic ascending sort, then a greedy one-to-one claim pass.
//
// The matching is intentionally a greedy approximation, not a
// minimum-cost bipartite assignment. Sort-then-claim is O(nm log nm),
// trivially auditable, and its output on ties is pinned by the identity
// ordering; an optimal solver would change results on near-ties and is
// deliberately not used.
//
// Costs compare anchor positions only. A finite-segment distance exists
// in the primitive model (prim.FiniteSegmentDistance) but is not wired
// in here: switching the metric would change which pairs count as close.
package corresp

import (
	"log"
	"sort"

	"github.com/banshee-data/primfit/internal/prim"
)

// PairKey identifies one candidate pairing: a primitive identity from
// each collection.
type PairKey struct {
	A prim.GidLid
	B prim.GidLid
}

// Less orders keys by the A identity, then the B identity. Used only to
// break cost ties deterministically.
func (k PairKey) Less(o PairKey) bool {
	if k.A != o.A {
		return k.A.Less(o.A)
	}
	return k.B.Less(o.B)
}

// Assignment is one accepted correspondence and the cost it was accepted
// at.
type Assignment struct {
	Key  PairKey
	Cost float64
}

// Cost is the pairwise matching cost: the Euclidean distance between the
// two primitives' anchor positions.
func Cost(a, b prim.Primitive) float64 {
	return a.Pos.Sub(b.Pos).Norm()
}

// BuildCosts enumerates every cross-collection primitive pair and
// returns the transient cost table keyed by identity pair.
func BuildCosts(collA, collB prim.Collection) map[PairKey]float64 {
	costs := make(map[PairKey]float64, collA.Len()*collB.Len())
	for gidA, primsA := range collA {
		for lidA, pa := range primsA {
			for gidB, primsB := range collB {
				for lidB, pb := range primsB {
					key := PairKey{
						A: prim.GidLid{Gid: gidA, Lid: lidA},
						B: prim.GidLid{Gid: gidB, Lid: lidB},
					}
					costs[key] = Cost(pa, pb)
				}
			}
		}
	}
	return costs
}

// Match produces a greedy injective partial matching between the two
// collections, in acceptance (ascending cost) order. Empty input on
// either side yields an empty matching. The result is deterministic for
// deterministic input collections.
func Match(collA, collB prim.Collection) []Assignment {
	costs := BuildCosts(collA, collB)

	// The map is convenient for lookups but the claim pass needs a
	// sortable list keyed by cost.
	entries := make([]Assignment, 0, len(costs))
	for key, cost := range costs {
		entries = append(entries, Assignment{Key: key, Cost: cost})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Cost != entries[j].Cost {
			return entries[i].Cost < entries[j].Cost
		}
		return entries[i].Key.Less(entries[j].Key)
	})

	// Greedy claim: accept a pair only when both sides are still free.
	takenA := make(map[prim.GidLid]bool)
	takenB := make(map[prim.GidLid]bool)
	assigned := make(map[prim.GidLid]bool)

	var out []Assignment
	for _, e := range entries {
		if takenA[e.Key.A] || takenB[e.Key.B] {
			continue
		}
		takenA[e.Key.A] = true
		takenB[e.Key.B] = true

		// The used-set guard makes duplicates impossible; a hit here is
		// an internal consistency violation worth reporting, not hiding.
		if assigned[e.Key.A] {
			log.Printf("corresp: duplicate assignment for %v, keeping first", e.Key.A)
			continue
		}
		assigned[e.Key.A] = true

		out = append(out, e)
	}
	return out
}
