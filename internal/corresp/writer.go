package corresp

import (
	"fmt"
	"io"

	"github.com/banshee-data/primfit/internal/prim"
)

// WriteCSV emits the correspondence table: a comment header naming the
// two input sources, then one gidA,lidA,gidB,lidB row per accepted
// match, in acceptance order.
func WriteCSV(w io.Writer, sourceA, sourceB string, assignments []Assignment) error {
	if _, err := fmt.Fprintf(w, "# corresp between\n# %s,%s\n", sourceA, sourceB); err != nil {
		return fmt.Errorf("write corresp header: %w", err)
	}
	for _, a := range assignments {
		_, err := fmt.Fprintf(w, "%d,%d,%d,%d\n", a.Key.A.Gid, a.Key.A.Lid, a.Key.B.Gid, a.Key.B.Lid)
		if err != nil {
			return fmt.Errorf("write corresp row %v: %w", a.Key, err)
		}
	}
	return nil
}

// Substitutes re-materializes the matched B-side primitives under their
// A-side group ids, for downstream inspection next to the A set. Order
// within a group follows acceptance order.
func Substitutes(collB prim.Collection, assignments []Assignment) prim.Collection {
	subs := prim.Collection{}
	for _, a := range assignments {
		subs.Add(a.Key.A.Gid, collB.At(a.Key.B))
	}
	return subs
}
