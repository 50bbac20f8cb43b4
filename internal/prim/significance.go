package prim

import (
	"log"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/primfit/internal/geom"
)

// UndefinedSignificance is the sentinel returned by Significance when a
// primitive has no supporting points. Valid scores are always >= 0.
const UndefinedSignificance = -1.0

// Centroid returns the mean position of the points selected by indices
// (all points when indices is nil). The second return value is false for
// an empty selection.
func Centroid(points []PointSample, indices []int) (geom.Vec3, bool) {
	var sum geom.Vec3
	n := 0
	if indices != nil {
		for _, pid := range indices {
			sum = sum.Add(points[pid].Pos)
			n++
		}
	} else {
		for _, pt := range points {
			sum = sum.Add(pt.Pos)
			n++
		}
	}
	if n == 0 {
		return geom.Vec3{}, false
	}
	return sum.Scale(1 / float64(n)), true
}

// EigenDecomposition computes the eigenvalues and eigenvectors of the
// spatial covariance of the selected points, in ascending eigenvalue
// order. The second return value is false for an empty selection or a
// failed factorization.
func EigenDecomposition(points []PointSample, indices []int) (values [3]float64, vectors [3]geom.Vec3, ok bool) {
	centroid, ok := Centroid(points, indices)
	if !ok {
		return values, vectors, false
	}

	// 3x3 covariance of the selection.
	var c [3][3]float64
	n := 0
	accumulate := func(pos geom.Vec3) {
		d := pos.Sub(centroid)
		v := [3]float64{d.X, d.Y, d.Z}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				c[i][j] += v[i] * v[j]
			}
		}
		n++
	}
	if indices != nil {
		for _, pid := range indices {
			accumulate(points[pid].Pos)
		}
	} else {
		for _, pt := range points {
			accumulate(pt.Pos)
		}
	}
	nf := float64(n)

	cov := mat.NewSymDense(3, nil)
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			cov.SetSym(i, j, c[i][j]/nf)
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(cov, true) {
		return values, vectors, false
	}

	var vals []float64
	vals = eig.Values(vals)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	for k := 0; k < 3; k++ {
		values[k] = vals[k]
		vectors[k] = geom.Vec3{X: vecs.At(0, k), Y: vecs.At(1, k), Z: vecs.At(2, k)}
	}
	return values, vectors, true
}

// Significance scores the spatial spread of a primitive's support: the
// square root of the largest eigenvalue of the supporting points'
// covariance (or the eigenvalue itself when squared is true). The
// population defaults to all points whose GID matches the primitive's;
// pass indices to override. An empty population yields
// UndefinedSignificance and a diagnostic log line.
func Significance(p Primitive, points []PointSample, indices []int, squared bool) float64 {
	pop := indices
	if pop == nil {
		pop = PopulationOf(points, p.Tags.GID)
	}
	if len(pop) == 0 {
		log.Printf("prim: no supporting points for gid=%d, significance undefined", p.Tags.GID)
		return UndefinedSignificance
	}

	values, _, ok := EigenDecomposition(points, pop)
	if !ok {
		log.Printf("prim: eigendecomposition failed for gid=%d, significance undefined", p.Tags.GID)
		return UndefinedSignificance
	}

	largest := values[2]
	if largest < 0 {
		// Covariance eigenvalues are non-negative up to floating error.
		largest = 0
	}
	if squared {
		return largest
	}
	return math.Sqrt(largest)
}

// FitLine fits a primitive to the selected points: anchored at their
// centroid, directed along the principal eigenvector of their
// covariance. The second return value is false when the selection is
// empty or carries no dominant direction.
func FitLine(points []PointSample, indices []int) (Primitive, bool) {
	centroid, ok := Centroid(points, indices)
	if !ok {
		return Primitive{}, false
	}
	_, vectors, ok := EigenDecomposition(points, indices)
	if !ok {
		return Primitive{}, false
	}
	dir, ok := vectors[2].Normalize()
	if !ok {
		return Primitive{}, false
	}
	return Primitive{Pos: centroid, Dir: dir}, true
}
