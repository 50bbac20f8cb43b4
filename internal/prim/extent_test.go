package prim

import (
	"errors"
	"math"
	"testing"

	"github.com/banshee-data/primfit/internal/geom"
)

func samplesAlongX(xs []float64, y float64) []PointSample {
	pts := make([]PointSample, len(xs))
	for i, x := range xs {
		pts[i] = NewPointSample(geom.Vec3{X: x, Y: y}, 0)
	}
	return pts
}

func TestEstimateExtentSpansInliers(t *testing.T) {
	p := FromPointDir(geom.Vec3{}, geom.Vec3{X: 1})
	points := samplesAlongX([]float64{2, -1, 5, 3}, 0.001)

	ext, err := EstimateExtent(p, points, 0.01, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Endpoints must project to x=-1 and x=5 in some order.
	lo, hi := ext[0].X, ext[1].X
	if lo > hi {
		lo, hi = hi, lo
	}
	if math.Abs(lo-(-1)) > tolerance || math.Abs(hi-5) > tolerance {
		t.Errorf("expected extent spanning [-1, 5], got [%g, %g]", lo, hi)
	}
	// Projections lie on the line.
	for i := range ext {
		if d := p.DistanceToPoint(ext[i]); d > 1e-6 {
			t.Errorf("endpoint %d not on line: distance %g", i, d)
		}
	}
}

func TestEstimateExtentNoInliers(t *testing.T) {
	p := FromPointDir(geom.Vec3{}, geom.Vec3{X: 1})
	points := samplesAlongX([]float64{0, 1, 2}, 5) // all 5 units off the line

	_, err := EstimateExtent(p, points, 0.01, nil)
	if !errors.Is(err, ErrNoInliers) {
		t.Errorf("expected ErrNoInliers, got %v", err)
	}
}

func TestEstimateExtentRespectsIndices(t *testing.T) {
	p := FromPointDir(geom.Vec3{}, geom.Vec3{X: 1})
	points := samplesAlongX([]float64{-10, 1, 2, 10}, 0)

	// Restrict to the middle two points; the far ones must be ignored.
	ext, err := EstimateExtent(p, points, 0.01, []int{1, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lo, hi := ext[0].X, ext[1].X
	if lo > hi {
		lo, hi = hi, lo
	}
	if math.Abs(lo-1) > tolerance || math.Abs(hi-2) > tolerance {
		t.Errorf("expected extent [1, 2], got [%g, %g]", lo, hi)
	}
}

// TestExtentCacheFirstWriteWins pins the write-once cache contract: the
// second estimate returns the original segment even when the point set
// argument has changed. This is intentional behaviour, not a bug.
func TestExtentCacheFirstWriteWins(t *testing.T) {
	p := FromPointDir(geom.Vec3{}, geom.Vec3{X: 1})
	cache := NewExtentCache()

	first, err := cache.Estimate(&p, samplesAlongX([]float64{0, 1}, 0), 0.01, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := cache.Estimate(&p, samplesAlongX([]float64{-100, 100}, 0), 0.01, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second {
		t.Errorf("cache recomputed: first %+v, second %+v", first, second)
	}
}

func TestExtentCacheFailedEstimateNotCached(t *testing.T) {
	p := FromPointDir(geom.Vec3{}, geom.Vec3{X: 1})
	cache := NewExtentCache()

	if _, err := cache.Estimate(&p, samplesAlongX([]float64{0, 1}, 5), 0.01, nil); !errors.Is(err, ErrNoInliers) {
		t.Fatalf("expected ErrNoInliers, got %v", err)
	}
	if _, ok := cache.Lookup(&p); ok {
		t.Error("failed estimate must not populate the cache")
	}

	// A wider threshold can still succeed afterwards.
	if _, err := cache.Estimate(&p, samplesAlongX([]float64{0, 1}, 5), 10, nil); err != nil {
		t.Errorf("expected success at wider threshold, got %v", err)
	}
}

func TestDisplaySegmentRetriesThreshold(t *testing.T) {
	p := FromPointDir(geom.Vec3{}, geom.Vec3{X: 1})
	// Points 0.5 off the line: invisible at threshold 0.01 but within
	// reach after several doublings (0.01*2^6 = 0.64).
	points := samplesAlongX([]float64{1, 4}, 0.5)
	cache := NewExtentCache()

	ext := cache.DisplaySegment(&p, points, 0.01, nil)

	lo, hi := ext[0].X, ext[1].X
	if lo > hi {
		lo, hi = hi, lo
	}
	if math.Abs(lo-1) > tolerance || math.Abs(hi-4) > tolerance {
		t.Errorf("expected retried extent [1, 4], got [%g, %g]", lo, hi)
	}
	if _, ok := cache.Lookup(&p); !ok {
		t.Error("successful retry should populate the cache")
	}
}

func TestDisplaySegmentDegradesToUnitSegment(t *testing.T) {
	p := FromPointDir(geom.Vec3{X: 3, Y: 1}, geom.Vec3{Y: 1})
	cache := NewExtentCache()

	// No points at all: every retry fails.
	ext := cache.DisplaySegment(&p, nil, 0.01, nil)

	if ext[0] != p.Pos {
		t.Errorf("degraded segment must anchor at position, got %+v", ext[0])
	}
	if length := ext[1].Sub(ext[0]).Norm(); math.Abs(length-1) > tolerance {
		t.Errorf("degraded segment must be unit length, got %g", length)
	}
	if _, ok := cache.Lookup(&p); ok {
		t.Error("degraded segment must not be cached")
	}
}
