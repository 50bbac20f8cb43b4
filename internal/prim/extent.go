package prim

import (
	"errors"
	"log"

	"github.com/banshee-data/primfit/internal/geom"
)

// ErrNoInliers is returned by EstimateExtent when no point lies within
// the distance threshold of the primitive.
var ErrNoInliers = errors.New("prim: no inliers within threshold")

// maxExtentRetries bounds the threshold-doubling loop in DisplaySegment.
const maxExtentRetries = 10

// Extent is the finite, inlier-supported segment of a primitive: two
// endpoints on the line.
type Extent [2]geom.Vec3

// EstimateExtent computes the finite extent of p supported by points:
// the two extreme orthogonal projections of the inliers onto the line.
// indices optionally restricts the candidate set; nil means all points.
// Returns ErrNoInliers when no point is closer than threshold.
func EstimateExtent(p Primitive, points []PointSample, threshold float64, indices []int) (Extent, error) {
	// Select inliers by perpendicular distance.
	var inliers []int
	if indices != nil {
		for _, pid := range indices {
			if p.DistanceToPoint(points[pid].Pos) < threshold {
				inliers = append(inliers, pid)
			}
		}
	} else {
		for pid := range points {
			if p.DistanceToPoint(points[pid].Pos) < threshold {
				inliers = append(inliers, pid)
			}
		}
	}
	if len(inliers) == 0 {
		return Extent{}, ErrNoInliers
	}

	// Project every inlier onto the line.
	onLine := make([]geom.Vec3, len(inliers))
	for i, pid := range inliers {
		onLine[i] = p.ProjectPoint(points[pid].Pos)
	}

	// Scan for the extreme projections along the direction, as signed
	// distances relative to the first projected point.
	p0 := onLine[0]
	ref := p0.Add(p.Dir)
	minDist, maxDist := 0.0, 0.0
	minID, maxID := 0, 0
	for i := 1; i < len(onLine); i++ {
		dist := onLine[i].Sub(p0).Dot(ref)
		if dist < minDist {
			minDist = dist
			minID = i
		} else if dist > maxDist {
			maxDist = dist
			maxID = i
		}
	}

	return Extent{onLine[minID], onLine[maxID]}, nil
}

// ExtentCache is a write-once side table of computed extents, keyed by
// primitive identity (pointer). The first successful estimate for a
// primitive wins; later calls return the cached segment even if the
// point set or threshold arguments differ.
//
// The cache assumes a single writer per primitive. Concurrent readers
// after the first write observe a stable value; concurrent first writers
// are not supported.
type ExtentCache struct {
	extents map[*Primitive]Extent
}

// NewExtentCache returns an empty cache.
func NewExtentCache() *ExtentCache {
	return &ExtentCache{extents: make(map[*Primitive]Extent)}
}

// Lookup reports the cached extent of p, if one has been computed.
func (c *ExtentCache) Lookup(p *Primitive) (Extent, bool) {
	ext, ok := c.extents[p]
	return ext, ok
}

// Estimate returns the cached extent of p, computing and recording it on
// first use. See EstimateExtent for the computation and failure mode; a
// failed estimate is not cached, so a later call with a larger threshold
// can still populate the entry.
func (c *ExtentCache) Estimate(p *Primitive, points []PointSample, threshold float64, indices []int) (Extent, error) {
	if ext, ok := c.extents[p]; ok {
		return ext, nil
	}
	ext, err := EstimateExtent(*p, points, threshold, indices)
	if err != nil {
		return Extent{}, err
	}
	c.extents[p] = ext
	return ext, nil
}

// DisplaySegment returns a segment for p that is always drawable. It
// retries Estimate with a doubled threshold up to maxExtentRetries
// times; if every attempt fails it degrades to a unit-length segment
// anchored at the primitive position along its direction and logs a
// warning. The degraded segment is not cached.
func (c *ExtentCache) DisplaySegment(p *Primitive, points []PointSample, threshold float64, indices []int) Extent {
	th := threshold
	for i := 0; i < maxExtentRetries; i++ {
		ext, err := c.Estimate(p, points, th, indices)
		if err == nil {
			return ext
		}
		th *= 2
	}
	log.Printf("prim: extent estimation for gid=%d exhausted %d threshold doublings, drawing unit segment",
		p.Tags.GID, maxExtentRetries)
	return Extent{p.Pos, p.Pos.Add(p.Dir)}
}
