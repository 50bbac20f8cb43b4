// Package report renders offline artifacts for inspecting a matching
// run: a PNG segment plot of the two primitive sets and an HTML chart
// of assignment costs.
package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/primfit/internal/corresp"
	"github.com/banshee-data/primfit/internal/prim"
)

var (
	colorPoints = color.RGBA{R: 160, G: 160, B: 160, A: 255}
	colorSetA   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	colorSetB   = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// SegmentPlot accumulates the matched primitives of one run and renders
// them as finite segments over the supporting points. The scene
// convention is planar layouts embedded in 3-D, so only X and Y are
// drawn. Segments come from the retry/degrade display policy: every
// matched primitive is drawn, with a unit fallback segment when its
// support is too sparse.
type SegmentPlot struct {
	points    []prim.PointSample
	threshold float64
	cacheA    *prim.ExtentCache
	cacheB    *prim.ExtentCache
}

// NewSegmentPlot creates a plot over the given supporting points.
// threshold is the inlier distance used for extent estimation.
func NewSegmentPlot(points []prim.PointSample, threshold float64) *SegmentPlot {
	return &SegmentPlot{
		points:    points,
		threshold: threshold,
		cacheA:    prim.NewExtentCache(),
		cacheB:    prim.NewExtentCache(),
	}
}

// Render draws both sides of each assignment and writes a PNG to path.
func (sp *SegmentPlot) Render(path string, collA, collB prim.Collection, assignments []corresp.Assignment) error {
	p := plot.New()
	p.Title.Text = "correspondence matching"
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"

	// Supporting points first so segments draw on top.
	if len(sp.points) > 0 {
		xys := make(plotter.XYs, len(sp.points))
		for i, pt := range sp.points {
			xys[i] = plotter.XY{X: pt.Pos.X, Y: pt.Pos.Y}
		}
		scatter, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("build point scatter: %w", err)
		}
		scatter.GlyphStyle.Color = colorPoints
		scatter.GlyphStyle.Radius = vg.Points(1)
		p.Add(scatter)
	}

	for _, a := range assignments {
		pa := collA.At(a.Key.A)
		pb := collB.At(a.Key.B)
		if err := sp.addSegment(p, &pa, sp.cacheA, colorSetA); err != nil {
			return err
		}
		if err := sp.addSegment(p, &pb, sp.cacheB, colorSetB); err != nil {
			return err
		}
	}

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("save segment plot: %w", err)
	}
	return nil
}

func (sp *SegmentPlot) addSegment(p *plot.Plot, pr *prim.Primitive, cache *prim.ExtentCache, c color.RGBA) error {
	ext := cache.DisplaySegment(pr, sp.points, sp.threshold, nil)

	line, err := plotter.NewLine(plotter.XYs{
		{X: ext[0].X, Y: ext[0].Y},
		{X: ext[1].X, Y: ext[1].Y},
	})
	if err != nil {
		return fmt.Errorf("build segment line: %w", err)
	}
	line.Color = c
	line.Width = vg.Points(1.5)
	p.Add(line)
	return nil
}
