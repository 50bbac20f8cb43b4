package report

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/primfit/internal/corresp"
)

// RenderCostChart writes a standalone HTML bar chart of assignment
// costs by acceptance rank. A rising tail makes poorly supported
// matches easy to spot.
func RenderCostChart(w io.Writer, sourceA, sourceB string, assignments []corresp.Assignment) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Correspondence costs", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Assignment cost by rank",
			Subtitle: fmt.Sprintf("%s vs %s (%d pairs)", sourceA, sourceB, len(assignments)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "rank"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "cost"}),
	)

	labels := make([]string, len(assignments))
	data := make([]opts.BarData, len(assignments))
	for i, a := range assignments {
		labels[i] = strconv.Itoa(i)
		data[i] = opts.BarData{
			Name:  fmt.Sprintf("%v - %v", a.Key.A, a.Key.B),
			Value: a.Cost,
		}
	}
	bar.SetXAxis(labels)
	bar.AddSeries("cost", data)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("render cost chart: %w", err)
	}
	return nil
}

// RenderCostChartFile renders the cost chart to a file at path.
func RenderCostChartFile(path, sourceA, sourceB string, assignments []corresp.Assignment) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create cost chart %s: %w", path, err)
	}
	defer f.Close()
	return RenderCostChart(f, sourceA, sourceB, assignments)
}
