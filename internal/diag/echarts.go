package diag

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// MethodStats holds the before/after counts for one reduction strategy,
// as shown in the comparison report.
type MethodStats struct {
	Method         string
	OriginalPoints int
	ReducedPoints  int
	OriginalBeams  int
	ReducedBeams   int
}

// WriteComparisonReport renders an HTML page comparing the strategies: one
// bar chart of point counts and one of beam count estimates.
func WriteComparisonReport(path string, stats []MethodStats) error {
	if len(stats) == 0 {
		return fmt.Errorf("no method stats to report")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}

	methods := make([]string, len(stats))
	origPoints := make([]opts.BarData, len(stats))
	redPoints := make([]opts.BarData, len(stats))
	origBeams := make([]opts.BarData, len(stats))
	redBeams := make([]opts.BarData, len(stats))
	for i, s := range stats {
		methods[i] = s.Method
		origPoints[i] = opts.BarData{Value: s.OriginalPoints}
		redPoints[i] = opts.BarData{Value: s.ReducedPoints}
		origBeams[i] = opts.BarData{Value: s.OriginalBeams}
		redBeams[i] = opts.BarData{Value: s.ReducedBeams}
	}

	points := charts.NewBar()
	points.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Beam Reduction Comparison", Width: "900px", Height: "450px"}),
		charts.WithTitleOpts(opts.Title{Title: "Point Counts by Method"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	points.SetXAxis(methods).
		AddSeries("original", origPoints).
		AddSeries("reduced", redPoints)

	beams := charts.NewBar()
	beams.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "450px"}),
		charts.WithTitleOpts(opts.Title{Title: "Estimated Beam Counts by Method"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	beams.SetXAxis(methods).
		AddSeries("original", origBeams).
		AddSeries("reduced", redBeams)

	page := components.NewPage()
	page.AddCharts(points, beams)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}
