// Package diag renders optional diagnostic artifacts for beam reduction
// runs: elevation-angle histogram PNGs via gonum/plot and strategy
// comparison pages via go-echarts. Nothing here is load-bearing; callers
// enable diagnostics explicitly and tolerate failures.
package diag

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/AI-Mobility-Research-Lab/lidar-beam-reduction/internal/beam"
	"github.com/AI-Mobility-Research-Lab/lidar-beam-reduction/internal/cloud"
)

// comparisonBins is the histogram resolution for the before/after
// distribution comparison plot.
const comparisonBins = 100

// WriteBoundaryDiagnostics renders the detector's angle histogram with the
// detected peaks marked, plus an original-vs-reduced angle distribution
// comparison, into outputDir.
func WriteBoundaryDiagnostics(outputDir string, original, reduced cloud.PointCloud, bs beam.BoundarySet) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create diagnostics dir: %w", err)
	}

	if err := writeAngleHistogram(filepath.Join(outputDir, "angle_histogram.png"), bs); err != nil {
		return err
	}
	return writeDistributionComparison(
		filepath.Join(outputDir, "angle_distribution_comparison.png"), original, reduced)
}

// writeAngleHistogram plots the detection histogram as a line with the
// accepted peaks overlaid as a scatter.
func writeAngleHistogram(path string, bs beam.BoundarySet) error {
	if len(bs.Histogram.Counts) == 0 {
		return nil
	}

	p := plot.New()
	p.Title.Text = "Elevation Angle Histogram"
	p.X.Label.Text = "Elevation Angle (degrees)"
	p.Y.Label.Text = "Number of Points"

	centers := bs.Histogram.BinCenters()
	pts := make(plotter.XYs, len(centers))
	for i, c := range centers {
		pts[i] = plotter.XY{X: c, Y: float64(bs.Histogram.Counts[i])}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add("histogram", line)

	if len(bs.PeakAngles) > 0 {
		peakPts := make(plotter.XYs, 0, len(bs.PeakAngles))
		for _, pa := range bs.PeakAngles {
			peakPts = append(peakPts, plotter.XY{X: pa, Y: peakHeight(bs.Histogram, pa)})
		}
		scatter, err := plotter.NewScatter(peakPts)
		if err != nil {
			return err
		}
		scatter.GlyphStyle.Color = color.RGBA{R: 255, A: 255}
		scatter.GlyphStyle.Radius = vg.Points(2)
		p.Add(scatter)
		p.Legend.Add("peaks", scatter)
	}

	p.Legend.Top = true
	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save histogram plot: %w", err)
	}
	return nil
}

// peakHeight looks up the bin count whose left edge produced the peak angle.
func peakHeight(h cloud.Histogram, peakAngle float64) float64 {
	for i := range h.Counts {
		if h.Edges[i] == peakAngle {
			return float64(h.Counts[i])
		}
	}
	return 0
}

// writeDistributionComparison plots the original and reduced elevation-angle
// distributions on one canvas.
func writeDistributionComparison(path string, original, reduced cloud.PointCloud) error {
	p := plot.New()
	p.Title.Text = "Elevation Angle Distribution: Original vs Reduced"
	p.X.Label.Text = "Elevation Angle (degrees)"
	p.Y.Label.Text = "Number of Points"

	for _, series := range []struct {
		name  string
		pc    cloud.PointCloud
		color color.RGBA
	}{
		{"original", original, color.RGBA{B: 255, A: 255}},
		{"reduced", reduced, color.RGBA{R: 255, A: 255}},
	} {
		if len(series.pc) == 0 {
			continue
		}
		hist := cloud.NewHistogram(series.pc.ElevationAnglesDeg(), comparisonBins)
		centers := hist.BinCenters()
		pts := make(plotter.XYs, len(centers))
		for i, c := range centers {
			pts[i] = plotter.XY{X: c, Y: float64(hist.Counts[i])}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = series.color
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(series.name, line)
	}

	p.Legend.Top = true
	if err := p.Save(12*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save comparison plot: %w", err)
	}
	return nil
}
