package reduce

import (
	"github.com/AI-Mobility-Research-Lab/lidar-beam-reduction/internal/beam"
	"github.com/AI-Mobility-Research-Lab/lidar-beam-reduction/internal/cloud"
)

// Summary describes one cloud for reporting: raw point count plus the beam
// count estimate. Read-only; never feeds back into reduction.
type Summary struct {
	Points int `json:"points"`
	Beams  int `json:"beams"`
}

// Summarize builds a Summary for a cloud.
func Summarize(pc cloud.PointCloud) Summary {
	return Summary{
		Points: len(pc),
		Beams:  beam.EstimateBeamCount(pc),
	}
}

// Comparison relates an original cloud to its reduced output.
type Comparison struct {
	Original Summary `json:"original"`
	Reduced  Summary `json:"reduced"`
	// PointRatio is reduced points over original points.
	PointRatio float64 `json:"point_ratio"`
	// BeamRatio is the reduced beam estimate over the original estimate.
	BeamRatio float64 `json:"beam_ratio"`
}

// Compare summarizes both clouds and derives the reduction ratios.
func Compare(original, reduced cloud.PointCloud) Comparison {
	c := Comparison{
		Original: Summarize(original),
		Reduced:  Summarize(reduced),
	}
	if c.Original.Points > 0 {
		c.PointRatio = float64(c.Reduced.Points) / float64(c.Original.Points)
	}
	if c.Original.Beams > 0 {
		c.BeamRatio = float64(c.Reduced.Beams) / float64(c.Original.Beams)
	}
	return c
}
