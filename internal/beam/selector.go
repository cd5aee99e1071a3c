package beam

import (
	"math"

	"github.com/AI-Mobility-Research-Lab/lidar-beam-reduction/internal/cloud"
)

// SelectBeams keeps an evenly-spaced subset of the beam segments delimited
// by bs and concatenates their points, in ascending beam order, into the
// output cloud. targetRatio is the fraction of beams to retain, in (0, 1];
// validation is the caller's job (the dispatcher rejects out-of-domain
// ratios before reaching here).
//
// Even-stride selection, rather than random or priority-based picking,
// preserves uniform angular coverage, which is the property a
// lower-resolution-sensor simulation must keep.
func SelectBeams(bs BoundarySet, targetRatio float64) cloud.PointCloud {
	totalBeams := bs.BeamCount()
	if totalBeams <= 0 {
		return everySecond(bs.Sorted)
	}

	beamsToKeep := int(math.Round(float64(totalBeams) * targetRatio))
	if beamsToKeep < 1 {
		beamsToKeep = 1
	}
	stride := totalBeams / beamsToKeep
	if stride < 1 {
		stride = 1
	}

	kept := make([]int, 0, beamsToKeep)
	for i := 0; i < totalBeams && len(kept) < beamsToKeep; i += stride {
		kept = append(kept, i)
	}

	if len(kept) == 0 {
		// Unreachable given the beamsToKeep floor, but an empty output
		// is never acceptable, so degrade to plain decimation.
		return everySecond(bs.Sorted)
	}

	size := 0
	for _, i := range kept {
		size += bs.Boundaries[i+1] - bs.Boundaries[i]
	}

	out := make(cloud.PointCloud, 0, size)
	for _, i := range kept {
		out = append(out, bs.Sorted[bs.Boundaries[i]:bs.Boundaries[i+1]]...)
	}
	if len(out) == 0 {
		// Every kept segment was zero-width; an empty output is never
		// acceptable when input points exist.
		return everySecond(bs.Sorted)
	}
	return out
}

func everySecond(pc cloud.PointCloud) cloud.PointCloud {
	out := make(cloud.PointCloud, 0, (len(pc)+1)/2)
	for i := 0; i < len(pc); i += 2 {
		out = append(out, pc[i])
	}
	return out
}
