package beam

import (
	"sort"

	"github.com/AI-Mobility-Research-Lab/lidar-beam-reduction/internal/cloud"
)

// DetectorParams configures the boundary detector. Every threshold here is a
// heuristic tuned against a standard 64-beam automotive sensor's angular
// distribution; targeting different sensor geometry means overriding these,
// not editing constants.
type DetectorParams struct {
	// HistogramBins is the resolution of the elevation-angle-in-degrees
	// histogram used for peak detection.
	HistogramBins int
	// PeakHeightFraction: a bin is a peak candidate when its count exceeds
	// this fraction of the tallest bin.
	PeakHeightFraction float64
	// PeakMinSeparation is the minimum bin distance between accepted peaks.
	PeakMinSeparation int
	// RelaxedHeightFraction and RelaxedMinSeparation are the second-pass
	// thresholds used when the first pass finds fewer than PeakRetryBelow
	// peaks. Real scan data is noisy near beam edges; a single fixed
	// threshold either merges distinct beams or fragments one beam into
	// spurious sub-peaks.
	RelaxedHeightFraction float64
	RelaxedMinSeparation  int
	// PeakRetryBelow triggers the relaxed pass. A standard 64-beam sensor
	// is expected to yield close to 64 peaks.
	PeakRetryBelow int
	// MinBoundaries and MaxBoundaries bound the plausible boundary count;
	// results outside this window trigger a fallback partition.
	MinBoundaries int
	MaxBoundaries int
	// FallbackBeamCount is the equal-size partition width used when peak
	// detection produced too little structure to trust at all.
	FallbackBeamCount int
}

// DefaultDetectorParams returns detector parameters tuned for a standard
// 64-beam automotive sensor.
func DefaultDetectorParams() DetectorParams {
	return DetectorParams{
		HistogramBins:         500,
		PeakHeightFraction:    0.01,
		PeakMinSeparation:     2,
		RelaxedHeightFraction: 0.005,
		RelaxedMinSeparation:  1,
		PeakRetryBelow:        30,
		MinBoundaries:         10,
		MaxBoundaries:         200,
		FallbackBeamCount:     64,
	}
}

// BoundaryMode identifies which partitioning strategy produced a BoundarySet.
// The detector tries them in declared order and reports the first that
// applied, so each fallback path is independently observable and testable.
type BoundaryMode int

const (
	// ModePeakTransitions is the primary path: boundaries at bucket
	// transitions of the nearest-peak assignment.
	ModePeakTransitions BoundaryMode = iota
	// ModeFixedPartition is the last-resort path: equal-size segments,
	// ignoring angle structure entirely.
	ModeFixedPartition
	// ModePeakRanges groups points into below-first-peak, between-peaks
	// and above-last-peak ranges.
	ModePeakRanges
	// ModeSingleBeam covers degenerate input: empty cloud or a collapsed
	// angle range that cannot be binned.
	ModeSingleBeam
)

func (m BoundaryMode) String() string {
	switch m {
	case ModePeakTransitions:
		return "peak-transitions"
	case ModeFixedPartition:
		return "fixed-partition"
	case ModePeakRanges:
		return "peak-ranges"
	case ModeSingleBeam:
		return "single-beam"
	default:
		return "unknown"
	}
}

// BoundarySet is the output of boundary detection. Boundaries index into
// Sorted: adjacent entries (b[i], b[i+1]) delimit one beam's point range
// [b[i], b[i+1]). Invariants: strictly increasing, first entry 0, last entry
// len(Sorted).
type BoundarySet struct {
	Boundaries []int
	// Perm maps sorted positions back to the original cloud: Perm[i] is
	// the original index of Sorted[i]. Callers can slice original point
	// data by beam without resorting.
	Perm   []int
	Sorted cloud.PointCloud
	// PeakAngles holds the detected peak angles in degrees, ascending.
	// Its cardinality approximates the beam count but is not exact.
	PeakAngles []float64
	// Histogram is the degree histogram the peaks were detected in, kept
	// for diagnostics.
	Histogram cloud.Histogram
	Mode      BoundaryMode
}

// BeamCount returns the number of beam segments the boundaries delimit.
func (bs BoundarySet) BeamCount() int {
	if len(bs.Boundaries) < 2 {
		return 0
	}
	return len(bs.Boundaries) - 1
}

// FindBoundaries locates beam boundaries with DefaultDetectorParams.
func FindBoundaries(pc cloud.PointCloud) BoundarySet {
	return FindBoundariesWith(pc, DefaultDetectorParams())
}

// FindBoundariesWith partitions an angle-sorted copy of the cloud into
// contiguous per-beam segments. No per-point beam identity exists in the
// input; structure is reconstructed purely from elevation-angle density.
func FindBoundariesWith(pc cloud.PointCloud, params DetectorParams) BoundarySet {
	if len(pc) == 0 {
		return BoundarySet{
			Boundaries: []int{0, 0},
			Mode:       ModeSingleBeam,
		}
	}

	anglesDeg := pc.ElevationAnglesDeg()
	sorted, perm := pc.SortByElevation()

	minDeg, maxDeg := anglesDeg[0], anglesDeg[0]
	for _, a := range anglesDeg[1:] {
		if a < minDeg {
			minDeg = a
		}
		if a > maxDeg {
			maxDeg = a
		}
	}
	if minDeg == maxDeg {
		// Collapsed angle range: the histogram cannot be meaningfully
		// binned, so the whole cloud is one beam.
		return BoundarySet{
			Boundaries: []int{0, len(pc)},
			Perm:       perm,
			Sorted:     sorted,
			Mode:       ModeSingleBeam,
		}
	}

	hist := cloud.NewHistogram(anglesDeg, params.HistogramBins)

	peakAngles := findPeaks(hist, params.PeakHeightFraction, params.PeakMinSeparation)
	if len(peakAngles) < params.PeakRetryBelow {
		peakAngles = findPeaks(hist, params.RelaxedHeightFraction, params.RelaxedMinSeparation)
	}

	// Assign every point to its nearest peak and cut the sorted order at
	// every assignment transition.
	sortedDeg := make([]float64, len(sorted))
	for i, src := range perm {
		sortedDeg[i] = anglesDeg[src]
	}

	boundaries := []int{0}
	prev := digitize(sortedDeg[0], peakAngles)
	for i := 1; i < len(sortedDeg); i++ {
		bucket := digitize(sortedDeg[i], peakAngles)
		if bucket != prev {
			boundaries = append(boundaries, i)
			prev = bucket
		}
	}
	boundaries = append(boundaries, len(sorted))

	result := BoundarySet{
		Boundaries: boundaries,
		Perm:       perm,
		Sorted:     sorted,
		PeakAngles: peakAngles,
		Histogram:  hist,
		Mode:       ModePeakTransitions,
	}

	// Sanity window: boundary counts outside [MinBoundaries, MaxBoundaries]
	// are implausible for realistic sensors, so fall back.
	if len(boundaries) < params.MinBoundaries || len(boundaries) > params.MaxBoundaries {
		if len(peakAngles) == 0 || len(peakAngles) < params.MinBoundaries {
			result.Boundaries = fixedPartition(len(sorted), params.FallbackBeamCount)
			result.Mode = ModeFixedPartition
		} else {
			result.Boundaries = peakRangeBoundaries(sortedDeg, peakAngles)
			result.Mode = ModePeakRanges
		}
	}

	return result
}

// findPeaks scans the histogram for bins whose count exceeds heightFraction
// of the tallest bin and that sit at least minSeparation bins beyond the
// previously accepted peak. Returned values are the left bin edges (angles
// in degrees) of the accepted bins, ascending.
func findPeaks(hist cloud.Histogram, heightFraction float64, minSeparation int) []float64 {
	threshold := float64(hist.MaxCount()) * heightFraction
	var peaks []float64
	lastBin := -minSeparation - 1
	for i, c := range hist.Counts {
		if float64(c) <= threshold {
			continue
		}
		if i-lastBin < minSeparation {
			continue
		}
		peaks = append(peaks, hist.Edges[i])
		lastBin = i
	}
	return peaks
}

// digitize returns the index of the first peak angle >= angle; angles below
// the lowest peak land in bucket 0, angles above the highest peak land in
// bucket len(peaks).
func digitize(angle float64, peaks []float64) int {
	return sort.SearchFloat64s(peaks, angle)
}

// fixedPartition cuts n points into beamCount equal-size segments, ignoring
// angle structure. Duplicate cut positions from integer division collapse so
// the result stays strictly increasing.
func fixedPartition(n, beamCount int) []int {
	if beamCount < 1 {
		beamCount = 1
	}
	segment := n / beamCount
	boundaries := make([]int, 0, beamCount+1)
	for i := 0; i < beamCount; i++ {
		b := i * segment
		if len(boundaries) == 0 || b > boundaries[len(boundaries)-1] {
			boundaries = append(boundaries, b)
		}
	}
	if len(boundaries) == 0 || n > boundaries[len(boundaries)-1] {
		boundaries = append(boundaries, n)
	}
	return boundaries
}

// peakRangeBoundaries groups the angle-sorted points into below-first-peak,
// between-consecutive-peaks and above-last-peak ranges. A range contributes
// a boundary only when it holds at least one point; duplicates collapse and
// the result is sorted. The first and last boundaries are always 0 and
// len(sortedDeg) so the segments cover every point.
func peakRangeBoundaries(sortedDeg []float64, peaks []float64) []int {
	n := len(sortedDeg)
	seen := make(map[int]bool)
	var boundaries []int

	add := func(b int) {
		if !seen[b] {
			seen[b] = true
			boundaries = append(boundaries, b)
		}
	}

	add(0)
	for i := 1; i <= len(peaks); i++ {
		start := sort.SearchFloat64s(sortedDeg, peaks[i-1])
		var count int
		if i == len(peaks) {
			// Points above the highest peak.
			count = countBetween(sortedDeg, peaks[i-1], maxDegPlus(sortedDeg))
		} else {
			count = countBetween(sortedDeg, peaks[i-1], peaks[i])
		}
		if count > 0 {
			add(start)
		}
	}
	add(n)

	sort.Ints(boundaries)
	return boundaries
}

// countBetween counts sorted values strictly between lo and hi.
func countBetween(sorted []float64, lo, hi float64) int {
	start := sort.SearchFloat64s(sorted, lo)
	for start < len(sorted) && sorted[start] == lo {
		start++
	}
	end := sort.SearchFloat64s(sorted, hi)
	if end < start {
		return 0
	}
	return end - start
}

func maxDegPlus(sorted []float64) float64 {
	return sorted[len(sorted)-1] + 1
}
