// Package reduce exposes the interchangeable beam reduction strategies
// behind one named-strategy entry point.
package reduce

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/AI-Mobility-Research-Lab/lidar-beam-reduction/internal/beam"
	"github.com/AI-Mobility-Research-Lab/lidar-beam-reduction/internal/cloud"
	"github.com/AI-Mobility-Research-Lab/lidar-beam-reduction/internal/diag"
)

// Strategy names accepted by Reduce.
const (
	// MethodSimple sorts points by z-value and keeps every second point.
	// Fast, but never actually removes a beam, only points within beams.
	MethodSimple = "simple"
	// MethodBinned partitions the angle-sorted cloud into a fixed number
	// of equal-size bins (one per assumed input beam) and keeps an even
	// stride of bins.
	MethodBinned = "binned"
	// MethodBoundary detects real beam boundaries from elevation-angle
	// density and keeps an evenly-spaced subset of beams.
	MethodBoundary = "boundary"
)

// DefaultMethod is the strategy used when callers do not pick one.
const DefaultMethod = MethodBoundary

// Methods lists the valid strategy names in stable order.
var Methods = []string{MethodSimple, MethodBinned, MethodBoundary}

// ErrInvalidArgument reports an unknown strategy name or a configuration
// value outside its valid domain. Test with errors.Is. Invalid values are
// never silently clamped.
var ErrInvalidArgument = errors.New("invalid argument")

// assumedInputBeams is the beam count MethodBinned assumes for its
// equal-size partition of the angle-sorted cloud.
const assumedInputBeams = 64

// Options carries strategy-specific configuration. The zero value is not
// useful; start from DefaultOptions.
type Options struct {
	// TargetRatio is the fraction of beams to retain, in (0, 1]. Used by
	// MethodBoundary; MethodSimple always halves.
	TargetRatio float64
	// OutputBeamCount is the target beam count for MethodBinned.
	OutputBeamCount int
	// Detector overrides the boundary detector thresholds.
	Detector beam.DetectorParams
	// Diagnostics enables histogram and comparison plot artifacts for
	// MethodBoundary, written under DiagnosticsDir.
	Diagnostics    bool
	DiagnosticsDir string
}

// DefaultOptions returns the stock configuration: keep half the beams.
func DefaultOptions() Options {
	return Options{
		TargetRatio:     0.5,
		OutputBeamCount: 32,
		Detector:        beam.DefaultDetectorParams(),
		DiagnosticsDir:  "output/beam_analysis",
	}
}

// Validate checks that the options are inside their valid domains.
func (o Options) Validate() error {
	if o.TargetRatio <= 0 || o.TargetRatio > 1 {
		return fmt.Errorf("%w: target ratio must be in (0, 1], got %g", ErrInvalidArgument, o.TargetRatio)
	}
	if o.OutputBeamCount < 1 {
		return fmt.Errorf("%w: output beam count must be at least 1, got %d", ErrInvalidArgument, o.OutputBeamCount)
	}
	return nil
}

// Reduce applies the named strategy to the cloud and returns the reduced
// cloud. Unknown names fail listing the valid ones.
func Reduce(pc cloud.PointCloud, method string, opts Options) (cloud.PointCloud, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	switch method {
	case MethodSimple:
		return reduceSimple(pc), nil
	case MethodBinned:
		return reduceBinned(pc, opts.OutputBeamCount), nil
	case MethodBoundary:
		return reduceBoundary(pc, opts)
	default:
		return nil, fmt.Errorf("%w: unknown method %q, valid options are: %s",
			ErrInvalidArgument, method, strings.Join(Methods, ", "))
	}
}

// reduceSimple keeps every second point of the z-sorted cloud.
func reduceSimple(pc cloud.PointCloud) cloud.PointCloud {
	sorted := pc.SortByZ()
	out := make(cloud.PointCloud, 0, (len(sorted)+1)/2)
	for i := 0; i < len(sorted); i += 2 {
		out = append(out, sorted[i])
	}
	return out
}

// reduceBinned splits the angle-sorted cloud into equal-size bins, one per
// assumed input beam, and keeps an even stride of bins sized to hit the
// requested output beam count.
func reduceBinned(pc cloud.PointCloud, outputBeams int) cloud.PointCloud {
	sorted, _ := pc.SortByElevation()
	n := len(sorted)

	pointsPerBeam := n / assumedInputBeams
	if pointsPerBeam == 0 {
		// Fewer points than assumed beams: plain decimation.
		out := make(cloud.PointCloud, 0, (n+1)/2)
		for i := 0; i < n; i += 2 {
			out = append(out, sorted[i])
		}
		return out
	}

	stride := assumedInputBeams / outputBeams
	if stride < 1 {
		stride = 1
	}

	out := make(cloud.PointCloud, 0, n/stride+pointsPerBeam)
	kept := 0
	for i := 0; i < assumedInputBeams && kept < outputBeams; i += stride {
		start := i * pointsPerBeam
		end := (i + 1) * pointsPerBeam
		if end > n {
			end = n
		}
		out = append(out, sorted[start:end]...)
		kept++
	}
	return out
}

// reduceBoundary runs the boundary detector and keeps an evenly-spaced
// subset of the detected beams.
func reduceBoundary(pc cloud.PointCloud, opts Options) (cloud.PointCloud, error) {
	det := opts.Detector
	if det == (beam.DetectorParams{}) {
		// Callers that populate Options literally rather than starting
		// from DefaultOptions get the stock thresholds.
		det = beam.DefaultDetectorParams()
	}
	bs := beam.FindBoundariesWith(pc, det)
	reduced := beam.SelectBeams(bs, opts.TargetRatio)

	if opts.Diagnostics {
		// Diagnostics are a side artifact, never load-bearing.
		if err := diag.WriteBoundaryDiagnostics(opts.DiagnosticsDir, pc, reduced, bs); err != nil {
			log.Printf("diagnostics skipped: %v", err)
		}
	}
	return reduced, nil
}
