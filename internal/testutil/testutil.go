// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"math"
	"testing"

	"github.com/AI-Mobility-Research-Lab/lidar-beam-reduction/internal/cloud"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// SyntheticCloud builds a cloud with beams evenly spaced in elevation between
// minDeg and maxDeg (exclusive of maxDeg, matching an even angular grid).
// Each beam sweeps a full rotation in azimuth with points stepping outward
// in range, so within-beam angle spread is as close to zero as float math
// allows while beams stay clearly separated.
func SyntheticCloud(numBeams, pointsPerBeam int, minDeg, maxDeg float64) cloud.PointCloud {
	pc := make(cloud.PointCloud, 0, numBeams*pointsPerBeam)
	span := maxDeg - minDeg
	for beamIdx := 0; beamIdx < numBeams; beamIdx++ {
		elevation := minDeg + float64(beamIdx)*span/float64(numBeams)
		elevationRad := elevation * math.Pi / 180

		for i := 0; i < pointsPerBeam; i++ {
			distance := 10 + float64(i)*0.5
			azimuthRad := float64(i) * (2 * math.Pi / float64(pointsPerBeam))

			pc = append(pc, cloud.Point{
				X:         float32(distance * math.Cos(elevationRad) * math.Cos(azimuthRad)),
				Y:         float32(distance * math.Cos(elevationRad) * math.Sin(azimuthRad)),
				Z:         float32(distance * math.Sin(elevationRad)),
				Intensity: 100,
			})
		}
	}
	return pc
}

// StandardCloud returns the 64-beam, 100-points-per-beam fixture with
// elevations spanning [-15, 15) degrees, the shape of a typical automotive
// sensor frame.
func StandardCloud() cloud.PointCloud {
	return SyntheticCloud(64, 100, -15, 15)
}
