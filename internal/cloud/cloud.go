// Package cloud provides the point cloud data model shared by the beam
// reduction pipeline: Cartesian points with intensity, elevation angle
// computation, and angle histograms.
package cloud

import (
	"math"
	"sort"
)

// Point is a single LiDAR return in the sensor frame. Coordinates are in
// arbitrary float units; Intensity is the sensor-reported reflectivity and
// is carried through untouched by all geometry code.
type Point struct {
	X, Y, Z   float32
	Intensity float32
}

// PointCloud is an ordered sequence of points. Order carries no meaning
// until a caller sorts it (by elevation angle or otherwise).
type PointCloud []Point

// ElevationAngle returns the vertical angle of p relative to the sensor's
// horizontal plane, in radians, in the range (-pi/2, pi/2]. The origin point
// (0,0,0) maps to 0, matching atan2(0, 0).
func (p Point) ElevationAngle() float64 {
	x := float64(p.X)
	y := float64(p.Y)
	return math.Atan2(float64(p.Z), math.Sqrt(x*x+y*y))
}

// ElevationAngles computes the elevation angle of every point, in radians.
func (pc PointCloud) ElevationAngles() []float64 {
	angles := make([]float64, len(pc))
	for i, p := range pc {
		angles[i] = p.ElevationAngle()
	}
	return angles
}

// ElevationAnglesDeg computes the elevation angle of every point, in degrees.
func (pc PointCloud) ElevationAnglesDeg() []float64 {
	angles := make([]float64, len(pc))
	for i, p := range pc {
		angles[i] = p.ElevationAngle() * 180.0 / math.Pi
	}
	return angles
}

// SortByElevation returns a copy of the cloud sorted by elevation angle
// ascending, together with the permutation applied: perm[i] is the index in
// the original cloud of the i-th sorted point. The receiver is not modified.
func (pc PointCloud) SortByElevation() (PointCloud, []int) {
	angles := pc.ElevationAngles()
	perm := make([]int, len(pc))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return angles[perm[a]] < angles[perm[b]]
	})

	sorted := make(PointCloud, len(pc))
	for i, src := range perm {
		sorted[i] = pc[src]
	}
	return sorted, perm
}

// SortByZ returns a copy of the cloud sorted by Z ascending.
func (pc PointCloud) SortByZ() PointCloud {
	sorted := make(PointCloud, len(pc))
	copy(sorted, pc)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].Z < sorted[b].Z
	})
	return sorted
}
