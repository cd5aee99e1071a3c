package beam

import "sort"

// Constants for angle clustering configuration
const (
	// DefaultClusterEps is the default neighborhood radius in radians for
	// grouping elevation angles into beams.
	DefaultClusterEps = 0.01
	// DefaultClusterMinPts is the default minimum angles to form a cluster.
	DefaultClusterMinPts = 5
)

// angleIndex provides neighborhood queries over a set of scalar angles.
// The one-dimensional analogue of a grid spatial index: angles are kept
// sorted and a neighborhood is the contiguous run within eps of the query.
type angleIndex struct {
	sorted []float64 // ascending copy of the input angles
	order  []int     // sorted[i] came from input index order[i]
}

func newAngleIndex(angles []float64) *angleIndex {
	order := make([]int, len(angles))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return angles[order[a]] < angles[order[b]]
	})
	sorted := make([]float64, len(angles))
	for i, src := range order {
		sorted[i] = angles[src]
	}
	return &angleIndex{sorted: sorted, order: order}
}

// regionQuery returns the input indices of all angles within eps of v.
func (ai *angleIndex) regionQuery(v, eps float64) []int {
	lo := sort.SearchFloat64s(ai.sorted, v-eps)
	hi := sort.SearchFloat64s(ai.sorted, v+eps)
	for hi < len(ai.sorted) && ai.sorted[hi] <= v+eps {
		hi++
	}
	neighbors := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		neighbors = append(neighbors, ai.order[i])
	}
	return neighbors
}

// clusterAngles performs density-based clustering on a set of elevation
// angles and returns the number of clusters found, excluding noise. Labels
// follow the usual DBSCAN convention: 0=unvisited, -1=noise, >0=clusterID.
func clusterAngles(angles []float64, eps float64, minPts int) int {
	if len(angles) == 0 {
		return 0
	}

	n := len(angles)
	labels := make([]int, n)
	clusterID := 0

	index := newAngleIndex(angles)

	for i := 0; i < n; i++ {
		if labels[i] != 0 {
			continue // Already processed
		}

		neighbors := index.regionQuery(angles[i], eps)

		if len(neighbors) < minPts {
			labels[i] = -1 // Mark as noise
			continue
		}

		clusterID++
		expandAngleCluster(angles, index, labels, i, neighbors, clusterID, eps, minPts)
	}

	return clusterID
}

// expandAngleCluster grows a cluster outward from a core angle using a
// queue-based expansion.
func expandAngleCluster(angles []float64, index *angleIndex, labels []int,
	seedIdx int, neighbors []int, clusterID int, eps float64, minPts int) {

	labels[seedIdx] = clusterID

	for j := 0; j < len(neighbors); j++ {
		idx := neighbors[j]

		if labels[idx] == -1 {
			labels[idx] = clusterID // Noise becomes border point
		}

		if labels[idx] != 0 {
			continue // Already processed
		}

		labels[idx] = clusterID
		newNeighbors := index.regionQuery(angles[idx], eps)

		if len(newNeighbors) >= minPts {
			// Core point: add its neighbors to the queue
			neighbors = append(neighbors, newNeighbors...)
		}
	}
}
