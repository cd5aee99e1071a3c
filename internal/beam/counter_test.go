package beam_test

import (
	"testing"

	"github.com/AI-Mobility-Research-Lab/lidar-beam-reduction/internal/beam"
	"github.com/AI-Mobility-Research-Lab/lidar-beam-reduction/internal/testutil"
)

func TestEstimateBeamCountStandardCloud(t *testing.T) {
	pc := testutil.StandardCloud()

	// 64 true beams; the estimator is heuristic, so allow slack around the
	// exact value.
	got := beam.EstimateBeamCount(pc)
	if got < 55 || got > 70 {
		t.Errorf("EstimateBeamCount() = %d, want within [55, 70]", got)
	}
}

func TestEstimateBeamCountDegenerate(t *testing.T) {
	t.Run("empty cloud", func(t *testing.T) {
		if got := beam.EstimateBeamCount(nil); got != 0 {
			t.Errorf("EstimateBeamCount(empty) = %d, want 0", got)
		}
	})

	t.Run("single point", func(t *testing.T) {
		pc := testutil.SyntheticCloud(1, 1, 0, 1)
		if got := beam.EstimateBeamCount(pc); got != 1 {
			t.Errorf("EstimateBeamCount(1 point) = %d, want 1", got)
		}
	})

	t.Run("single beam does not crash", func(t *testing.T) {
		// One physical beam still shows float-level angle noise, which
		// the histogram estimator amplifies; the only contract here is
		// a positive estimate, not accuracy.
		pc := testutil.SyntheticCloud(1, 200, 5, 6)
		if got := beam.EstimateBeamCount(pc); got < 1 {
			t.Errorf("EstimateBeamCount(1 beam) = %d, want >= 1", got)
		}
	})
}

func TestEstimateBeamCountWithClustering(t *testing.T) {
	pc := testutil.StandardCloud()

	// Beams sit ~8.2 mrad apart; an eps below the gap keeps clusters
	// separated while within-beam spread (float rounding only) stays
	// far inside the neighborhood.
	params := beam.DefaultCounterParams()
	params.EnableClustering = true
	params.ClusterEps = 0.004

	got := beam.EstimateBeamCountWith(pc, params)
	if got < 55 || got > 70 {
		t.Errorf("EstimateBeamCountWith(clustering) = %d, want within [55, 70]", got)
	}
}

func TestEstimateBeamCountSampleLimit(t *testing.T) {
	pc := testutil.SyntheticCloud(32, 400, -10, 10) // 12800 points, over the cap

	params := beam.DefaultCounterParams()
	params.EnableClustering = true
	params.ClusterEps = 0.004
	params.ClusterSampleLimit = 5000

	got := beam.EstimateBeamCountWith(pc, params)
	if got < 25 || got > 40 {
		t.Errorf("EstimateBeamCountWith(sampled) = %d, want within [25, 40]", got)
	}
}
