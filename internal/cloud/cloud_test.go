package cloud

import (
	"math"
	"testing"
)

func TestElevationAngle(t *testing.T) {
	tests := []struct {
		name     string
		point    Point
		expected float64
	}{
		{"origin maps to zero", Point{0, 0, 0, 0}, 0},
		{"horizontal point", Point{10, 0, 0, 0}, 0},
		{"straight up", Point{0, 0, 5, 0}, math.Pi / 2},
		{"straight down", Point{0, 0, -5, 0}, -math.Pi / 2},
		{"45 degrees up", Point{1, 0, 1, 0}, math.Pi / 4},
		{"45 degrees with xy spread", Point{3, 4, 5, 0}, math.Pi / 4},
		{"negative elevation", Point{1, 0, -1, 0}, -math.Pi / 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.point.ElevationAngle()
			if math.Abs(got-tt.expected) > 1e-6 {
				t.Errorf("ElevationAngle() = %f, want %f", got, tt.expected)
			}
		})
	}
}

func TestSortByElevation(t *testing.T) {
	pc := PointCloud{
		{1, 0, 1, 0},  // +45°
		{1, 0, -1, 0}, // -45°
		{1, 0, 0, 0},  // 0°
	}

	sorted, perm := pc.SortByElevation()

	if len(sorted) != len(pc) {
		t.Fatalf("sorted length = %d, want %d", len(sorted), len(pc))
	}

	angles := sorted.ElevationAngles()
	for i := 1; i < len(angles); i++ {
		if angles[i] < angles[i-1] {
			t.Errorf("angles not ascending at %d: %f < %f", i, angles[i], angles[i-1])
		}
	}

	// Permutation must map sorted positions back to original points.
	for i, src := range perm {
		if sorted[i] != pc[src] {
			t.Errorf("perm[%d] = %d but sorted point %v != original %v", i, src, sorted[i], pc[src])
		}
	}

	// Receiver unchanged.
	if pc[0].Z != 1 || pc[1].Z != -1 {
		t.Error("SortByElevation modified the receiver")
	}
}

func TestSortByZ(t *testing.T) {
	pc := PointCloud{{0, 0, 3, 0}, {0, 0, 1, 0}, {0, 0, 2, 0}}
	sorted := pc.SortByZ()
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Z < sorted[i-1].Z {
			t.Errorf("z values not ascending at %d", i)
		}
	}
}

func TestNewHistogram(t *testing.T) {
	t.Run("even spread", func(t *testing.T) {
		values := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
		h := NewHistogram(values, 5)

		if len(h.Counts) != 5 {
			t.Fatalf("bin count = %d, want 5", len(h.Counts))
		}
		total := 0
		for _, c := range h.Counts {
			total += c
		}
		if total != len(values) {
			t.Errorf("histogram total = %d, want %d", total, len(values))
		}
		// Max value lands in the last (closed) bin, not out of range.
		if h.Counts[4] != 2 {
			t.Errorf("last bin = %d, want 2", h.Counts[4])
		}
	})

	t.Run("collapsed range", func(t *testing.T) {
		h := NewHistogram([]float64{1.5, 1.5, 1.5}, 10)
		if len(h.Counts) != 1 || h.Counts[0] != 3 {
			t.Errorf("collapsed range counts = %v, want [3]", h.Counts)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		h := NewHistogram(nil, 10)
		if len(h.Counts) != 0 {
			t.Errorf("empty input counts = %v, want none", h.Counts)
		}
		if h.MaxCount() != 0 || h.NonEmptyBins() != 0 {
			t.Error("empty histogram reports non-zero stats")
		}
	})

	t.Run("non-empty bins and max", func(t *testing.T) {
		h := NewHistogram([]float64{0, 0, 0, 10}, 10)
		if h.NonEmptyBins() != 2 {
			t.Errorf("NonEmptyBins() = %d, want 2", h.NonEmptyBins())
		}
		if h.MaxCount() != 3 {
			t.Errorf("MaxCount() = %d, want 3", h.MaxCount())
		}
	})
}

func TestBinCenters(t *testing.T) {
	h := NewHistogram([]float64{0, 10}, 2)
	centers := h.BinCenters()
	if len(centers) != 2 {
		t.Fatalf("centers length = %d, want 2", len(centers))
	}
	if math.Abs(centers[0]-2.5) > 1e-9 || math.Abs(centers[1]-7.5) > 1e-9 {
		t.Errorf("centers = %v, want [2.5 7.5]", centers)
	}
}
