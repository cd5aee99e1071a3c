package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTuningConfig(t *testing.T) {
	path := writeConfig(t, "tuning.json", `{
		"histogram_bins": 250,
		"peak_height_fraction": 0.02,
		"enable_clustering": true,
		"cluster_eps": 0.005
	}`)

	cfg, err := LoadTuningConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	dp := cfg.DetectorParams()
	if dp.HistogramBins != 250 {
		t.Errorf("HistogramBins = %d, want 250", dp.HistogramBins)
	}
	if dp.PeakHeightFraction != 0.02 {
		t.Errorf("PeakHeightFraction = %f, want 0.02", dp.PeakHeightFraction)
	}
	// Omitted fields keep their defaults.
	if dp.MaxBoundaries != 200 {
		t.Errorf("MaxBoundaries = %d, want default 200", dp.MaxBoundaries)
	}

	cp := cfg.CounterParams()
	if !cp.EnableClustering {
		t.Error("EnableClustering = false, want true")
	}
	if cp.ClusterEps != 0.005 {
		t.Errorf("ClusterEps = %f, want 0.005", cp.ClusterEps)
	}
	if cp.BinCount != 64 {
		t.Errorf("BinCount = %d, want default 64", cp.BinCount)
	}
}

func TestLoadTuningConfigEmptyUsesDefaults(t *testing.T) {
	path := writeConfig(t, "tuning.json", `{}`)

	cfg, err := LoadTuningConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	dp := cfg.DetectorParams()
	if dp.HistogramBins != 500 || dp.PeakHeightFraction != 0.01 || dp.PeakRetryBelow != 30 {
		t.Errorf("defaults not applied: %+v", dp)
	}
	if dp.MinBoundaries != 10 || dp.MaxBoundaries != 200 || dp.FallbackBeamCount != 64 {
		t.Errorf("defaults not applied: %+v", dp)
	}

	cp := cfg.CounterParams()
	if cp.ClusterEps != 0.01 || cp.ClusterMinPts != 5 || cp.ClusterSampleLimit != 10000 {
		t.Errorf("defaults not applied: %+v", cp)
	}
	if cp.EnableClustering {
		t.Error("clustering should default to disabled")
	}
}

func TestLoadTuningConfigRejectsNonJSON(t *testing.T) {
	path := writeConfig(t, "tuning.yaml", `histogram_bins: 250`)
	if _, err := LoadTuningConfig(path); err == nil {
		t.Fatal("expected error for non-json extension")
	}
}

func TestLoadTuningConfigMissingFile(t *testing.T) {
	if _, err := LoadTuningConfig(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestTuningConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero histogram bins", `{"histogram_bins": 0}`},
		{"height fraction too large", `{"peak_height_fraction": 1.0}`},
		{"negative relaxed fraction", `{"relaxed_height_fraction": -0.1}`},
		{"min above max boundaries", `{"min_boundaries": 300, "max_boundaries": 200}`},
		{"zero separation", `{"peak_min_separation": 0}`},
		{"zero fallback beams", `{"fallback_beam_count": 0}`},
		{"negative cluster eps", `{"cluster_eps": -1}`},
		{"zero cluster points", `{"cluster_min_points": 0}`},
		{"zero sample limit", `{"cluster_sample_limit": 0}`},
		{"zero counter bins", `{"counter_bins": 0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "tuning.json", tt.content)
			if _, err := LoadTuningConfig(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
