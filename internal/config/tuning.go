// Package config loads the JSON tuning file for beam analysis. Every field
// is optional; the Get* accessors carry the defaults, so partial configs are
// safe. The defaults are empirically tuned for a standard 64-beam automotive
// sensor and are configuration precisely because they are not derived from
// any stated model.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AI-Mobility-Research-Lab/lidar-beam-reduction/internal/beam"
)

// TuningConfig represents the root configuration for beam analysis tuning
// parameters. All fields are pointers so an omitted field falls through to
// its default.
type TuningConfig struct {
	// Boundary detector params
	HistogramBins         *int     `json:"histogram_bins,omitempty"`
	PeakHeightFraction    *float64 `json:"peak_height_fraction,omitempty"`
	PeakMinSeparation     *int     `json:"peak_min_separation,omitempty"`
	RelaxedHeightFraction *float64 `json:"relaxed_height_fraction,omitempty"`
	RelaxedMinSeparation  *int     `json:"relaxed_min_separation,omitempty"`
	PeakRetryBelow        *int     `json:"peak_retry_below,omitempty"`
	MinBoundaries         *int     `json:"min_boundaries,omitempty"`
	MaxBoundaries         *int     `json:"max_boundaries,omitempty"`
	FallbackBeamCount     *int     `json:"fallback_beam_count,omitempty"`

	// Beam counter params
	CounterBins        *int     `json:"counter_bins,omitempty"`
	EnableClustering   *bool    `json:"enable_clustering,omitempty"`
	ClusterEps         *float64 `json:"cluster_eps,omitempty"`
	ClusterMinPoints   *int     `json:"cluster_min_points,omitempty"`
	ClusterSampleLimit *int     `json:"cluster_sample_limit,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields unset.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The file must have
// a .json extension and stay under the max file size. Fields omitted from
// the JSON retain their defaults.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid. Out-of-domain
// values are errors, never clamped.
func (c *TuningConfig) Validate() error {
	if c.HistogramBins != nil && *c.HistogramBins < 1 {
		return fmt.Errorf("histogram_bins must be positive, got %d", *c.HistogramBins)
	}
	if c.PeakHeightFraction != nil {
		if *c.PeakHeightFraction <= 0 || *c.PeakHeightFraction >= 1 {
			return fmt.Errorf("peak_height_fraction must be in (0, 1), got %f", *c.PeakHeightFraction)
		}
	}
	if c.RelaxedHeightFraction != nil {
		if *c.RelaxedHeightFraction <= 0 || *c.RelaxedHeightFraction >= 1 {
			return fmt.Errorf("relaxed_height_fraction must be in (0, 1), got %f", *c.RelaxedHeightFraction)
		}
	}
	if c.PeakMinSeparation != nil && *c.PeakMinSeparation < 1 {
		return fmt.Errorf("peak_min_separation must be at least 1, got %d", *c.PeakMinSeparation)
	}
	if c.RelaxedMinSeparation != nil && *c.RelaxedMinSeparation < 1 {
		return fmt.Errorf("relaxed_min_separation must be at least 1, got %d", *c.RelaxedMinSeparation)
	}
	if c.MinBoundaries != nil && c.MaxBoundaries != nil && *c.MinBoundaries > *c.MaxBoundaries {
		return fmt.Errorf("min_boundaries (%d) must not exceed max_boundaries (%d)",
			*c.MinBoundaries, *c.MaxBoundaries)
	}
	if c.FallbackBeamCount != nil && *c.FallbackBeamCount < 1 {
		return fmt.Errorf("fallback_beam_count must be positive, got %d", *c.FallbackBeamCount)
	}
	if c.CounterBins != nil && *c.CounterBins < 1 {
		return fmt.Errorf("counter_bins must be positive, got %d", *c.CounterBins)
	}
	if c.ClusterEps != nil && *c.ClusterEps <= 0 {
		return fmt.Errorf("cluster_eps must be positive, got %f", *c.ClusterEps)
	}
	if c.ClusterMinPoints != nil && *c.ClusterMinPoints < 1 {
		return fmt.Errorf("cluster_min_points must be at least 1, got %d", *c.ClusterMinPoints)
	}
	if c.ClusterSampleLimit != nil && *c.ClusterSampleLimit < 1 {
		return fmt.Errorf("cluster_sample_limit must be positive, got %d", *c.ClusterSampleLimit)
	}
	return nil
}

// DetectorParams materializes the boundary detector parameters, filling
// unset fields with the stock defaults.
func (c *TuningConfig) DetectorParams() beam.DetectorParams {
	p := beam.DefaultDetectorParams()
	if c.HistogramBins != nil {
		p.HistogramBins = *c.HistogramBins
	}
	if c.PeakHeightFraction != nil {
		p.PeakHeightFraction = *c.PeakHeightFraction
	}
	if c.PeakMinSeparation != nil {
		p.PeakMinSeparation = *c.PeakMinSeparation
	}
	if c.RelaxedHeightFraction != nil {
		p.RelaxedHeightFraction = *c.RelaxedHeightFraction
	}
	if c.RelaxedMinSeparation != nil {
		p.RelaxedMinSeparation = *c.RelaxedMinSeparation
	}
	if c.PeakRetryBelow != nil {
		p.PeakRetryBelow = *c.PeakRetryBelow
	}
	if c.MinBoundaries != nil {
		p.MinBoundaries = *c.MinBoundaries
	}
	if c.MaxBoundaries != nil {
		p.MaxBoundaries = *c.MaxBoundaries
	}
	if c.FallbackBeamCount != nil {
		p.FallbackBeamCount = *c.FallbackBeamCount
	}
	return p
}

// CounterParams materializes the beam counter parameters, filling unset
// fields with the stock defaults.
func (c *TuningConfig) CounterParams() beam.CounterParams {
	p := beam.DefaultCounterParams()
	if c.CounterBins != nil {
		p.BinCount = *c.CounterBins
	}
	if c.EnableClustering != nil {
		p.EnableClustering = *c.EnableClustering
	}
	if c.ClusterEps != nil {
		p.ClusterEps = *c.ClusterEps
	}
	if c.ClusterMinPoints != nil {
		p.ClusterMinPts = *c.ClusterMinPoints
	}
	if c.ClusterSampleLimit != nil {
		p.ClusterSampleLimit = *c.ClusterSampleLimit
	}
	return p
}
