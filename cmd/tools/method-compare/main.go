// Package main provides a method comparison tool for LiDAR beam reduction.
// It runs every reduction strategy on the same input cloud, writes one
// output per method, and reports point and beam statistics side by side.
package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/AI-Mobility-Research-Lab/lidar-beam-reduction/internal/beam"
	"github.com/AI-Mobility-Research-Lab/lidar-beam-reduction/internal/cloudio"
	"github.com/AI-Mobility-Research-Lab/lidar-beam-reduction/internal/diag"
	"github.com/AI-Mobility-Research-Lab/lidar-beam-reduction/internal/reduce"
)

// Config holds configuration for the method comparison.
type Config struct {
	Input       string
	Output      string
	TargetRatio float64
	OutputBeams int
	HTMLReport  string
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.Input, "input", "", "Input point cloud file (.bin)")
	flag.StringVar(&cfg.Output, "output", "", "Output file; each method appends a suffix before the extension")
	flag.Float64Var(&cfg.TargetRatio, "ratio", 0.5, "Target beam retention ratio in (0, 1]")
	flag.IntVar(&cfg.OutputBeams, "output-beams", 32, "Target output beam count for the binned method")
	flag.StringVar(&cfg.HTMLReport, "html", "", "Optional path for an HTML comparison report")

	flag.Parse()

	return cfg
}

func main() {
	cfg := parseFlags()

	if cfg.Input == "" || cfg.Output == "" {
		log.Fatal("both -input and -output are required")
	}

	points, err := cloudio.ReadBin(cfg.Input)
	if err != nil {
		log.Fatalf("load input: %v", err)
	}

	opts := reduce.DefaultOptions()
	opts.TargetRatio = cfg.TargetRatio
	opts.OutputBeamCount = cfg.OutputBeams

	originalBeams := beam.EstimateBeamCount(points)
	log.Printf("input: %d points, ~%d beams", len(points), originalBeams)

	var stats []diag.MethodStats
	for _, method := range reduce.Methods {
		log.Printf("=== %s ===", strings.ToUpper(method))

		reduced, err := reduce.Reduce(points, method, opts)
		if err != nil {
			log.Printf("  %s failed: %v", method, err)
			continue
		}

		outputPath := methodOutputPath(cfg.Output, method)
		if err := cloudio.WriteBin(outputPath, reduced); err != nil {
			log.Printf("  %s: write failed: %v", method, err)
			continue
		}

		reducedBeams := beam.EstimateBeamCount(reduced)
		log.Printf("  points: %d -> %d (%.4f)", len(points), len(reduced),
			float64(len(reduced))/float64(len(points)))
		log.Printf("  beams:  ~%d -> ~%d", originalBeams, reducedBeams)
		log.Printf("  saved to %s", outputPath)

		stats = append(stats, diag.MethodStats{
			Method:         method,
			OriginalPoints: len(points),
			ReducedPoints:  len(reduced),
			OriginalBeams:  originalBeams,
			ReducedBeams:   reducedBeams,
		})
	}

	if cfg.HTMLReport != "" && len(stats) > 0 {
		if err := diag.WriteComparisonReport(cfg.HTMLReport, stats); err != nil {
			log.Printf("warning: failed to write HTML report: %v", err)
		} else {
			log.Printf("comparison report written to %s", cfg.HTMLReport)
		}
	}
}

// methodOutputPath inserts the method name before the output extension:
// out/cloud.bin + boundary -> out/cloud_boundary.bin.
func methodOutputPath(output, method string) string {
	ext := filepath.Ext(output)
	base := strings.TrimSuffix(output, ext)
	return fmt.Sprintf("%s_%s%s", base, method, ext)
}
