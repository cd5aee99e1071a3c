// Package main provides the beam reduction command line driver. It processes
// single point cloud files or whole directories, reduces their beam count
// with a selectable strategy, and prints before/after statistics.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/AI-Mobility-Research-Lab/lidar-beam-reduction/internal/beam"
	"github.com/AI-Mobility-Research-Lab/lidar-beam-reduction/internal/cloud"
	"github.com/AI-Mobility-Research-Lab/lidar-beam-reduction/internal/cloudio"
	"github.com/AI-Mobility-Research-Lab/lidar-beam-reduction/internal/config"
	"github.com/AI-Mobility-Research-Lab/lidar-beam-reduction/internal/reduce"
	"github.com/AI-Mobility-Research-Lab/lidar-beam-reduction/internal/rundb"
)

// Config holds the parsed command line configuration.
type Config struct {
	Input          string
	Output         string
	Method         string
	TargetRatio    float64
	OutputBeams    int
	MaxFiles       int
	Visualize      bool
	VisualizeFirst bool
	VisualizeDir   string
	TuningPath     string
	RunLogPath     string
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.Input, "input", "", "Input point cloud file (.bin or .ply) or directory")
	flag.StringVar(&cfg.Output, "output", "", "Output file or directory")
	flag.StringVar(&cfg.Method, "method", reduce.DefaultMethod,
		fmt.Sprintf("Reduction method: %s", strings.Join(reduce.Methods, ", ")))
	flag.Float64Var(&cfg.TargetRatio, "ratio", 0.5, "Target beam retention ratio in (0, 1]")
	flag.IntVar(&cfg.OutputBeams, "output-beams", 32, "Target output beam count for the binned method")
	flag.IntVar(&cfg.MaxFiles, "max-files", 0, "Maximum number of files to process (0 = all)")
	flag.BoolVar(&cfg.Visualize, "visualize", false, "Write diagnostic plots for every file")
	flag.BoolVar(&cfg.VisualizeFirst, "visualize-first", false, "Write diagnostic plots for the first file only")
	flag.StringVar(&cfg.VisualizeDir, "visualize-dir", "output/beam_analysis", "Directory for diagnostic plots")
	flag.StringVar(&cfg.TuningPath, "tuning", "", "Optional JSON tuning file overriding detector thresholds")
	flag.StringVar(&cfg.RunLogPath, "runlog", "", "Optional sqlite database to record run statistics")

	flag.Parse()

	return cfg
}

func main() {
	cfg := parseFlags()

	if cfg.Input == "" || cfg.Output == "" {
		log.Fatal("both -input and -output are required")
	}

	opts := reduce.DefaultOptions()
	opts.TargetRatio = cfg.TargetRatio
	opts.OutputBeamCount = cfg.OutputBeams
	opts.DiagnosticsDir = cfg.VisualizeDir

	counterParams := beam.DefaultCounterParams()
	if cfg.TuningPath != "" {
		tuning, err := config.LoadTuningConfig(cfg.TuningPath)
		if err != nil {
			log.Fatalf("load tuning config: %v", err)
		}
		opts.Detector = tuning.DetectorParams()
		counterParams = tuning.CounterParams()
	}

	var runLog *rundb.RunDB
	if cfg.RunLogPath != "" {
		var err error
		runLog, err = rundb.Open(cfg.RunLogPath)
		if err != nil {
			log.Fatalf("open run log: %v", err)
		}
		defer runLog.Close()
	}

	info, err := os.Stat(cfg.Input)
	if err != nil {
		log.Fatalf("stat input: %v", err)
	}

	if info.IsDir() {
		processDirectory(cfg, opts, counterParams, runLog)
		return
	}

	opts.Diagnostics = cfg.Visualize || cfg.VisualizeFirst
	if err := processFile(cfg.Input, cfg.Output, cfg.Method, opts, counterParams, runLog); err != nil {
		log.Fatalf("error processing %s: %v", cfg.Input, err)
	}
}

// processDirectory reduces every point cloud file under the input directory,
// containing per-file failures so one bad file never aborts the batch.
func processDirectory(cfg Config, opts reduce.Options, counterParams beam.CounterParams, runLog *rundb.RunDB) {
	if err := os.MkdirAll(cfg.Output, 0755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}

	files := findCloudFiles(cfg.Input)
	if cfg.MaxFiles > 0 && len(files) > cfg.MaxFiles {
		files = files[:cfg.MaxFiles]
	}
	log.Printf("found %d point cloud files to process", len(files))

	successCount := 0
	startTime := time.Now()

	for i, inputPath := range files {
		outputPath := filepath.Join(cfg.Output, filepath.Base(inputPath))

		fileOpts := opts
		fileOpts.Diagnostics = cfg.Visualize || (cfg.VisualizeFirst && i == 0)

		if err := processFile(inputPath, outputPath, cfg.Method, fileOpts, counterParams, runLog); err != nil {
			log.Printf("error processing %s: %v", inputPath, err)
			continue
		}
		successCount++
	}

	totalTime := time.Since(startTime)
	log.Printf("successfully processed %d/%d files in %.2fs", successCount, len(files), totalTime.Seconds())
	if len(files) > 0 {
		log.Printf("average time per file: %.2fs", totalTime.Seconds()/float64(len(files)))
	}
}

// findCloudFiles lists the .bin and .ply files directly under dir, sorted.
func findCloudFiles(dir string) []string {
	var files []string
	for _, pattern := range []string{"*.bin", "*.ply"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			continue
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files
}

// processFile loads one cloud, reduces it, writes the result and reports the
// before/after statistics.
func processFile(inputPath, outputPath, method string, opts reduce.Options,
	counterParams beam.CounterParams, runLog *rundb.RunDB) error {

	log.Printf("processing %s", inputPath)
	startTime := time.Now()

	points, err := loadCloud(inputPath)
	if err != nil {
		return err
	}

	originalBeams := beam.EstimateBeamCountWith(points, counterParams)

	reduced, err := reduce.Reduce(points, method, opts)
	if err != nil {
		return err
	}

	reducedBeams := beam.EstimateBeamCountWith(reduced, counterParams)

	if err := saveCloud(outputPath, reduced); err != nil {
		return err
	}

	elapsed := time.Since(startTime)

	log.Printf("  original points: %d, reduced points: %d", len(points), len(reduced))
	log.Printf("  original beams: ~%d, reduced beams: ~%d", originalBeams, reducedBeams)
	if len(points) > 0 {
		log.Printf("  point reduction ratio: %.4f", float64(len(reduced))/float64(len(points)))
	}
	if originalBeams > 0 {
		log.Printf("  beam reduction ratio: %.4f", float64(reducedBeams)/float64(originalBeams))
	}
	log.Printf("  processing time: %.2fs", elapsed.Seconds())
	log.Printf("  saved to %s", outputPath)

	if runLog != nil {
		run := &rundb.Run{
			InputPath:      inputPath,
			OutputPath:     outputPath,
			Method:         method,
			TargetRatio:    opts.TargetRatio,
			OriginalPoints: len(points),
			ReducedPoints:  len(reduced),
			OriginalBeams:  originalBeams,
			ReducedBeams:   reducedBeams,
			DurationMs:     elapsed.Milliseconds(),
		}
		if err := runLog.RecordRun(run); err != nil {
			log.Printf("  warning: failed to record run: %v", err)
		}
	}

	return nil
}

func loadCloud(path string) (cloud.PointCloud, error) {
	if strings.EqualFold(filepath.Ext(path), ".ply") {
		return cloudio.ReadPLY(path)
	}
	return cloudio.ReadBin(path)
}

func saveCloud(path string, pc cloud.PointCloud) error {
	if strings.EqualFold(filepath.Ext(path), ".ply") {
		return cloudio.WritePLY(path, pc)
	}
	return cloudio.WriteBin(path, pc)
}
