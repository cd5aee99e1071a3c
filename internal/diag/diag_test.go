package diag

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AI-Mobility-Research-Lab/lidar-beam-reduction/internal/beam"
	"github.com/AI-Mobility-Research-Lab/lidar-beam-reduction/internal/testutil"
)

func TestWriteBoundaryDiagnostics(t *testing.T) {
	pc := testutil.SyntheticCloud(32, 40, -10, 10)
	bs := beam.FindBoundaries(pc)
	reduced := beam.SelectBeams(bs, 0.5)

	dir := t.TempDir()
	if err := WriteBoundaryDiagnostics(dir, pc, reduced, bs); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"angle_histogram.png", "angle_distribution_comparison.png"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("%s missing: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestWriteBoundaryDiagnosticsEmptyReduced(t *testing.T) {
	pc := testutil.SyntheticCloud(16, 20, -5, 5)
	bs := beam.FindBoundaries(pc)

	// An empty reduced cloud is skipped in the comparison, not a failure.
	if err := WriteBoundaryDiagnostics(t.TempDir(), pc, nil, bs); err != nil {
		t.Fatal(err)
	}
}

func TestWriteComparisonReport(t *testing.T) {
	stats := []MethodStats{
		{Method: "simple", OriginalPoints: 6400, ReducedPoints: 3200, OriginalBeams: 64, ReducedBeams: 64},
		{Method: "binned", OriginalPoints: 6400, ReducedPoints: 3200, OriginalBeams: 64, ReducedBeams: 32},
		{Method: "boundary", OriginalPoints: 6400, ReducedPoints: 3200, OriginalBeams: 64, ReducedBeams: 32},
	}

	path := filepath.Join(t.TempDir(), "report", "comparison.html")
	if err := WriteComparisonReport(path, stats); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	html := string(data)
	for _, method := range []string{"simple", "binned", "boundary"} {
		if !strings.Contains(html, method) {
			t.Errorf("report does not mention method %q", method)
		}
	}
}

func TestWriteComparisonReportEmpty(t *testing.T) {
	if err := WriteComparisonReport(filepath.Join(t.TempDir(), "r.html"), nil); err == nil {
		t.Fatal("expected error for empty stats")
	}
}
