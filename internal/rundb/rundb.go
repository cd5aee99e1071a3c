// Package rundb persists beam reduction run records in a local sqlite
// database so batch results can be inspected and compared after the fact.
package rundb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// RunDB wraps the sqlite connection holding the run log.
type RunDB struct {
	*sql.DB
}

// Open opens (or creates) the run log database at path and applies any
// pending schema migrations.
func Open(path string) (*RunDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open run database: %w", err)
	}

	rdb := &RunDB{db}
	if err := rdb.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return rdb, nil
}

// Run is one processed input file: what went in, what came out, and the
// counts the reporting interface derived for it.
type Run struct {
	ID             string    `json:"id"`
	InputPath      string    `json:"input_path"`
	OutputPath     string    `json:"output_path"`
	Method         string    `json:"method"`
	TargetRatio    float64   `json:"target_ratio"`
	OriginalPoints int       `json:"original_points"`
	ReducedPoints  int       `json:"reduced_points"`
	OriginalBeams  int       `json:"original_beams"`
	ReducedBeams   int       `json:"reduced_beams"`
	DurationMs     int64     `json:"duration_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

// RecordRun inserts a run record, assigning a fresh ID and timestamp when
// the caller left them zero.
func (db *RunDB) RecordRun(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO reduction_runs (
			id, input_path, output_path, method, target_ratio,
			original_points, reduced_points, original_beams, reduced_beams,
			duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		run.ID, run.InputPath, run.OutputPath, run.Method, run.TargetRatio,
		run.OriginalPoints, run.ReducedPoints, run.OriginalBeams, run.ReducedBeams,
		run.DurationMs, run.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to insert run record: %w", err)
	}
	return nil
}

// ListRuns returns the most recent run records, newest first.
func (db *RunDB) ListRuns(limit int) ([]Run, error) {
	query := `
		SELECT id, input_path, output_path, method, target_ratio,
			original_points, reduced_points, original_beams, reduced_beams,
			duration_ms, created_at
		FROM reduction_runs
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt string
		if err := rows.Scan(&r.ID, &r.InputPath, &r.OutputPath, &r.Method, &r.TargetRatio,
			&r.OriginalPoints, &r.ReducedPoints, &r.OriginalBeams, &r.ReducedBeams,
			&r.DurationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// MethodSummary aggregates run statistics for one method.
type MethodSummary struct {
	Method        string  `json:"method"`
	Runs          int     `json:"runs"`
	AvgPointRatio float64 `json:"avg_point_ratio"`
	AvgBeamRatio  float64 `json:"avg_beam_ratio"`
}

// SummarizeByMethod aggregates point and beam reduction ratios per method
// across all recorded runs. Runs with a zero original count are excluded
// from the ratio averages.
func (db *RunDB) SummarizeByMethod() ([]MethodSummary, error) {
	query := `
		SELECT method, COUNT(*),
			AVG(CAST(reduced_points AS REAL) / original_points),
			AVG(CAST(reduced_beams AS REAL) / original_beams)
		FROM reduction_runs
		WHERE original_points > 0 AND original_beams > 0
		GROUP BY method
		ORDER BY method
	`

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query method summaries: %w", err)
	}
	defer rows.Close()

	var summaries []MethodSummary
	for rows.Next() {
		var s MethodSummary
		if err := rows.Scan(&s.Method, &s.Runs, &s.AvgPointRatio, &s.AvgBeamRatio); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
